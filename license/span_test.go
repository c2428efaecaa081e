// Copyright Amazon.com Inc or its affiliates and the project contributors
// Written by James Shubin <purple@amazon.com> and the project contributors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.
//
// We will never require a CLA to submit a patch. All contributions follow the
// `inbound == outbound` rule.
//
// This is not an official Amazon product. Amazon does not offer support for
// this project.

package license_test

import (
	"testing"

	"github.com/jshubin/licensescan/license"
)

func TestSpanSetMerge(t *testing.T) {
	tests := []struct {
		spans []license.Span
		want  int // total length after normalization
	}{
		{[]license.Span{{Start: 0, End: 5}}, 5},
		{[]license.Span{{Start: 0, End: 5}, {Start: 5, End: 10}}, 10},   // adjacent merges
		{[]license.Span{{Start: 0, End: 5}, {Start: 3, End: 10}}, 10},   // overlap merges
		{[]license.Span{{Start: 0, End: 5}, {Start: 7, End: 10}}, 8},    // gap stays split
		{[]license.Span{{Start: 5, End: 10}, {Start: 0, End: 5}}, 10},   // out of order
		{[]license.Span{{Start: 0, End: 3}, {Start: 3, End: 3}}, 3},     // empty span dropped
	}

	for i, test := range tests {
		s := license.NewSpanSet(test.spans...)
		if got := s.Len(); got != test.want {
			t.Errorf("test# %d: Len() = %d, want %d", i, got, test.want)
		}
	}
}

func TestSpanSetMinMax(t *testing.T) {
	s := license.NewSpanSet(license.Span{Start: 3, End: 6}, license.Span{Start: 10, End: 12})
	if s.Min() != 3 {
		t.Errorf("Min() = %d, want 3", s.Min())
	}
	if s.Max() != 12 {
		t.Errorf("Max() = %d, want 12", s.Max())
	}
}

func TestSpanSetIntersectOverlap(t *testing.T) {
	a := license.NewSpanSet(license.Span{Start: 0, End: 10})
	b := license.NewSpanSet(license.Span{Start: 5, End: 15})

	inter := a.Intersect(b)
	if inter.Len() != 5 {
		t.Errorf("Intersect len = %d, want 5", inter.Len())
	}
	if !a.Overlaps(b) {
		t.Errorf("expected a and b to overlap")
	}

	ratio := a.OverlapRatio(b)
	if ratio != 0.5 {
		t.Errorf("OverlapRatio = %v, want 0.5", ratio)
	}

	c := license.NewSpanSet(license.Span{Start: 100, End: 110})
	if a.Overlaps(c) {
		t.Errorf("expected a and c to not overlap")
	}
	if a.OverlapRatio(c) != 0 {
		t.Errorf("OverlapRatio with disjoint sets should be 0")
	}
}

func TestSpanSetSurrounds(t *testing.T) {
	outer := license.NewSpanSet(license.Span{Start: 0, End: 20})
	inner := license.NewSpanSet(license.Span{Start: 5, End: 10})

	if !outer.Surrounds(inner) {
		t.Errorf("expected outer to surround inner")
	}
	if inner.Surrounds(outer) {
		t.Errorf("expected inner to not surround outer")
	}
}

func TestSpanSetAdjacent(t *testing.T) {
	a := license.NewSpanSet(license.Span{Start: 0, End: 10})
	b := license.NewSpanSet(license.Span{Start: 13, End: 20})
	c := license.NewSpanSet(license.Span{Start: 25, End: 30})

	if !a.Adjacent(b, 3) {
		t.Errorf("expected a and b to be adjacent within gap 3")
	}
	if a.Adjacent(c, 3) {
		t.Errorf("expected a and c to not be adjacent within gap 3")
	}
}

func TestSpanSetEmpty(t *testing.T) {
	var s license.SpanSet
	if !s.Empty() {
		t.Errorf("expected zero-value SpanSet to be empty")
	}
	if s.Min() != 0 || s.Max() != 0 {
		t.Errorf("expected Min/Max of empty SpanSet to be 0")
	}
}
