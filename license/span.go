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

package license

import "sort"

// Span is a half-open token range [Start, End).
type Span struct {
	Start int
	End   int
}

// Len returns the number of positions covered by the span.
func (s Span) Len() int {
	if s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

// SpanSet is a union of half-open, non-overlapping, non-adjacent ranges,
// kept sorted by Start. It is the representation used for qspan/ispan
// throughout the package, since either can legitimately consist of several
// disjoint ranges. All operations are exact integer arithmetic; no float
// math is used for span sizes.
type SpanSet []Span

// NewSpanSet builds a normalized SpanSet (sorted, merged) from raw spans.
func NewSpanSet(spans ...Span) SpanSet {
	var s SpanSet
	for _, sp := range spans {
		s = s.add(sp)
	}
	return s
}

// Add inserts a span and returns the normalized result.
func (s SpanSet) Add(sp Span) SpanSet {
	return s.add(sp)
}

func (s SpanSet) add(sp Span) SpanSet {
	if sp.Len() == 0 {
		return s
	}
	out := append(SpanSet{}, s...)
	out = append(out, sp)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	merged := make(SpanSet, 0, len(out))
	for _, cur := range out {
		if len(merged) == 0 {
			merged = append(merged, cur)
			continue
		}
		last := &merged[len(merged)-1]
		if cur.Start <= last.End { // overlap or adjacency merges
			if cur.End > last.End {
				last.End = cur.End
			}
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}

// Union returns the normalized union of two span sets.
func (s SpanSet) Union(other SpanSet) SpanSet {
	out := append(SpanSet{}, s...)
	for _, sp := range other {
		out = out.add(sp)
	}
	return out
}

// Len returns the total number of positions covered.
func (s SpanSet) Len() int {
	total := 0
	for _, sp := range s {
		total += sp.Len()
	}
	return total
}

// Empty reports whether the span set covers no positions.
func (s SpanSet) Empty() bool {
	return s.Len() == 0
}

// Min returns the smallest covered position. Only valid when non-empty.
func (s SpanSet) Min() int {
	if len(s) == 0 {
		return 0
	}
	return s[0].Start
}

// Max returns one past the largest covered position (the overall End). Only
// valid when non-empty.
func (s SpanSet) Max() int {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].End
}

// Intersect returns the intersection of two span sets as a new normalized
// span set.
func (s SpanSet) Intersect(other SpanSet) SpanSet {
	var out SpanSet
	i, j := 0, 0
	for i < len(s) && j < len(other) {
		a, b := s[i], other[j]
		start := max(a.Start, b.Start)
		end := min(a.End, b.End)
		if start < end {
			out = out.add(Span{Start: start, End: end})
		}
		if a.End < b.End {
			i++
		} else {
			j++
		}
	}
	return out
}

// Overlaps reports whether two span sets share any position.
func (s SpanSet) Overlaps(other SpanSet) bool {
	return s.Intersect(other).Len() > 0
}

// OverlapRatio computes |intersection| / min(|A|, |B|), the ratio used by
// match refinement's overlap resolution. Returns 0 if either span set is
// empty.
func (s SpanSet) OverlapRatio(other SpanSet) float64 {
	la, lb := s.Len(), other.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	smaller := la
	if lb < smaller {
		smaller = lb
	}
	inter := s.Intersect(other).Len()
	return float64(inter) / float64(smaller)
}

// Surrounds reports whether s's overall bounding range fully contains
// other's bounding range, i.e. s.Min() <= other.Min() && s.Max() >=
// other.Max(). Used by overlap resolution's "one surrounds the other" tier.
func (s SpanSet) Surrounds(other SpanSet) bool {
	if s.Empty() || other.Empty() {
		return false
	}
	return s.Min() <= other.Min() && s.Max() >= other.Max()
}

// Adjacent reports whether the gap between the end of s and the start of
// other (assuming s entirely precedes other) is at most gap positions. Used
// by mergeSameRule to decide whether two matches of the same rule are
// merged into one.
func (s SpanSet) Adjacent(other SpanSet, gap int) bool {
	if s.Empty() || other.Empty() {
		return false
	}
	g := other.Min() - s.Max()
	if g < 0 {
		g = s.Min() - other.Max()
	}
	return g <= gap
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
