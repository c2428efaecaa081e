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

func TestIndexLookupTokenAndUnknownID(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{
		"licenses/mit.LICENSE": mitLicenseBody,
	})
	idx := buildTestIndex(t, dir, license.LoadOptions{})

	id, ok := idx.LookupToken("software")
	if !ok {
		t.Fatalf("expected %q to be in the dictionary", "software")
	}
	if idx.UnknownID() == id {
		t.Errorf("a real token should never collide with UnknownID")
	}

	if _, ok := idx.LookupToken("thiswordisnotinanyrule"); ok {
		t.Errorf("expected an absent word to not be found in the dictionary")
	}
}

func TestIndexRidAssignmentIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{
		"licenses/mit.LICENSE": mitLicenseBody,
		"licenses/bsd.LICENSE": "---\nlicense_expression: bsd-3-clause\nspdx_license_key: BSD-3-Clause\nname: BSD 3-Clause\ncategory: Permissive\n---\nRedistribution and use in source and binary forms, with or without modification, are permitted.\n",
	})

	idxA := buildTestIndex(t, dir, license.LoadOptions{})
	idxB := buildTestIndex(t, dir, license.LoadOptions{})

	if len(idxA.Rules) != len(idxB.Rules) {
		t.Fatalf("expected the same number of rules across rebuilds")
	}
	for i := range idxA.Rules {
		if idxA.Rules[i].Identifier != idxB.Rules[i].Identifier {
			t.Errorf("rid %d: identifier differs across rebuilds: %q vs %q", i, idxA.Rules[i].Identifier, idxB.Rules[i].Identifier)
		}
	}
}

func TestIndexThresholdsExactRuleRequiresFullCoverage(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{
		"rules/exact.RULE": "---\nlicense_expression: exact-thing\nminimum_coverage: 100\n---\nshort exact text\n",
	})
	idx := buildTestIndex(t, dir, license.LoadOptions{})

	if len(idx.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(idx.Rules))
	}
	rule := idx.Rules[0]
	if rule.MinMatchedLength != rule.Length {
		t.Errorf("MinMatchedLength = %d, want %d (full length) for a minimum_coverage:100 rule", rule.MinMatchedLength, rule.Length)
	}
}

func TestIndexThresholdsTinyRuleRequiresAllTokens(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{
		"rules/tiny.RULE": "---\nlicense_expression: tiny-thing\n---\npublic domain\n",
	})
	idx := buildTestIndex(t, dir, license.LoadOptions{})

	rule := idx.Rules[0]
	if !rule.IsTiny {
		t.Fatalf("expected a 2-token rule to be IsTiny")
	}
	if rule.MinMatchedLength != rule.Length {
		t.Errorf("MinMatchedLength = %d, want %d for a rule shorter than 3 tokens", rule.MinMatchedLength, rule.Length)
	}
}
