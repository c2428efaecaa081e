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

// buildTestIndex loads and indexes the corpus fixture files under dir,
// failing the test immediately on any construction-time error.
func buildTestIndex(t *testing.T, dir string, opts license.LoadOptions) *license.Index {
	t.Helper()
	raw, licenseMeta, err := license.LoadCorpus(dir, opts)
	if err != nil {
		t.Fatalf("LoadCorpus: %+v", err)
	}
	idx, err := license.Build(raw, licenseMeta)
	if err != nil {
		t.Fatalf("Build: %+v", err)
	}
	return idx
}

func TestDetectExactHashMatch(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{
		"licenses/mit.LICENSE": mitLicenseBody,
	})
	idx := buildTestIndex(t, dir, license.LoadOptions{})

	// Strip the frontmatter: Detect operates on the file body, same shape
	// the rule body itself was tokenized from.
	body := mitLicenseBody[len("---\nlicense_expression: mit\nspdx_license_key: MIT\nname: MIT License\ncategory: Permissive\n---\n"):]

	detections := license.Detect(idx, []byte(body), nil)
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d: %+v", len(detections), detections)
	}
	if detections[0].LicenseExpression != "mit" {
		t.Errorf("LicenseExpression = %q, want %q", detections[0].LicenseExpression, "mit")
	}
	if len(detections[0].Matches) == 0 {
		t.Fatalf("expected at least one contributing match")
	}
	if detections[0].Matches[0].Kind != license.MatcherHash {
		t.Errorf("expected the exact-text match to come from the hash matcher, got %s", detections[0].Matches[0].Kind)
	}
	if detections[0].Matches[0].MatchCoverage != 100 {
		t.Errorf("MatchCoverage = %d, want 100", detections[0].Matches[0].MatchCoverage)
	}
}

func TestDetectSPDXTag(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{
		"licenses/mit.LICENSE": mitLicenseBody,
	})
	idx := buildTestIndex(t, dir, license.LoadOptions{})

	src := "// SPDX-License-Identifier: MIT\npackage main\n"
	detections := license.Detect(idx, []byte(src), nil)
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(detections))
	}
	if detections[0].LicenseExpression != "mit" {
		t.Errorf("LicenseExpression = %q, want %q", detections[0].LicenseExpression, "mit")
	}
	if detections[0].Matches[0].Kind != license.MatcherSPDX {
		t.Errorf("expected the spdx-lid matcher, got %s", detections[0].Matches[0].Kind)
	}
}

func TestDetectNoMatch(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{
		"licenses/mit.LICENSE": mitLicenseBody,
	})
	idx := buildTestIndex(t, dir, license.LoadOptions{})

	detections := license.Detect(idx, []byte("package main\n\nfunc main() {}\n"), nil)
	if len(detections) != 0 {
		t.Errorf("expected no detections in unrelated source, got %d", len(detections))
	}
}

func TestDetectRequiredPhraseMissingDropsMatch(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{
		"licenses/mit.LICENSE": mitLicenseBody,
	})
	idx := buildTestIndex(t, dir, license.LoadOptions{})

	// Same body but with the required phrase's wording altered so it can
	// never exactly cover the rule's required-phrase span; an approximate
	// sequence match surviving without the phrase should still be dropped.
	body := "Permission is hereby granted, free of charge, to any person obtaining a copy " +
		"of this software and associated documentation files to deal in the Software " +
		"without restriction."
	detections := license.Detect(idx, []byte(body), nil)
	for _, d := range detections {
		if d.LicenseExpression == "mit" {
			t.Errorf("did not expect a full mit detection without the required phrase: %+v", d)
		}
	}
}

func TestDetectDeprecatedRuleNeverSurfaces(t *testing.T) {
	dir := t.TempDir()
	deprecated := "---\nlicense_expression: old-thing\nspdx_license_key: old-thing\nis_deprecated: true\nminimum_coverage: 100\n---\n" +
		"This is some very specific deprecated boilerplate text used only for this rule.\n"
	writeCorpus(t, dir, map[string]string{
		"rules/old.RULE": deprecated,
	})
	idx := buildTestIndex(t, dir, license.LoadOptions{WithDeprecated: true})

	body := "This is some very specific deprecated boilerplate text used only for this rule.\n"
	detections := license.Detect(idx, []byte(body), nil)
	if len(detections) != 0 {
		t.Errorf("expected a deprecated rule to never surface in Detect output, got %+v", detections)
	}
}

func TestDetectDuplicatedLicenseTextMergesToOneDetection(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{
		"licenses/mit.LICENSE": mitLicenseBody,
	})
	idx := buildTestIndex(t, dir, license.LoadOptions{})

	body := mitLicenseBody[len("---\nlicense_expression: mit\nspdx_license_key: MIT\nname: MIT License\ncategory: Permissive\n---\n"):]
	// Two back-to-back copies of the same license text, separated by a
	// blank line, should still surface as one detection: mergeSameRule
	// combines the two adjacent occurrences of the same rule rather than
	// reporting it twice.
	doubled := body + "\n" + body

	detections := license.Detect(idx, []byte(doubled), nil)
	count := 0
	for _, d := range detections {
		if d.LicenseExpression == "mit" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected duplicated license text to merge into 1 mit detection, got %d (detections: %+v)", count, detections)
	}
}

func TestDetectNilIndex(t *testing.T) {
	// A nil index can never legitimately occur from Build, but Detect must
	// still degrade gracefully rather than panicking outward.
	detections := license.Detect(nil, []byte("anything"), nil)
	if detections != nil {
		t.Errorf("expected nil detections for a nil index")
	}
}
