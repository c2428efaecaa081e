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
	"os"
	"path/filepath"
	"testing"

	"github.com/jshubin/licensescan/license"
)

// writeCorpus lays out a minimal rules/licenses directory tree under dir.
func writeCorpus(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %+v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %+v", err)
		}
	}
}

const mitLicenseBody = `---
license_expression: mit
spdx_license_key: MIT
name: MIT License
category: Permissive
---
Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to
deal in the Software without restriction, including without limitation the
rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
sell copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

{{The above copyright notice and this permission notice}} shall be included
in all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
`

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{
		"licenses/mit.LICENSE": mitLicenseBody,
	})

	raw, licenseMeta, err := license.LoadCorpus(dir, license.LoadOptions{})
	if err != nil {
		t.Fatalf("err: %+v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 raw rule, got %d", len(raw))
	}
	if len(licenseMeta) != 1 {
		t.Fatalf("expected 1 license record, got %d", len(licenseMeta))
	}
	if licenseMeta[0].SPDXLicenseKey != "MIT" {
		t.Errorf("SPDXLicenseKey = %q, want MIT", licenseMeta[0].SPDXLicenseKey)
	}
}

func TestLoadCorpusSkipsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{
		"licenses/mit.LICENSE":     mitLicenseBody,
		"licenses/broken.LICENSE":  "---\nrelevance: [this is not valid yaml:\n---\nbroken body",
	})

	raw, _, err := license.LoadCorpus(dir, license.LoadOptions{})
	if err != nil {
		t.Fatalf("err: %+v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected the malformed file to be skipped, got %d rules", len(raw))
	}
}

func TestLoadCorpusDeprecatedFiltering(t *testing.T) {
	dir := t.TempDir()
	deprecated := "---\nlicense_expression: old-thing\nis_deprecated: true\n---\nsome old license text here\n"
	writeCorpus(t, dir, map[string]string{
		"rules/old.RULE": deprecated,
	})

	raw, _, err := license.LoadCorpus(dir, license.LoadOptions{WithDeprecated: false})
	if err != nil {
		t.Fatalf("err: %+v", err)
	}
	if len(raw) != 0 {
		t.Errorf("expected deprecated rule to be excluded by default, got %d", len(raw))
	}

	raw, _, err = license.LoadCorpus(dir, license.LoadOptions{WithDeprecated: true})
	if err != nil {
		t.Fatalf("err: %+v", err)
	}
	if len(raw) != 1 {
		t.Errorf("expected deprecated rule to be included with WithDeprecated, got %d", len(raw))
	}
}

func TestLoadCorpusEmptyProducesNoRulesError(t *testing.T) {
	dir := t.TempDir()
	raw, licenseMeta, err := license.LoadCorpus(dir, license.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadCorpus on a missing corpus dir should not itself error, got: %+v", err)
	}
	if len(raw) != 0 || len(licenseMeta) != 0 {
		t.Errorf("expected an empty corpus")
	}

	if _, err := license.Build(raw, licenseMeta); err != license.ErrNoRulesLoaded {
		t.Errorf("Build on an empty corpus: err = %v, want %v", err, license.ErrNoRulesLoaded)
	}
}
