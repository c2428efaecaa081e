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

func TestParseExpressionAtom(t *testing.T) {
	expr, err := license.ParseExpression("MIT")
	if err != nil {
		t.Fatalf("err: %+v", err)
	}
	if got := expr.String(); got != "MIT" {
		t.Errorf("String() = %q, want %q", got, "MIT")
	}
}

func TestParseExpressionOrLaterAndWith(t *testing.T) {
	expr, err := license.ParseExpression("GPL-2.0+ WITH Classpath-exception-2.0")
	if err != nil {
		t.Fatalf("err: %+v", err)
	}
	if got := expr.String(); got != "GPL-2.0+ WITH Classpath-exception-2.0" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseExpressionAndOr(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"MIT AND Apache-2.0", "MIT AND Apache-2.0"},
		{"MIT OR Apache-2.0", "MIT OR Apache-2.0"},
		{"(MIT OR BSD-3-Clause) AND Apache-2.0", "(MIT OR BSD-3-Clause) AND Apache-2.0"},
	}
	for i, test := range tests {
		expr, err := license.ParseExpression(test.input)
		if err != nil {
			t.Errorf("test# %d: err: %+v", i, err)
			continue
		}
		if got := expr.String(); got != test.want {
			t.Errorf("test# %d: String() = %q, want %q", i, got, test.want)
		}
	}
}

func TestParseExpressionMalformedFallsBackToUnknown(t *testing.T) {
	expr, err := license.ParseExpression("MIT AND (")
	if err != nil {
		t.Fatalf("ParseExpression should never return an error, got: %+v", err)
	}
	if !expr.Unknown {
		t.Errorf("expected malformed input to fall back to an Unknown atom")
	}
}

func TestAtoms(t *testing.T) {
	expr, err := license.ParseExpression("MIT AND Apache-2.0")
	if err != nil {
		t.Fatalf("err: %+v", err)
	}
	atoms := expr.Atoms()
	if len(atoms) != 2 {
		t.Fatalf("expected 2 atoms, got %d", len(atoms))
	}
	if atoms[0].License != "MIT" || atoms[1].License != "Apache-2.0" {
		t.Errorf("atoms = %+v", atoms)
	}
}

func TestNormalizeFlattensAndDedupsAndSorts(t *testing.T) {
	a := license.AtomExpr("MIT", false, "")
	b := license.AtomExpr("Apache-2.0", false, "")
	c := license.AtomExpr("MIT", false, "")

	combined := license.AndExpr(a, license.AndExpr(b, c))
	if got := combined.String(); got != "Apache-2.0 AND MIT" {
		t.Errorf("String() = %q, want %q", got, "Apache-2.0 AND MIT")
	}
}
