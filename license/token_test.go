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
	"reflect"
	"testing"

	"github.com/jshubin/licensescan/license"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Redistribution and use", []string{"redistribution", "use"}},
		{"", nil},
		{"GPL-2.0+", []string{"gpl", "2", "0+"}}, // "-" and "." split; trailing "+" sticks to "0"
		{"THE SOFTWARE", []string{"software"}},
	}

	for i, test := range tests {
		got := license.Tokenize(test.input)
		if !reflect.DeepEqual(got, test.want) && !(len(got) == 0 && len(test.want) == 0) {
			t.Errorf("test# %d: Tokenize(%q) = %v, want %v", i, test.input, got, test.want)
		}
	}
}

func TestTokenizeMarked(t *testing.T) {
	toks, spans, err := license.TokenizeMarked("Licensed under the {{Apache License}}, Version 2.0")
	if err != nil {
		t.Fatalf("err: %+v", err)
	}
	want := []string{"licensed", "under", "apache", "license", "version", "2", "0"}
	if !reflect.DeepEqual(toks, want) {
		t.Errorf("tokens = %v, want %v", toks, want)
	}
	if len(spans) != 1 {
		t.Fatalf("expected 1 required-phrase span, got %d", len(spans))
	}
	if spans[0].Start != 2 || spans[0].End != 4 {
		t.Errorf("span = %+v, want {2 4}", spans[0])
	}
}

func TestTokenizeMarkedUnbalanced(t *testing.T) {
	if _, _, err := license.TokenizeMarked("this has {{ no closer"); err == nil {
		t.Errorf("expected an error for an unbalanced marker")
	}
	if _, _, err := license.TokenizeMarked("this has }} no opener"); err == nil {
		t.Errorf("expected an error for a stray closing marker")
	}
}

func TestTokenizeMarkedEmptyPhrase(t *testing.T) {
	if _, _, err := license.TokenizeMarked("this has {{ the a }} phrase"); err == nil {
		t.Errorf("expected an error for a phrase containing only stopwords")
	}
}

func TestIsStopword(t *testing.T) {
	for _, w := range []string{"the", "a", "an", "is", "and"} {
		if !license.IsStopword(w) {
			t.Errorf("expected %q to be a stopword", w)
		}
	}
	for _, w := range []string{"license", "copyright", "redistribution"} {
		if license.IsStopword(w) {
			t.Errorf("expected %q to not be a stopword", w)
		}
	}
}
