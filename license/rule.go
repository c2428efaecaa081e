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

// TokenID is a dense non-negative integer id assigned to a token string by
// the Index's dictionary. Ids below an Index's lenLegalese are high-value
// ("legalese") tokens; the rest are junk (common-word) tokens. Stopwords
// never receive an id; they are removed during tokenization.
type TokenID int

// Rule is one parsed `.RULE` or `.LICENSE` corpus entry, immutable after
// load.
type Rule struct {
	// Rid is assigned by the Index after a deterministic sort of all
	// rules by Identifier, so serialized output is reproducible across
	// runs and processes.
	Rid int

	// Identifier is the filename stem this rule was loaded from.
	Identifier string

	LicenseExpression    string
	SPDXLicenseKey       string
	OtherSPDXLicenseKeys []string

	IsLicenseText      bool
	IsLicenseNotice    bool
	IsLicenseReference bool
	IsLicenseIntro     bool
	IsLicenseClue      bool
	IsLicenseTag       bool

	IsDeprecated bool

	// Relevance is 0-100.
	Relevance int

	// MinimumCoverage is 0-100; zero means "not specified" (use the
	// length-derived default).
	MinimumCoverage int

	// ReferencedFilenames lists other corpus filenames this rule's
	// frontmatter says are associated with it (e.g. a .LICENSE file
	// referencing known alternate spellings of its own filename).
	ReferencedFilenames []string

	// TextTokens is the ordered token-id sequence of the rule body after
	// stopword removal.
	TextTokens []TokenID

	// RequiredPhraseSpans are half-open ranges over TextTokens that must
	// all be fully covered by ispan for any match of this rule to be
	// accepted.
	RequiredPhraseSpans []Span

	// Thresholds below are derived in Build from Length, MinimumCoverage
	// and the high-value token counts; see computeThresholds.
	Length                     int
	LengthUnique               int
	HighLength                 int
	HighLengthUnique           int
	MinMatchedLength           int
	MinHighMatchedLength       int
	MinMatchedLengthUnique     int
	MinHighMatchedLengthUnique int
	IsSmall                    bool // Length < 15
	IsTiny                     bool // Length < 6
}

// License is SPDX-key-indexed metadata: canonical name, SPDX id, category
// and deprecated flag. It deliberately mirrors (and can be built from) the
// richer licenses.LicenseSPDX record already used elsewhere in this
// codebase for SPDX list validation.
type License struct {
	SPDXLicenseKey string
	Name           string
	Category       string
	IsDeprecated   bool
}

// isGPLBareWordFamily identifies a documented false-positive family: a rule
// that matches on the bare word "gpl" (or a close variant) and nothing
// else. Matches this short are dropped downstream.
func (r *Rule) isGPLBareWordFamily() bool {
	if r.LicenseExpression == "gpl" {
		return true
	}
	return r.IsTiny && r.LicenseExpression == "gpl-1.0"
}
