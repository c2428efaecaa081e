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

// Error is a constant error type, matching the style used throughout the
// rest of this codebase (see interfaces.Error).
type Error string

// Error fulfills the error interface.
func (e Error) Error() string { return string(e) }

// Construction-time (corpus load / index build) error kinds. The two phrase
// errors come from TokenizeMarked; LoadCorpus logs them and skips the rule
// file. ErrNoRulesLoaded surfaces to the caller. Per-file errors during
// detection never do.
const (
	errUnbalancedPhrase = Error("unbalanced required-phrase markers")
	errEmptyPhrase      = Error("required phrase contains only stopwords")

	// ErrNoRulesLoaded is returned by Build when the rule corpus produced
	// zero usable rules. This is fatal at startup, unlike a single bad
	// rule file, which is only logged and skipped.
	ErrNoRulesLoaded = Error("no rules were loaded from the corpus")
)

// Logf is the injected logging sink used to report per-file warnings (a
// skipped rule file, an unparsable expression) without the package ever
// writing to stdout/stderr itself, matching the Logf function-value
// field convention used throughout backend/ and lib/.
type Logf func(format string, v ...interface{})

func (l Logf) logf(format string, v ...interface{}) {
	if l == nil {
		return
	}
	l(format, v...)
}
