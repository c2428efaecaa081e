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
//
// SPDX-License-Identifier: Apache-2.0

package license

import (
	"regexp"
	"strings"
)

// wordPattern matches maximal Unicode word-like runs (letters, digits and
// underscores) with a permitted trailing '+', so that SPDX suffixes like
// "GPL-2.0+" survive tokenization as a single token. Everything else is a
// separator. This is the single tokenization rule shared by rule loading,
// required-phrase parsing and query building.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+\+?`)

// markerPattern additionally recognizes the "{{" / "}}" required-phrase
// delimiters used in rule text, so that marker mode can report them as
// distinct events interleaved with the words they surround.
var markerPattern = regexp.MustCompile(`\{\{|\}\}|[\p{L}\p{N}_]+\+?`)

// Tokenize normalizes text to lowercase and returns the stopword-filtered
// sequence of word tokens. Positions in the returned slice are indices into
// the post-stopword stream, as every consumer of token positions expects.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := wordPattern.FindAllString(lower, -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if IsStopword(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// TokenizeMarked tokenizes rule body text that may contain "{{ ... }}"
// required-phrase markers. It applies the same stopword filter as Tokenize,
// so positions reported here line up exactly with positions Tokenize would
// produce on the same text with the markers stripped out. It returns the
// stopword-filtered token sequence plus the required-phrase spans implied by
// the marker pairs, as half-open [start,end) ranges over that sequence.
//
// An unbalanced "{{"/"}}" pair is an error: the rule file is malformed. An
// empty phrase (a "{{}}" whose only contents are stopwords) is also an
// error.
func TokenizeMarked(text string) ([]string, []Span, error) {
	lower := strings.ToLower(text)
	events := markerPattern.FindAllString(lower, -1)

	tokens := make([]string, 0, len(events))
	var spans []Span
	open := -1 // position (in tokens) where the current phrase started, or -1

	for _, ev := range events {
		switch ev {
		case "{{":
			if open != -1 {
				return nil, nil, errUnbalancedPhrase
			}
			open = len(tokens)
		case "}}":
			if open == -1 {
				return nil, nil, errUnbalancedPhrase
			}
			if len(tokens) == open {
				return nil, nil, errEmptyPhrase
			}
			spans = append(spans, Span{Start: open, End: len(tokens)})
			open = -1
		default:
			if IsStopword(ev) {
				continue
			}
			tokens = append(tokens, ev)
		}
	}
	if open != -1 {
		return nil, nil, errUnbalancedPhrase
	}

	return tokens, spans, nil
}
