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

// stopwords is the fixed, process-wide set of tokens stripped from both rule
// and query text before token-id assignment. It must stay identical across
// every tokenization call site (rule loading, required-phrase parsing, query
// building) or required-phrase positions silently drift by the stopword
// count inside the phrase.
//
// This is a conservative list of short, purely grammatical English words.
// Anything with independent legal meaning (e.g. "or", used in "AND"/"OR"
// expressions and in phrases like "without limitation") is deliberately kept
// out of this list.
var stopwords = buildStopwords()

func buildStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the",
		"is", "are", "was", "were", "be", "been", "being",
		"as", "at", "by", "for", "from", "in", "into", "of", "on", "onto",
		"to", "with", "within",
		"it", "its", "this", "that", "these", "those",
		"and", "but", "so", "than", "then",
		"i", "you", "he", "she", "we", "they",
		"do", "does", "did", "will", "would", "can", "could", "may", "might",
		"not", "no",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether tok (already lowercased) is a stopword.
func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}
