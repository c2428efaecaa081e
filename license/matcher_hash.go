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

// matchHash looks for a whole query run whose token sequence hashes
// identically to a whole rule's TextTokens. It is the cheapest and most
// precise matcher: a hit is always reported at 100% coverage, and
// refinement gives it top priority.
func matchHash(idx *Index, q *Query) []*Match {
	var out []*Match
	for _, run := range q.Runs {
		h := hashTokens(run.Tokens)
		candidates, ok := idx.wholeRuleHash[h]
		if !ok {
			continue
		}
		for _, rid := range candidates {
			rule := idx.Rules[rid]
			if rule.Length != len(run.Tokens) {
				continue
			}
			if !tokensEqual(rule.TextTokens, run.Tokens) {
				continue
			}
			qspan := NewSpanSet(Span{Start: run.Start, End: run.Start + len(run.Tokens)})
			ispan := NewSpanSet(Span{Start: 0, End: rule.Length})
			out = append(out, newMatch(idx, MatcherHash, rule, qspan, ispan, q))
		}
	}
	return out
}

func tokensEqual(a, b []TokenID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
