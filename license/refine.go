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

import "sort"

// refine resolves the raw candidate matches produced by the matchers down to
// the set that detection assembly will group into Detections. It runs a
// fixed pipeline of validation and overlap-resolution passes, in order.
func refine(idx *Index, matches []*Match) []*Match {
	matches = filterRequiredPhrases(idx, matches)
	matches = filterThresholds(idx, matches)
	matches = filterShortGPL(matches)
	matches = resolveOverlaps(matches)
	matches = mergeSameRule(matches)
	matches = filterDeprecated(matches)
	matches = filterIntroOnly(matches)
	return matches
}

// filterRequiredPhrases drops a match unless every one of its rule's
// required-phrase spans is fully covered by the match's ispan. A phrase
// only partially inside the matched span doesn't count as present at all:
// this engine's resolution of that open question is to drop the match
// outright rather than try to salvage a partial credit.
func filterRequiredPhrases(idx *Index, matches []*Match) []*Match {
	var out []*Match
	for _, m := range matches {
		// An spdx-lid match carries no token-level ispan against the
		// file text at all: its rule is asserted by the tag, not
		// recovered from the body, so required-phrase coverage can't
		// be, and doesn't need to be, checked.
		if m.Kind == MatcherSPDX {
			out = append(out, m)
			continue
		}
		rule := idx.Rules[m.Rid]
		ok := true
		for _, phrase := range rule.RequiredPhraseSpans {
			covered := NewSpanSet(phrase)
			if m.ISpan.Intersect(covered).Len() != phrase.Len() {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, m)
		}
	}
	return out
}

// filterThresholds drops matches that don't meet their rule's minimum
// thresholds: matched length, matched length of distinct tokens, high-value
// (legalese) matched length, and distinct high-value matched length must
// all clear the rule's corresponding Min* fields. Rules with
// MinimumCoverage == 100 require an exact hash match, which only the hash
// matcher ever produces at full coverage, so this naturally excludes
// approximate sequence/Aho hits against exact-only rules.
func filterThresholds(idx *Index, matches []*Match) []*Match {
	var out []*Match
	for _, m := range matches {
		// An spdx-lid match is an explicit tag assertion, not a
		// body-text match accumulated token by token; none of these
		// length thresholds apply to it.
		if m.Kind == MatcherSPDX {
			out = append(out, m)
			continue
		}
		rule := idx.Rules[m.Rid]
		if rule.MinimumCoverage == 100 && m.Kind != MatcherHash {
			continue
		}
		if m.MatchedLength < rule.MinMatchedLength {
			continue
		}
		if m.MatchedLengthUnique < rule.MinMatchedLengthUnique {
			continue
		}
		if m.HighMatchedLength < rule.MinHighMatchedLength {
			continue
		}
		if m.HighMatchedLengthUnique < rule.MinHighMatchedLengthUnique {
			continue
		}
		out = append(out, m)
	}
	return out
}

// filterShortGPL drops any surviving match whose license expression is
// "gpl" or "gpl-1.0" and whose matched_length is 3 tokens or fewer: too
// short to distinguish the word "GPL" used generically from an actual
// license reference. Unlike Rule.isGPLBareWordFamily, it does not require a
// "gpl-1.0" rule to be tiny.
func filterShortGPL(matches []*Match) []*Match {
	var out []*Match
	for _, m := range matches {
		if isGPLLike(m) && m.MatchedLength <= 3 {
			continue
		}
		out = append(out, m)
	}
	return out
}

func isGPLLike(m *Match) bool {
	return m.LicenseExpression == "gpl" || m.LicenseExpression == "gpl-1.0"
}

// resolveOverlaps drops lower-priority matches whose qspan overlaps another
// match enough to be considered the "same" occurrence, using overlap-ratio
// tiers: >=0.9 is effectively identical and always resolved by priority;
// >=0.7 a near-duplicate, resolved by priority but only when one match's
// qspan fully surrounds the other's; >=0.4 a partial overlap favoring
// whichever match covers more high-value content; >=0.1 resolved only when
// one surrounds the other AND also has higher matcher priority. Anything
// below 0.1 is left alone; both matches survive independently. A final pass
// restores any match that was only dropped because of a match that was
// itself later dropped by a third, higher-priority match, and so no longer
// overlaps anything that survived.
func resolveOverlaps(matches []*Match) []*Match {
	sorted := append([]*Match{}, matches...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].QSpan.Min() != sorted[j].QSpan.Min() {
			return sorted[i].QSpan.Min() < sorted[j].QSpan.Min()
		}
		return better(sorted[i], sorted[j])
	})

	dropped := make([]bool, len(sorted))
	for i := 0; i < len(sorted); i++ {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(sorted); j++ {
			if dropped[j] {
				continue
			}
			a, b := sorted[i], sorted[j]
			ratio := a.QSpan.OverlapRatio(b.QSpan)
			switch {
			case ratio >= 0.9:
				if better(a, b) {
					dropped[j] = true
				} else {
					dropped[i] = true
				}
			case ratio >= 0.7:
				if a.QSpan.Surrounds(b.QSpan) || b.QSpan.Surrounds(a.QSpan) {
					if better(a, b) {
						dropped[j] = true
					} else {
						dropped[i] = true
					}
				}
			case ratio >= 0.4:
				if a.HighMatchedLength >= b.HighMatchedLength {
					dropped[j] = true
				} else {
					dropped[i] = true
				}
			case ratio >= 0.1:
				if a.QSpan.Surrounds(b.QSpan) && a.Kind.priority() > b.Kind.priority() {
					dropped[j] = true
				} else if b.QSpan.Surrounds(a.QSpan) && b.Kind.priority() > a.Kind.priority() {
					dropped[i] = true
				}
			}
			if dropped[i] {
				break
			}
		}
	}

	restoreNonOverlapping(sorted, dropped)

	var out []*Match
	for i, m := range sorted {
		if !dropped[i] {
			out = append(out, m)
		}
	}
	return out
}

// restoreNonOverlapping un-drops any match that doesn't overlap a single
// surviving match, judged against the survivor set as it stood at the end
// of the pairwise resolution pass (not against other matches restored in
// this same pass, so restoration can't cascade into recreating an overlap
// two of the tiers above just resolved).
func restoreNonOverlapping(sorted []*Match, dropped []bool) {
	var survivors []int
	for i := range sorted {
		if !dropped[i] {
			survivors = append(survivors, i)
		}
	}

	var restore []int
	for i := range sorted {
		if !dropped[i] {
			continue
		}
		overlapsSurvivor := false
		for _, j := range survivors {
			if sorted[i].QSpan.Overlaps(sorted[j].QSpan) {
				overlapsSurvivor = true
				break
			}
		}
		if !overlapsSurvivor {
			restore = append(restore, i)
		}
	}
	for _, i := range restore {
		dropped[i] = false
	}
}

// better reports whether a should win a tie-break against b: higher matcher
// priority first, then higher coverage, then longer matched_length.
func better(a, b *Match) bool {
	if a.Kind.priority() != b.Kind.priority() {
		return a.Kind.priority() > b.Kind.priority()
	}
	if a.MatchCoverage != b.MatchCoverage {
		return a.MatchCoverage > b.MatchCoverage
	}
	return a.MatchedLength > b.MatchedLength
}

// mergeSameRule combines matches against the same rule whose qspans are
// adjacent or overlapping into a single match spanning their union: a rule
// matched in two nearby passes of the sequence matcher
// is one occurrence, not two.
func mergeSameRule(matches []*Match) []*Match {
	byRule := map[int][]*Match{}
	var order []int
	for _, m := range matches {
		if _, ok := byRule[m.Rid]; !ok {
			order = append(order, m.Rid)
		}
		byRule[m.Rid] = append(byRule[m.Rid], m)
	}

	var out []*Match
	for _, rid := range order {
		group := byRule[rid]
		sort.Slice(group, func(i, j int) bool { return group[i].QSpan.Min() < group[j].QSpan.Min() })

		cur := group[0]
		for _, next := range group[1:] {
			if cur.QSpan.Adjacent(next.QSpan, 3) || cur.QSpan.Overlaps(next.QSpan) {
				cur = mergeMatches(cur, next)
				continue
			}
			out = append(out, cur)
			cur = next
		}
		out = append(out, cur)
	}
	return out
}

func mergeMatches(a, b *Match) *Match {
	merged := *a
	merged.QSpan = a.QSpan.Union(b.QSpan)
	merged.ISpan = a.ISpan.Union(b.ISpan)
	merged.MatchedLength = merged.ISpan.Len()
	if better(b, a) {
		merged.Kind = b.Kind
	}
	if b.StartLine != 0 && (a.StartLine == 0 || b.StartLine < a.StartLine) {
		merged.StartLine = b.StartLine
	}
	if b.EndLine > a.EndLine {
		merged.EndLine = b.EndLine
	}
	return &merged
}

// filterDeprecated drops matches against rules flagged IsDeprecated.
// Deprecated rules are kept in the index, when loaded, purely
// to absorb text that would otherwise be misattributed to an unrelated
// rule; they never appear in final output themselves.
func filterDeprecated(matches []*Match) []*Match {
	var out []*Match
	for _, m := range matches {
		if m.IsDeprecated {
			continue
		}
		out = append(out, m)
	}
	return out
}

// filterIntroOnly implements UNKNOWN_INTRO_BEFORE_DETECTION: an intro clause
// ("licensed under the following terms:") is only informative when nothing
// else follows it. If the surviving set consists entirely of license-intro
// matches, none of them found the license text they promised and the whole
// set is dropped. Otherwise, any intro match that has a real (non-intro)
// match later in token order is dropped as superseded, but an intro with no
// real match after it survives: it may be the only clue in the file, e.g. an
// intro pointing at a LICENSE file this engine never scanned.
func filterIntroOnly(matches []*Match) []*Match {
	if len(matches) == 0 {
		return matches
	}

	hasReal := false
	for _, m := range matches {
		if !m.IsLicenseIntro {
			hasReal = true
			break
		}
	}
	if !hasReal {
		return nil
	}

	var out []*Match
	for _, m := range matches {
		if m.IsLicenseIntro && followedByReal(matches, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// followedByReal reports whether matches contains a non-intro match whose
// qspan starts strictly after m's.
func followedByReal(matches []*Match, m *Match) bool {
	for _, other := range matches {
		if !other.IsLicenseIntro && other.QSpan.Min() > m.QSpan.Min() {
			return true
		}
	}
	return false
}
