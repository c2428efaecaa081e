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

// MatcherKind identifies which of the matchers produced a Match. The zero
// value is never a real matcher's kind, so an unset Match.Kind is visibly
// wrong.
type MatcherKind int

const (
	_ MatcherKind = iota
	MatcherHash
	MatcherSPDX
	MatcherAho
	MatcherSeq
)

func (k MatcherKind) String() string {
	switch k {
	case MatcherHash:
		return "hash"
	case MatcherSPDX:
		return "spdx-lid"
	case MatcherAho:
		return "aho"
	case MatcherSeq:
		return "seq"
	default:
		return "unknown"
	}
}

// priority orders matchers for tie-breaking during refinement: a hash match
// beats an spdx-lid match at the same span, which beats aho, which beats
// seq.
func (k MatcherKind) priority() int {
	switch k {
	case MatcherHash:
		return 4
	case MatcherSPDX:
		return 3
	case MatcherAho:
		return 2
	case MatcherSeq:
		return 1
	default:
		return 0
	}
}

// Match is one candidate occurrence of a Rule within a Query, before
// refinement has resolved overlaps and applied validation. Fields
// prefixed with "Rule" are denormalized off the matched Rule at creation
// time so refinement and detection assembly don't need the Index in hand.
type Match struct {
	Kind MatcherKind
	Rid  int

	QSpan SpanSet // positions in the query
	ISpan SpanSet // positions in the rule's TextTokens

	MatchedLength int
	MatchCoverage int // percent, 0-100

	// MatchedLengthUnique, HighMatchedLength and HighMatchedLengthUnique
	// are the same denormalized-at-construction-time counts as a Rule's
	// MinMatchedLengthUnique/MinHighMatchedLength/
	// MinHighMatchedLengthUnique thresholds, computed over ispan instead
	// of the whole rule, so refinement can check all four threshold
	// conditions without the Index in hand.
	MatchedLengthUnique     int
	HighMatchedLength       int
	HighMatchedLengthUnique int

	StartLine int
	EndLine   int

	RuleIdentifier     string
	LicenseExpression  string
	IsLicenseIntro     bool
	IsLicenseClue      bool
	IsLicenseReference bool
	IsDeprecated       bool
	Relevance          int
}

// newMatch builds a Match, filling in the denormalized rule fields and
// computing MatchedLength/MatchCoverage from ispan against rule.Length, plus
// the unique/high-value counts from ispan that filterThresholds checks.
func newMatch(idx *Index, kind MatcherKind, rule *Rule, qspan, ispan SpanSet, q *Query) *Match {
	matchedLength := ispan.Len()
	coverage := 0
	if rule.Length > 0 {
		coverage = matchedLength * 100 / rule.Length
		if coverage > 100 {
			coverage = 100
		}
	}

	lengthUnique, highLength, highLengthUnique := ispanCounts(idx, rule, ispan)

	m := &Match{
		Kind:                    kind,
		Rid:                     rule.Rid,
		QSpan:                   qspan,
		ISpan:                   ispan,
		MatchedLength:           matchedLength,
		MatchCoverage:           coverage,
		MatchedLengthUnique:     lengthUnique,
		HighMatchedLength:       highLength,
		HighMatchedLengthUnique: highLengthUnique,
		RuleIdentifier:          rule.Identifier,
		LicenseExpression:       rule.LicenseExpression,
		IsLicenseIntro:          rule.IsLicenseIntro,
		IsLicenseClue:           rule.IsLicenseClue,
		IsLicenseReference:      rule.IsLicenseReference,
		IsDeprecated:            rule.IsDeprecated,
		Relevance:               rule.Relevance,
	}
	if !qspan.Empty() {
		m.StartLine = q.LineForPos(qspan.Min())
		m.EndLine = q.LineForPos(qspan.Max() - 1)
	}
	return m
}

// ispanCounts walks the rule token positions covered by ispan, returning the
// distinct-token count and the high-value (legalese) total/distinct counts
// within that span.
func ispanCounts(idx *Index, rule *Rule, ispan SpanSet) (lengthUnique, highLength, highLengthUnique int) {
	seen := map[TokenID]bool{}
	highSeen := map[TokenID]bool{}
	for _, sp := range ispan {
		for pos := sp.Start; pos < sp.End; pos++ {
			if pos < 0 || pos >= len(rule.TextTokens) {
				continue
			}
			tok := rule.TextTokens[pos]
			if !seen[tok] {
				seen[tok] = true
				lengthUnique++
			}
			if idx.IsLegalese(tok) {
				highLength++
				if !highSeen[tok] {
					highSeen[tok] = true
					highLengthUnique++
				}
			}
		}
	}
	return lengthUnique, highLength, highLengthUnique
}
