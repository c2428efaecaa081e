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

import (
	"hash/fnv"
	"math"
	"sort"
	"strings"
)

// legaleseDocFrequencyRatio caps the fraction of the corpus a token may
// appear in and still be considered "legalese" (high-value). Tokens that
// show up in more rules than this are common English words ("junk") rather
// than specific legal language; 15% is this engine's resolution of that
// open question, recorded in DESIGN.md.
const legaleseDocFrequencyRatio = 0.15

// Index is the immutable, concurrency-safe result of Build. Every field is
// read-only after construction, so an *Index is safe to share by reference
// across goroutines without locking.
type Index struct {
	Rules    []*Rule
	Licenses map[string]*License // keyed by SPDX license key

	dictionary  map[string]TokenID
	lenLegalese int
	unknownID   TokenID

	ruleSets []ruleTokenSets // indexed by Rid

	aho *ahoAutomaton

	// wholeRuleHash maps a hash of a rule's full token sequence to the
	// candidate rids sharing that hash, for the hash matcher.
	wholeRuleHash map[uint64][]int

	// spdxKeyToRid resolves a canonical or alternate SPDX key straight to
	// the reference rule that carries its full text.
	spdxKeyToRid map[string]int
}

// ruleTokenSets holds the per-rule token membership structures the sequence
// matcher's candidate filtering needs: the distinct-token set and the
// multiset (with repeats), plus their high-value-only subsets.
type ruleTokenSets struct {
	set          map[TokenID]int // token id -> count (the multiset)
	highSet      map[TokenID]int
	distinct     int
	highDistinct int
}

// IsLegalese reports whether a token id is a high-value (legalese) token.
func (idx *Index) IsLegalese(id TokenID) bool {
	return int(id) < idx.lenLegalese
}

// UnknownID is the reserved token id assigned to query tokens that aren't in
// the dictionary at all. It is always >= lenLegalese, so unknown tokens are
// always junk.
func (idx *Index) UnknownID() TokenID {
	return idx.unknownID
}

// LookupToken returns the id for a token string, and whether it was found.
func (idx *Index) LookupToken(tok string) (TokenID, bool) {
	id, ok := idx.dictionary[tok]
	return id, ok
}

// Build constructs an Index from the raw rules and license metadata produced
// by LoadCorpus. It is the only place rids and token ids are assigned, and
// it is single-threaded and deterministic given the same corpus.
func Build(raw []*rawRule, licenseMeta []*License) (*Index, error) {
	if len(raw) == 0 {
		return nil, ErrNoRulesLoaded
	}

	// Deterministic rid assignment: sort by identifier.
	sorted := append([]*rawRule{}, raw...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].identifier < sorted[j].identifier })

	dictionary, lenLegalese, unknownID := buildDictionary(sorted)

	rules := make([]*Rule, len(sorted))
	ruleSets := make([]ruleTokenSets, len(sorted))
	wholeRuleHash := make(map[uint64][]int)
	spdxKeyToRid := make(map[string]int)

	for rid, rr := range sorted {
		rule := newRule(rid, rr, dictionary)
		rules[rid] = rule

		sets := ruleTokenSets{set: map[TokenID]int{}, highSet: map[TokenID]int{}}
		for _, tok := range rule.TextTokens {
			sets.set[tok]++
			if int(tok) < lenLegalese {
				sets.highSet[tok]++
			}
		}
		sets.distinct = len(sets.set)
		sets.highDistinct = len(sets.highSet)
		ruleSets[rid] = sets

		computeThresholds(rule, sets)

		h := hashTokens(rule.TextTokens)
		wholeRuleHash[h] = append(wholeRuleHash[h], rid)

		if rule.IsLicenseReference || rule.IsLicenseText {
			if rule.SPDXLicenseKey != "" {
				if _, exists := spdxKeyToRid[normalizeKey(rule.SPDXLicenseKey)]; !exists {
					spdxKeyToRid[normalizeKey(rule.SPDXLicenseKey)] = rid
				}
			}
			for _, alt := range rule.OtherSPDXLicenseKeys {
				if _, exists := spdxKeyToRid[normalizeKey(alt)]; !exists {
					spdxKeyToRid[normalizeKey(alt)] = rid
				}
			}
		}
	}

	licenses := make(map[string]*License, len(licenseMeta))
	for _, lic := range licenseMeta {
		licenses[normalizeKey(lic.SPDXLicenseKey)] = lic
	}

	idx := &Index{
		Rules:         rules,
		Licenses:      licenses,
		dictionary:    dictionary,
		lenLegalese:   lenLegalese,
		unknownID:     unknownID,
		ruleSets:      ruleSets,
		wholeRuleHash: wholeRuleHash,
		spdxKeyToRid:  spdxKeyToRid,
	}
	idx.aho = buildAho(rules)

	return idx, nil
}

// buildDictionary assigns dense token ids: tokens at or below the corpus-wide
// document-frequency cutoff (legaleseDocFrequencyRatio) get the lowest ids
// (legalese), everything else follows (junk). Ties are broken alphabetically
// so the assignment is deterministic.
func buildDictionary(rules []*rawRule) (map[string]TokenID, int, TokenID) {
	df := map[string]int{}
	for _, r := range rules {
		seen := map[string]bool{}
		for _, tok := range r.tokens {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			df[tok]++
		}
	}

	type entry struct {
		tok string
		df  int
	}
	entries := make([]entry, 0, len(df))
	for tok, count := range df {
		entries = append(entries, entry{tok: tok, df: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].df != entries[j].df {
			return entries[i].df < entries[j].df
		}
		return entries[i].tok < entries[j].tok
	})

	cutoff := int(math.Ceil(float64(len(rules)) * legaleseDocFrequencyRatio))
	if cutoff < 1 {
		cutoff = 1
	}

	dictionary := make(map[string]TokenID, len(entries))
	lenLegalese := 0
	for i, e := range entries {
		dictionary[e.tok] = TokenID(i)
		if e.df <= cutoff {
			lenLegalese = i + 1
		}
	}

	return dictionary, lenLegalese, TokenID(len(entries))
}

func newRule(rid int, rr *rawRule, dictionary map[string]TokenID) *Rule {
	tokens := make([]TokenID, len(rr.tokens))
	for i, tok := range rr.tokens {
		id, ok := dictionary[tok]
		if !ok {
			// Every rule token was counted while building the
			// dictionary, so this can't happen; kept defensive
			// rather than panicking on a future refactor.
			id = TokenID(len(dictionary))
		}
		tokens[i] = id
	}

	relevance := 100
	if rr.meta.Relevance != nil {
		relevance = *rr.meta.Relevance
	}
	minCoverage := 0
	if rr.meta.MinimumCoverage != nil {
		minCoverage = *rr.meta.MinimumCoverage
	}

	return &Rule{
		Rid:                  rid,
		Identifier:           rr.identifier,
		LicenseExpression:    rr.meta.LicenseExpression,
		SPDXLicenseKey:       rr.meta.SPDXLicenseKey,
		OtherSPDXLicenseKeys: rr.meta.OtherSPDXLicenseKeys,
		IsLicenseText:        rr.meta.IsLicenseText,
		IsLicenseNotice:      rr.meta.IsLicenseNotice,
		IsLicenseReference:   rr.meta.IsLicenseReference,
		IsLicenseIntro:       rr.meta.IsLicenseIntro,
		IsLicenseClue:        rr.meta.IsLicenseClue,
		IsLicenseTag:         rr.meta.IsLicenseTag,
		IsDeprecated:         rr.meta.IsDeprecated,
		Relevance:            relevance,
		MinimumCoverage:      minCoverage,
		ReferencedFilenames:  rr.meta.ReferencedFilenames,
		TextTokens:           tokens,
		RequiredPhraseSpans:  append([]Span{}, rr.requiredPhraseSpans...),
		Length:               len(tokens),
	}
}

// computeThresholds fills in the derived fields of rule from its token sets,
// using the length-bucketed cascade implemented by scaledThreshold.
func computeThresholds(rule *Rule, sets ruleTokenSets) {
	rule.LengthUnique = sets.distinct
	rule.HighLength = 0
	for _, count := range sets.highSet {
		rule.HighLength += count
	}
	rule.HighLengthUnique = sets.highDistinct
	rule.IsSmall = rule.Length < 15
	rule.IsTiny = rule.Length < 6

	if rule.MinimumCoverage == 100 {
		rule.MinMatchedLength = rule.Length
		rule.MinMatchedLengthUnique = rule.LengthUnique
		rule.MinHighMatchedLength = rule.HighLength
		rule.MinHighMatchedLengthUnique = rule.HighLengthUnique
		return
	}

	rule.MinMatchedLength = scaledThreshold(rule.Length, 4)
	rule.MinMatchedLengthUnique = scaledThreshold(rule.LengthUnique, 4)
	rule.MinHighMatchedLength = scaledThreshold(rule.HighLength, 3)
	rule.MinHighMatchedLengthUnique = scaledThreshold(rule.HighLengthUnique, 3)
}

// scaledThreshold implements the length-bucketed cascade: all tokens below
// 3, 80% coverage below 10, 50% coverage below 30, a flat "standard"
// minimum below 200, and a proportional 10% floor above that.
func scaledThreshold(n int, standard int) int {
	if n == 0 {
		return 0
	}
	switch {
	case n < 3:
		return n
	case n < 10:
		return ceilPct(n, 0.8)
	case n < 30:
		return ceilPct(n, 0.5)
	case n < 200:
		if standard < n {
			return standard
		}
		return n
	default:
		return ceilPct(n, 0.10)
	}
}

func ceilPct(n int, pct float64) int {
	v := int(math.Ceil(float64(n) * pct))
	if v < 1 {
		v = 1
	}
	return v
}

func hashTokens(tokens []TokenID) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 8)
	for _, tok := range tokens {
		v := uint64(tok)
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}

// normalizeKey canonicalizes an SPDX license key for use as a map key, so
// that lookups are insensitive to case and surrounding whitespace.
func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
