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

const (
	// seqMaxPasses bounds how many candidate rules the sequence matcher
	// will try per run, so a pathological file (every token also a
	// legalese token) can't make detection run unboundedly long.
	seqMaxPasses = 50

	// seqMaxBlockExtension bounds how many adjacent junk/stopword
	// positions bestSeqMatch will absorb on each side of a found block,
	// so a long coincidental run of common junk tokens can't inflate a
	// match far past the legalese content that actually anchors it.
	seqMaxBlockExtension = 10

	// seqMaxBlocks bounds how many non-contiguous common blocks the
	// divide-and-conquer search unions into a single match, so a
	// pathological input can't recurse unboundedly.
	seqMaxBlocks = 5
)

// matchSeq finds approximate, non-exact occurrences of a rule's text within
// a query run using a longest-common-subsequence block finder, tolerating
// small insertions/substitutions a verbatim matcher like Aho-Corasick would
// miss entirely. It never short-circuits on the presence of earlier,
// higher-coverage matches from other matchers: every candidate rule
// sharing enough high-value tokens with the run is tried.
func matchSeq(idx *Index, q *Query) []*Match {
	var out []*Match

	for _, run := range q.Runs {
		candidates := candidateRules(idx, run.Tokens)
		passes := 0
		for _, rid := range candidates {
			if passes >= seqMaxPasses {
				break
			}
			passes++
			rule := idx.Rules[rid]
			if m := bestSeqMatch(idx, rule, run, q); m != nil {
				out = append(out, m)
			}
		}
	}

	return out
}

// candidateRules returns rule ids sharing at least
// MinHighMatchedLengthUnique distinct high-value tokens with run, ordered by
// shared-token count descending so the most promising candidates are tried
// first within the seqMaxPasses budget.
func candidateRules(idx *Index, tokens []TokenID) []int {
	runHigh := map[TokenID]bool{}
	for _, tok := range tokens {
		if idx.IsLegalese(tok) {
			runHigh[tok] = true
		}
	}
	if len(runHigh) == 0 {
		return nil
	}

	shared := map[int]int{}
	for tok := range runHigh {
		for rid, sets := range idx.ruleSets {
			if _, ok := sets.highSet[tok]; ok {
				shared[rid]++
			}
		}
	}

	type cand struct {
		rid   int
		count int
	}
	var cands []cand
	for rid, count := range shared {
		rule := idx.Rules[rid]
		if count >= rule.MinHighMatchedLengthUnique && rule.MinHighMatchedLengthUnique > 0 {
			cands = append(cands, cand{rid: rid, count: count})
		}
	}
	// Deterministic order: most shared tokens first, then rid for ties.
	for i := 1; i < len(cands); i++ {
		for j := i; j > 0 && (cands[j].count > cands[j-1].count ||
			(cands[j].count == cands[j-1].count && cands[j].rid < cands[j-1].rid)); j-- {
			cands[j], cands[j-1] = cands[j-1], cands[j]
		}
	}

	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.rid
	}
	return out
}

// bestSeqMatch finds the longest common contiguous blocks between
// rule.TextTokens and run.Tokens via a bounded divide-and-conquer search
// (findBlocks), extends each block through a bounded run of adjacent
// junk/stopword positions that correspond one-for-one between rule and run,
// unions every block's span into a single match, and validates the result
// against rule's thresholds.
func bestSeqMatch(idx *Index, rule *Rule, run QueryRun, q *Query) *Match {
	a, b := rule.TextTokens, run.Tokens

	var blocks []commonBlock
	findBlocks(a, b, 0, len(a), 0, len(b), &blocks, seqMaxBlocks)
	if len(blocks) == 0 {
		return nil
	}

	var ispan, qspan SpanSet
	for _, blk := range blocks {
		iStart, iEnd := blk.aStart, blk.aStart+blk.length
		qStart, qEnd := blk.bStart, blk.bStart+blk.length

		for n := 0; n < seqMaxBlockExtension && qStart > 0 && iStart > 0 &&
			a[iStart-1] == b[qStart-1] && !idx.IsLegalese(a[iStart-1]); n++ {
			qStart--
			iStart--
		}
		for n := 0; n < seqMaxBlockExtension && qEnd < len(b) && iEnd < len(a) &&
			a[iEnd] == b[qEnd] && !idx.IsLegalese(a[iEnd]); n++ {
			qEnd++
			iEnd++
		}

		ispan = ispan.Union(NewSpanSet(Span{Start: iStart, End: iEnd}))
		qspan = qspan.Union(NewSpanSet(Span{Start: run.Start + qStart, End: run.Start + qEnd}))
	}

	matchedLength := ispan.Len()
	if matchedLength < rule.MinMatchedLength {
		return nil
	}

	return newMatch(idx, MatcherSeq, rule, qspan, ispan, q)
}

type commonBlock struct {
	aStart, bStart, length int
}

// findBlocks locates the longest common block within a[aLo:aHi] vs.
// b[bLo:bHi], then recurses into the unmatched prefix and suffix on either
// side of it, collecting up to max non-contiguous blocks in left-to-right
// order. This is the bounded divide-and-conquer step: a rule whose wording
// was matched around an inserted or substituted clause isn't representable
// by a single contiguous block.
func findBlocks(a, b []TokenID, aLo, aHi, bLo, bHi int, out *[]commonBlock, max int) {
	if len(*out) >= max || aLo >= aHi || bLo >= bHi {
		return
	}
	block := longestCommonBlock(a[aLo:aHi], b[bLo:bHi])
	if block.length == 0 {
		return
	}
	block.aStart += aLo
	block.bStart += bLo

	findBlocks(a, b, aLo, block.aStart, bLo, block.bStart, out, max)
	if len(*out) < max {
		*out = append(*out, block)
	}
	findBlocks(a, b, block.aStart+block.length, aHi, block.bStart+block.length, bHi, out, max)
}

// longestCommonBlock finds the longest contiguous run shared by a and b.
// Rule and run sizes in this engine's corpus (individual rule texts,
// single files) keep a direct O(len(a)*len(b)) scan bounded in practice; a
// Hirschberg-style divide-and-conquer scan would use less memory but adds
// complexity this workload doesn't need.
func longestCommonBlock(a, b []TokenID) commonBlock {
	if len(a) == 0 || len(b) == 0 {
		return commonBlock{}
	}

	best := commonBlock{}
	for i := 0; i < len(a); i++ {
		if len(a)-i <= best.length {
			break
		}
		for j := 0; j < len(b); j++ {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > best.length {
				best = commonBlock{aStart: i, bStart: j, length: k}
			}
		}
	}
	return best
}
