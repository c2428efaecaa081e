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

// ahoNode is one state of the token-level Aho-Corasick automaton. Unlike
// the textbook byte-oriented construction, the alphabet here is TokenID:
// every rule's full TextTokens sequence is a pattern, so a single pass over
// a query run reports every whole-rule occurrence regardless of length or
// overlap. Multi-pattern automaton libraries in the wider ecosystem assume
// a byte/string alphabet, so this is a from-scratch construction rather
// than an imported library.
type ahoNode struct {
	children map[TokenID]int
	fail     int
	output   []int // rids whose pattern ends at this node
}

type ahoAutomaton struct {
	nodes []ahoNode
}

// buildAho inserts every rule's TextTokens sequence into a trie and wires
// failure links breadth-first, the standard Aho-Corasick construction.
func buildAho(rules []*Rule) *ahoAutomaton {
	a := &ahoAutomaton{nodes: []ahoNode{{children: map[TokenID]int{}}}}

	for _, rule := range rules {
		if len(rule.TextTokens) == 0 {
			continue
		}
		cur := 0
		for _, tok := range rule.TextTokens {
			next, ok := a.nodes[cur].children[tok]
			if !ok {
				a.nodes = append(a.nodes, ahoNode{children: map[TokenID]int{}})
				next = len(a.nodes) - 1
				a.nodes[cur].children[tok] = next
			}
			cur = next
		}
		a.nodes[cur].output = append(a.nodes[cur].output, rule.Rid)
	}

	const root = 0
	var queue []int
	for _, v := range a.nodes[root].children {
		a.nodes[v].fail = root
		queue = append(queue, v)
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for tok, v := range a.nodes[u].children {
			queue = append(queue, v)

			f := a.nodes[u].fail
			for f != root {
				if _, ok := a.nodes[f].children[tok]; ok {
					break
				}
				f = a.nodes[f].fail
			}
			if next, ok := a.nodes[f].children[tok]; ok && next != v {
				a.nodes[v].fail = next
			} else {
				a.nodes[v].fail = root
			}
			a.nodes[v].output = append(a.nodes[v].output, a.nodes[a.nodes[v].fail].output...)
		}
	}

	return a
}

// step follows goto/fail transitions for one token, always landing on a
// valid state (root if nothing matches).
func (a *ahoAutomaton) step(state int, tok TokenID) int {
	for state != 0 {
		if next, ok := a.nodes[state].children[tok]; ok {
			return next
		}
		state = a.nodes[state].fail
	}
	if next, ok := a.nodes[0].children[tok]; ok {
		return next
	}
	return 0
}

// matchAho runs idx's automaton over every query run, reporting one Match
// per (rule, end-position) hit. The GPL bare-word family is filtered here,
// at the hit: a rule in that family matching at matched_length <= 3 is pure
// noise. Refinement's filterShortGPL applies a similar check to every
// matcher's output.
func matchAho(idx *Index, q *Query) []*Match {
	var out []*Match

	for _, run := range q.Runs {
		state := 0
		for i, tok := range run.Tokens {
			state = idx.aho.step(state, tok)

			for _, rid := range idx.aho.nodes[state].output {
				rule := idx.Rules[rid]
				if rule.isGPLBareWordFamily() && rule.Length <= 3 {
					continue
				}
				start := run.Start + i + 1 - rule.Length
				if start < run.Start {
					continue
				}
				qspan := NewSpanSet(Span{Start: start, End: run.Start + i + 1})
				ispan := NewSpanSet(Span{Start: 0, End: rule.Length})
				out = append(out, newMatch(idx, MatcherAho, rule, qspan, ispan, q))
			}
		}
	}

	return out
}
