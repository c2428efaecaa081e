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
	"sort"
	"strings"
	"unicode/utf8"
)

// QueryRun is a maximal contiguous stretch of Query.Tokens with no gap
// introduced by non-UTF-8 bytes. Matchers never cross a run boundary.
type QueryRun struct {
	Tokens []TokenID
	// Start is the index into Query.Tokens where this run begins.
	Start int
}

// Query is the tokenized, per-file input to the matchers. It is built once
// per file by BuildQuery and is read-only afterwards.
type Query struct {
	Tokens []TokenID
	Runs   []QueryRun

	// tokenLine[i] is the 1-based source line of Tokens[i].
	tokenLine []int
}

// LineForPos returns the 1-based source line a token position falls on.
func (q *Query) LineForPos(pos int) int {
	if pos < 0 || pos >= len(q.tokenLine) {
		return 0
	}
	return q.tokenLine[pos]
}

// BuildQuery tokenizes file content against idx's dictionary, producing the
// per-file Query the matchers operate on. Tokens absent from the dictionary
// are assigned idx.UnknownID() rather than dropped, so position alignment
// between Query.Tokens and source lines is preserved.
//
// Invalid UTF-8 breaks the current run: bytes are decoded with
// utf8.DecodeRuneInString, and utf8.RuneError splits the query into a new
// run rather than corrupting token boundaries. Word boundaries within a
// valid run are found with wordPattern, the same regex rule loading and
// required-phrase parsing use, so all three sites tokenize identically.
func BuildQuery(idx *Index, data []byte) *Query {
	text := string(data)
	newlines := newlineOffsets(text)

	q := &Query{}
	var curRun QueryRun

	flushWord := func(word string, offset int) {
		lower := strings.ToLower(word)
		if IsStopword(lower) {
			return
		}
		id, ok := idx.LookupToken(lower)
		if !ok {
			id = idx.UnknownID()
		}
		curRun.Tokens = append(curRun.Tokens, id)
		q.tokenLine = append(q.tokenLine, lineAt(newlines, offset))
	}

	breakRun := func() {
		if len(curRun.Tokens) > 0 {
			q.Runs = append(q.Runs, curRun)
			q.Tokens = append(q.Tokens, curRun.Tokens...)
		}
		curRun = QueryRun{Start: len(q.Tokens)}
	}

	segStart := 0
	pos := 0
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if r == utf8.RuneError && size <= 1 {
			tokenizeSegment(text[segStart:pos], segStart, flushWord)
			breakRun()
			pos++
			segStart = pos
			continue
		}
		pos += size
	}
	tokenizeSegment(text[segStart:], segStart, flushWord)
	breakRun()

	return q
}

// tokenizeSegment runs wordPattern over a maximal valid-UTF-8 segment of the
// query text, calling flush for each word with its absolute byte offset in
// the original text (base + the match's offset within segment).
func tokenizeSegment(segment string, base int, flush func(word string, offset int)) {
	for _, loc := range wordPattern.FindAllStringIndex(segment, -1) {
		flush(segment[loc[0]:loc[1]], base+loc[0])
	}
}

// newlineOffsets returns the byte offset of every '\n' in text, in order,
// for lineAt's binary search.
func newlineOffsets(text string) []int {
	var offs []int
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offs = append(offs, i)
		}
	}
	return offs
}

// lineAt returns the 1-based source line containing byte offset pos, given
// the newline offsets newlineOffsets produced.
func lineAt(newlines []int, pos int) int {
	return sort.Search(len(newlines), func(i int) bool { return newlines[i] >= pos }) + 1
}
