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
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// spdxTagPattern matches the SPDX-License-Identifier tag case-insensitively,
// since the SPDX specification's documented variants are not required to
// use the canonical casing.
var spdxTagPattern = regexp.MustCompile(`(?i)SPDX-License-Identifier:`)

// stripTrash removes the comment decoration that typically surrounds an
// SPDX tag (leading '#', '//', '/*', '*', trailing '*/', '-->') so the
// remainder is just the license expression text.
var stripTrash = regexp.MustCompile(`(?:^[\s#*/-]*|[\s*/-]*(?:-->?)?\s*$)`)

// matchSPDX scans data line-by-line for the SPDX-License-Identifier tag and
// parses the trailing text as a full license expression. Unlike the other
// matchers this one works directly against source lines rather than the
// token stream, because an SPDX expression's operators and parens carry
// meaning the tokenizer deliberately discards.
//
// One directive yields one Match, carrying the whole parsed expression
// (with its AND/OR structure intact) rather than one Match per atom: a
// directive like "MIT OR Apache-2.0" composes to a single "OR" detection,
// it never decomposes into two matches that would collide at the same span
// during overlap resolution.
func matchSPDX(idx *Index, data []byte, q *Query) []*Match {
	var out []*Match

	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		loc := spdxTagPattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		rest := text[loc[1]:]
		rest = stripTrash.ReplaceAllString(rest, "")
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}

		expr, err := ParseExpression(rest)
		if err != nil {
			continue
		}

		resolved, rids := resolveSPDXExpr(idx, expr)
		if resolved == nil {
			continue
		}

		pos := q.posForLine(line)
		rule := idx.Rules[rids[0]]
		qspan := NewSpanSet(Span{Start: pos, End: pos + 1})
		ispan := NewSpanSet(Span{Start: 0, End: rule.Length})
		m := newMatch(idx, MatcherSPDX, rule, qspan, ispan, q)
		m.LicenseExpression = resolved.Normalize().String()
		m.MatchedLength = ispan.Len()
		m.MatchCoverage = 100
		m.StartLine, m.EndLine = line, line
		m.IsLicenseIntro = false
		m.IsDeprecated = false
		out = append(out, m)
	}

	return out
}

// resolveSPDXExpr resolves every atom in expr against idx's SPDX key table,
// dropping atoms that don't resolve to a known, non-deprecated rule while
// preserving the surrounding AND/OR structure. Each surviving atom's key is
// replaced by the license expression of the rule it resolved to (e.g. "MIT"
// becomes "mit"), so spdx-lid detections use the same keys as every other
// matcher. It returns nil if no atom
// resolves at all, and the rule ids behind every atom that survived (in
// left-to-right order) otherwise.
func resolveSPDXExpr(idx *Index, expr *Expression) (*Expression, []int) {
	if expr == nil {
		return nil, nil
	}
	if expr.Op == ExprAtom {
		rid, ok := idx.spdxKeyToRid[normalizeKey(expr.License)]
		if !ok || idx.Rules[rid].IsDeprecated {
			return nil, nil
		}
		cp := *expr
		if le := idx.Rules[rid].LicenseExpression; le != "" {
			cp.License = le
		}
		return &cp, []int{rid}
	}

	var children []*Expression
	var rids []int
	for _, c := range expr.Children {
		rc, crids := resolveSPDXExpr(idx, c)
		if rc == nil {
			continue
		}
		children = append(children, rc)
		rids = append(rids, crids...)
	}
	switch len(children) {
	case 0:
		return nil, nil
	case 1:
		return children[0], rids
	default:
		return &Expression{Op: expr.Op, Children: children}, rids
	}
}

// posForLine returns the token position of the first token on the given
// source line. If the line has no tokens it returns the position of the
// first token on a later line, or the length of the token stream if no
// later line has one.
func (q *Query) posForLine(line int) int {
	for i, l := range q.tokenLine {
		if l == line {
			return i
		}
		if l > line {
			return i
		}
	}
	return len(q.tokenLine)
}
