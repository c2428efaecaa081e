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

// detectionGap is the maximum token distance between two matches' qspans
// that still counts as "the same occurrence" for grouping purposes. It's
// wider than mergeSameRule's own-rule gap because different
// rules legitimately sit a sentence or two apart within one license notice
// (e.g. a notice clause followed by a warranty disclaimer rule).
const detectionGap = 8

// Detection is one user-facing license finding: a license expression
// composed from one or more refined Matches that sit close enough together
// in the file to be considered a single occurrence.
type Detection struct {
	LicenseExpression string
	Matches           []*Match
	StartLine         int
	EndLine           int
}

// assembleDetections groups refined matches into Detections and composes
// each group's license expression, sorting matches by qspan start and
// splitting wherever the gap to the next match exceeds detectionGap;
// within a group, matches naming the same expression collapse, and
// differing expressions combine with AND.
func assembleDetections(matches []*Match) []Detection {
	if len(matches) == 0 {
		return nil
	}

	sorted := append([]*Match{}, matches...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].QSpan.Min() != sorted[j].QSpan.Min() {
			return sorted[i].QSpan.Min() < sorted[j].QSpan.Min()
		}
		return sorted[i].Kind.priority() > sorted[j].Kind.priority()
	})

	var groups [][]*Match
	cur := []*Match{sorted[0]}
	for _, m := range sorted[1:] {
		prev := cur[len(cur)-1]
		gap := m.QSpan.Min() - prev.QSpan.Max()
		if gap <= detectionGap {
			cur = append(cur, m)
			continue
		}
		groups = append(groups, cur)
		cur = []*Match{m}
	}
	groups = append(groups, cur)

	out := make([]Detection, 0, len(groups))
	for _, g := range groups {
		out = append(out, composeDetection(g))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartLine != out[j].StartLine {
			return out[i].StartLine < out[j].StartLine
		}
		return out[i].Matches[0].QSpan.Min() < out[j].Matches[0].QSpan.Min()
	})

	return out
}

// composeDetection builds a Detection's license expression from its
// matches' rule expressions: identical expressions collapse to one, and
// distinct ones combine with AND. Overlapping matches from different rules
// with identical license expressions both appear in Detection.Matches;
// they are never merged across rules.
func composeDetection(matches []*Match) Detection {
	var exprs []*Expression
	seen := map[string]bool{}
	for _, m := range matches {
		if seen[m.LicenseExpression] {
			continue
		}
		seen[m.LicenseExpression] = true
		parsed, err := ParseExpression(m.LicenseExpression)
		if err != nil || parsed == nil {
			parsed = AtomExpr(m.LicenseExpression, false, "")
		}
		exprs = append(exprs, parsed)
	}

	var combined *Expression
	if len(exprs) == 1 {
		combined = exprs[0]
	} else {
		combined = AndExpr(exprs...)
	}

	d := Detection{
		LicenseExpression: combined.String(),
		Matches:           matches,
	}
	for _, m := range matches {
		if d.StartLine == 0 || (m.StartLine != 0 && m.StartLine < d.StartLine) {
			d.StartLine = m.StartLine
		}
		if m.EndLine > d.EndLine {
			d.EndLine = m.EndLine
		}
	}
	return d
}
