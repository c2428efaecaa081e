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

// Detect runs the full matcher pipeline over data against idx and returns
// the final, refined Detections: BuildQuery, every matcher, refine, and
// detection assembly, in that order.
//
// A panic from any matcher is recovered and turned into a nil result rather
// than propagated, so one malformed file can never take down a batch scan;
// Logf, if set, is called with the recovered value.
func Detect(idx *Index, data []byte, logf Logf) (detections []Detection) {
	defer func() {
		if r := recover(); r != nil {
			logf.logf("license: recovered panic during detection: %v", r)
			detections = nil
		}
	}()

	if idx == nil {
		return nil
	}

	q := BuildQuery(idx, data)

	var matches []*Match
	matches = append(matches, matchHash(idx, q)...)
	matches = append(matches, matchSPDX(idx, data, q)...)
	matches = append(matches, matchAho(idx, q)...)
	matches = append(matches, matchSeq(idx, q)...)

	matches = refine(idx, matches)

	return assembleDetections(matches)
}
