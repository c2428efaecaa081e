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
//
// SPDX-License-Identifier: Apache-2.0

// Package license implements the multi-matcher license detection engine: it
// indexes a corpus of license rules and, given a file's bytes, returns the
// set of license detections found inside it. Loading the rule corpus and
// building the index happens once per process; detecting licenses in a
// query document is a pure function of that immutable index and the bytes
// handed in, so it is safe to call concurrently from many goroutines.
//
// The pipeline is: load the rule corpus once with LoadCorpus, Build an Index
// from it once, then for every file call Detect(index, data). Detect
// tokenizes the file into a Query, runs the hash, spdx-lid, Aho-Corasick and
// sequence matchers over it, refines and groups the resulting matches, and
// returns the file's Detections in deterministic order.
package license
