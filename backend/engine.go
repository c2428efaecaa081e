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

// Package backend contains the interfaces.Backend implementations.
package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/jshubin/licensescan/interfaces"
	"github.com/jshubin/licensescan/license"
	"github.com/jshubin/licensescan/util/errwrap"
	"github.com/jshubin/licensescan/util/licenses"
)

// Engine is the interfaces.DataBackend that wraps this codebase's license
// detection engine (package license). It loads its rule corpus once during
// Setup, and answers ScanData calls against the resulting immutable index.
type Engine struct {
	Debug bool
	Logf  func(format string, v ...interface{})

	// RulesPath is the root of the rule corpus: it must contain a
	// `licenses/` and/or `rules/` subdirectory laid out as described by
	// package license.
	RulesPath string

	// WithDeprecated includes deprecated rules in the loaded corpus.
	WithDeprecated bool

	mu    sync.Mutex
	index *license.Index
}

// String returns the name of this backend.
func (obj *Engine) String() string {
	return "license-engine"
}

// Setup loads and indexes the rule corpus. It must be called (and succeed)
// before ScanData is used.
func (obj *Engine) Setup(ctx context.Context) error {
	raw, licenseMeta, err := license.LoadCorpus(obj.RulesPath, license.LoadOptions{
		WithDeprecated: obj.WithDeprecated,
		Logf:           license.Logf(obj.Logf),
	})
	if err != nil {
		return errwrap.Wrapf(err, "error loading rule corpus from %s", obj.RulesPath)
	}

	idx, err := license.Build(raw, licenseMeta)
	if err != nil {
		return errwrap.Wrapf(err, "error building license index")
	}

	for _, lic := range licenseMeta {
		licenses.Register(lic.SPDXLicenseKey, lic.Name, lic.IsDeprecated)
	}

	obj.mu.Lock()
	obj.index = idx
	obj.mu.Unlock()

	obj.Logf("loaded %d rules", len(idx.Rules))
	return nil
}

// ScanData runs license detection over data and returns the result. If no
// license is detected, it returns interfaces.ErrUnknownLicense.
func (obj *Engine) ScanData(ctx context.Context, data []byte, info *interfaces.Info) (*interfaces.Result, error) {
	obj.mu.Lock()
	idx := obj.index
	obj.mu.Unlock()
	if idx == nil {
		return nil, fmt.Errorf("engine: Setup was not called")
	}

	if info != nil && info.FileInfo != nil && info.FileInfo.IsDir() {
		return nil, nil // directories carry no license text of their own
	}

	detections := license.Detect(idx, data, license.Logf(obj.Logf))
	if len(detections) == 0 {
		return nil, interfaces.ErrUnknownLicense
	}

	primary := detectionToResult(detections[0])
	for _, d := range detections[1:] {
		primary.More = append(primary.More, detectionToResult(d))
	}
	return primary, nil
}

func detectionToResult(d license.Detection) *interfaces.Result {
	lic, err := licenses.StringToLicense(d.LicenseExpression)
	if err != nil {
		lic = &licenses.License{Custom: d.LicenseExpression}
	}

	confidence := 0
	for _, m := range d.Matches {
		if m.MatchCoverage > confidence {
			confidence = m.MatchCoverage
		}
	}

	return &interfaces.Result{
		Licenses:   []*licenses.License{lic},
		Confidence: float64(confidence) / 100.0,
	}
}
