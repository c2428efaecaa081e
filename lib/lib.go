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

// Package lib contains the core runner logic shared by every frontend
// (currently just the CLI) that wants to scan a set of files against a set
// of backends.
package lib

import (
	"context"
	"errors"
	"sync"

	"github.com/jshubin/licensescan/interfaces"
	"github.com/jshubin/licensescan/util/errwrap"
)

// File is one unit of work: a logical path (used as the result-set key and
// for display) paired with its contents.
type File struct {
	Path string
	Data []byte
}

// Core is the core runner logic that is used by the CLI frontend. A Core is
// intentionally shaped around already-loaded file contents rather than a
// filesystem/archive/git traversal: discovering *which* files to scan is a
// concern of the caller (cmd/licensescan walks a directory tree with
// filepath.WalkDir), not of this package.
type Core struct {
	Debug bool
	Logf  func(format string, v ...interface{})

	// Backends represents the list of backends to run for this execution.
	// There's nothing stopping you from initializing the same backend
	// multiple times with different input parameters, as long as it's
	// thread-safe.
	Backends []interfaces.DataBackend

	// ShutdownOnError makes Run cancel its context on the first backend
	// error. Run does not return early: it still waits for every file's
	// goroutine and returns all collected errors at the end, and each file
	// reached after the cancellation adds the context's error to them.
	ShutdownOnError bool
}

// Init validates the core struct before use.
func (obj *Core) Init(ctx context.Context) error {
	i := 0
	for _, backend := range obj.Backends {
		if _, ok := backend.(interfaces.SetupBackend); ok {
			i++
		}
	}
	obj.Logf("setting up %d backends...", i)
	for _, backend := range obj.Backends {
		sb, ok := backend.(interfaces.SetupBackend)
		if !ok {
			continue
		}
		if err := sb.Setup(ctx); err != nil {
			return errwrap.Wrapf(err, "backend %s setup failed", sb.String())
		}
	}
	return nil
}

// Run scans every file against every backend and returns the merged result
// set. Each file gets its own goroutine, which runs the backends over it
// one after another; files are processed concurrently, bounded only by Go's
// scheduler, since each backend call is expected to be a fast in-memory
// operation.
func (obj *Core) Run(ctx context.Context, files []File) (interfaces.ResultSet, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(interfaces.ResultSet)
	var mu sync.Mutex
	var errs []error
	var errsMu sync.Mutex

	obj.Logf("scanning %d files with %d backends...", len(files), len(obj.Backends))

	var wg sync.WaitGroup
	for _, f := range files {
		select {
		case <-ctx.Done():
			errsMu.Lock()
			errs = append(errs, ctx.Err())
			errsMu.Unlock()
		default:
		}

		wg.Add(1)
		go func(f File) {
			defer wg.Done()

			info := &interfaces.Info{UID: f.Path}
			perFile := make(map[interfaces.Backend]*interfaces.Result)

			for _, backend := range obj.Backends {
				if obj.Debug {
					obj.Logf("scanning: %s (%s)", f.Path, backend)
				}
				result, err := backend.ScanData(ctx, f.Data, info)
				// We want to ignore the ErrUnknownLicense results, and error
				// if we hit any actual errors that should bubble upwards.
				if err != nil && !errors.Is(err, interfaces.ErrUnknownLicense) {
					errsMu.Lock()
					errs = append(errs, errwrap.Wrapf(err, "backend %s failed on %s", backend, f.Path))
					errsMu.Unlock()
					if obj.ShutdownOnError {
						cancel()
					}
					continue
				}
				if err != nil {
					continue // ErrUnknownLicense: no result for this backend
				}
				if result == nil {
					continue
				}
				tagResultBackend(result, backend)
				perFile[backend] = result
			}

			if len(perFile) == 0 {
				return
			}
			mu.Lock()
			results[f.Path] = perFile
			mu.Unlock()
		}(f)
	}
	wg.Wait()

	if len(errs) > 0 {
		var ea error
		for _, e := range errs {
			ea = errwrap.Append(ea, e)
		}
		return results, errwrap.Wrapf(ea, "core run errored")
	}

	return results, nil
}

func tagResultBackend(result *interfaces.Result, backend interfaces.Backend) {
	if result.Meta == nil {
		result.Meta = &interfaces.Meta{}
	}
	result.Meta.Backend = backend
	for _, x := range result.More {
		tagResultBackend(x, backend)
	}
}
