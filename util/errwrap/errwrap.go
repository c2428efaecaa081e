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

// Package errwrap is a small wrapper around github.com/pkg/errors that gives
// the rest of this codebase a single, consistent place to annotate and
// aggregate errors.
package errwrap

import (
	"strings"

	"github.com/pkg/errors"
)

// Wrapf annotates err with a formatted message, in the same style as
// github.com/pkg/errors.Wrapf. It returns nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Cause returns the underlying cause of err, unwrapping every Wrapf layer,
// matching github.com/pkg/errors.Cause.
func Cause(err error) error {
	return errors.Cause(err)
}

// multiError aggregates more than one error into a single error value.
type multiError struct {
	errs []error
}

func (m *multiError) Error() string {
	msgs := make([]string, len(m.errs))
	for i, e := range m.errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Append combines err with more, returning a single error that reports all
// of them. A nil err is discarded rather than producing a "<nil>; foo"
// message; a nil result is returned only if every argument is nil.
func Append(err error, more ...error) error {
	var errs []error
	if m, ok := err.(*multiError); ok {
		errs = append(errs, m.errs...)
	} else if err != nil {
		errs = append(errs, err)
	}
	for _, e := range more {
		if e == nil {
			continue
		}
		if m, ok := e.(*multiError); ok {
			errs = append(errs, m.errs...)
			continue
		}
		errs = append(errs, e)
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &multiError{errs: errs}
	}
}
