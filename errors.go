// Copyright 2014-2022 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package splay

import "github.com/cockroachdb/errors"

var (
	// ErrEmptyTree is returned by queries that need at least one key.
	ErrEmptyTree = errors.New("splay: empty tree")
	// ErrKeyNotFound is returned when removing a key that is not present.
	ErrKeyNotFound = errors.New("splay: key not found")
	// ErrKeyRangeOverlap is returned by Merge when the donor's smallest key is
	// not strictly greater than the receiver's largest key.
	ErrKeyRangeOverlap = errors.New("splay: merged key ranges overlap")
	// ErrInvariantViolation marks internal consistency faults. These signal a
	// bug in this package (or unsynchronized concurrent use), never bad input.
	ErrInvariantViolation = errors.New("splay: internal invariant violation")
)

// invariantViolation builds an assertion failure that also matches
// ErrInvariantViolation under errors.Is.
func invariantViolation(format string, args ...interface{}) error {
	return errors.Mark(errors.AssertionFailedf(format, args...), ErrInvariantViolation)
}

// must panics with err if it is non-nil. Used by operations whose signature
// has no error return; err can only be an invariant violation there.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
