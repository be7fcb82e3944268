// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package notary

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Reason describes why a block failed validation.
type Reason string

// Validation failure reasons.
const (
	ReasonLinkMismatch       Reason = "link-mismatch"
	ReasonDigestMismatch     Reason = "digest-mismatch"
	ReasonIndexMismatch      Reason = "index-mismatch"
	ReasonDifficultyMismatch Reason = "difficulty-mismatch"
	ReasonLookupMismatch     Reason = "lookup-mismatch"
)

// Violation is a single integrity failure found at a block position.
type Violation struct {
	Index    uint64
	Reason   Reason
	Expected string
	Actual   string
}

func (v Violation) Error() string {
	return fmt.Sprintf("invalid at index %d, reason %s (expected: %s, actual: %s)", v.Index, v.Reason, v.Expected, v.Actual)
}

// Report is the outcome of walking a chain. An empty list of violations
// means the chain is intact.
type Report struct {
	Length     int
	Violations []Violation
}

// Valid returns whether no violation was found.
func (r Report) Valid() bool {
	return len(r.Violations) == 0
}

// First returns the earliest violation, if any.
func (r Report) First() (Violation, bool) {
	if len(r.Violations) == 0 {
		return Violation{}, false
	}
	return r.Violations[0], true
}

// Merge returns a report holding the violations of both reports. The length
// of the receiver is kept.
func (r Report) Merge(other Report) Report {
	merged := Report{
		Length:     r.Length,
		Violations: make([]Violation, 0, len(r.Violations)+len(other.Violations)),
	}
	merged.Violations = append(merged.Violations, r.Violations...)
	merged.Violations = append(merged.Violations, other.Violations...)
	if len(merged.Violations) == 0 {
		merged.Violations = nil
	}
	return merged
}

// Err folds all violations into a single error, or returns nil for a valid
// report.
func (r Report) Err() error {
	var errs error
	for _, violation := range r.Violations {
		errs = multierror.Append(errs, violation)
	}
	return errs
}
