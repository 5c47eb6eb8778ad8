// Copyright 2026 The Noirgen Authors.
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

// Package compileerr declares the closed set of error kinds a compilation
// can fail with. Each kind is fatal for the current compilation; the core
// performs no local retries.
package compileerr

import "gopkg.in/src-d/go-errors.v1"

var (
	// MalformedPlan is returned for a structural error in the input plan:
	// an unknown column, a cycle, or a missing required child.
	MalformedPlan = errors.NewKind("malformed plan: %s")

	// UnsupportedPlan is returned for a well-formed plan construct the IR
	// does not cover: an unknown reducer, comparator, join kind, or window
	// shape.
	UnsupportedPlan = errors.NewKind("unsupported plan construct: %s")

	// SchemaMismatch is returned when a source table's CSV header or types
	// disagree with the plan's declared schema.
	SchemaMismatch = errors.NewKind("schema mismatch for table %q: %s")

	// ToolchainMissing is returned when an external binary invocation
	// failed to start.
	ToolchainMissing = errors.NewKind("required external tool not found: %s")

	// ExternalCompileError is returned when the external compiler exits
	// non-zero.
	ExternalCompileError = errors.NewKind("external compiler failed: %s")

	// ExternalRunError is returned when the emitted program exits
	// non-zero or panics.
	ExternalRunError = errors.NewKind("emitted program failed: %s")

	// IOError is returned when a file read or write fails.
	IOError = errors.NewKind("io error: %s")
)
