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

// Package ir declares the closed set of Operator IR node variants
// (§3, §4.5) and their emission rules. Each variant knows how to render
// the dataflow fragment implementing it, consulting the current schema
// and stream shape through an EmitContext built by the compiler driver.
package ir

import (
	"github.com/carloronconi/noirgen/plan"
	"github.com/carloronconi/noirgen/schema"
)

// Kind is the closed tag of an Operator. It is never extended by
// subclassing - a new operator variant means a new Kind and a new
// concrete type with its own Emit, not an open hierarchy (§9).
type Kind int

const (
	KindSource Kind = iota
	KindFilter
	KindMap
	KindLoneReduce
	KindGroupReduce
	KindJoin
	KindProject
	KindExplicitWindow
)

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "Source"
	case KindFilter:
		return "Filter"
	case KindMap:
		return "Map"
	case KindLoneReduce:
		return "LoneReduce"
	case KindGroupReduce:
		return "GroupReduce"
	case KindJoin:
		return "Join"
	case KindProject:
		return "Project"
	case KindExplicitWindow:
		return "ExplicitWindow"
	default:
		return "Unknown"
	}
}

// EmitContext carries the values an Operator's Emit needs that are not
// knowable when the operator is built: the shared Schema Registry, and
// this operator's resolved stream shape. LeftKeyed/RightKeyed are only
// meaningful for a Join.
type EmitContext struct {
	Registry    *schema.Registry
	IsKeyed     bool
	LeftKeyed   bool
	RightKeyed  bool
	TablePath   func(table string) string
}

// Operator is one node of the Operator IR: a closed, tagged set, not an
// open interface hierarchy (§9). Every variant carries a back-reference
// to the plan node it was classified from.
type Operator interface {
	Kind() Kind
	PlanNode() *plan.Node
	// DoesAddStruct reports whether Emit registers a new Schema.
	DoesAddStruct() bool
	// Emit renders this operator's dataflow fragment. For a Source, the
	// fragment is a complete `let` statement; for every other kind it is
	// a `.method(...)` continuation of the pipeline's chained expression.
	Emit(ctx *EmitContext) (string, error)
}
