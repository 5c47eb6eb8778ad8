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

// Package schema maintains the sequence of row schemas ("structs") that
// appear along a compilation's pipeline: the Schema Registry of §4.3.
package schema

import (
	"fmt"

	"github.com/carloronconi/noirgen/compileerr"
	"github.com/carloronconi/noirgen/plan"
)

// Column is one (name, type, nullable) triple of a Schema.
type Column struct {
	Name     string
	Type     plan.ColType
	Nullable bool
}

// Schema is a named, ordered list of typed, possibly-nullable columns
// describing the records flowing at one pipeline position. ID is a
// monotonically increasing identity assigned at registration time; two
// Schemas never share an ID within one compilation. LongName is the
// table's logical name for a source schema, and otherwise a synthesized
// label kept only for diagnostics; ShortName is the identifier used to
// name the schema's Rust struct and the stream variable carrying it in
// emitted code.
type Schema struct {
	ID        int
	LongName  string
	ShortName string
	Columns   []Column
}

// StructName is the emitted Rust struct name for this Schema.
func (s *Schema) StructName() string {
	return "Cols" + s.ShortName
}

// IndexOf returns the position of name in Columns, or -1 if absent.
func (s *Schema) IndexOf(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// IsColNullable reports whether name is nullable in s. It is only
// well-defined when s actually contains name; a reference to an unknown
// column is a MalformedPlan.
func (s *Schema) IsColNullable(name string) (bool, error) {
	i := s.IndexOf(name)
	if i < 0 {
		return false, compileerr.MalformedPlan.New(fmt.Sprintf("column %q not found in schema %s", name, s.StructName()))
	}
	return s.Columns[i].Nullable, nil
}

// Registry is the ordered collection of Schemas produced over the lifetime
// of one compilation. Its zero value is an empty Registry, the same one
// NewRegistry returns. A Registry must not be reused across compilations - the
// schema-id counter it owns is scoped to exactly one.
type Registry struct {
	schemas               []*Schema
	nextID                int
	last                  *Schema
	lastCompleteTransform *Schema
}

// NewRegistry returns an empty Registry with its id counter reset to zero.
func NewRegistry() *Registry {
	return &Registry{}
}

// All returns every Schema registered so far, in registration order.
func (r *Registry) All() []*Schema {
	return r.schemas
}

// Last returns the schema currently feeding the next operator, or nil if
// no schema has been registered yet.
func (r *Registry) Last() *Schema {
	return r.last
}

// LastCompleteTransform returns the last schema that closed a per-table
// transformation chain - the schema a join consults to identify its
// left-hand input (the branch finished before the right-hand one began).
func (r *Registry) LastCompleteTransform() *Schema {
	return r.lastCompleteTransform
}

// TransformCompleted marks the current Last as LastCompleteTransform. It
// is called by the Source operator to record that the preceding branch of
// an upcoming join is finished.
func (r *Registry) TransformCompleted() {
	r.lastCompleteTransform = r.last
}

func (r *Registry) register(s *Schema) *Schema {
	s.ID = r.nextID
	r.nextID++
	if s.ShortName == "" {
		s.ShortName = fmt.Sprintf("%d", s.ID)
	}
	r.schemas = append(r.schemas, s)
	r.last = s
	return s
}

// FromTable registers the source schema of a TableScan plan node: one
// column per declared table column, names/types/nullability taken as-is
// from the plan (never inferred).
func (r *Registry) FromTable(node *plan.Node) *Schema {
	cols := make([]Column, len(node.TableSchema))
	for i, c := range node.TableSchema {
		cols[i] = Column{Name: c.Name, Type: c.Type, Nullable: c.Nullable}
	}
	return r.register(&Schema{LongName: node.TableName, Columns: cols})
}

// FromAggregation registers a schema taken from an Aggregation node's
// declared output: one column per name in that output schema, group keys
// first and aggregated outputs after, with types and nullability taken
// from it. LoneReduce and GroupReduce do not call it; they build their
// output schema with FromArgs.
func (r *Registry) FromAggregation(node *plan.Node) *Schema {
	cols := make([]Column, len(node.Output))
	for i, c := range node.Output {
		cols[i] = Column{Name: c.Name, Type: c.Type, Nullable: c.Nullable}
	}
	return r.register(&Schema{LongName: "agg", Columns: cols})
}

// FromArgs registers a free-form schema built from an explicit column
// list: used by Map (previous schema's columns plus one appended column)
// and by LoneReduce/GroupReduce's post-reduce rename.
func (r *Registry) FromArgs(cols []Column) *Schema {
	return r.register(&Schema{LongName: "args", Columns: append([]Column(nil), cols...)})
}

// FromJoin registers the composite schema of a Join: left's columns
// followed by right's, with any name collision in right suffixed
// "_right". kind governs which side's columns become nullable: inner
// preserves both sides' nullability; left widens every right column
// (key included) to nullable; outer widens both sides' non-key columns
// to nullable, leaving the leftKey/rightKey predicate columns as
// declared.
func (r *Registry) FromJoin(left, right *Schema, kind plan.JoinKind, leftKey, rightKey string) *Schema {
	seen := make(map[string]bool, len(left.Columns))
	cols := make([]Column, 0, len(left.Columns)+len(right.Columns))
	for _, c := range left.Columns {
		seen[c.Name] = true
		widen := kind == plan.JoinOuter && c.Name != leftKey
		cols = append(cols, Column{Name: c.Name, Type: c.Type, Nullable: c.Nullable || widen})
	}
	for _, c := range right.Columns {
		name := c.Name
		if seen[name] {
			name += "_right"
		}
		widen := kind == plan.JoinLeft || (kind == plan.JoinOuter && c.Name != rightKey)
		cols = append(cols, Column{Name: name, Type: c.Type, Nullable: c.Nullable || widen})
	}
	return r.register(&Schema{LongName: "join", Columns: cols})
}
