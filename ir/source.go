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

package ir

import (
	"fmt"

	"github.com/carloronconi/noirgen/plan"
	"github.com/carloronconi/noirgen/schema"
)

// Source starts a new branch of the pipeline. It registers a fresh source
// schema, closes out whichever branch preceded it via
// Registry.TransformCompleted, and emits the `let` statement binding a
// stream variable to a CSV source parameterized by that schema.
type Source struct {
	Node   *plan.Node
	Schema *schema.Schema
}

func (s *Source) Kind() Kind           { return KindSource }
func (s *Source) PlanNode() *plan.Node { return s.Node }
func (s *Source) DoesAddStruct() bool  { return true }

// VarName is the stream variable this Source binds, valid only after
// Emit has run.
func (s *Source) VarName() string {
	if s.Schema == nil {
		return ""
	}
	return "s" + s.Schema.ShortName
}

func (s *Source) Emit(ctx *EmitContext) (string, error) {
	if ctx.Registry.Last() != nil {
		ctx.Registry.TransformCompleted()
	}
	s.Schema = ctx.Registry.FromTable(s.Node)

	path := s.Node.TableName
	if ctx.TablePath != nil {
		if p := ctx.TablePath(s.Node.TableName); p != "" {
			path = p
		}
	}

	return fmt.Sprintf("let %s = ctx.stream_csv::<%s>(\"%s\");\n", s.VarName(), s.Schema.StructName(), path), nil
}
