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

	"github.com/carloronconi/noirgen/compileerr"
	"github.com/carloronconi/noirgen/plan"
	"github.com/carloronconi/noirgen/schema"
)

// Project selects a subset of the previous schema's columns, preserving
// their types and nullability, and emits a map constructing rows of the
// narrowed schema.
type Project struct {
	Node *plan.Node
}

func (p *Project) Kind() Kind           { return KindProject }
func (p *Project) PlanNode() *plan.Node { return p.Node }
func (p *Project) DoesAddStruct() bool  { return true }

func (p *Project) Emit(ctx *EmitContext) (string, error) {
	prev := ctx.Registry.Last()
	if prev == nil {
		return "", compileerr.MalformedPlan.New("project has no preceding schema")
	}

	newCols := make([]schema.Column, 0, len(p.Node.Columns))
	for _, col := range p.Node.Columns {
		nullable, err := prev.IsColNullable(col.ColumnName)
		if err != nil {
			return "", err
		}
		newCols = append(newCols, schema.Column{Name: col.ColumnName, Type: col.ColumnType, Nullable: nullable})
	}
	newSchema := ctx.Registry.FromArgs(newCols)

	fields := ""
	for _, c := range newCols {
		fields += fmt.Sprintf("%s: x.%s.clone(), ", c.Name, c.Name)
	}

	return fmt.Sprintf(".map(|%s| %s{ %s})", bindingFor(ctx.IsKeyed), newSchema.StructName(), fields), nil
}
