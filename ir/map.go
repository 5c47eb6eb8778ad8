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

// Map is an Alias whose child is a BinaryArithmetic. It copies every
// previous column unchanged and appends one computed column, lifting the
// arithmetic through Option when either operand is a nullable column.
type Map struct {
	Node *plan.Node // the Alias node
}

func (m *Map) Kind() Kind           { return KindMap }
func (m *Map) PlanNode() *plan.Node { return m.Node }
func (m *Map) DoesAddStruct() bool  { return true }

func (m *Map) Emit(ctx *EmitContext) (string, error) {
	prev := ctx.Registry.Last()
	if prev == nil {
		return "", compileerr.MalformedPlan.New("map has no preceding schema")
	}
	if len(m.Node.Children) != 1 || m.Node.Children[0].Kind != plan.KindBinaryArithmetic {
		return "", compileerr.UnsupportedPlan.New("map alias must wrap a binary arithmetic expression")
	}
	bin := m.Node.Children[0]

	expr, nullable, err := arithExpr(bin.Left, bin.Right, bin.ArithOp, prev)
	if err != nil {
		return "", err
	}

	newCols := append(append([]schema.Column(nil), prev.Columns...), schema.Column{
		Name:     m.Node.AliasName,
		Type:     m.Node.AliasType,
		Nullable: nullable,
	})
	newSchema := ctx.Registry.FromArgs(newCols)

	return fmt.Sprintf(".map(|%s| %s{ %s%s: %s })",
		bindingFor(ctx.IsKeyed), newSchema.StructName(), copyFieldsExpr(prev.Columns), m.Node.AliasName, expr), nil
}
