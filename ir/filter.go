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
)

// Filter reads a comparison's column and literal operands and emits a
// `.filter(...)` fragment. A nullable column unwraps with is_some_and so
// that a missing value fails the predicate; a non-nullable column
// compares directly.
type Filter struct {
	Node *plan.Node // the Comparison node
}

func (f *Filter) Kind() Kind           { return KindFilter }
func (f *Filter) PlanNode() *plan.Node { return f.Node }
func (f *Filter) DoesAddStruct() bool  { return false }

func flipComparator(c plan.Comparator) plan.Comparator {
	switch c {
	case plan.CmpLT:
		return plan.CmpGT
	case plan.CmpLE:
		return plan.CmpGE
	case plan.CmpGT:
		return plan.CmpLT
	case plan.CmpGE:
		return plan.CmpLE
	default:
		return c
	}
}

// columnAndLiteral resolves a Comparison's two operands into the column
// being tested and the literal it is tested against, normalizing so the
// rendered predicate always reads "column op literal".
func columnAndLiteral(n *plan.Node) (col, lit *plan.Node, cmp plan.Comparator, err error) {
	left, right := n.Left, n.Right
	switch {
	case left.Kind == plan.KindColumnRef && right.Kind == plan.KindLiteral:
		return left, right, n.Comparator, nil
	case left.Kind == plan.KindLiteral && right.Kind == plan.KindColumnRef:
		return right, left, flipComparator(n.Comparator), nil
	default:
		return nil, nil, 0, compileerr.UnsupportedPlan.New(fmt.Sprintf("comparison must have exactly one column and one literal operand, got %s and %s", left.Kind, right.Kind))
	}
}

func (f *Filter) Emit(ctx *EmitContext) (string, error) {
	col, lit, cmp, err := columnAndLiteral(f.Node)
	if err != nil {
		return "", err
	}

	sch := ctx.Registry.Last()
	if sch == nil {
		return "", compileerr.MalformedPlan.New("filter has no preceding schema")
	}
	nullable, err := sch.IsColNullable(col.ColumnName)
	if err != nil {
		return "", err
	}

	op := cmp.String()
	litStr := formatLiteral(lit)
	binding := "x"
	if ctx.IsKeyed {
		binding = "(_, x)"
	}

	if nullable {
		return fmt.Sprintf(".filter(|%s| x.%s.clone().is_some_and(|v| v %s %s))", binding, col.ColumnName, op, litStr), nil
	}
	return fmt.Sprintf(".filter(|%s| x.%s %s %s)", binding, col.ColumnName, op, litStr), nil
}
