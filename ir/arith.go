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

// operand resolves a BinaryArithmetic operand (a column reference or a
// literal) into its Rust expression text, whether it is a column, and,
// if so, its name.
func operand(n *plan.Node) (ref string, isColumn bool, name string) {
	if n.Kind == plan.KindColumnRef {
		return "x." + n.ColumnName, true, n.ColumnName
	}
	return formatLiteral(n), false, ""
}

// arithExpr renders left op right against sch, lifting through Option
// when either operand is a nullable column (§4.5 Map). It returns the
// rendered expression and whether the result is nullable.
func arithExpr(left, right *plan.Node, op plan.ArithOp, sch *schema.Schema) (expr string, nullable bool, err error) {
	leftRef, leftIsCol, leftName := operand(left)
	rightRef, rightIsCol, rightName := operand(right)

	leftNullable, rightNullable := false, false
	if leftIsCol {
		leftNullable, err = sch.IsColNullable(leftName)
		if err != nil {
			return "", false, err
		}
	}
	if rightIsCol {
		rightNullable, err = sch.IsColNullable(rightName)
		if err != nil {
			return "", false, err
		}
	}

	opStr := op.String()
	switch {
	case !leftNullable && !rightNullable:
		expr = fmt.Sprintf("%s %s %s", leftRef, opStr, rightRef)
	case leftNullable && !rightNullable:
		expr = fmt.Sprintf("%s.map(|v| v %s %s)", leftRef, opStr, rightRef)
	case !leftNullable && rightNullable:
		expr = fmt.Sprintf("%s.map(|v| %s %s v)", rightRef, leftRef, opStr)
	default:
		expr = fmt.Sprintf("%s.zip(%s).map(|(a, b)| a %s b)", leftRef, rightRef, opStr)
	}
	return expr, leftNullable || rightNullable, nil
}

func copyFieldsExpr(cols []schema.Column) string {
	s := ""
	for _, c := range cols {
		s += fmt.Sprintf("%s: x.%s, ", c.Name, c.Name)
	}
	return s
}

func bindingFor(isKeyed bool) string {
	if isKeyed {
		return "(_, x)"
	}
	return "x"
}
