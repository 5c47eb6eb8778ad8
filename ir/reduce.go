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

// reducerOf returns the sole Reducer node wrapped by agg's single alias,
// and the alias's declared output name/type.
func reducerOf(agg *plan.Node) (*plan.Node, string, plan.ColType, error) {
	if len(agg.Aliases) != 1 {
		return nil, "", 0, compileerr.UnsupportedPlan.New("aggregation must have exactly one reducer alias")
	}
	alias := agg.Aliases[0]
	if len(alias.Children) != 1 || alias.Children[0].Kind != plan.KindReducer {
		return nil, "", 0, compileerr.UnsupportedPlan.New("aggregation alias must wrap a reducer")
	}
	return alias.Children[0], alias.AliasName, alias.AliasType, nil
}

func reduceExprOp(fn plan.ReduceFunc) (string, error) {
	switch fn {
	case plan.ReduceSum:
		return "+", nil
	case plan.ReduceMax:
		return "max", nil
	case plan.ReduceMin:
		return "min", nil
	case plan.ReduceFirst:
		return "first", nil
	default:
		return "", compileerr.UnsupportedPlan.New(fmt.Sprintf("unsupported reducer %s", fn))
	}
}

// nonNullableCombiner renders the closed-form combine expression for two
// merged non-nullable values a and b.
func nonNullableCombiner(fn plan.ReduceFunc, field string) (string, error) {
	switch fn {
	case plan.ReduceSum:
		return fmt.Sprintf("a.%s + b.%s", field, field), nil
	case plan.ReduceMax:
		return fmt.Sprintf("a.%s.max(b.%s)", field, field), nil
	case plan.ReduceMin:
		return fmt.Sprintf("a.%s.min(b.%s)", field, field), nil
	case plan.ReduceFirst:
		return fmt.Sprintf("a.%s", field), nil
	default:
		return "", compileerr.UnsupportedPlan.New(fmt.Sprintf("unsupported reducer %s", fn))
	}
}

// nullableCombiner renders the Option-lifted combine expression: missing
// iff both are missing (max/min/first), or per sum's identity where a
// missing operand behaves as though absent from the combination.
func nullableCombiner(fn plan.ReduceFunc, field string) (string, error) {
	switch fn {
	case plan.ReduceSum:
		return fmt.Sprintf("match (a.%s, b.%s) { (Some(x), Some(y)) => Some(x + y), (Some(x), None) => Some(x), (None, Some(y)) => Some(y), (None, None) => None }", field, field), nil
	case plan.ReduceMax:
		return fmt.Sprintf("match (a.%s, b.%s) { (Some(x), Some(y)) => Some(x.max(y)), (Some(x), None) => Some(x), (None, Some(y)) => Some(y), (None, None) => None }", field, field), nil
	case plan.ReduceMin:
		return fmt.Sprintf("match (a.%s, b.%s) { (Some(x), Some(y)) => Some(x.min(y)), (Some(x), None) => Some(x), (None, Some(y)) => Some(y), (None, None) => None }", field, field), nil
	case plan.ReduceFirst:
		return fmt.Sprintf("a.%s.or(b.%s)", field, field), nil
	default:
		return "", compileerr.UnsupportedPlan.New(fmt.Sprintf("unsupported reducer %s", fn))
	}
}

// LoneReduce is an Aggregation with no group keys: a single reducer over
// the whole stream, followed by a rename to the aggregation's output name.
type LoneReduce struct {
	Node *plan.Node // the Aggregation node
}

func (r *LoneReduce) Kind() Kind           { return KindLoneReduce }
func (r *LoneReduce) PlanNode() *plan.Node { return r.Node }
func (r *LoneReduce) DoesAddStruct() bool  { return true }

func (r *LoneReduce) Emit(ctx *EmitContext) (string, error) {
	prev := ctx.Registry.Last()
	if prev == nil {
		return "", compileerr.MalformedPlan.New("reduce has no preceding schema")
	}
	reducer, outName, outType, err := reducerOf(r.Node)
	if err != nil {
		return "", err
	}
	if reducer.ReduceFunc != plan.ReduceSum {
		return "", compileerr.UnsupportedPlan.New("lone reduce only supports sum")
	}
	col := reducer.Column
	nullable, err := prev.IsColNullable(col.ColumnName)
	if err != nil {
		return "", err
	}

	var combine string
	if nullable {
		combine, err = nullableCombiner(reducer.ReduceFunc, col.ColumnName)
	} else {
		combine, err = nonNullableCombiner(reducer.ReduceFunc, col.ColumnName)
	}
	if err != nil {
		return "", err
	}

	newSchema := ctx.Registry.FromArgs([]schema.Column{{Name: outName, Type: outType, Nullable: nullable}})

	frag := fmt.Sprintf(".reduce(|a, b| %s{ %s: %s })", prev.StructName(), col.ColumnName, combine)
	frag += fmt.Sprintf(".map(|x| %s{ %s: x.%s })", newSchema.StructName(), outName, col.ColumnName)
	return frag, nil
}

// GroupReduce is an Aggregation with at least one group-by column: a
// group_by per key followed by a reduce on the aggregated column.
type GroupReduce struct {
	Node *plan.Node // the Aggregation node
}

func (r *GroupReduce) Kind() Kind           { return KindGroupReduce }
func (r *GroupReduce) PlanNode() *plan.Node { return r.Node }
func (r *GroupReduce) DoesAddStruct() bool  { return true }

func (r *GroupReduce) Emit(ctx *EmitContext) (string, error) {
	prev := ctx.Registry.Last()
	if prev == nil {
		return "", compileerr.MalformedPlan.New("group reduce has no preceding schema")
	}
	reducer, outName, outType, err := reducerOf(r.Node)
	if err != nil {
		return "", err
	}
	if _, err := reduceExprOp(reducer.ReduceFunc); err != nil {
		return "", err
	}
	col := reducer.Column
	colNullable, err := prev.IsColNullable(col.ColumnName)
	if err != nil {
		return "", err
	}

	binding := bindingFor(ctx.IsKeyed)
	groupBy := ""
	newCols := make([]schema.Column, 0, len(r.Node.By)+1)
	for _, by := range r.Node.By {
		byNullable, err := prev.IsColNullable(by.ColumnName)
		if err != nil {
			return "", err
		}
		groupBy += fmt.Sprintf(".group_by(|%s| x.%s.clone())", binding, by.ColumnName)
		newCols = append(newCols, schema.Column{Name: by.ColumnName, Type: by.ColumnType, Nullable: byNullable})
	}
	newCols = append(newCols, schema.Column{Name: outName, Type: outType, Nullable: colNullable})
	newSchema := ctx.Registry.FromArgs(newCols)

	var combine string
	if colNullable {
		combine, err = nullableCombiner(reducer.ReduceFunc, col.ColumnName)
	} else {
		combine, err = nonNullableCombiner(reducer.ReduceFunc, col.ColumnName)
	}
	if err != nil {
		return "", err
	}

	frag := groupBy
	frag += fmt.Sprintf(".reduce(|a, b| %s{ %s: %s })", prev.StructName(), col.ColumnName, combine)

	fields := ""
	for _, by := range r.Node.By {
		fields += fmt.Sprintf("%s: x.0.clone(), ", by.ColumnName)
	}
	fields += fmt.Sprintf("%s: x.1.%s", outName, col.ColumnName)
	frag += fmt.Sprintf(".map(|x| %s{ %s })", newSchema.StructName(), fields)
	return frag, nil
}
