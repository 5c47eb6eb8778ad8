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

// Join selects the runtime join flavor from the plan's join kind and
// branches emission on whether each side's stream already carries a key.
type Join struct {
	Node *plan.Node
}

func (j *Join) Kind() Kind           { return KindJoin }
func (j *Join) PlanNode() *plan.Node { return j.Node }
func (j *Join) DoesAddStruct() bool  { return true }

func joinMethod(kind plan.JoinKind) (string, error) {
	switch kind {
	case plan.JoinInner:
		return "join", nil
	case plan.JoinLeft:
		return "left_join", nil
	case plan.JoinOuter:
		return "outer_join", nil
	default:
		return "", compileerr.UnsupportedPlan.New(fmt.Sprintf("unsupported join kind %s", kind))
	}
}

func joinKeys(pred *plan.Node) (leftCol, rightCol *plan.Node, err error) {
	if pred.Kind != plan.KindComparison || pred.Comparator != plan.CmpEQ {
		return nil, nil, compileerr.UnsupportedPlan.New("join predicate must be a single equality")
	}
	if pred.Left.Kind != plan.KindColumnRef || pred.Right.Kind != plan.KindColumnRef {
		return nil, nil, compileerr.UnsupportedPlan.New("join predicate must compare two columns")
	}
	return pred.Left, pred.Right, nil
}

func (j *Join) Emit(ctx *EmitContext) (string, error) {
	left := ctx.Registry.LastCompleteTransform()
	right := ctx.Registry.Last()
	if left == nil || right == nil {
		return "", compileerr.MalformedPlan.New("join requires two completed branches")
	}

	method, err := joinMethod(j.Node.JoinKind)
	if err != nil {
		return "", err
	}
	leftCol, rightCol, err := joinKeys(j.Node.Predicate)
	if err != nil {
		return "", err
	}

	newSchema := ctx.Registry.FromJoin(left, right, j.Node.JoinKind, leftCol.ColumnName, rightCol.ColumnName)

	var keying string
	switch {
	case ctx.LeftKeyed && ctx.RightKeyed:
		keying = fmt.Sprintf(".%s(s%s)", method, right.ShortName)
	case ctx.LeftKeyed && !ctx.RightKeyed:
		keying = fmt.Sprintf(".%s(s%s.group_by(|x| x.%s.clone()))", method, right.ShortName, rightCol.ColumnName)
	case !ctx.LeftKeyed && ctx.RightKeyed:
		keying = fmt.Sprintf(".group_by(|x| x.%s.clone()).%s(s%s)", leftCol.ColumnName, method, right.ShortName)
	default:
		keying = fmt.Sprintf(".group_by(|x| x.%s.clone()).%s(s%s.group_by(|x| x.%s.clone()))",
			leftCol.ColumnName, method, right.ShortName, rightCol.ColumnName)
	}

	frag := keying
	if j.Node.JoinKind != plan.JoinInner {
		frag += ".unwrap_or_default()"
	}

	fields := ""
	for i, c := range left.Columns {
		fields += fmt.Sprintf("%s: l.%s, ", newSchema.Columns[i].Name, c.Name)
	}
	for i, c := range right.Columns {
		fields += fmt.Sprintf("%s: r.%s, ", newSchema.Columns[len(left.Columns)+i].Name, c.Name)
	}
	frag += fmt.Sprintf(".map(|(_, (l, r))| %s{ %s})", newSchema.StructName(), fields)

	return frag, nil
}
