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

// ExplicitWindow is an Alias wrapping a WindowAggregate whose spec names a
// group-by key and carries following == 0. Only a fixed-size rolling
// window of length preceding+1 is emitted; the shorter windows the
// frontend produces at stream/group start are not (§9, a deliberate
// narrowing, not a bug).
type ExplicitWindow struct {
	Node *plan.Node // the Alias node
}

func (w *ExplicitWindow) Kind() Kind           { return KindExplicitWindow }
func (w *ExplicitWindow) PlanNode() *plan.Node { return w.Node }
func (w *ExplicitWindow) DoesAddStruct() bool  { return true }

func (w *ExplicitWindow) Emit(ctx *EmitContext) (string, error) {
	prev := ctx.Registry.Last()
	if prev == nil {
		return "", compileerr.MalformedPlan.New("window has no preceding schema")
	}
	if len(w.Node.Children) != 1 || w.Node.Children[0].Kind != plan.KindWindowAggregate {
		return "", compileerr.UnsupportedPlan.New("window alias must wrap a window aggregate")
	}
	win := w.Node.Children[0]
	spec := win.Window
	if spec == nil || spec.Following != 0 {
		return "", compileerr.UnsupportedPlan.New("only following == 0 window specs are supported")
	}
	if prev.IndexOf(spec.By) < 0 {
		return "", compileerr.MalformedPlan.New(fmt.Sprintf("window group key %q not found in current schema", spec.By))
	}

	col := win.Column
	nullable, err := prev.IsColNullable(col.ColumnName)
	if err != nil {
		return "", err
	}

	windowLen := spec.Preceding + 1

	newCols := append(append([]schema.Column(nil), prev.Columns...), schema.Column{
		Name:     w.Node.AliasName,
		Type:     w.Node.AliasType,
		Nullable: nullable,
	})
	newSchema := ctx.Registry.FromArgs(newCols)

	binding := bindingFor(ctx.IsKeyed)
	frag := fmt.Sprintf(".group_by(|%s| x.%s.clone())", binding, spec.By)
	frag += fmt.Sprintf(".window(CountWindow::new(%d, 1))", windowLen)
	frag += fmt.Sprintf(".filter(|w| w.len() >= %d)", windowLen)

	fields := copyFieldsExpr(prev.Columns)
	aggExpr := fmt.Sprintf("w.iter().map(|x| x.%s).sum::<i64>()", col.ColumnName)
	if nullable {
		aggExpr = fmt.Sprintf("w.iter().fold(None, |acc: Option<i64>, x| match (acc, x.%s) { (Some(a), Some(v)) => Some(a + v), (Some(a), None) => Some(a), (None, Some(v)) => Some(v), (None, None) => None })", col.ColumnName)
	}
	frag += fmt.Sprintf(".map(|w| { let x = w.last().unwrap(); %s{ %s%s: %s } })", newSchema.StructName(), fields, w.Node.AliasName, aggExpr)

	return frag, nil
}
