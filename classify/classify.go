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

// Package classify implements the Operator Classifier (§4.2): it maps a
// linearized plan (the Plan Walker's post-order) onto the closed Operator
// IR set, one operator per recognized node shape, skipping relational
// wrappers and leaves that a sibling rule already consumed.
package classify

import (
	"fmt"

	"github.com/carloronconi/noirgen/compileerr"
	"github.com/carloronconi/noirgen/ir"
	"github.com/carloronconi/noirgen/plan"
)

// Pipeline classifies every node yielded by plan.PostOrder(root) into the
// ordered Operator IR pipeline. Nodes with no dataflow counterpart are
// silently skipped; a reachable, unmatched node is UnsupportedPlan.
func Pipeline(root *plan.Node) ([]ir.Operator, error) {
	nodes, err := plan.PostOrder(root)
	if err != nil {
		return nil, err
	}

	var ops []ir.Operator
	for _, n := range nodes {
		op, emit, err := classify(n)
		if err != nil {
			return nil, err
		}
		if emit {
			ops = append(ops, op)
		}
	}
	return ops, nil
}

// classify applies the closed, first-match recognition rules of §4.2 to
// one node. emit reports whether op is non-nil and should be appended.
func classify(n *plan.Node) (op ir.Operator, emit bool, err error) {
	switch n.Kind {
	case plan.KindTableScan:
		return &ir.Source{Node: n}, true, nil

	case plan.KindJoin:
		return &ir.Join{Node: n}, true, nil

	case plan.KindAggregation:
		if len(n.Aliases) == 0 {
			return nil, false, nil
		}
		if len(n.By) > 0 {
			return &ir.GroupReduce{Node: n}, true, nil
		}
		return &ir.LoneReduce{Node: n}, true, nil

	case plan.KindComparison:
		if hasLiteralChild(n) {
			return &ir.Filter{Node: n}, true, nil
		}
		return nil, false, nil

	case plan.KindAlias:
		return classifyAlias(n)

	case plan.KindProjection:
		if len(n.Columns) == 0 {
			return nil, false, nil
		}
		if projectsAfterJoin(n) {
			return nil, false, compileerr.UnsupportedPlan.New("projection following a join is ambiguous and rejected; see DESIGN.md Open Question log")
		}
		return &ir.Project{Node: n}, true, nil

	case plan.KindFilter, plan.KindLiteral, plan.KindColumnRef, plan.KindReducer, plan.KindBinaryArithmetic, plan.KindWindowAggregate:
		return nil, false, nil

	default:
		return nil, false, compileerr.UnsupportedPlan.New(fmt.Sprintf("plan node kind %s has no matching operator", n.Kind))
	}
}

func hasLiteralChild(n *plan.Node) bool {
	for _, c := range n.Children {
		if c.Kind == plan.KindLiteral {
			return true
		}
	}
	return false
}

// projectsAfterJoin reports whether n's first child is a Join - the
// shape the Open Question decision rejects rather than guess the
// re-keying semantics for.
func projectsAfterJoin(n *plan.Node) bool {
	return len(n.Children) > 0 && n.Children[0].Kind == plan.KindJoin
}

func classifyAlias(n *plan.Node) (ir.Operator, bool, error) {
	if len(n.Children) != 1 {
		return nil, false, compileerr.UnsupportedPlan.New("alias must wrap exactly one child")
	}
	switch n.Children[0].Kind {
	case plan.KindBinaryArithmetic:
		return &ir.Map{Node: n}, true, nil
	case plan.KindWindowAggregate:
		win := n.Children[0]
		if win.Window != nil && win.Window.By != "" && win.Window.Following == 0 {
			return &ir.ExplicitWindow{Node: n}, true, nil
		}
		return nil, false, compileerr.UnsupportedPlan.New("window aggregate must name a group-by key and have following == 0")
	case plan.KindReducer:
		// plan.NewAggregation puts its Aliases directly in the node's
		// Children, so PostOrder always visits this Alias(Reducer) before
		// the Aggregation itself; it is always consumed transitively by
		// the Aggregation rule, exactly like a bare Reducer.
		return nil, false, nil
	default:
		return nil, false, compileerr.UnsupportedPlan.New(fmt.Sprintf("alias wraps unsupported child kind %s", n.Children[0].Kind))
	}
}
