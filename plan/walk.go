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

package plan

import "github.com/carloronconi/noirgen/compileerr"

// nodeState tracks a node's position in the iterative post-order DFS:
// unset means unseen, inProgress means pushed but not yet emitted, done
// means already appended to the order (and, for a shared subexpression,
// never re-appended).
type nodeState int

const (
	stateUnseen nodeState = iota
	stateInProgress
	stateDone
)

// PostOrder linearizes root's reachable DAG in a post-order that respects
// data dependencies (children before parents), visiting every node at most
// once by identity. Shared subexpressions - nodes reachable via more than
// one path - appear exactly once, at the position of their first visit.
//
// A standard iterative DFS: each node is pushed onto the work stack twice,
// once tagged "not yet visited" (its children get pushed ahead of it) and
// once tagged "visit now" (it gets appended to the order). A node found
// inProgress when it should be unseen indicates a cycle, which cannot occur
// in a well-formed plan and is reported as MalformedPlan.
func PostOrder(root *Node) ([]*Node, error) {
	if root == nil {
		return nil, nil
	}

	type frame struct {
		node  *Node
		ready bool
	}

	state := make(map[*Node]nodeState)
	stack := []frame{{root, false}}
	var order []*Node

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.ready {
			state[f.node] = stateDone
			order = append(order, f.node)
			continue
		}

		switch state[f.node] {
		case stateDone:
			continue
		case stateInProgress:
			return nil, compileerr.MalformedPlan.New("cycle detected in logical plan")
		}

		state[f.node] = stateInProgress
		stack = append(stack, frame{f.node, true})
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], false})
		}
	}

	return order, nil
}

// Inspect calls f for every node reachable from root, in the same
// post-order PostOrder produces, stopping early if f returns false. It is
// used by the render_query_graph debug side channel (see
// noirgen.Config.RenderQueryGraph) to
// walk the plan without building the full operator pipeline.
func Inspect(root *Node, f func(*Node) bool) {
	nodes, err := PostOrder(root)
	if err != nil {
		return
	}
	for _, n := range nodes {
		if !f(n) {
			return
		}
	}
}
