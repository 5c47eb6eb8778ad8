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

package streamshape_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carloronconi/noirgen/ir"
	"github.com/carloronconi/noirgen/plan"
	"github.com/carloronconi/noirgen/streamshape"
)

// fakeOp is a minimal ir.Operator double that reports a fixed Kind, used
// to build synthetic pipelines without constructing real plan nodes.
type fakeOp struct{ kind ir.Kind }

func (f fakeOp) Kind() ir.Kind                            { return f.kind }
func (f fakeOp) PlanNode() *plan.Node                     { return nil }
func (f fakeOp) DoesAddStruct() bool                      { return true }
func (f fakeOp) Emit(ctx *ir.EmitContext) (string, error) { return "", nil }

func pipeline(kinds ...ir.Kind) []ir.Operator {
	ops := make([]ir.Operator, len(kinds))
	for i, k := range kinds {
		ops[i] = fakeOp{kind: k}
	}
	return ops
}

func TestNearestSource(t *testing.T) {
	p := pipeline(ir.KindSource, ir.KindFilter, ir.KindSource, ir.KindMap)
	require.Equal(t, -1, streamshape.NearestSource(p, 0))
	require.Equal(t, 0, streamshape.NearestSource(p, 1))
	require.Equal(t, 2, streamshape.NearestSource(p, 3))
}

func TestIsKeyed(t *testing.T) {
	p := pipeline(ir.KindSource, ir.KindFilter, ir.KindGroupReduce, ir.KindProject)
	require.False(t, streamshape.IsKeyed(p, 1))
	require.False(t, streamshape.IsKeyed(p, 2))
	require.True(t, streamshape.IsKeyed(p, 3))
}

func TestJoinShapesBothPlain(t *testing.T) {
	p := pipeline(ir.KindSource, ir.KindFilter, ir.KindSource, ir.KindJoin)
	left, right := streamshape.JoinShapes(p, 3)
	require.False(t, left)
	require.False(t, right)
}

func TestJoinShapesRightKeyed(t *testing.T) {
	p := pipeline(ir.KindSource, ir.KindSource, ir.KindGroupReduce, ir.KindJoin)
	left, right := streamshape.JoinShapes(p, 3)
	require.False(t, left)
	require.True(t, right)
}

func TestJoinShapesLeftKeyed(t *testing.T) {
	p := pipeline(ir.KindSource, ir.KindGroupReduce, ir.KindSource, ir.KindJoin)
	left, right := streamshape.JoinShapes(p, 3)
	require.True(t, left)
	require.False(t, right)
}
