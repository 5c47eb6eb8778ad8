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

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carloronconi/noirgen/plan"
	"github.com/carloronconi/noirgen/schema"
)

func TestRegistryAssignsMonotoneIDs(t *testing.T) {
	r := schema.NewRegistry()
	node := plan.NewTableScan("t", []plan.ColumnDef{{Name: "int1", Type: plan.TypeInt64}})

	s1 := r.FromTable(node)
	s2 := r.FromArgs([]schema.Column{{Name: "x", Type: plan.TypeInt64}})

	require.Equal(t, 0, s1.ID)
	require.Equal(t, 1, s2.ID)
	require.Equal(t, s2, r.Last())
}

func TestTransformCompleted(t *testing.T) {
	r := schema.NewRegistry()
	node := plan.NewTableScan("t", nil)
	s1 := r.FromTable(node)
	require.Nil(t, r.LastCompleteTransform())

	r.TransformCompleted()
	require.Equal(t, s1, r.LastCompleteTransform())
}

func TestIsColNullableUnknownColumnFails(t *testing.T) {
	s := &schema.Schema{Columns: []schema.Column{{Name: "int1", Type: plan.TypeInt64}}}
	_, err := s.IsColNullable("nope")
	require.Error(t, err)
}

func TestIsColNullable(t *testing.T) {
	s := &schema.Schema{Columns: []schema.Column{{Name: "int1", Nullable: true}}}
	nullable, err := s.IsColNullable("int1")
	require.NoError(t, err)
	require.True(t, nullable)
}

func TestFromJoinWidensNullability(t *testing.T) {
	r := schema.NewRegistry()
	left := &schema.Schema{ShortName: "0", Columns: []schema.Column{{Name: "int1", Type: plan.TypeInt64}}}
	right := &schema.Schema{ShortName: "1", Columns: []schema.Column{{Name: "int1", Type: plan.TypeInt64}, {Name: "int3", Type: plan.TypeInt64}}}

	inner := r.FromJoin(left, right, plan.JoinInner, "int1", "int1")
	require.False(t, inner.Columns[0].Nullable)
	require.Equal(t, "int1_right", inner.Columns[1].Name)
	require.False(t, inner.Columns[1].Nullable)
	require.False(t, inner.Columns[2].Nullable)

	// left join widens every right column, key included.
	r2 := schema.NewRegistry()
	leftJoin := r2.FromJoin(left, right, plan.JoinLeft, "int1", "int1")
	require.False(t, leftJoin.Columns[0].Nullable)
	require.True(t, leftJoin.Columns[1].Nullable)
	require.True(t, leftJoin.Columns[2].Nullable)

	// outer join widens both sides' non-key columns only; the predicate's
	// own key columns stay as declared.
	r3 := schema.NewRegistry()
	outer := r3.FromJoin(left, right, plan.JoinOuter, "int1", "int1")
	require.False(t, outer.Columns[0].Nullable)
	require.False(t, outer.Columns[1].Nullable)
	require.True(t, outer.Columns[2].Nullable)
}

func TestStructNameAndShortNameDefault(t *testing.T) {
	r := schema.NewRegistry()
	s := r.FromArgs(nil)
	require.Equal(t, "0", s.ShortName)
	require.Equal(t, "Cols0", s.StructName())
}
