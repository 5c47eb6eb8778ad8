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

package noirgen_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	noirgen "github.com/carloronconi/noirgen"
	"github.com/carloronconi/noirgen/plan"
)

func scanOf(name string, cols ...plan.ColumnDef) *plan.Node {
	return plan.NewTableScan(name, cols)
}

// scenario 1 (§8): filter a string column then project a single int
// column out of it.
func TestCompileFilterThenProject(t *testing.T) {
	scan := scanOf("t", plan.ColumnDef{Name: "int1", Type: plan.TypeInt64}, plan.ColumnDef{Name: "string1", Type: plan.TypeString})
	cmp := plan.NewComparison(plan.CmpEQ, plan.NewColumnRef("string1", plan.TypeString, false), plan.NewStringLiteral("unduetre"))
	filter := plan.NewFilter(scan, cmp)
	proj := plan.NewProjection(filter, plan.NewColumnRef("int1", plan.TypeInt64, false))

	dir := t.TempDir()
	cfg := noirgen.DefaultConfig()
	cfg.RunAfterGen = false
	cfg.OutputPath = filepath.Join(dir, "main.rs")
	cfg.ResultPath = filepath.Join(dir, "out.csv")

	res, err := noirgen.Compile(context.Background(), proj, map[string]string{"t": "/data/t.csv"}, cfg)
	require.NoError(t, err)
	require.Contains(t, res.Source, "/data/t.csv")
	require.Contains(t, res.Source, ".filter(|x| x.string1 == \"unduetre\".to_string())")
	require.Contains(t, res.Source, ".map(|x| Cols")
	require.Contains(t, res.Source, "int1: x.int1.clone()")
}

// a map deriving a new column from arithmetic on an existing one.
func TestCompileMapArithmetic(t *testing.T) {
	scan := scanOf("t", plan.ColumnDef{Name: "int1", Type: plan.TypeInt64})
	bin := plan.NewBinaryArithmetic(plan.ArithMul, plan.NewColumnRef("int1", plan.TypeInt64, false), plan.NewIntLiteral(20))
	alias := plan.NewAlias("mul", plan.TypeInt64, bin)
	root := &plan.Node{Kind: plan.KindProjection, Children: []*plan.Node{scan, alias}, Columns: []*plan.Node{}}

	dir := t.TempDir()
	cfg := noirgen.DefaultConfig()
	cfg.RunAfterGen = false
	cfg.OutputPath = filepath.Join(dir, "main.rs")
	cfg.ResultPath = filepath.Join(dir, "out.csv")

	res, err := noirgen.Compile(context.Background(), root, map[string]string{"t": "t.csv"}, cfg)
	require.NoError(t, err)
	require.Contains(t, res.Source, "mul: x.int1 * 20")
}

// scenario 3 (§8): group by a string column and sum an int column.
func TestCompileGroupAndSum(t *testing.T) {
	scan := scanOf("t",
		plan.ColumnDef{Name: "int1", Type: plan.TypeInt64},
		plan.ColumnDef{Name: "string1", Type: plan.TypeString})
	reducer := plan.NewReducer(plan.ReduceSum, plan.NewColumnRef("int1", plan.TypeInt64, false))
	alias := plan.NewAlias("total", plan.TypeInt64, reducer)
	by := []*plan.Node{plan.NewColumnRef("string1", plan.TypeString, false)}
	agg := plan.NewAggregation(scan, by, []*plan.Node{alias}, []plan.ColumnDef{
		{Name: "string1", Type: plan.TypeString}, {Name: "total", Type: plan.TypeInt64},
	})

	dir := t.TempDir()
	cfg := noirgen.DefaultConfig()
	cfg.RunAfterGen = false
	cfg.OutputPath = filepath.Join(dir, "main.rs")
	cfg.ResultPath = filepath.Join(dir, "out.csv")

	res, err := noirgen.Compile(context.Background(), agg, map[string]string{"t": "t.csv"}, cfg)
	require.NoError(t, err)
	require.Contains(t, res.Source, ".group_by(|x| x.string1.clone())")
	require.Contains(t, res.Source, ".reduce(|a, b|")
}

// an inner join of two plain branches (neither is grouped beforehand), so
// the join keys both sides itself.
func TestCompileInnerJoin(t *testing.T) {
	t1 := scanOf("t1", plan.ColumnDef{Name: "int1", Type: plan.TypeInt64})
	t2 := scanOf("t2", plan.ColumnDef{Name: "int1", Type: plan.TypeInt64}, plan.ColumnDef{Name: "int3", Type: plan.TypeInt64})
	pred := plan.NewComparison(plan.CmpEQ, plan.NewColumnRef("int1", plan.TypeInt64, false), plan.NewColumnRef("int1", plan.TypeInt64, false))
	join := plan.NewJoin(plan.JoinInner, t1, t2, pred)

	dir := t.TempDir()
	cfg := noirgen.DefaultConfig()
	cfg.RunAfterGen = false
	cfg.OutputPath = filepath.Join(dir, "main.rs")
	cfg.ResultPath = filepath.Join(dir, "out.csv")

	res, err := noirgen.Compile(context.Background(), join, map[string]string{"t1": "t1.csv", "t2": "t2.csv"}, cfg)
	require.NoError(t, err)
	require.Contains(t, res.Source, "let s0 = ctx.stream_csv::<Cols0>(\"t1.csv\");")
	require.Contains(t, res.Source, "let s1 = ctx.stream_csv::<Cols1>(\"t2.csv\");")
	require.Contains(t, res.Source, ".join(s1")
}

// scenario 5 (§8) is the Open Question's rejected case: a projection
// immediately following a join is ambiguous (which side's columns survive
// is not recoverable from the plan alone) and must fail closed rather
// than guess.
func TestCompileRejectsProjectionAfterJoin(t *testing.T) {
	t1 := scanOf("t1", plan.ColumnDef{Name: "int1", Type: plan.TypeInt64})
	t2 := scanOf("t2", plan.ColumnDef{Name: "int1", Type: plan.TypeInt64})
	pred := plan.NewComparison(plan.CmpEQ, plan.NewColumnRef("int1", plan.TypeInt64, false), plan.NewColumnRef("int1", plan.TypeInt64, false))
	join := plan.NewJoin(plan.JoinInner, t1, t2, pred)
	proj := plan.NewProjection(join, plan.NewColumnRef("int1", plan.TypeInt64, false))

	dir := t.TempDir()
	cfg := noirgen.DefaultConfig()
	cfg.RunAfterGen = false
	cfg.OutputPath = filepath.Join(dir, "main.rs")
	cfg.ResultPath = filepath.Join(dir, "out.csv")

	_, err := noirgen.Compile(context.Background(), proj, map[string]string{"t1": "t1.csv", "t2": "t2.csv"}, cfg)
	require.Error(t, err)
}

// a fixed-size rolling window aggregate.
func TestCompileExplicitWindow(t *testing.T) {
	scan := scanOf("t",
		plan.ColumnDef{Name: "int1", Type: plan.TypeInt64},
		plan.ColumnDef{Name: "string1", Type: plan.TypeString})
	win := plan.NewWindowAggregate(plan.NewColumnRef("int1", plan.TypeInt64, false), &plan.WindowSpec{By: "string1", Preceding: 2, Following: 0})
	alias := plan.NewWindowAlias("roll", plan.TypeInt64, win)
	root := &plan.Node{Kind: plan.KindProjection, Children: []*plan.Node{scan, alias}, Columns: []*plan.Node{}}

	dir := t.TempDir()
	cfg := noirgen.DefaultConfig()
	cfg.RunAfterGen = false
	cfg.OutputPath = filepath.Join(dir, "main.rs")
	cfg.ResultPath = filepath.Join(dir, "out.csv")

	res, err := noirgen.Compile(context.Background(), root, map[string]string{"t": "t.csv"}, cfg)
	require.NoError(t, err)
	require.Contains(t, res.Source, "CountWindow::new(3, 1)")
}

func TestCompileSkippedWhenPerformCompilationFalse(t *testing.T) {
	cfg := noirgen.Config{PerformCompilation: false}
	res, err := noirgen.Compile(context.Background(), nil, nil, cfg)
	require.NoError(t, err)
	require.Nil(t, res)
}
