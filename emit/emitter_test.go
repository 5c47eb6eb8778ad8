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

package emit_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carloronconi/noirgen/emit"
	"github.com/carloronconi/noirgen/ir"
	"github.com/carloronconi/noirgen/plan"
	"github.com/carloronconi/noirgen/schema"
)

// fakeFilter is a minimal ir.Operator double standing in for a Filter so
// tests can exercise emitBody's chaining without classifying a real plan.
type fakeFilter struct{ frag string }

func (f fakeFilter) Kind() ir.Kind           { return ir.KindFilter }
func (f fakeFilter) PlanNode() *plan.Node    { return nil }
func (f fakeFilter) DoesAddStruct() bool     { return false }
func (f fakeFilter) Emit(*ir.EmitContext) (string, error) {
	return f.frag, nil
}

func scan(name string) *plan.Node {
	return plan.NewTableScan(name, []plan.ColumnDef{
		{Name: "int1", Type: plan.TypeInt64},
		{Name: "string1", Type: plan.TypeString, Nullable: true},
	})
}

func TestEmitSingleSourceAndFilter(t *testing.T) {
	reg := schema.NewRegistry()
	emitCtx := &ir.EmitContext{Registry: reg}
	pipeline := []ir.Operator{
		&ir.Source{Node: scan("t1")},
		fakeFilter{frag: ".filter(|x| x.int1 > 5)"},
	}

	dir := t.TempDir()
	out := filepath.Join(dir, "main.rs")
	result := filepath.Join(dir, "out.csv")

	res, err := emit.Emit(context.Background(), pipeline, reg, emitCtx, emit.Options{
		OutputPath: out,
		ResultPath: result,
	}, nil)
	require.NoError(t, err)
	require.Contains(t, res.Source, "struct Cols0 {")
	require.Contains(t, res.Source, "int1: i64,")
	require.Contains(t, res.Source, "string1: Option<String>,")
	require.Contains(t, res.Source, "let s0 = ctx.stream_csv::<Cols0>(\"t1\");")
	require.Contains(t, res.Source, "let result = s0.filter(|x| x.int1 > 5);")
	require.Contains(t, res.Source, "result.write_csv(\""+result+"\");")
	require.Contains(t, res.Source, "ctx.execute_blocking();")

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, res.Source, string(written))
}

func TestEmitTwoSourcesFlushIntermediateBranch(t *testing.T) {
	reg := schema.NewRegistry()
	emitCtx := &ir.EmitContext{Registry: reg}
	pipeline := []ir.Operator{
		&ir.Source{Node: scan("t1")},
		fakeFilter{frag: ".filter(|x| x.int1 > 5)"},
		&ir.Source{Node: scan("t2")},
	}

	dir := t.TempDir()
	res, err := emit.Emit(context.Background(), pipeline, reg, emitCtx, emit.Options{
		OutputPath: filepath.Join(dir, "main.rs"),
		ResultPath: filepath.Join(dir, "out.csv"),
	}, nil)
	require.NoError(t, err)
	require.Contains(t, res.Source, "let s0 = s0.filter(|x| x.int1 > 5);")
	require.Contains(t, res.Source, "let s1 = ctx.stream_csv::<Cols1>(\"t2\");")
	require.Contains(t, res.Source, "let result = s1;")
}

func TestEmitMissingToolchainBinaryFails(t *testing.T) {
	reg := schema.NewRegistry()
	emitCtx := &ir.EmitContext{Registry: reg}
	pipeline := []ir.Operator{&ir.Source{Node: scan("t1")}}

	dir := t.TempDir()
	_, err := emit.Emit(context.Background(), pipeline, reg, emitCtx, emit.Options{
		OutputPath:  filepath.Join(dir, "main.rs"),
		ResultPath:  filepath.Join(dir, "out.csv"),
		RunAfterGen: true,
		CompilerCmd: []string{"definitely-not-a-real-binary-xyz"},
	}, nil)
	require.Error(t, err)
}
