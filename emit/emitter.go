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

// Package emit assembles the Header/Body/Footer program text (§4.6),
// writes it through an afs.Service, and invokes the external formatter and
// compiler in sequence.
package emit

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/minio/highwayhash"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/carloronconi/noirgen/compileerr"
	"github.com/carloronconi/noirgen/ir"
	"github.com/carloronconi/noirgen/schema"
	"github.com/carloronconi/noirgen/streamshape"
)

// highwayKey is a fixed all-zero key: the hash here is a cheap content
// fingerprint for the determinism property (§8), not a MAC, so a random
// per-process key would defeat the point of comparing two runs.
var highwayKey = make([]byte, 32)

// Options are the configuration switches recognized by the Emitter (§6).
type Options struct {
	// OutputPath is where the program source file is written.
	OutputPath string
	// ResultPath is where the emitted program, once run, writes its
	// output CSV.
	ResultPath string
	// RunAfterGen invokes the external formatter and compiler/runner
	// after writing the file. Default true.
	RunAfterGen bool
	// FormatterCmd and CompilerCmd are the external binaries invoked
	// when RunAfterGen is set, in that order.
	FormatterCmd []string
	CompilerCmd  []string
}

// Result is what one Emit call returns: the written source, its content
// digest, and the result CSV path from Options (set whether or not
// RunAfterGen was).
type Result struct {
	Source     string
	Digest     [32]byte
	ResultPath string
}

// Emit renders the Header/Body/Footer regions from pipeline and reg,
// writes them to opts.OutputPath, and (if requested) drives the external
// toolchain.
func Emit(ctx context.Context, pipeline []ir.Operator, reg *schema.Registry, emitCtx *ir.EmitContext, opts Options, log *logrus.Logger) (*Result, error) {
	if log == nil {
		log = logrus.New()
	}
	entry := log.WithField("component", "emitter")

	body, err := emitBody(pipeline, emitCtx)
	if err != nil {
		return nil, err
	}

	header := emitHeader(reg)
	footer := emitFooter(opts.ResultPath)

	source := header + body + footer

	fs := afs.New()
	if err := fs.Upload(ctx, opts.OutputPath, 0644, strings.NewReader(source)); err != nil {
		return nil, compileerr.IOError.New(errors.Wrapf(err, "writing program to %s", opts.OutputPath).Error())
	}

	digest := highwayhash.Sum(highwayKey, []byte(source))
	entry.WithFields(logrus.Fields{"path": opts.OutputPath, "digest": fmt.Sprintf("%x", digest)}).Info("wrote program")

	res := &Result{Source: source, Digest: digest, ResultPath: opts.ResultPath}

	if !opts.RunAfterGen {
		return res, nil
	}

	if err := runTool(ctx, entry, opts.FormatterCmd, compileerr.ExternalCompileError); err != nil {
		return nil, err
	}
	if err := runTool(ctx, entry, opts.CompilerCmd, compileerr.ExternalRunError); err != nil {
		return nil, err
	}

	return res, nil
}

// runTool invokes one external command under ctx, mapping a missing
// binary to ToolchainMissing and a non-zero exit to failKind with the
// command's stderr attached verbatim - the tool is an untrusted
// collaborator, never silently swallowed (§9).
func runTool(ctx context.Context, log *logrus.Entry, argv []string, failKind *goerrors.Kind) error {
	if len(argv) == 0 {
		return nil
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.WithField("cmd", strings.Join(argv, " ")).Info("invoking external tool")

	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return compileerr.ToolchainMissing.New(argv[0])
		}
		return failKind.New(fmt.Sprintf("%s: %s", argv[0], stderr.String()))
	}
	return nil
}

func emitHeader(reg *schema.Registry) string {
	var b strings.Builder
	b.WriteString("use noir::prelude::*;\nuse serde::{Serialize, Deserialize};\n\n")
	for _, s := range reg.All() {
		b.WriteString(structDecl(s))
	}
	b.WriteString("\nfn main() {\n")
	b.WriteString("    let ctx = StreamContext::new_local();\n")
	return b.String()
}

func structDecl(s *schema.Schema) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("#[derive(Clone, Serialize, Deserialize, Default)]\nstruct %s {\n", s.StructName()))
	for _, c := range s.Columns {
		b.WriteString(fmt.Sprintf("    %s: %s,\n", c.Name, fieldTypeFor(c)))
	}
	b.WriteString("}\n\n")
	return b.String()
}

func fieldTypeFor(c schema.Column) string {
	base := "i64"
	if c.Type.String() == "string" {
		base = "String"
	}
	if c.Nullable {
		return "Option<" + base + ">"
	}
	return base
}

// emitBody walks the pipeline in order, accumulating a chained expression
// per branch. A branch's chain is let-bound to a schema-named variable at
// the two points a later fragment needs to reference it by name: when the
// next Source opens a new branch (closing the one just finished), and
// when a Join consumes its already-complete right branch before resuming
// the left branch's chain. The final chain, once the whole pipeline is
// exhausted, is bound to `result` for the footer to consume.
func emitBody(pipeline []ir.Operator, emitCtx *ir.EmitContext) (string, error) {
	var b strings.Builder
	var chain strings.Builder

	flushTo := func(name string) {
		if chain.Len() > 0 {
			b.WriteString(fmt.Sprintf("    let %s = %s;\n", name, chain.String()))
			chain.Reset()
		}
	}

	for pos, op := range pipeline {
		emitCtx.IsKeyed = streamshape.IsKeyed(pipeline, pos)

		prevLast := emitCtx.Registry.Last()
		prevCompleteTransform := emitCtx.Registry.LastCompleteTransform()

		if op.Kind() == ir.KindJoin {
			emitCtx.LeftKeyed, emitCtx.RightKeyed = streamshape.JoinShapes(pipeline, pos)
			if prevLast != nil {
				flushTo("s" + prevLast.ShortName)
			}
		} else if op.Kind() == ir.KindSource && prevLast != nil {
			flushTo("s" + prevLast.ShortName)
		}

		frag, err := op.Emit(emitCtx)
		if err != nil {
			return "", err
		}

		switch op.Kind() {
		case ir.KindSource:
			b.WriteString("    " + frag)
			if src, ok := op.(*ir.Source); ok {
				chain.WriteString(src.VarName())
			}
		case ir.KindJoin:
			if prevCompleteTransform != nil {
				chain.WriteString("s" + prevCompleteTransform.ShortName)
			}
			chain.WriteString(frag)
		default:
			chain.WriteString(frag)
		}
	}
	flushTo("result")
	return b.String(), nil
}

func emitFooter(resultPath string) string {
	return fmt.Sprintf("    result.write_csv(\"%s\");\n    ctx.execute_blocking();\n}\n", resultPath)
}
