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

// Package config loads the table manifest (§6, §11, §12): a YAML document
// mapping each logical table name to its CSV path and declared schema,
// the reusable on-disk counterpart of the Python driver's hardcoded
// files_tables list.
package config

import (
	"context"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/pkg/errors"
	"github.com/viant/afs"

	"github.com/carloronconi/noirgen/compileerr"
	"github.com/carloronconi/noirgen/plan"
)

// ColumnSpec is one manifest-declared column.
type ColumnSpec struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable"`
}

// TableSpec is one manifest entry: a logical table name, the CSV file it
// reads from, and its declared column list.
type TableSpec struct {
	Name    string       `yaml:"name"`
	Path    string       `yaml:"path"`
	Columns []ColumnSpec `yaml:"columns"`
}

// Manifest is the table-file-to-schema mapping (§11) read from a YAML
// document: the compiler's table-to-file argument and its declared
// per-table schemas, kept as one reusable fixture instead of constructed
// by hand for every test and example.
type Manifest struct {
	Tables []TableSpec `yaml:"tables"`
}

var manifestSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"tables": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"name": {Type: "string"},
					"path": {Type: "string"},
					"columns": {
						Type: "array",
						Items: &jsonschema.Schema{
							Type: "object",
							Properties: map[string]*jsonschema.Schema{
								"name":     {Type: "string"},
								"type":     {Type: "string", Enum: []any{"int64", "string"}},
								"nullable": {Type: "boolean"},
							},
							Required: []string{"name", "type"},
						},
					},
				},
				Required: []string{"name", "path", "columns"},
			},
		},
	},
	Required: []string{"tables"},
}

// Load reads and validates a manifest from path via an afs.Service,
// following the teacher's preference for a library-backed file reader
// over a raw os.Open, so the "released unconditionally" resource
// discipline (§5) comes from the library, not a hand-rolled defer.
func Load(ctx context.Context, path string) (*Manifest, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, compileerr.IOError.New(errors.Wrapf(err, "reading manifest %s", path).Error())
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, compileerr.SchemaMismatch.New(path, errors.Wrap(err, "parsing manifest yaml").Error())
	}

	resolved, err := manifestSchema.Resolve(nil)
	if err != nil {
		return nil, compileerr.IOError.New(errors.Wrap(err, "resolving manifest json schema").Error())
	}
	if err := resolved.Validate(raw); err != nil {
		return nil, compileerr.SchemaMismatch.New(path, errors.Wrap(err, "manifest does not match declared shape").Error())
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, compileerr.SchemaMismatch.New(path, errors.Wrap(err, "decoding manifest").Error())
	}
	return &m, nil
}

// TablePaths returns the logical-name-to-CSV-path mapping a compilation
// needs as its external ir.EmitContext.TablePath collaborator.
func (m *Manifest) TablePaths() map[string]string {
	paths := make(map[string]string, len(m.Tables))
	for _, t := range m.Tables {
		paths[t.Name] = t.Path
	}
	return paths
}

// TableScans builds one plan.NewTableScan node per manifest entry, keyed
// by logical table name.
func (m *Manifest) TableScans() (map[string]*plan.Node, error) {
	scans := make(map[string]*plan.Node, len(m.Tables))
	for _, t := range m.Tables {
		cols := make([]plan.ColumnDef, len(t.Columns))
		for i, c := range t.Columns {
			typ, err := colType(c.Type)
			if err != nil {
				return nil, compileerr.SchemaMismatch.New(t.Name, err.Error())
			}
			cols[i] = plan.ColumnDef{Name: c.Name, Type: typ, Nullable: c.Nullable}
		}
		scans[t.Name] = plan.NewTableScan(t.Name, cols)
	}
	return scans, nil
}

func colType(s string) (plan.ColType, error) {
	switch s {
	case "int64":
		return plan.TypeInt64, nil
	case "string":
		return plan.TypeString, nil
	default:
		return 0, fmt.Errorf("unknown column type %q", s)
	}
}
