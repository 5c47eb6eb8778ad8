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

// Package plan defines the logical-plan DAG consumed by the compiler: a
// node kind, its children, and kind-specific semantic attributes. It is the
// data type the (out-of-scope) frontend would populate; this package only
// declares the shape and the constructors a test fixture or caller builds
// plans with.
package plan

import "github.com/shopspring/decimal"

// Kind identifies the shape of a Node. The eleven externally-visible kinds
// come directly from the plan's node-kind enumeration; Reducer is an
// internal twelfth kind that never gets its own dataflow operator - it is
// always the sole child of an Alias feeding an Aggregation.
type Kind int

const (
	KindTableScan Kind = iota
	KindProjection
	KindFilter
	KindAlias
	KindComparison
	KindBinaryArithmetic
	KindLiteral
	KindColumnRef
	KindAggregation
	KindJoin
	KindWindowAggregate
	KindReducer
)

func (k Kind) String() string {
	switch k {
	case KindTableScan:
		return "TableScan"
	case KindProjection:
		return "Projection"
	case KindFilter:
		return "Filter"
	case KindAlias:
		return "Alias"
	case KindComparison:
		return "Comparison"
	case KindBinaryArithmetic:
		return "BinaryArithmetic"
	case KindLiteral:
		return "Literal"
	case KindColumnRef:
		return "ColumnRef"
	case KindAggregation:
		return "Aggregation"
	case KindJoin:
		return "Join"
	case KindWindowAggregate:
		return "WindowAggregate"
	case KindReducer:
		return "Reducer"
	default:
		return "Unknown"
	}
}

// Comparator is the closed set of comparison operators a Comparison node
// may carry.
type Comparator int

const (
	CmpEQ Comparator = iota
	CmpLT
	CmpLE
	CmpGT
	CmpGE
)

func (c Comparator) String() string {
	switch c {
	case CmpEQ:
		return "=="
	case CmpLT:
		return "<"
	case CmpLE:
		return "<="
	case CmpGT:
		return ">"
	case CmpGE:
		return ">="
	default:
		return "?"
	}
}

// ArithOp is the closed set of binary arithmetic operators a
// BinaryArithmetic node may carry.
type ArithOp int

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
)

func (o ArithOp) String() string {
	switch o {
	case ArithAdd:
		return "+"
	case ArithSub:
		return "-"
	case ArithMul:
		return "*"
	default:
		return "?"
	}
}

// ReduceFunc is the closed set of reducers a Reducer node may carry.
type ReduceFunc int

const (
	ReduceSum ReduceFunc = iota
	ReduceMax
	ReduceMin
	ReduceFirst
)

func (f ReduceFunc) String() string {
	switch f {
	case ReduceSum:
		return "Sum"
	case ReduceMax:
		return "Max"
	case ReduceMin:
		return "Min"
	case ReduceFirst:
		return "First"
	default:
		return "?"
	}
}

// JoinKind is the closed set of join flavors a Join node may carry.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinOuter
)

func (k JoinKind) String() string {
	switch k {
	case JoinInner:
		return "InnerJoin"
	case JoinLeft:
		return "LeftJoin"
	case JoinOuter:
		return "OuterJoin"
	default:
		return "?"
	}
}

// ColType is the closed set of column value types the plan's expressions
// carry.
type ColType int

const (
	TypeInt64 ColType = iota
	TypeString
)

func (t ColType) String() string {
	switch t {
	case TypeInt64:
		return "int64"
	case TypeString:
		return "string"
	default:
		return "?"
	}
}

// ColumnDef is one (name, type, nullable) triple of a table or aggregation
// output schema, as declared by the frontend.
type ColumnDef struct {
	Name     string
	Type     ColType
	Nullable bool
}

// WindowSpec is a (group-by key, preceding count, following count) triple.
// The core only supports Following == 0.
type WindowSpec struct {
	By         string
	Preceding  int
	Following  int
}

// Node is a logical-plan DAG node. It is intentionally a single concrete
// type carrying a Kind tag plus the union of every kind's attributes,
// mirroring how the distilled frontend's expression graph attaches
// different attributes to nodes of different shapes; the Classifier
// pattern-matches on Kind and on the Kind of a node's children, never on a
// Go type switch over distinct node types.
type Node struct {
	Kind     Kind
	Children []*Node

	// TableScan
	TableName   string
	TableSchema []ColumnDef

	// Projection
	Columns []*Node // ColumnRef children

	// Filter
	Predicate *Node // Comparison child

	// Alias
	AliasName string
	AliasType ColType

	// Comparison
	Comparator Comparator
	Left       *Node
	Right      *Node

	// BinaryArithmetic
	ArithOp ArithOp

	// Literal
	LiteralValue decimal.Decimal
	LiteralStr   string
	IsString     bool

	// ColumnRef
	ColumnName     string
	ColumnType     ColType
	ColumnNullable bool

	// Aggregation
	By      []*Node // ColumnRef children, group keys; empty for LoneReduce
	Aliases []*Node // Alias children, each wrapping a Reducer
	Output  []ColumnDef

	// Join
	JoinKind JoinKind

	// WindowAggregate
	Window *WindowSpec
	Column *Node // ColumnRef being aggregated

	// Reducer
	ReduceFunc ReduceFunc
}

// NewTableScan builds a leaf table-scan node.
func NewTableScan(table string, schema []ColumnDef) *Node {
	return &Node{Kind: KindTableScan, TableName: table, TableSchema: schema}
}

// NewColumnRef builds a leaf column-reference node.
func NewColumnRef(name string, typ ColType, nullable bool) *Node {
	return &Node{Kind: KindColumnRef, ColumnName: name, ColumnType: typ, ColumnNullable: nullable}
}

// NewIntLiteral builds a numeric literal node carrying an exact decimal
// value, never a float, per the "literals emitted verbatim" invariant.
func NewIntLiteral(v int64) *Node {
	return &Node{Kind: KindLiteral, LiteralValue: decimal.NewFromInt(v), IsString: false}
}

// NewStringLiteral builds a string literal node.
func NewStringLiteral(v string) *Node {
	return &Node{Kind: KindLiteral, LiteralStr: v, IsString: true}
}

// NewComparison builds a comparison node over a column-ref/literal pair (in
// either order).
func NewComparison(cmp Comparator, left, right *Node) *Node {
	return &Node{Kind: KindComparison, Comparator: cmp, Left: left, Right: right, Children: []*Node{left, right}}
}

// NewFilter wraps input with a predicate. The predicate itself is what the
// Classifier recognizes; the Filter wrapper carries no operator of its
// own and is skipped once its predicate has been classified.
func NewFilter(input, predicate *Node) *Node {
	return &Node{Kind: KindFilter, Children: []*Node{input, predicate}, Predicate: predicate}
}

// NewBinaryArithmetic builds an arithmetic expression node.
func NewBinaryArithmetic(op ArithOp, left, right *Node) *Node {
	return &Node{Kind: KindBinaryArithmetic, ArithOp: op, Left: left, Right: right, Children: []*Node{left, right}}
}

// NewAlias wraps child (a BinaryArithmetic, a Reducer, or a WindowAggregate)
// under name/typ.
func NewAlias(name string, typ ColType, child *Node) *Node {
	return &Node{Kind: KindAlias, AliasName: name, AliasType: typ, Children: []*Node{child}}
}

// NewReducer builds an internal reducer node wrapping the column it reduces.
func NewReducer(fn ReduceFunc, column *Node) *Node {
	return &Node{Kind: KindReducer, ReduceFunc: fn, Column: column, Children: []*Node{column}}
}

// NewProjection builds a projection (column-selection) node over input.
func NewProjection(input *Node, columns ...*Node) *Node {
	children := append([]*Node{input}, columns...)
	return &Node{Kind: KindProjection, Children: children, Columns: columns}
}

// NewAggregation builds an aggregation node. by may be empty for a
// LoneReduce; aliases each wrap a Reducer node.
func NewAggregation(input *Node, by []*Node, aliases []*Node, output []ColumnDef) *Node {
	children := append([]*Node{input}, by...)
	children = append(children, aliases...)
	return &Node{Kind: KindAggregation, Children: children, By: by, Aliases: aliases, Output: output}
}

// NewJoin builds a join node over an equality predicate between a left and
// a right column.
func NewJoin(kind JoinKind, left, right *Node, predicate *Node) *Node {
	return &Node{Kind: KindJoin, JoinKind: kind, Children: []*Node{left, right, predicate}, Predicate: predicate}
}

// NewWindowAggregate builds a window-aggregate node.
func NewWindowAggregate(column *Node, spec *WindowSpec) *Node {
	return &Node{Kind: KindWindowAggregate, Column: column, Window: spec, Children: []*Node{column}}
}

// NewWindowAlias wraps a window-aggregate under an output alias.
func NewWindowAlias(name string, typ ColType, window *Node) *Node {
	return &Node{Kind: KindAlias, AliasName: name, AliasType: typ, Children: []*Node{window}}
}
