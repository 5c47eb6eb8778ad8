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

// Package streamshape answers, for a position in a finalized pipeline,
// whether the stream feeding that position is plain or keyed (§4.4). It is
// a pure function of the pipeline's operator kinds and never mutates
// anything; the compiler driver calls it once per operator, before asking
// that operator to Emit.
package streamshape

import "github.com/carloronconi/noirgen/ir"

// NearestSource returns the index of the most recent Source operator
// strictly before pos, the boundary of the current branch, or -1 if no
// Source precedes pos.
func NearestSource(pipeline []ir.Operator, pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if pipeline[i].Kind() == ir.KindSource {
			return i
		}
	}
	return -1
}

// IsKeyed reports whether the stream feeding pipeline[pos] is keyed: it is
// keyed iff, between the nearest preceding Source (exclusive) and pos
// (exclusive), there exists at least one GroupReduce or Join.
func IsKeyed(pipeline []ir.Operator, pos int) bool {
	start := NearestSource(pipeline, pos) + 1
	for i := start; i < pos; i++ {
		switch pipeline[i].Kind() {
		case ir.KindGroupReduce, ir.KindJoin:
			return true
		}
	}
	return false
}

// JoinShapes resolves the keyed-ness of a Join operator's two inputs. The
// right input is whatever chain immediately precedes the join, i.e. the
// branch opened by the nearest preceding Source - exactly IsKeyed at the
// join's own position. The left input is the branch before that: apply
// the same rule one branch boundary further back, at the position of that
// nearest preceding Source itself.
func JoinShapes(pipeline []ir.Operator, joinPos int) (leftKeyed, rightKeyed bool) {
	rightKeyed = IsKeyed(pipeline, joinPos)
	rightSource := NearestSource(pipeline, joinPos)
	if rightSource < 0 {
		return false, rightKeyed
	}
	leftKeyed = IsKeyed(pipeline, rightSource)
	return leftKeyed, rightKeyed
}
