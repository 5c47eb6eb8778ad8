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

package ir

import (
	"strings"

	"github.com/carloronconi/noirgen/plan"
)

// sanitizeStringLiteral strips every non-alphanumeric rune from s before
// it is quoted. This is lossy and known to be so (§9 "String-literal
// sanitization"); it is preserved verbatim for bit-exact reproduction of
// the reference compiler's output rather than "fixed", since doing so
// would silently change every golden test that depends on it.
func sanitizeStringLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatLiteral renders a Literal plan node as a Rust literal expression.
// Numeric literals are rendered from their exact decimal.Decimal value,
// never through a float, so they always come out verbatim.
func formatLiteral(n *plan.Node) string {
	if n.IsString {
		return "\"" + sanitizeStringLiteral(n.LiteralStr) + "\".to_string()"
	}
	return n.LiteralValue.String()
}

// rustType renders a ColType as a Rust field type.
func rustType(t plan.ColType) string {
	switch t {
	case plan.TypeInt64:
		return "i64"
	case plan.TypeString:
		return "String"
	default:
		return "()"
	}
}

// fieldType renders a possibly-nullable Rust field type.
func fieldType(t plan.ColType, nullable bool) string {
	base := rustType(t)
	if nullable {
		return "Option<" + base + ">"
	}
	return base
}
