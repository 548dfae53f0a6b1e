package query

import (
	"strings"

	"github.com/bascanada/seclog/pkg/query/expression"
	"github.com/bascanada/seclog/pkg/ty"
)

const (
	// Separator sits between the field, expression and value tokens.
	Separator = " "
	// ArraySeparator joins the elements of a multi value operand.
	ArraySeparator = ", "
	// arraySplit is what the parser splits array values on, spaces
	// around elements are trimmed.
	arraySplit = ","
)

// Serialize renders clause as the single line text of the search bar.
// Undefined tokens are skipped with their separator.
func Serialize(c Clause) string {
	var parts []string
	if f, ok := c.Field.Get(); ok {
		parts = append(parts, f)
	}
	if e, ok := c.Expression.Get(); ok {
		parts = append(parts, e)
	}
	if v, ok := c.Value.Get(); ok {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, Separator)
}

// Parse reads raw back into a clause with the given key. Tokens are read
// in order field, expression, value; a token is only complete once a
// separator follows it, tokens after the last one found are explicitly
// undefined. The value takes the whole remainder so it may contain
// separators, unless the expression takes several values in which case
// it is split into trimmed elements.
func Parse(raw string, key string) Clause {
	c := Clause{
		Key:        key,
		Field:      ty.OptNull[string](),
		Expression: ty.OptNull[string](),
		Value:      ty.OptNull[Value](),
	}

	field, rest, found := strings.Cut(raw, Separator)
	c.Field = ty.OptWrap(field)
	if !found {
		return c
	}

	expr, rest, found := strings.Cut(rest, Separator)
	c.Expression = ty.OptWrap(expr)
	if !found {
		return c
	}

	c.Value = ty.OptWrap(parseValue(expr, rest))
	return c
}

func parseValue(expr string, raw string) Value {
	if !expression.IsMulti(expr) {
		return Scalar(raw)
	}
	pieces := strings.Split(raw, arraySplit)
	for i := range pieces {
		pieces[i] = strings.TrimSpace(pieces[i])
	}
	return Array(pieces...)
}

// CoerceValue converts v to the shape expected by expr: arrays for multi
// value operators, scalars otherwise.
func CoerceValue(expr string, v Value) Value {
	multi := expression.IsMulti(expr)
	switch {
	case multi && !v.Array:
		s := v.String()
		return parseValue(expr, s)
	case !multi && v.Array:
		return Scalar(v.String())
	}
	return v.Clone()
}
