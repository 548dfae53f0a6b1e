package query

import "unicode/utf8"

// Position names one of the three token slots of a clause.
type Position string

const (
	PositionField      Position = "field"
	PositionExpression Position = "expression"
	PositionValue      Position = "value"
)

// Positions lists the slots in rendering order.
var Positions = []Position{PositionField, PositionExpression, PositionValue}

// Next returns the slot after p, the value slot being the last one.
func (p Position) Next() Position {
	switch p {
	case PositionField:
		return PositionExpression
	default:
		return PositionValue
	}
}

// Cursor is the logical location of the caret inside a clause.
// ArrayIndex is the element under edit for multi value operands, -1
// otherwise.
type Cursor struct {
	Position   Position
	ArrayIndex int
}

// tokenText returns the rendered text of a slot and whether it is defined.
func tokenText(c Clause, p Position) (string, bool) {
	switch p {
	case PositionField:
		return c.Field.Get()
	case PositionExpression:
		return c.Expression.Get()
	case PositionValue:
		v, ok := c.Value.Get()
		return v.String(), ok
	}
	return "", false
}

// TokenStart returns the rune offset where slot p starts in the
// serialized clause.
func TokenStart(c Clause, p Position) int {
	offset := 0
	for _, pos := range Positions {
		if pos == p {
			return offset
		}
		text, _ := tokenText(c, pos)
		offset += utf8.RuneCountInString(text) + utf8.RuneCountInString(Separator)
	}
	return offset
}

// TokenEnd returns the rune offset right after slot p.
func TokenEnd(c Clause, p Position) int {
	text, _ := tokenText(c, p)
	return TokenStart(c, p) + utf8.RuneCountInString(text)
}

// LocateToken maps a caret offset to the slot containing it. A caret
// that cannot be placed, negative when the input is not focused or past
// every slot, falls back to the field slot.
func LocateToken(c Clause, caret int) Position {
	offset := 0
	for _, p := range Positions {
		text, defined := tokenText(c, p)
		length := utf8.RuneCountInString(text)
		if defined && caret >= offset && caret <= offset+length {
			return p
		}
		offset += length + utf8.RuneCountInString(Separator)
	}
	return PositionField
}

// Locate returns the slot under caret and, for array values, the index of
// the element under it.
func Locate(c Clause, caret int) Cursor {
	cur := Cursor{Position: LocateToken(c, caret), ArrayIndex: -1}
	if cur.Position != PositionValue {
		return cur
	}
	v, _ := c.Value.Get()
	if !v.Array {
		return cur
	}
	cur.ArrayIndex = elementAt(v, caret-TokenStart(c, PositionValue))
	return cur
}

// elementAt returns the last element starting at or before offset.
func elementAt(v Value, offset int) int {
	if len(v.Items) == 0 {
		return 0
	}
	idx := 0
	start := 0
	for i, item := range v.Items {
		if start > offset {
			break
		}
		idx = i
		start += utf8.RuneCountInString(item) + utf8.RuneCountInString(ArraySeparator)
	}
	return idx
}

// ElementStart returns the rune offset of array element idx inside the
// serialized clause.
func ElementStart(c Clause, idx int) int {
	offset := TokenStart(c, PositionValue)
	v, _ := c.Value.Get()
	for i := 0; i < idx && i < len(v.Items); i++ {
		offset += utf8.RuneCountInString(v.Items[i]) + utf8.RuneCountInString(ArraySeparator)
	}
	return offset
}

// Typed returns the text already typed in the slot under cur: the token
// itself, or the element under edit for array values.
func Typed(c Clause, cur Cursor) string {
	if cur.Position == PositionValue && cur.ArrayIndex >= 0 {
		v, _ := c.Value.Get()
		if cur.ArrayIndex < len(v.Items) {
			return v.Items[cur.ArrayIndex]
		}
		return ""
	}
	text, _ := tokenText(c, cur.Position)
	return text
}
