package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocateToken(t *testing.T) {
	full := clause("k", "source_ip", "eq", Scalar("10.0.0.1"))

	tests := []struct {
		name     string
		clause   Clause
		caret    int
		expected Position
	}{
		{"start of field", full, 0, PositionField},
		{"end of field", full, 9, PositionField},
		{"start of expression", full, 10, PositionExpression},
		{"end of expression", full, 12, PositionExpression},
		{"start of value", full, 13, PositionValue},
		{"end of value", full, 21, PositionValue},
		{"past the end", full, 99, PositionField},
		{"not focused", full, -1, PositionField},
		{"partial field", Parse("sour", "k"), 4, PositionField},
		{"after field separator", Parse("source_ip ", "k"), 10, PositionExpression},
		{"after expression separator", Parse("source_ip eq ", "k"), 13, PositionValue},
		{"array value", clause("k", "port", "in", Array("80", "")), 12, PositionValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LocateToken(tt.clause, tt.caret))
		})
	}
}

func TestLocateArrayElement(t *testing.T) {
	c := clause("k", "port", "in", Array("80", "443", ""))
	// "port in 80, 443, "
	assert.Equal(t, Cursor{Position: PositionValue, ArrayIndex: 0}, Locate(c, 9))
	assert.Equal(t, Cursor{Position: PositionValue, ArrayIndex: 1}, Locate(c, 13))
	assert.Equal(t, Cursor{Position: PositionValue, ArrayIndex: 2}, Locate(c, 17))
	assert.Equal(t, Cursor{Position: PositionExpression, ArrayIndex: -1}, Locate(c, 6))

	assert.Equal(t, 12, ElementStart(c, 1))
	assert.Equal(t, 17, ElementStart(c, 2))
}

func TestLocateUnicode(t *testing.T) {
	c := clause("k", "user", "=", Scalar("rené"))
	assert.Equal(t, PositionValue, LocateToken(c, 11))
	assert.Equal(t, 11, TokenEnd(c, PositionValue))
}

func TestTyped(t *testing.T) {
	c := clause("k", "port", "in", Array("80", "44"))
	assert.Equal(t, "44", Typed(c, Cursor{Position: PositionValue, ArrayIndex: 1}))
	assert.Equal(t, "in", Typed(c, Cursor{Position: PositionExpression, ArrayIndex: NoIndex}))
	assert.Equal(t, "", Typed(c, Cursor{Position: PositionValue, ArrayIndex: 5}))
}
