package search

import (
	"fmt"
	"strconv"
	"strings"
)

type LogicOperator string

const (
	LogicAnd LogicOperator = "AND"
	LogicOr  LogicOperator = "OR"
	LogicNot LogicOperator = "NOT"
)

// Leaf operators.
const (
	OpEquals = "equals"
	OpMatch  = "match"
	OpGt     = "gt"
	OpGte    = "gte"
	OpLt     = "lt"
)

// Filter represents a recursive filter AST node.
// It can be either a leaf node (condition) or a branch node (group).
type Filter struct {
	// --- Leaf Node (Condition) ---
	Field  string `json:"field,omitempty" yaml:"field,omitempty"`
	Op     string `json:"op,omitempty" yaml:"op,omitempty"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	Negate bool   `json:"negate,omitempty" yaml:"negate,omitempty"`

	// --- Branch Node (Group) ---
	Logic   LogicOperator `json:"logic,omitempty" yaml:"logic,omitempty"`
	Filters []Filter      `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// Validate checks if the filter is structurally valid.
func (f *Filter) Validate() error {
	if f == nil {
		return nil
	}

	isLeaf := f.Field != ""
	isBranch := f.Logic != ""

	if isLeaf && isBranch {
		return fmt.Errorf("filter cannot have both 'field' and 'logic' set")
	}

	// Empty filter (neither leaf nor branch) is valid and means "match all"
	if !isLeaf && !isBranch {
		return nil
	}

	if isLeaf {
		switch f.Op {
		case "", OpEquals, OpMatch, OpGt, OpGte, OpLt:
		default:
			return fmt.Errorf("invalid operator: %s", f.Op)
		}

		if f.Value == "" {
			return fmt.Errorf("filter with field '%s' requires a value", f.Field)
		}

		if len(f.Filters) > 0 {
			return fmt.Errorf("leaf filter (field='%s') cannot have nested filters", f.Field)
		}
		return nil
	}

	switch f.Logic {
	case LogicAnd, LogicOr, LogicNot:
	default:
		return fmt.Errorf("invalid logic operator: %s", f.Logic)
	}

	if f.Logic == LogicNot && len(f.Filters) == 0 {
		return fmt.Errorf("NOT filter must have at least one child filter")
	}

	if f.Value != "" {
		return fmt.Errorf("branch filter (logic='%s') should not have a value", f.Logic)
	}

	for i, child := range f.Filters {
		if err := child.Validate(); err != nil {
			return fmt.Errorf("filter[%d]: %w", i, err)
		}
	}

	return nil
}

// Match evaluates the filter against an entry.
func (f *Filter) Match(entry Entry) bool {
	if f == nil {
		return true
	}
	if f.Logic != "" {
		return f.matchBranch(entry)
	}
	if f.Field != "" {
		return f.matchLeaf(entry)
	}
	return true
}

func (f *Filter) matchBranch(entry Entry) bool {
	if len(f.Filters) == 0 {
		return true
	}

	switch f.Logic {
	case LogicAnd:
		for _, child := range f.Filters {
			if !child.Match(entry) {
				return false
			}
		}
		return true

	case LogicOr:
		for _, child := range f.Filters {
			if child.Match(entry) {
				return true
			}
		}
		return false

	case LogicNot:
		// NOT inverts the result of all children ANDed together
		for _, child := range f.Filters {
			if !child.Match(entry) {
				return true
			}
		}
		return false
	}

	return true
}

func (f *Filter) matchLeaf(entry Entry) bool {
	fieldVal := toString(entry.Field(f.Field))

	// a missing field matches nothing, not even a negated condition
	if fieldVal == "" {
		return false
	}

	var result bool
	switch f.Op {
	case OpMatch:
		result = strings.Contains(strings.ToLower(fieldVal), strings.ToLower(f.Value))
	case OpGt, OpGte, OpLt:
		result = f.compareNumeric(fieldVal)
	default:
		result = fieldVal == f.Value
	}

	if f.Negate {
		return !result
	}
	return result
}

// compareNumeric compares field value with filter value as numbers.
// Falls back to string comparison if parsing fails.
func (f *Filter) compareNumeric(fieldVal string) bool {
	fieldNum, err1 := strconv.ParseFloat(fieldVal, 64)
	valueNum, err2 := strconv.ParseFloat(f.Value, 64)

	if err1 != nil || err2 != nil {
		return f.compareString(fieldVal)
	}

	switch f.Op {
	case OpGt:
		return fieldNum > valueNum
	case OpGte:
		return fieldNum >= valueNum
	case OpLt:
		return fieldNum < valueNum
	}
	return false
}

func (f *Filter) compareString(fieldVal string) bool {
	switch f.Op {
	case OpGt:
		return fieldVal > f.Value
	case OpGte:
		return fieldVal >= f.Value
	case OpLt:
		return fieldVal < f.Value
	}
	return false
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
