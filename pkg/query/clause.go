package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bascanada/seclog/pkg/query/expression"
	"github.com/bascanada/seclog/pkg/ty"
)

// Value is the operand of a clause. A scalar holds exactly one item,
// an array holds one item per element.
type Value struct {
	Items []string
	Array bool
}

// Scalar builds a single value operand.
func Scalar(v string) Value {
	return Value{Items: []string{v}}
}

// Array builds a multi value operand.
func Array(v ...string) Value {
	return Value{Items: append([]string{}, v...), Array: true}
}

// String returns the scalar, or the joined items for arrays.
func (v Value) String() string {
	if v.Array {
		return strings.Join(v.Items, ArraySeparator)
	}
	if len(v.Items) == 0 {
		return ""
	}
	return v.Items[0]
}

// Empty is true for an empty scalar or an array with no non empty item.
func (v Value) Empty() bool {
	for _, item := range v.Items {
		if item != "" {
			return false
		}
	}
	return true
}

// Equal compares both operands positionally.
func (v Value) Equal(o Value) bool {
	if v.Array != o.Array {
		return false
	}
	if !v.Array {
		return v.String() == o.String()
	}
	if len(v.Items) != len(o.Items) {
		return false
	}
	for i := range v.Items {
		if v.Items[i] != o.Items[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy not sharing the items slice.
func (v Value) Clone() Value {
	return Value{Items: append([]string{}, v.Items...), Array: v.Array}
}

// MarshalJSON writes a string for scalars and a list for arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Array {
		items := v.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(v.String())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Scalar(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("value must be a string or a list of strings: %w", err)
	}
	*v = Array(items...)
	return nil
}

// Clause is one `field expression value` filter of the search bar.
type Clause struct {
	Key                string         `json:"key"`
	Field              ty.Opt[string] `json:"field,omitzero"`
	Expression         ty.Opt[string] `json:"expression,omitzero"`
	Value              ty.Opt[Value]  `json:"value,omitzero"`
	IsLocal            ty.Opt[bool]   `json:"isLocal,omitzero"`
	IsPrimary          ty.Opt[bool]   `json:"isPrimary,omitzero"`
	IsHidden           ty.Opt[bool]   `json:"isHidden,omitzero"`
	IsAutoFocusEnabled ty.Opt[bool]   `json:"isAutoFocusEnabled,omitzero"`
}

func (c Clause) Local() bool   { return c.IsLocal.Or(false) }
func (c Clause) Primary() bool { return c.IsPrimary.Or(false) }
func (c Clause) Hidden() bool  { return c.IsHidden.Or(false) }

// FieldText returns the field token, empty when undefined.
func (c Clause) FieldText() string { return c.Field.Or("") }

// ExpressionText returns the expression token, empty when undefined.
func (c Clause) ExpressionText() string { return c.Expression.Or("") }

// Multi tells if the clause expression takes a list of values.
func (c Clause) Multi() bool {
	return expression.IsMulti(c.ExpressionText())
}

// Merge applies the set fields of patch onto c. The key is never changed.
func (c *Clause) Merge(patch Clause) {
	c.Field.Merge(&patch.Field)
	c.Expression.Merge(&patch.Expression)
	if patch.Value.Set {
		v := patch.Value
		if v.Valid {
			v.Value = v.Value.Clone()
		}
		c.Value.Merge(&v)
	}
	c.IsLocal.Merge(&patch.IsLocal)
	c.IsPrimary.Merge(&patch.IsPrimary)
	c.IsHidden.Merge(&patch.IsHidden)
	c.IsAutoFocusEnabled.Merge(&patch.IsAutoFocusEnabled)
}

// SameFilter compares the filtering part of two clauses: field,
// expression, value and locality.
func (c Clause) SameFilter(o Clause) bool {
	if !sameOpt(c.Field, o.Field) || !sameOpt(c.Expression, o.Expression) {
		return false
	}
	if c.Local() != o.Local() {
		return false
	}
	cv, cok := c.Value.Get()
	ov, ook := o.Value.Get()
	if cok != ook {
		return false
	}
	return !cok || cv.Equal(ov)
}

// Equal compares the filter and the flags of two clauses, keys aside.
func (c Clause) Equal(o Clause) bool {
	return c.SameFilter(o) &&
		c.Primary() == o.Primary() &&
		c.Hidden() == o.Hidden() &&
		c.IsAutoFocusEnabled.Or(false) == o.IsAutoFocusEnabled.Or(false)
}

func sameOpt(a, b ty.Opt[string]) bool {
	av, aok := a.Get()
	bv, bok := b.Get()
	return aok == bok && av == bv
}

// Clone returns a deep copy of the clause.
func (c Clause) Clone() Clause {
	cp := c
	if v, ok := c.Value.Get(); ok {
		cp.Value = ty.OptWrap(v.Clone())
	}
	return cp
}
