package search

import (
	"github.com/bascanada/seclog/pkg/log"
	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/query/expression"
)

// Condition is a committed clause as sent to the backend, the expression
// normalized to its descriptor key.
type Condition struct {
	Field      string      `json:"field" yaml:"field"`
	Expression string      `json:"expression" yaml:"expression"`
	Value      query.Value `json:"value" yaml:"value"`
}

// Request is the payload of a search. Remote conditions are evaluated by
// the backend, local ones on the entries it returns.
type Request struct {
	Conditions []Condition `json:"conditions"`
	Local      []Condition `json:"local,omitempty"`
	Filter     *Filter     `json:"filter,omitempty"`
}

// NewCondition converts c. Empty elements left in array values, the
// placeholders of the next value to type, are dropped. It returns false
// when c has no known expression or no value.
func NewCondition(c query.Clause) (Condition, bool) {
	d, ok := expression.Resolve(c.ExpressionText())
	if !ok {
		return Condition{}, false
	}
	v, ok := c.Value.Get()
	if !ok {
		return Condition{}, false
	}

	if v.Array {
		items := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			if item != "" {
				items = append(items, item)
			}
		}
		v = query.Array(items...)
	}
	if v.Empty() {
		return Condition{}, false
	}

	return Condition{Field: c.FieldText(), Expression: d.Key, Value: v}, true
}

// BuildRequest keeps the committed clauses: the primary clause, the
// hidden ones and the invalid ones are left out.
func BuildRequest(fields []query.Field, clauses []query.Clause, assets any) Request {
	req := Request{Conditions: []Condition{}}
	for _, c := range clauses {
		if c.Primary() || c.Hidden() {
			continue
		}
		if err := query.Validate(fields, c, assets); err != nil {
			log.Debug("clause %s left out of the request: %v", c.Key, err)
			continue
		}
		cond, ok := NewCondition(c)
		if !ok {
			continue
		}
		if c.Local() {
			req.Local = append(req.Local, cond)
		} else {
			req.Conditions = append(req.Conditions, cond)
		}
	}
	req.Filter = ToFilter(req.Conditions)
	return req
}

// Filter returns the filter tree of the condition.
func (c Condition) Filter() Filter {
	value := c.Value.String()
	switch c.Expression {
	case expression.NotEquals:
		return Filter{Field: c.Field, Op: OpEquals, Value: value, Negate: true}
	case expression.Like:
		return Filter{Field: c.Field, Op: OpMatch, Value: value}
	case expression.NotLike:
		return Filter{Field: c.Field, Op: OpMatch, Value: value, Negate: true}
	case expression.More:
		return Filter{Field: c.Field, Op: OpGt, Value: value}
	case expression.MoreOrEquals:
		return Filter{Field: c.Field, Op: OpGte, Value: value}
	case expression.Less:
		return Filter{Field: c.Field, Op: OpLt, Value: value}
	case expression.In, expression.NotIn:
		group := Filter{Logic: LogicOr}
		for _, item := range c.Value.Items {
			group.Filters = append(group.Filters, Filter{Field: c.Field, Op: OpEquals, Value: item})
		}
		if c.Expression == expression.NotIn {
			return Filter{Logic: LogicNot, Filters: []Filter{group}}
		}
		return group
	}
	return Filter{Field: c.Field, Op: OpEquals, Value: value}
}

// ToFilter ANDs the conditions together, nil when there is none.
func ToFilter(conds []Condition) *Filter {
	if len(conds) == 0 {
		return nil
	}
	if len(conds) == 1 {
		f := conds[0].Filter()
		return &f
	}
	f := &Filter{Logic: LogicAnd}
	for _, c := range conds {
		f.Filters = append(f.Filters, c.Filter())
	}
	return f
}

// Evaluate returns the entries matching every local condition.
func Evaluate(entries []Entry, local []Condition) []Entry {
	f := ToFilter(local)
	if f == nil {
		return entries
	}
	res := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			res = append(res, e)
		}
	}
	return res
}
