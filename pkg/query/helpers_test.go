package query

import (
	"fmt"
	"strings"

	"github.com/bascanada/seclog/pkg/query/expression"
	"github.com/bascanada/seclog/pkg/ty"
)

func clause(key, field, expr string, value Value) Clause {
	return Clause{
		Key:        key,
		Field:      ty.OptWrap(field),
		Expression: ty.OptWrap(expr),
		Value:      ty.OptWrap(value),
	}
}

func primary(key string) Clause {
	return Clause{Key: key, IsPrimary: ty.OptWrap(true)}
}

func keys(clauses []Clause) []string {
	res := make([]string, len(clauses))
	for i, c := range clauses {
		res[i] = c.Key
	}
	return res
}

func primaryCount(clauses []Clause) int {
	n := 0
	for _, c := range clauses {
		if c.Primary() {
			n++
		}
	}
	return n
}

func sequentialKeys() KeyFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("K%d", n)
	}
}

type recordingSuggester struct {
	values []string
	last   ValueRequest
	calls  int
}

func (r *recordingSuggester) SuggestValues(req ValueRequest, _ any) []Candidate {
	r.last = req
	r.calls++
	return FilterValues(req, r.values, 0)
}

func testFields() []Field {
	return []Field{
		{
			Key:              "source_ip",
			Description:      "Source address",
			Expressions:      expression.All(),
			LocalExpressions: expression.Local(),
			Suggester:        StaticValues{"10.0.0.1", "10.0.0.2", "192.168.1.10"},
		},
		{
			Key:              "destination_ip",
			Description:      "Destination address",
			Expressions:      expression.All(),
			LocalExpressions: expression.Local(),
		},
		{
			Key:              "protocol",
			Description:      "Transport protocol",
			Expressions:      expression.Lookup(expression.Equals, expression.In, expression.NotIn),
			LocalExpressions: expression.Lookup(expression.Equals, expression.In),
			Suggester:        StaticValues{"TCP", "UDP", "ICMP"},
		},
		{
			Key:              "message",
			Description:      "Raw log line",
			LocalExpressions: expression.Lookup(expression.Like, expression.NotLike),
			LocalOnly:        true,
		},
		{
			Key:         "port",
			Description: "Destination port",
			Expressions: expression.All(),
			Validator: ValidatorFunc(func(c Clause, _ any) *ValidationError {
				v, _ := c.Value.Get()
				for i, item := range v.Items {
					if strings.Trim(item, "0123456789") != "" {
						idx := NoIndex
						if v.Array {
							idx = i
						}
						return &ValidationError{Position: PositionValue, Message: "Not a port", ArrayIndex: idx}
					}
				}
				return nil
			}),
		},
	}
}
