package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/query/expression"
	"github.com/bascanada/seclog/pkg/ty"
)

func testFields() []query.Field {
	return []query.Field{
		{Key: "source_ip", Expressions: expression.All(), LocalExpressions: expression.Local()},
		{Key: "port", Expressions: expression.All(), LocalExpressions: expression.Local()},
		{Key: "message", LocalExpressions: expression.Local(), LocalOnly: true},
	}
}

func clause(key, field, expr string, v query.Value) query.Clause {
	return query.Clause{
		Key:        key,
		Field:      ty.OptWrap(field),
		Expression: ty.OptWrap(expr),
		Value:      ty.OptWrap(v),
	}
}

func TestNewCondition(t *testing.T) {
	t.Run("token normalized to key", func(t *testing.T) {
		cond, ok := NewCondition(clause("a", "port", ">=", query.Scalar("1024")))
		require.True(t, ok)
		assert.Equal(t, Condition{Field: "port", Expression: expression.MoreOrEquals, Value: query.Scalar("1024")}, cond)
	})

	t.Run("placeholder elements dropped", func(t *testing.T) {
		cond, ok := NewCondition(clause("a", "port", "in", query.Array("22", "", "80", "")))
		require.True(t, ok)
		assert.Equal(t, query.Array("22", "80"), cond.Value)
	})

	t.Run("only placeholders", func(t *testing.T) {
		_, ok := NewCondition(clause("a", "port", "in", query.Array("")))
		assert.False(t, ok)
	})

	t.Run("unknown expression", func(t *testing.T) {
		_, ok := NewCondition(clause("a", "port", "<>", query.Scalar("1")))
		assert.False(t, ok)
	})
}

func TestBuildRequest(t *testing.T) {
	remote := clause("a", "source_ip", "=", query.Scalar("10.0.0.5"))
	local := clause("b", "message", "~", query.Scalar("password"))
	local.IsLocal = ty.OptWrap(true)
	hidden := clause("c", "port", "=", query.Scalar("22"))
	hidden.IsHidden = ty.OptWrap(true)
	invalid := clause("d", "port", "~", query.Scalar("22"))
	inProgress := clause("e", "port", "in", query.Array("443"))
	inProgress.IsPrimary = ty.OptWrap(true)

	req := BuildRequest(testFields(), []query.Clause{remote, local, hidden, invalid, inProgress}, nil)

	assert.Equal(t, []Condition{{Field: "source_ip", Expression: "eq", Value: query.Scalar("10.0.0.5")}}, req.Conditions)
	assert.Equal(t, []Condition{{Field: "message", Expression: "like", Value: query.Scalar("password")}}, req.Local)
	require.NotNil(t, req.Filter)
	assert.Equal(t, Filter{Field: "source_ip", Op: OpEquals, Value: "10.0.0.5"}, *req.Filter)
	assert.NoError(t, req.Filter.Validate())
}

func TestBuildRequest_Empty(t *testing.T) {
	req := BuildRequest(testFields(), nil, nil)
	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"conditions":[]}`, string(data))
}

func TestConditionFilter(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want Filter
	}{
		{"eq", Condition{"port", "eq", query.Scalar("22")}, Filter{Field: "port", Op: OpEquals, Value: "22"}},
		{"neq", Condition{"port", "neq", query.Scalar("22")}, Filter{Field: "port", Op: OpEquals, Value: "22", Negate: true}},
		{"like", Condition{"message", "like", query.Scalar("fail")}, Filter{Field: "message", Op: OpMatch, Value: "fail"}},
		{"nlike", Condition{"message", "nlike", query.Scalar("fail")}, Filter{Field: "message", Op: OpMatch, Value: "fail", Negate: true}},
		{"more", Condition{"port", "more", query.Scalar("1")}, Filter{Field: "port", Op: OpGt, Value: "1"}},
		{"moreq", Condition{"port", "moreq", query.Scalar("1")}, Filter{Field: "port", Op: OpGte, Value: "1"}},
		{"less", Condition{"port", "less", query.Scalar("1")}, Filter{Field: "port", Op: OpLt, Value: "1"}},
		{"in", Condition{"port", "in", query.Array("22", "80")}, Filter{Logic: LogicOr, Filters: []Filter{
			{Field: "port", Op: OpEquals, Value: "22"},
			{Field: "port", Op: OpEquals, Value: "80"},
		}}},
		{"nin", Condition{"port", "nin", query.Array("22")}, Filter{Logic: LogicNot, Filters: []Filter{
			{Logic: LogicOr, Filters: []Filter{{Field: "port", Op: OpEquals, Value: "22"}}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Filter())
		})
	}
}

func TestToFilter(t *testing.T) {
	assert.Nil(t, ToFilter(nil))

	f := ToFilter([]Condition{
		{"port", "eq", query.Scalar("22")},
		{"source_ip", "neq", query.Scalar("10.0.0.1")},
	})
	require.NotNil(t, f)
	assert.Equal(t, LogicAnd, f.Logic)
	assert.Len(t, f.Filters, 2)
}

func TestEvaluate(t *testing.T) {
	entries := []Entry{
		{Message: "Accepted publickey for deploy", Fields: ty.MI{"port": "22", "user": "deploy"}},
		{Message: "Failed password for root", Fields: ty.MI{"port": "22", "user": "root"}},
		{Message: "GET /index.html", Fields: ty.MI{"port": "80"}},
	}

	t.Run("no local condition keeps everything", func(t *testing.T) {
		assert.Len(t, Evaluate(entries, nil), 3)
	})

	t.Run("like and in", func(t *testing.T) {
		res := Evaluate(entries, []Condition{
			{"message", "like", query.Scalar("FOR")},
			{"user", "nin", query.Array("deploy")},
		})
		require.Len(t, res, 1)
		assert.Equal(t, "root", res[0].Fields["user"])
	})

	t.Run("numeric", func(t *testing.T) {
		res := Evaluate(entries, []Condition{{"port", "moreq", query.Scalar("80")}})
		require.Len(t, res, 1)
		assert.Equal(t, "GET /index.html", res[0].Message)
	})
}
