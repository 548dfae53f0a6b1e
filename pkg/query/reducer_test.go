package query

import (
	"testing"

	"github.com/bascanada/seclog/pkg/ty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unknownAction struct{}

func (unknownAction) actionType() string { return "unknown" }

func TestReduce_Create(t *testing.T) {
	var clauses []Clause

	clauses = Reduce(clauses, Create{Key: "K1"})
	require.Len(t, clauses, 1)
	assert.Equal(t, "K1", clauses[0].Key)
	assert.True(t, clauses[0].Primary())

	clauses = Reduce(clauses, Create{Key: "K2"})
	assert.Equal(t, []string{"K1", "K2"}, keys(clauses))
	assert.False(t, clauses[0].Primary())
	assert.True(t, clauses[1].Primary())
	assert.Equal(t, 1, primaryCount(clauses))
}

func TestReduce_CreateDoesNotModifyInput(t *testing.T) {
	input := []Clause{primary("K1")}
	_ = Reduce(input, Create{Key: "K2"})
	assert.True(t, input[0].Primary())
}

func TestReduce_Append(t *testing.T) {
	clauses := []Clause{
		clause("A", "source_ip", "eq", Scalar("10.0.0.1")),
		primary("P"),
	}

	item := clause("B", "protocol", "in", Array("TCP", "UDP"))
	clauses = Reduce(clauses, Append{Item: item})
	assert.Equal(t, []string{"A", "B", "P"}, keys(clauses))
	assert.False(t, clauses[1].Primary())

	t.Run("idempotent", func(t *testing.T) {
		again := Reduce(clauses, Append{Item: clause("C", "protocol", "in", Array("TCP", "UDP"))})
		assert.Equal(t, clauses, again)
	})

	t.Run("arrays compared by position", func(t *testing.T) {
		swapped := Reduce(clauses, Append{Item: clause("C", "protocol", "in", Array("UDP", "TCP"))})
		assert.Equal(t, []string{"A", "B", "C", "P"}, keys(swapped))
	})

	t.Run("locality is part of the filter", func(t *testing.T) {
		local := clause("C", "source_ip", "eq", Scalar("10.0.0.1"))
		local.IsLocal = ty.OptWrap(true)
		res := Reduce(clauses, Append{Item: local})
		assert.Equal(t, []string{"A", "B", "C", "P"}, keys(res))
	})

	t.Run("no primary appends at the end", func(t *testing.T) {
		res := Reduce(nil, Append{Item: item})
		assert.Equal(t, []string{"B"}, keys(res))
	})
}

func TestReduce_Update(t *testing.T) {
	clauses := []Clause{
		clause("A", "source_ip", "eq", Scalar("10.0.0.1")),
		primary("P"),
	}

	res := Reduce(clauses, Update{Patch: Clause{Key: "A", Value: ty.OptWrap(Scalar("10.0.0.2"))}})
	v, _ := res[0].Value.Get()
	assert.Equal(t, "10.0.0.2", v.String())
	assert.Equal(t, "source_ip", res[0].FieldText(), "unset patch fields are kept")

	orig, _ := clauses[0].Value.Get()
	assert.Equal(t, "10.0.0.1", orig.String(), "input list is untouched")

	t.Run("null clears", func(t *testing.T) {
		res := Reduce(clauses, Update{Patch: Clause{Key: "A", Expression: ty.OptNull[string]()}})
		assert.False(t, res[0].Expression.Defined())
	})

	t.Run("unknown key", func(t *testing.T) {
		res := Reduce(clauses, Update{Patch: Clause{Key: "Z", Field: ty.OptWrap("x")}})
		assert.Equal(t, clauses, res)
	})

	t.Run("same content returns the input", func(t *testing.T) {
		patch := Clause{Key: "A", Field: ty.OptWrap("source_ip"), Value: ty.OptWrap(Scalar("10.0.0.1"))}
		res := Reduce(clauses, Update{Patch: patch})
		require.Len(t, res, len(clauses))
		assert.Same(t, &clauses[0], &res[0])
	})
}

func TestReduce_Delete(t *testing.T) {
	clauses := []Clause{
		clause("A", "source_ip", "eq", Scalar("10.0.0.1")),
		clause("B", "protocol", "eq", Scalar("TCP")),
		primary("P"),
	}

	t.Run("last removes the clause before the primary", func(t *testing.T) {
		res := Reduce(clauses, Delete{Key: ResolveDeleteKey(clauses, DeleteLast)})
		assert.Equal(t, []string{"A", "P"}, keys(res))
	})

	t.Run("last resolved by the reducer", func(t *testing.T) {
		res := Reduce(clauses, Delete{Key: DeleteLast})
		assert.Equal(t, []string{"A", "P"}, keys(res))
	})

	t.Run("last with only the primary", func(t *testing.T) {
		only := []Clause{primary("P")}
		assert.Equal(t, "", ResolveDeleteKey(only, DeleteLast))
		assert.Equal(t, only, Reduce(only, Delete{Key: DeleteLast}))
	})

	t.Run("by key", func(t *testing.T) {
		res := Reduce(clauses, Delete{Key: "A"})
		assert.Equal(t, []string{"B", "P"}, keys(res))
	})

	t.Run("unknown key", func(t *testing.T) {
		assert.Equal(t, clauses, Reduce(clauses, Delete{Key: "Z"}))
	})
}

func TestReduce_UnknownAction(t *testing.T) {
	clauses := []Clause{primary("P")}
	assert.Equal(t, clauses, Reduce(clauses, unknownAction{}))
	assert.Equal(t, clauses, Reduce(clauses, nil))
}

func TestReduce_SinglePrimaryInvariant(t *testing.T) {
	next := sequentialKeys()
	var clauses []Clause

	actions := []func() Action{
		func() Action { return Create{Key: next()} },
		func() Action { return Append{Item: clause("x1", "source_ip", "eq", Scalar("1"))} },
		func() Action { return Create{Key: next()} },
		func() Action { return Append{Item: clause("x2", "source_ip", "eq", Scalar("2"))} },
		func() Action { return Update{Patch: Clause{Key: "x1", Field: ty.OptWrap("port")}} },
		func() Action { return Delete{Key: DeleteLast} },
		func() Action { return Create{Key: next()} },
		func() Action { return Delete{Key: "x1"} },
		func() Action { return Create{Key: next()} },
	}

	lastCreated := ""
	for _, build := range actions {
		action := build()
		if c, ok := action.(Create); ok {
			lastCreated = c.Key
		}
		clauses = Reduce(clauses, action)
		require.Equal(t, 1, primaryCount(clauses))
		p, ok := Primary(clauses)
		require.True(t, ok)
		assert.Equal(t, lastCreated, p.Key)
	}
}

func TestStore(t *testing.T) {
	store := NewStore()
	var notified [][]Clause
	store.Subscribe(func(c []Clause) { notified = append(notified, c) })

	store.Dispatch(Create{Key: "K1"})
	store.Dispatch(Delete{Key: "missing"})
	store.Dispatch(Update{Patch: Clause{Key: "K1", Field: ty.OptWrap("port")}})

	require.Len(t, notified, 2, "no-op dispatches are not notified")
	assert.Equal(t, "port", store.Clauses()[0].FieldText())

	store.Dispatch(Update{Patch: Clause{Key: "K1", Field: ty.OptWrap("port")}})
	store.Dispatch(Update{Patch: Clause{Key: "K1", IsPrimary: ty.OptWrap(true)}})
	assert.Len(t, notified, 2, "updates that change nothing are not notified")

	store.Dispatch(Update{Patch: Clause{Key: "K1", IsHidden: ty.OptWrap(true)}})
	assert.Len(t, notified, 3)
}
