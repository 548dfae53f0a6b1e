package query

import (
	"github.com/bascanada/seclog/pkg/ty"
	"github.com/google/uuid"
)

// DeleteLast targets the clause right before the primary one.
const DeleteLast = "last"

// KeyFunc generates keys for new clauses.
type KeyFunc func() string

// NewKey is the default KeyFunc.
func NewKey() string {
	return uuid.NewString()
}

// Action is a transition of the clause list.
type Action interface {
	actionType() string
}

// Create demotes the current primary clause and appends a new primary.
type Create struct {
	Key string
}

// Append inserts Item before the primary clause unless an equal filter
// is already in the list. Without a primary the item goes last and the
// list stays without primary until the next Create; the builder always
// creates one first.
type Append struct {
	Item Clause
}

// Update merges Patch into the clause with the same key.
type Update struct {
	Patch Clause
}

// Delete removes the clause with Key. DeleteLast removes the clause
// preceding the primary one, never the primary itself.
type Delete struct {
	Key string
}

func (Create) actionType() string { return "create" }
func (Append) actionType() string { return "append" }
func (Update) actionType() string { return "update" }
func (Delete) actionType() string { return "delete" }

// ActionType names an action, for logging.
func ActionType(a Action) string {
	if a == nil {
		return "nil"
	}
	return a.actionType()
}

// Reduce returns the clause list after applying action. The input slice
// is never modified.
func Reduce(clauses []Clause, action Action) []Clause {
	switch a := action.(type) {
	case Create:
		return reduceCreate(clauses, a)
	case Append:
		return reduceAppend(clauses, a)
	case Update:
		return reduceUpdate(clauses, a)
	case Delete:
		return reduceDelete(clauses, a)
	}
	return clauses
}

func reduceCreate(clauses []Clause, a Create) []Clause {
	res := make([]Clause, 0, len(clauses)+1)
	for _, c := range clauses {
		if c.Primary() {
			c.IsPrimary = ty.OptWrap(false)
		}
		res = append(res, c)
	}
	return append(res, Clause{Key: a.Key, IsPrimary: ty.OptWrap(true)})
}

func reduceAppend(clauses []Clause, a Append) []Clause {
	for _, c := range clauses {
		if c.SameFilter(a.Item) {
			return clauses
		}
	}

	item := a.Item.Clone()
	item.IsPrimary = ty.OptWrap(false)

	idx := PrimaryIndex(clauses)
	if idx == -1 {
		idx = len(clauses)
	}

	res := make([]Clause, 0, len(clauses)+1)
	res = append(res, clauses[:idx]...)
	res = append(res, item)
	return append(res, clauses[idx:]...)
}

func reduceUpdate(clauses []Clause, a Update) []Clause {
	idx := IndexOf(clauses, a.Patch.Key)
	if idx == -1 {
		return clauses
	}
	merged := clauses[idx].Clone()
	merged.Merge(a.Patch)
	if merged.Equal(clauses[idx]) {
		return clauses
	}
	res := append([]Clause(nil), clauses...)
	res[idx] = merged
	return res
}

func reduceDelete(clauses []Clause, a Delete) []Clause {
	key := ResolveDeleteKey(clauses, a.Key)
	if key == "" {
		return clauses
	}
	idx := IndexOf(clauses, key)
	if idx == -1 {
		return clauses
	}
	res := make([]Clause, 0, len(clauses)-1)
	res = append(res, clauses[:idx]...)
	return append(res, clauses[idx+1:]...)
}

// ResolveDeleteKey turns DeleteLast into the key of the clause preceding
// the primary clause. Other keys are returned as is. An empty string is
// returned when there is nothing to delete.
func ResolveDeleteKey(clauses []Clause, key string) string {
	if key != DeleteLast {
		return key
	}
	idx := PrimaryIndex(clauses)
	if idx == -1 {
		idx = len(clauses)
	}
	if idx == 0 {
		return ""
	}
	return clauses[idx-1].Key
}

// IndexOf returns the position of the clause with key, or -1.
func IndexOf(clauses []Clause, key string) int {
	for i, c := range clauses {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// Find returns the clause with key.
func Find(clauses []Clause, key string) (Clause, bool) {
	if idx := IndexOf(clauses, key); idx != -1 {
		return clauses[idx], true
	}
	return Clause{}, false
}

// PrimaryIndex returns the position of the primary clause, or -1.
func PrimaryIndex(clauses []Clause) int {
	for i := len(clauses) - 1; i >= 0; i-- {
		if clauses[i].Primary() {
			return i
		}
	}
	return -1
}

// Primary returns the primary clause of the list.
func Primary(clauses []Clause) (Clause, bool) {
	if idx := PrimaryIndex(clauses); idx != -1 {
		return clauses[idx], true
	}
	return Clause{}, false
}
