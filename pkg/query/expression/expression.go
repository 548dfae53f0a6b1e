// Package expression defines the comparison operators a filter clause can use.
package expression

const (
	Equals       = "eq"
	NotEquals    = "neq"
	In           = "in"
	NotIn        = "nin"
	Like         = "like"
	NotLike      = "nlike"
	More         = "more"
	MoreOrEquals = "moreq"
	Less         = "less"
)

// Descriptor describes one operator. Token is the text written in the
// search bar, Multi tells if the operand is a list of values.
type Descriptor struct {
	Key         string `json:"key" yaml:"key"`
	Token       string `json:"token" yaml:"token"`
	Description string `json:"description" yaml:"description"`
	Multi       bool   `json:"multi" yaml:"multi"`
}

var catalog = []Descriptor{
	{Key: Equals, Token: "=", Description: "equals"},
	{Key: NotEquals, Token: "!=", Description: "not equals"},
	{Key: In, Token: "in", Description: "in list", Multi: true},
	{Key: NotIn, Token: "!in", Description: "not in list", Multi: true},
	{Key: Like, Token: "~", Description: "contains"},
	{Key: NotLike, Token: "!~", Description: "does not contain"},
	{Key: More, Token: ">", Description: "greater than"},
	{Key: MoreOrEquals, Token: ">=", Description: "greater or equal"},
	{Key: Less, Token: "<", Description: "less than"},
}

// remote operators can be sent to the search backend.
var remote = []string{Equals, NotEquals, In, NotIn, More, MoreOrEquals, Less}

// local operators are evaluated against already fetched results.
var local = []string{Equals, NotEquals, In, NotIn, Like, NotLike}

// Get returns the descriptor registered under key.
func Get(key string) (Descriptor, bool) {
	for _, d := range catalog {
		if d.Key == key {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Resolve accepts either the key or the token of an operator.
func Resolve(text string) (Descriptor, bool) {
	if d, ok := Get(text); ok {
		return d, true
	}
	for _, d := range catalog {
		if d.Token == text {
			return d, true
		}
	}
	return Descriptor{}, false
}

// IsMulti reports if text resolves to an operator taking several values.
func IsMulti(text string) bool {
	d, ok := Resolve(text)
	return ok && d.Multi
}

// Catalog returns every known operator.
func Catalog() []Descriptor {
	return append([]Descriptor(nil), catalog...)
}

// All returns the operators a server side search accepts.
func All() []Descriptor {
	return Lookup(remote...)
}

// Local returns the operators available for client side filtering.
func Local() []Descriptor {
	return Lookup(local...)
}

// Lookup maps keys to descriptors, unknown keys are skipped.
func Lookup(keys ...string) []Descriptor {
	res := make([]Descriptor, 0, len(keys))
	for _, k := range keys {
		if d, ok := Get(k); ok {
			res = append(res, d)
		}
	}
	return res
}

// Find returns the descriptor of set matching text by key or token.
func Find(set []Descriptor, text string) (Descriptor, bool) {
	for _, d := range set {
		if d.Key == text || d.Token == text {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Keys lists the keys of descs in order.
func Keys(descs []Descriptor) []string {
	res := make([]string, len(descs))
	for i, d := range descs {
		res[i] = d.Key
	}
	return res
}
