package query

import (
	"sort"
	"strings"

	"github.com/bascanada/seclog/pkg/query/expression"
)

// NoIndex marks a candidate or an error that is not tied to an array
// element.
const NoIndex = -1

// Candidate is one autocomplete suggestion. Key is the text written into
// the clause when the suggestion is applied.
type Candidate struct {
	Key          string   `json:"key"`
	DisplayValue string   `json:"displayValue"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	ArrayIndex   int      `json:"arrayIndex"`
}

// Label returns the display value, or the key when none is set.
func (c Candidate) Label() string {
	if c.DisplayValue != "" {
		return c.DisplayValue
	}
	return c.Key
}

// ValueRequest is handed to value suggesters. Prefix is the text typed in
// the element under edit, Chosen holds the other elements of an array
// value so they can be left out.
type ValueRequest struct {
	Clause     Clause
	Prefix     string
	ArrayIndex int
	Chosen     []string
}

// ValueSuggester computes value candidates for a field. The asset cache
// is passed through untouched from the host.
type ValueSuggester interface {
	SuggestValues(req ValueRequest, assets any) []Candidate
}

// ValueValidator checks a clause value beyond the generic rules.
type ValueValidator interface {
	ValidateValue(c Clause, assets any) *ValidationError
}

// SuggesterFunc adapts a function to ValueSuggester.
type SuggesterFunc func(req ValueRequest, assets any) []Candidate

func (f SuggesterFunc) SuggestValues(req ValueRequest, assets any) []Candidate {
	return f(req, assets)
}

// ValidatorFunc adapts a function to ValueValidator.
type ValidatorFunc func(c Clause, assets any) *ValidationError

func (f ValidatorFunc) ValidateValue(c Clause, assets any) *ValidationError {
	return f(c, assets)
}

// Field describes an attribute the search bar can filter on.
type Field struct {
	Key              string
	DisplayValue     string
	Description      string
	Expressions      []expression.Descriptor
	LocalExpressions []expression.Descriptor
	LocalOnly        bool
	Suggester        ValueSuggester
	Validator        ValueValidator
}

// Label returns the display value, or the key when none is set.
func (f Field) Label() string {
	if f.DisplayValue != "" {
		return f.DisplayValue
	}
	return f.Key
}

// AllowedExpressions returns the operators usable by a local or a remote
// clause.
func (f Field) AllowedExpressions(local bool) []expression.Descriptor {
	if local {
		return f.LocalExpressions
	}
	return f.Expressions
}

// FindField returns the catalog entry with key.
func FindField(fields []Field, key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// StaticValues suggests from a fixed list.
type StaticValues []string

func (s StaticValues) SuggestValues(req ValueRequest, _ any) []Candidate {
	return FilterValues(req, s, 0)
}

// FilterValues is the common value filtering used by suggesters: it keeps
// the values containing the typed prefix, ignoring case, drops the values
// already chosen in the array, puts prefix matches first and caps the
// result to limit entries when limit is positive. Every candidate carries
// the array index of the request.
func FilterValues(req ValueRequest, values []string, limit int) []Candidate {
	prefix := strings.ToLower(req.Prefix)
	chosen := make(map[string]bool, len(req.Chosen))
	for _, c := range req.Chosen {
		chosen[c] = true
	}

	var res []Candidate
	seen := map[string]bool{}
	for _, v := range values {
		if chosen[v] || seen[v] {
			continue
		}
		if prefix != "" && !strings.Contains(strings.ToLower(v), prefix) {
			continue
		}
		seen[v] = true
		res = append(res, Candidate{Key: v, DisplayValue: v, ArrayIndex: req.ArrayIndex})
	}

	sort.SliceStable(res, func(i, j int) bool {
		iMatch := strings.HasPrefix(strings.ToLower(res[i].Key), prefix)
		jMatch := strings.HasPrefix(strings.ToLower(res[j].Key), prefix)
		return iMatch && !jMatch
	})

	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}
