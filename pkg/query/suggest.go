package query

import (
	"strings"

	"github.com/bascanada/seclog/pkg/log"
	"github.com/bascanada/seclog/pkg/query/expression"
)

// AvailableFields returns the catalog entries a clause may use: local
// only fields are reserved to local clauses.
func AvailableFields(c Clause, fields []Field) []Field {
	res := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.LocalOnly && !c.Local() {
			continue
		}
		res = append(res, f)
	}
	return res
}

// Suggest computes the candidates for the slot under cur.
func Suggest(c Clause, cur Cursor, fields []Field, assets any) []Candidate {
	switch cur.Position {
	case PositionField:
		return suggestFields(c, fields)
	case PositionExpression:
		return suggestExpressions(c, fields)
	case PositionValue:
		return suggestValues(c, cur, fields, assets)
	}
	return nil
}

func suggestFields(c Clause, fields []Field) []Candidate {
	available := AvailableFields(c, fields)
	typed := c.FieldText()
	_, exact := FindField(available, typed)

	res := make([]Candidate, 0, len(available))
	for _, f := range available {
		if typed != "" && !exact &&
			!strings.Contains(f.Key, typed) && !strings.Contains(f.Description, typed) {
			continue
		}
		res = append(res, fieldCandidate(f))
	}
	return res
}

func fieldCandidate(f Field) Candidate {
	cand := Candidate{
		Key:          f.Key,
		DisplayValue: f.Key,
		Description:  f.Description,
		ArrayIndex:   NoIndex,
	}
	if f.Label() != f.Key {
		cand.Tags = []string{f.Label()}
	}
	if f.LocalOnly {
		cand.Tags = append(cand.Tags, "local")
	}
	return cand
}

func suggestExpressions(c Clause, fields []Field) []Candidate {
	f, ok := FindField(fields, c.FieldText())
	if !ok {
		return nil
	}
	allowed := f.AllowedExpressions(c.Local())
	typed := c.ExpressionText()
	_, exact := expression.Find(allowed, typed)

	res := make([]Candidate, 0, len(allowed))
	for _, d := range allowed {
		if typed != "" && !exact &&
			!strings.Contains(d.Token, typed) && !strings.Contains(d.Description, typed) {
			continue
		}
		res = append(res, Candidate{
			Key:          d.Token,
			DisplayValue: d.Token,
			Description:  d.Description,
			Tags:         []string{d.Key},
			ArrayIndex:   NoIndex,
		})
	}
	return res
}

func suggestValues(c Clause, cur Cursor, fields []Field, assets any) []Candidate {
	f, ok := FindField(fields, c.FieldText())
	if !ok || f.Suggester == nil {
		return nil
	}
	return safeSuggest(f, NewValueRequest(c, cur), assets)
}

// NewValueRequest builds the request of the element under cur. For arrays
// the element under edit defaults to the last one.
func NewValueRequest(c Clause, cur Cursor) ValueRequest {
	req := ValueRequest{Clause: c, ArrayIndex: NoIndex}
	v, ok := c.Value.Get()
	if !ok {
		return req
	}
	if !v.Array {
		req.Prefix = v.String()
		return req
	}

	idx := cur.ArrayIndex
	if idx < 0 || idx >= len(v.Items) {
		idx = len(v.Items) - 1
	}
	if idx < 0 {
		idx = 0
	}
	req.ArrayIndex = idx
	if idx < len(v.Items) {
		req.Prefix = v.Items[idx]
	}
	for i, item := range v.Items {
		if i != idx && item != "" {
			req.Chosen = append(req.Chosen, item)
		}
	}
	return req
}

// safeSuggest treats a failing suggester as having no suggestion.
func safeSuggest(f Field, req ValueRequest, assets any) (res []Candidate) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("value suggester for field %s failed: %v", f.Key, r)
			res = nil
		}
	}()
	return f.Suggester.SuggestValues(req, assets)
}

// ActiveIndex returns the position of activeKey in cands, falling back to
// the first candidate. It is -1 when there is no candidate.
func ActiveIndex(cands []Candidate, activeKey string) int {
	if len(cands) == 0 {
		return -1
	}
	for i, c := range cands {
		if c.Key == activeKey {
			return i
		}
	}
	return 0
}

// Active returns the active candidate.
func Active(cands []Candidate, activeKey string) (Candidate, bool) {
	idx := ActiveIndex(cands, activeKey)
	if idx == -1 {
		return Candidate{}, false
	}
	return cands[idx], true
}

// Cycle moves the active candidate by delta with wraparound and returns
// the new active key.
func Cycle(cands []Candidate, activeKey string, delta int) string {
	idx := ActiveIndex(cands, activeKey)
	if idx == -1 {
		return ""
	}
	n := len(cands)
	idx = ((idx+delta)%n + n) % n
	return cands[idx].Key
}

// GhostSuffix returns the part of the active suggestion not typed yet in
// the slot under cur, or an empty string when the suggestion does not
// extend what is typed.
func GhostSuffix(c Clause, cur Cursor, active Candidate) string {
	if cur.Position == PositionValue && active.ArrayIndex >= 0 {
		cur.ArrayIndex = active.ArrayIndex
	}
	if cur.Position == PositionValue && cur.ArrayIndex < 0 {
		if v, ok := c.Value.Get(); ok && v.Array {
			cur.ArrayIndex = len(v.Items) - 1
		}
	}
	typed := Typed(c, cur)
	label := active.Label()
	if !strings.HasPrefix(label, typed) {
		return ""
	}
	return label[len(typed):]
}
