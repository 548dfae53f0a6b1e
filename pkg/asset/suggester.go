package asset

import (
	"github.com/bascanada/seclog/pkg/log"
	"github.com/bascanada/seclog/pkg/query"
)

// DefaultLimit caps the number of values suggested from the cache.
const DefaultLimit = 50

// Source is what the suggester reads values from.
type Source interface {
	Values(kind Kind) []string
}

// Suggester suggests the values of one kind of the asset cache given to
// the builder.
type Suggester struct {
	Kind  Kind
	Limit int
}

func (s Suggester) SuggestValues(req query.ValueRequest, assets any) []query.Candidate {
	src, ok := assets.(Source)
	if !ok || src == nil {
		log.Debug("no asset cache to suggest %s from", s.Kind)
		return nil
	}
	limit := s.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	return query.FilterValues(req, src.Values(s.Kind), limit)
}
