package endpoint

import (
	"go.uber.org/atomic"

	"github.com/datastax/data-api-filters/filters"
	m "github.com/datastax/data-api-filters/rest/models"
)

// Stats counts rows listings by filter outcome.
type Stats struct {
	requests atomic.Int64
	applied  atomic.Int64
	fellBack atomic.Int64
	disabled atomic.Int64
	errors   atomic.Int64
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) record(status filters.Status) {
	s.requests.Inc()
	switch status {
	case filters.Applied:
		s.applied.Inc()
	case filters.FellBack:
		s.fellBack.Inc()
	default:
		s.disabled.Inc()
	}
}

func (s *Stats) recordError() {
	s.requests.Inc()
	s.errors.Inc()
}

func (s *Stats) Snapshot() m.Stats {
	return m.Stats{
		Requests: s.requests.Load(),
		Applied:  s.applied.Load(),
		FellBack: s.fellBack.Load(),
		Disabled: s.disabled.Load(),
		Errors:   s.errors.Load(),
	}
}
