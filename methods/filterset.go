package methods

import (
	"fmt"
	"net/url"

	"github.com/datastax/data-api-filters/log"
	"github.com/datastax/data-api-filters/types"
)

type binding struct {
	param   string
	adapter Adapter
}

// FilterSet binds query parameters to adapters. Adapters run in the order they were added, each on
// the result of the previous one.
type FilterSet struct {
	bindings []binding
	logger   log.Logger
}

func NewFilterSet(logger log.Logger) *FilterSet {
	return &FilterSet{logger: logger}
}

func (s *FilterSet) Add(param string, adapter Adapter) error {
	for _, b := range s.bindings {
		if b.param == param {
			return fmt.Errorf("parameter %s is already bound", param)
		}
	}
	s.bindings = append(s.bindings, binding{param: param, adapter: adapter})
	return nil
}

func (s *FilterSet) Params() []string {
	params := make([]string, len(s.bindings))
	for i, b := range s.bindings {
		params[i] = b.param
	}
	return params
}

func (s *FilterSet) Len() int {
	return len(s.bindings)
}

// Apply runs the adapter of every bound parameter present in params, using its last occurrence.
func (s *FilterSet) Apply(params url.Values, qs types.Queryset) (types.Queryset, error) {
	for _, b := range s.bindings {
		values, ok := params[b.param]
		if !ok || len(values) == 0 {
			continue
		}

		value := values[len(values)-1]
		result, err := b.adapter.Apply(qs, value)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("applied method filter", "param", b.param, "value", value)
		qs = result
	}
	return qs, nil
}
