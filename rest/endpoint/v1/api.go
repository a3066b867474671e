package endpoint

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/datastax/data-api-filters/config"
	"github.com/datastax/data-api-filters/filters"
	e "github.com/datastax/data-api-filters/rest/errors"
	m "github.com/datastax/data-api-filters/rest/models"
	"github.com/datastax/data-api-filters/types"
)

func (s *routeList) GetResources(w http.ResponseWriter, r *http.Request) {
	result := m.Resources{Resources: make([]m.Resource, 0, len(s.names))}
	for _, name := range s.names {
		result.Resources = append(result.Resources, resourceModel(s.resources[name]))
	}
	RespondJSONObjectWithCode(w, http.StatusOK, result)
}

// GetRows lists the rows of a resource narrowed by the query string. Filter values rejected by the
// data layer never fail the request: the unfiltered rows are returned with a "fell-back" status.
func (s *routeList) GetRows(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resourceName := s.params(r, "resourceName")

	resource, err := s.resource(resourceName)
	if err != nil {
		switch err.(type) {
		case *e.NotFoundError:
			RespondWithError(w, err, http.StatusNotFound)
		default:
			RespondWithError(w, err, http.StatusInternalServerError)
		}
		return
	}

	qs, err := s.backend.Queryset(ctx, resource.Table)
	if err != nil {
		s.internalError(w, "unable to open resource", resourceName, err)
		return
	}

	params := r.URL.Query()
	outcome, err := s.filterBackend.FilterQueryset(params, resource.Filter, qs)
	if err != nil {
		s.internalError(w, "unable to filter rows", resourceName, err)
		return
	}

	filtered, err := resource.FilterSet.Apply(params, outcome.Queryset)
	if err != nil {
		s.internalError(w, "unable to apply method filters", resourceName, err)
		return
	}

	rows, err := filtered.Rows(ctx)
	if err != nil && types.IsInvalidValue(err) {
		s.logger.Warn("invalid filter value at fetch time, returning unfiltered results",
			"resource", resourceName,
			"error", err)
		outcome.Status = filters.FellBack
		outcome.Cause = err
		rows, err = qs.All().Rows(ctx)
	}
	if err != nil {
		s.internalError(w, "unable to fetch rows", resourceName, err)
		return
	}

	s.stats.record(outcome.Status)

	result := m.Rows{
		Rows:   make([]map[string]interface{}, 0, len(rows)),
		Count:  len(rows),
		Status: outcome.Status.String(),
	}
	if outcome.Status != filters.Disabled {
		result.Filters = outcome.Predicates.Keys()
	}
	if resource.Limit > 0 && len(rows) > resource.Limit {
		rows = rows[:resource.Limit]
	}
	for _, row := range rows {
		result.Rows = append(result.Rows, project(row, resource.Filter))
	}

	w.Header().Set(FiltersStatusHeader, result.Status)
	RespondJSONObjectWithCode(w, http.StatusOK, result)
}

func (s *routeList) GetStats(w http.ResponseWriter, r *http.Request) {
	RespondJSONObjectWithCode(w, http.StatusOK, s.stats.Snapshot())
}

func (s *routeList) resource(name string) (*config.Resource, error) {
	resource, ok := s.resources[name]
	if !ok {
		return nil, e.NewNotFoundError(fmt.Sprintf("resource '%s' not found", name))
	}
	return resource, nil
}

func (s *routeList) internalError(w http.ResponseWriter, msg string, resourceName string, err error) {
	s.stats.recordError()
	s.logger.Error(msg,
		"resource", resourceName,
		"error", err)
	RespondWithError(w, errors.New(msg), http.StatusInternalServerError)
}

// project exposes a storage row under the resource field names. Fields missing from the row are
// omitted.
func project(row types.Row, resource filters.Resource) map[string]interface{} {
	result := make(map[string]interface{}, len(resource.Fields))
	for _, field := range resource.Fields {
		if value, ok := row[resource.StorageName(field)]; ok {
			result[field] = value
		}
	}
	return result
}

func resourceModel(resource *config.Resource) m.Resource {
	model := m.Resource{
		Name:   resource.Name,
		Fields: resource.Filter.Fields,
		Params: resource.FilterSet.Params(),
	}
	if len(resource.Filter.Filters) > 0 {
		model.Filters = make(map[string]string, len(resource.Filter.Filters))
		for field, policy := range resource.Filter.Filters {
			model.Filters[field] = policy.String()
		}
	}
	return model
}
