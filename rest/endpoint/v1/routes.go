package endpoint

import (
	"net/http"
	"path"
	"sort"

	"github.com/julienschmidt/httprouter"

	"github.com/datastax/data-api-filters/config"
	"github.com/datastax/data-api-filters/filters"
	"github.com/datastax/data-api-filters/log"
	"github.com/datastax/data-api-filters/types"
)

const (
	ResourcesPathFormat = "/v1/resources"
	RowsPathFormat      = "/v1/resources/%s/rows"
	StatsPathFormat     = "/v1/stats"
)

// FiltersStatusHeader carries the filter outcome of a rows listing.
const FiltersStatusHeader = "X-Filters-Status"

type routeList struct {
	backend       types.Backend
	filterBackend *filters.DictFilterBackend
	resources     map[string]*config.Resource
	names         []string
	stats         *Stats
	logger        log.Logger
	params        func(*http.Request, string) string
}

// Routes returns the REST routes of the supported operations, mounted under prefix
func Routes(
	prefix string,
	operations config.Operations,
	cfg config.Config,
	backend types.Backend,
	resources []*config.Resource,
) []types.Route {
	rl := routeList{
		backend:       backend,
		filterBackend: filters.NewDictFilterBackend(filters.NewCompiler(cfg.LookupSeparator(), cfg.Logger()), cfg.Logger()),
		resources:     make(map[string]*config.Resource, len(resources)),
		names:         make([]string, 0, len(resources)),
		stats:         NewStats(),
		logger:        cfg.Logger(),
		params:        httprouterParams,
	}
	for _, resource := range resources {
		rl.resources[resource.Name] = resource
		rl.names = append(rl.names, resource.Name)
	}
	sort.Strings(rl.names)

	routes := make([]types.Route, 0, 3)
	if operations.IsSupported(config.ResourcesList) {
		routes = append(routes, types.Route{
			Method:  http.MethodGet,
			Pattern: path.Join(prefix, ResourcesPathFormat),
			Handler: http.HandlerFunc(rl.GetResources),
		})
	}
	if operations.IsSupported(config.RowsList) {
		routes = append(routes, types.Route{
			Method:  http.MethodGet,
			Pattern: path.Join(prefix, "/v1/resources/:resourceName/rows"),
			Handler: http.HandlerFunc(rl.GetRows),
		})
	}
	if operations.IsSupported(config.StatsRead) {
		routes = append(routes, types.Route{
			Method:  http.MethodGet,
			Pattern: path.Join(prefix, StatsPathFormat),
			Handler: http.HandlerFunc(rl.GetStats),
		})
	}
	return routes
}

func httprouterParams(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}
