package rest

import (
	"github.com/datastax/data-api-filters/config"
	restEndpointV1 "github.com/datastax/data-api-filters/rest/endpoint/v1"
	"github.com/datastax/data-api-filters/types"
)

type RouteGenerator struct {
	backend   types.Backend
	resources []*config.Resource
	config    config.Config
}

func NewRouteGenerator(
	backend types.Backend,
	resources []*config.Resource,
	cfg config.Config,
) *RouteGenerator {
	return &RouteGenerator{
		backend:   backend,
		resources: resources,
		config:    cfg,
	}
}

func (g *RouteGenerator) Routes(prefix string) []types.Route {
	return restEndpointV1.Routes(prefix, g.config.Operations(), g.config, g.backend, g.resources)
}
