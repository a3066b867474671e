package endpoint

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/datastax/data-api-filters/config"
	"github.com/datastax/data-api-filters/db"
	"github.com/datastax/data-api-filters/log"
	"github.com/datastax/data-api-filters/memory"
	"github.com/datastax/data-api-filters/rest"
	"github.com/datastax/data-api-filters/sqlstore"
	"github.com/datastax/data-api-filters/types"
)

const (
	BackendMemory    = "memory"
	BackendCassandra = "cassandra"
	BackendPostgres  = "postgres"
)

const DefaultConnectTimeout = 10 * time.Second

type DataEndpointConfig struct {
	backend        string
	dataFile       string
	dbHosts        []string
	dbUsername     string
	dbPassword     string
	keyspace       string
	localDC        string
	consistency    string
	connectTimeout time.Duration
	postgresDSN    string
	tables         sqlstore.Schema
	resources      []config.ResourceConfig
	naming         config.NamingConvention
	separator      string
	supportedOps   config.Operations
	logger         log.Logger
}

func (cfg DataEndpointConfig) Naming() config.NamingConvention {
	return cfg.naming
}

func (cfg DataEndpointConfig) LookupSeparator() string {
	return cfg.separator
}

func (cfg DataEndpointConfig) Operations() config.Operations {
	return cfg.supportedOps
}

func (cfg DataEndpointConfig) Logger() log.Logger {
	return cfg.logger
}

func (cfg *DataEndpointConfig) WithBackend(backend string) *DataEndpointConfig {
	cfg.backend = backend
	return cfg
}

func (cfg *DataEndpointConfig) WithDataFile(dataFile string) *DataEndpointConfig {
	cfg.dataFile = dataFile
	return cfg
}

func (cfg *DataEndpointConfig) WithDbHosts(hosts []string) *DataEndpointConfig {
	cfg.dbHosts = hosts
	return cfg
}

func (cfg *DataEndpointConfig) WithDbUsername(dbUsername string) *DataEndpointConfig {
	cfg.dbUsername = dbUsername
	return cfg
}

func (cfg *DataEndpointConfig) WithDbPassword(dbPassword string) *DataEndpointConfig {
	cfg.dbPassword = dbPassword
	return cfg
}

func (cfg *DataEndpointConfig) WithKeyspace(keyspace string) *DataEndpointConfig {
	cfg.keyspace = keyspace
	return cfg
}

func (cfg *DataEndpointConfig) WithLocalDC(localDC string) *DataEndpointConfig {
	cfg.localDC = localDC
	return cfg
}

func (cfg *DataEndpointConfig) WithConsistency(consistency string) *DataEndpointConfig {
	cfg.consistency = consistency
	return cfg
}

func (cfg *DataEndpointConfig) WithConnectTimeout(connectTimeout time.Duration) *DataEndpointConfig {
	cfg.connectTimeout = connectTimeout
	return cfg
}

func (cfg *DataEndpointConfig) WithPostgresDSN(dsn string) *DataEndpointConfig {
	cfg.postgresDSN = dsn
	return cfg
}

func (cfg *DataEndpointConfig) WithTables(tables sqlstore.Schema) *DataEndpointConfig {
	cfg.tables = tables
	return cfg
}

func (cfg *DataEndpointConfig) WithResources(resources []config.ResourceConfig) *DataEndpointConfig {
	cfg.resources = resources
	return cfg
}

func (cfg *DataEndpointConfig) WithNaming(naming config.NamingConvention) *DataEndpointConfig {
	cfg.naming = naming
	return cfg
}

func (cfg *DataEndpointConfig) WithLookupSeparator(separator string) *DataEndpointConfig {
	cfg.separator = separator
	return cfg
}

func (cfg *DataEndpointConfig) WithSupportedOperations(supportedOps config.Operations) *DataEndpointConfig {
	cfg.supportedOps = supportedOps
	return cfg
}

// NewEndpoint connects to the configured backend and builds the resources.
func (cfg DataEndpointConfig) NewEndpoint(ctx context.Context) (*DataEndpoint, error) {
	if cfg.separator == "" {
		return nil, fmt.Errorf("lookup separator can not be empty")
	}
	if err := config.ValidateResources(cfg.resources); err != nil {
		return nil, err
	}

	backend, closer, err := cfg.newBackend(ctx)
	if err != nil {
		return nil, err
	}

	endpoint, err := cfg.newEndpointWithBackend(backend)
	if err != nil {
		_ = closer()
		return nil, err
	}
	endpoint.closer = closer
	return endpoint, nil
}

func (cfg DataEndpointConfig) newBackend(ctx context.Context) (types.Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.backend {
	case BackendMemory, "":
		if cfg.dataFile == "" {
			return nil, nil, fmt.Errorf("a data file is required for the %s backend", BackendMemory)
		}
		backend, err := memory.LoadFile(cfg.dataFile)
		if err != nil {
			return nil, nil, err
		}
		return backend, noop, nil
	case BackendCassandra:
		dbClient, err := db.NewDb(db.ClusterConfig{
			Hosts:          cfg.dbHosts,
			Keyspace:       cfg.keyspace,
			Username:       cfg.dbUsername,
			Password:       cfg.dbPassword,
			LocalDC:        cfg.localDC,
			Consistency:    cfg.consistency,
			ConnectTimeout: cfg.connectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return dbClient, func() error {
			dbClient.Close()
			return nil
		}, nil
	case BackendPostgres:
		store, err := sqlstore.Open(ctx, cfg.postgresDSN, cfg.tables, cfg.logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported backend: %s", cfg.backend)
}

func (cfg DataEndpointConfig) newEndpointWithBackend(backend types.Backend) (*DataEndpoint, error) {
	resources := make([]*config.Resource, 0, len(cfg.resources))
	for _, resourceConfig := range cfg.resources {
		resource, err := resourceConfig.Build(cfg.naming, cfg.separator, cfg.logger)
		if err != nil {
			return nil, fmt.Errorf("unable to build resource %s: %w", resourceConfig.Name, err)
		}
		resources = append(resources, resource)
	}

	cfg.logger.Info("endpoint configured",
		"backend", cfg.backend,
		"resources", len(resources),
		"separator", cfg.separator)

	return &DataEndpoint{
		restRouteGen: rest.NewRouteGenerator(backend, resources, cfg),
		resources:    resources,
		closer:       func() error { return nil },
	}, nil
}

type DataEndpoint struct {
	restRouteGen *rest.RouteGenerator
	resources    []*config.Resource
	closer       func() error
}

func NewEndpointConfig() (*DataEndpointConfig, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEndpointConfigWithLogger(log.NewZapLogger(logger)), nil
}

func NewEndpointConfigWithLogger(logger log.Logger) *DataEndpointConfig {
	return &DataEndpointConfig{
		backend:        BackendMemory,
		connectTimeout: DefaultConnectTimeout,
		naming:         config.NewDefaultNaming(),
		separator:      types.DefaultSeparator,
		supportedOps:   config.AllOperations,
		logger:         logger,
	}
}

func (e *DataEndpoint) RoutesRest(prefix string) []types.Route {
	return e.restRouteGen.Routes(prefix)
}

func (e *DataEndpoint) Resources() []*config.Resource {
	return e.resources
}

func (e *DataEndpoint) Close() error {
	return e.closer()
}
