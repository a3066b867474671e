package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	log2 "log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/datastax/data-api-filters/config"
	"github.com/datastax/data-api-filters/endpoint"
	"github.com/datastax/data-api-filters/log"
	"github.com/datastax/data-api-filters/types"
)

const defaultRESTPath = "/api"

// Environment variables prefixed with "FILTERS_" can override settings e.g. "FILTERS_BACKEND"
const envVarPrefix = "filters"

var cfgFile string
var envFile string
var logger log.Logger

var serverCmd = &cobra.Command{
	Use:   os.Args[0] + " --backend [memory|cassandra|postgres] -c [CONFIG] [OPTIONS]",
	Short: "REST endpoint serving resources filtered from query string parameters",
	Args: func(cmd *cobra.Command, args []string) error {
		switch viper.GetString("backend") {
		case endpoint.BackendMemory:
			if viper.GetString("data-file") == "" {
				return errors.New("data-file is required for the memory backend")
			}
		case endpoint.BackendCassandra:
			if len(getStringSlice("hosts")) == 0 {
				return errors.New("hosts are required for the cassandra backend")
			}
			if viper.GetString("keyspace") == "" {
				return errors.New("keyspace is required for the cassandra backend")
			}
		case endpoint.BackendPostgres:
			if viper.GetString("postgres-dsn") == "" {
				return errors.New("postgres-dsn is required for the postgres backend")
			}
		default:
			return fmt.Errorf("unsupported backend: %s", viper.GetString("backend"))
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		endpoint := createEndpoint()
		defer endpoint.Close()

		router := createRouter()
		for _, route := range endpoint.RoutesRest(viper.GetString("rest-path")) {
			router.Handler(route.Method, route.Pattern, route.Handler)
		}

		listenAndServe(router, viper.GetInt("port"))
	},
}

// Execute starts the REST endpoint
func Execute() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}

	logger = log.NewZapLogger(zapLogger)

	flags := serverCmd.PersistentFlags()

	// General endpoint flags
	flags.StringVarP(&cfgFile, "config", "c", "", "config file declaring resources and tables")
	flags.StringVar(&envFile, "env-file", ".env", "file of environment variables to load before reading settings")
	flags.String("backend", endpoint.BackendMemory, "storage backend. options: memory,cassandra,postgres")
	flags.Int("port", 8080, "REST endpoint port")
	flags.String("rest-path", defaultRESTPath, "REST endpoint path")
	flags.Bool("request-logging", false, "enable request logging")
	flags.String("access-control-allow-origin", "", "Access-Control-Allow-Origin header value")
	flags.StringSlice("operations", []string{
		"ResourcesList",
		"RowsList",
		"StatsRead",
	}, "list of supported operations. options: ResourcesList,RowsList,StatsRead")

	// Filtering flags
	flags.String("lookup-separator", types.DefaultSeparator, "separator between fields, relations and lookups")
	flags.String("naming", config.DefaultNamingName, "naming convention from resource fields to storage fields. options: default,identity")

	// Backend specific flags
	flags.String("data-file", "", "JSON file with the tables of the memory backend")
	flags.StringSliceP("hosts", "t", nil, "hosts for connecting to the database")
	flags.StringP("username", "u", "", "connect with database username")
	flags.StringP("password", "p", "", "database user's password")
	flags.String("keyspace", "", "keyspace holding the tables of the cassandra backend")
	flags.String("local-dc", "", "local data center for token aware routing")
	flags.String("consistency", "", "consistency level of cassandra reads")
	flags.Duration("connect-timeout", endpoint.DefaultConnectTimeout, "timeout connecting to the database")
	flags.String("postgres-dsn", "", "connection string of the postgres backend")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" && flag.Name != "env-file" {
			viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	cobra.OnInitialize(initialize)

	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := serverCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createEndpoint() *endpoint.DataEndpoint {
	cfg := endpoint.NewEndpointConfigWithLogger(logger)

	naming, err := config.NamingByName(viper.GetString("naming"))
	if err != nil {
		logger.Fatal("invalid naming convention", "error", err)
	}

	supportedOps := getStringSlice("operations")
	ops, err := config.Ops(supportedOps...)
	if err != nil {
		logger.Fatal("invalid supported operation", "operations", supportedOps, "error", err)
	}

	resources, err := config.DecodeResources(viper.Get("resources"))
	if err != nil {
		logger.Fatal("invalid resources", "error", err)
	}

	backend := viper.GetString("backend")
	if backend == endpoint.BackendPostgres {
		tables, err := config.DecodeTables(viper.Get("tables"))
		if err != nil {
			logger.Fatal("invalid tables", "error", err)
		}
		cfg.WithTables(tables)
	}

	cfg.
		WithBackend(backend).
		WithDataFile(viper.GetString("data-file")).
		WithDbHosts(getStringSlice("hosts")).
		WithDbUsername(viper.GetString("username")).
		WithDbPassword(viper.GetString("password")).
		WithKeyspace(viper.GetString("keyspace")).
		WithLocalDC(viper.GetString("local-dc")).
		WithConsistency(viper.GetString("consistency")).
		WithConnectTimeout(viper.GetDuration("connect-timeout")).
		WithPostgresDSN(viper.GetString("postgres-dsn")).
		WithResources(resources).
		WithNaming(naming).
		WithLookupSeparator(viper.GetString("lookup-separator")).
		WithSupportedOperations(ops)

	endpoint, err := cfg.NewEndpoint(context.Background())
	if err != nil {
		logger.Fatal("unable create new endpoint",
			"error", err)
	}

	return endpoint
}

func maybeAddRequestLogging(handler http.Handler) http.Handler {
	if viper.GetBool("request-logging") {
		handler = log.NewLoggingHandler(handler, logger)
	}
	return handler
}

func maybeAddCORS(handler http.Handler) http.Handler {
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", value)
			handler.ServeHTTP(w, r)
		})
	}
	return handler
}

func initialize() {
	if envFile != "" {
		if err := godotenv.Load(envFile); err == nil {
			logger.Info("loaded environment file",
				"file", envFile)
		}
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			logger.Fatal("unable to read config file",
				"file", cfgFile,
				"error", err)
		}
		logger.Info("using config file",
			"file", viper.ConfigFileUsed())
	}
}

func createRouter() *httprouter.Router {
	router := httprouter.New()
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		router.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Access-Control-Request-Method") != "" {
				header := w.Header()
				header.Set("Access-Control-Allow-Method", r.Header.Get("Access-Control-Request-Method"))
				header.Set("Access-Control-Allow-Headers", r.Header.Get("Access-Control-Request-Headers"))
				header.Set("Access-Control-Allow-Origin", value)
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
	return router
}

func listenAndServe(handler http.Handler, port int) {
	logger.Info("server listening",
		"port", port,
		"backend", viper.GetString("backend"))
	handler = maybeAddCORS(maybeAddRequestLogging(handler))
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), handler)
	if err != nil {
		logger.Fatal("unable to start server",
			"port", port,
			"error", err)
	}
}

func getStringSlice(key string) []string {
	value := viper.GetStringSlice(key)
	slice, err := toStringSlice(value)
	if err != nil {
		logger.Fatal("invalid string slice value for setting",
			"error", err,
			"key", key,
			"value", value)
	}
	return slice
}

func toStringSlice(slice []string) ([]string, error) {
	result := make([]string, 0)
	for _, entry := range slice {
		stringReader := strings.NewReader(entry)
		csvReader := csv.NewReader(stringReader)
		split, err := csvReader.Read()
		if err != nil {
			return nil, err
		}
		for _, part := range split {
			if part != "" { // Don't add empty values
				result = append(result, part)
			}
		}
	}
	return result, nil
}
