package endpoint

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/julienschmidt/httprouter"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/datastax/data-api-filters/config"
	"github.com/datastax/data-api-filters/filters"
	"github.com/datastax/data-api-filters/internal/testutil"
	m "github.com/datastax/data-api-filters/rest/models"
	"github.com/datastax/data-api-filters/sqlstore"
	"github.com/datastax/data-api-filters/types"
)

const ratingsData = `{
  "comment_ratings": [
    {"id": 1, "rating": "1", "is_moderated": false, "user": {"id": 1, "name": "Gena"}},
    {"id": 2, "rating": "5", "is_moderated": true, "user": {"id": 2, "name": "Ivan"}}
  ]
}`

func ratingsResources() []config.ResourceConfig {
	return []config.ResourceConfig{
		{
			Name:   "commentRatings",
			Fields: []string{"id", "rating", "isModerated", "user"},
			Filters: filters.Whitelist{
				"rating":      filters.All,
				"isModerated": filters.Lookups("exact"),
				"user":        filters.AllWithRelations,
			},
		},
	}
}

func writeDataFile(t *testing.T) string {
	dir, err := ioutil.TempDir("", "filters-endpoint")
	assert.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	file := filepath.Join(dir, "data.json")
	assert.NoError(t, ioutil.WriteFile(file, []byte(ratingsData), 0644))
	return file
}

func executeGet(t *testing.T, routes []types.Route, target string, response interface{}) *httptest.ResponseRecorder {
	router := httprouter.New()
	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}

	r := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	decoder := json.NewDecoder(w.Body)
	decoder.UseNumber()
	assert.NoError(t, decoder.Decode(response))
	return w
}

func TestDataEndpoint_MemoryBackend(t *testing.T) {
	cfg := NewEndpointConfigWithLogger(testutil.TestLogger()).
		WithDataFile(writeDataFile(t)).
		WithResources(ratingsResources())

	endpoint, err := cfg.NewEndpoint(context.Background())
	assert.NoError(t, err)
	defer endpoint.Close()

	assert.Len(t, endpoint.Resources(), 1)
	assert.Equal(t, "comment_ratings", endpoint.Resources()[0].Table)

	routes := endpoint.RoutesRest("/api")
	assert.Len(t, routes, 3)

	tests := []struct {
		query  string
		ids    []interface{}
		status string
	}{
		{"", []interface{}{json.Number("1"), json.Number("2")}, "applied"},
		{"?rating=5", []interface{}{json.Number("2")}, "applied"},
		{"?isModerated=False", []interface{}{json.Number("1")}, "applied"},
		{"?isModerated__in=true", []interface{}{json.Number("1"), json.Number("2")}, "applied"},
		{"?user__name__istartswith=gen", []interface{}{json.Number("1")}, "applied"},
		{"?rating__regex=(", []interface{}{json.Number("1"), json.Number("2")}, "fell-back"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var response m.Rows
			w := executeGet(t, routes, "/api/v1/resources/commentRatings/rows"+tt.query, &response)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.status, w.Header().Get("X-Filters-Status"))

			ids := make([]interface{}, len(response.Rows))
			for i, row := range response.Rows {
				ids[i] = row["id"]
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestDataEndpoint_CustomSeparator(t *testing.T) {
	cfg := NewEndpointConfigWithLogger(testutil.TestLogger()).
		WithDataFile(writeDataFile(t)).
		WithResources(ratingsResources()).
		WithLookupSeparator(".")

	endpoint, err := cfg.NewEndpoint(context.Background())
	assert.NoError(t, err)

	var response m.Rows
	executeGet(t, endpoint.RoutesRest(""), "/v1/resources/commentRatings/rows?user.name=Ivan", &response)
	assert.Equal(t, []string{"user.name.exact"}, response.Filters)
	assert.Len(t, response.Rows, 1)
}

func TestDataEndpoint_SupportedOperations(t *testing.T) {
	cfg := NewEndpointConfigWithLogger(testutil.TestLogger()).
		WithDataFile(writeDataFile(t)).
		WithSupportedOperations(config.ResourcesList | config.StatsRead)

	endpoint, err := cfg.NewEndpoint(context.Background())
	assert.NoError(t, err)

	routes := endpoint.RoutesRest("/")
	assert.Len(t, routes, 2)
	assert.Equal(t, "/v1/resources", routes[0].Pattern)
	assert.Equal(t, "/v1/stats", routes[1].Pattern)
}

func TestDataEndpoint_Errors(t *testing.T) {
	dataFile := writeDataFile(t)

	tests := []struct {
		name   string
		modify func(cfg *DataEndpointConfig)
		err    string
	}{
		{"unsupported backend", func(cfg *DataEndpointConfig) {
			cfg.WithBackend("mongo")
		}, "unsupported backend: mongo"},
		{"missing data file", func(cfg *DataEndpointConfig) {
			cfg.WithDataFile("")
		}, "a data file is required for the memory backend"},
		{"empty separator", func(cfg *DataEndpointConfig) {
			cfg.WithLookupSeparator("")
		}, "lookup separator can not be empty"},
		{"cassandra without keyspace", func(cfg *DataEndpointConfig) {
			cfg.WithBackend(BackendCassandra).WithDbHosts([]string{"127.0.0.1"})
		}, "a keyspace is required"},
		{"invalid resource", func(cfg *DataEndpointConfig) {
			cfg.WithResources([]config.ResourceConfig{{Name: "ratings", Fields: []string{"id"},
				Filters: filters.Whitelist{"rating": filters.All}}})
		}, "invalid resource ratings: filter on unknown field rating"},
		{"invalid method", func(cfg *DataEndpointConfig) {
			cfg.WithResources([]config.ResourceConfig{{Name: "ratings", Fields: []string{"id"},
				FilterSet: []config.AdapterConfig{{Param: "top", Method: "top"}}}})
		}, "unable to build resource ratings: invalid adapter top: unknown queryset method: top"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewEndpointConfigWithLogger(testutil.TestLogger()).
				WithDataFile(dataFile).
				WithResources(ratingsResources())
			tt.modify(cfg)

			_, err := cfg.NewEndpoint(context.Background())
			assert.EqualError(t, err, tt.err)
		})
	}
}

func TestDataEndpoint_PostgresBackend(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(t, err)
	defer mockDB.Close()

	schema := sqlstore.NewSchema(
		sqlstore.Table{Name: "comment_ratings", Columns: []string{"id", "rating", "is_moderated", "user_id"}},
	)
	store, err := sqlstore.NewStore(sqlx.NewDb(mockDB, "postgres"), schema, testutil.TestLogger())
	assert.NoError(t, err)

	cfg := NewEndpointConfigWithLogger(testutil.TestLogger()).
		WithBackend(BackendPostgres).
		WithResources(ratingsResources()[:1])
	cfg.resources[0].Fields = []string{"id", "rating", "isModerated"}
	delete(cfg.resources[0].Filters, "user")

	endpoint, err := cfg.newEndpointWithBackend(store)
	assert.NoError(t, err)
	routes := endpoint.RoutesRest("")

	mock.ExpectQuery(`SELECT t0.* FROM "comment_ratings" AS t0 WHERE t0."rating" = $1 ORDER BY t0."id"`).
		WithArgs("5").
		WillReturnRows(sqlmock.NewRows([]string{"id", "rating", "is_moderated"}).AddRow(int64(2), "5", true))

	var response m.Rows
	w := executeGet(t, routes, "/v1/resources/commentRatings/rows?rating=5", &response)
	assert.Equal(t, "applied", w.Header().Get("X-Filters-Status"))
	assert.Equal(t, []map[string]interface{}{
		{"id": json.Number("2"), "rating": "5", "isModerated": true},
	}, response.Rows)

	// Values rejected by the database at fetch time fall back to the unfiltered rows.
	mock.ExpectQuery(`SELECT t0.* FROM "comment_ratings" AS t0 WHERE t0."is_moderated" = $1 ORDER BY t0."id"`).
		WithArgs("maybe").
		WillReturnError(&pq.Error{Code: "22P02", Message: "invalid input syntax for type boolean"})
	mock.ExpectQuery(`SELECT t0.* FROM "comment_ratings" AS t0 ORDER BY t0."id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rating", "is_moderated"}).
			AddRow(int64(1), "1", false).
			AddRow(int64(2), "5", true))

	w = executeGet(t, routes, "/v1/resources/commentRatings/rows?isModerated=maybe", &response)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fell-back", w.Header().Get("X-Filters-Status"))
	assert.Equal(t, 2, response.Count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
