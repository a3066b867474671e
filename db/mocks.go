package db

import (
	"sort"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/mock"
)

type SessionMock struct {
	mock.Mock
}

func (o *SessionMock) ExecuteIter(query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	args := o.Called(query, options, values)
	rs, _ := args.Get(0).(ResultSet)
	return rs, args.Error(1)
}

func (o *SessionMock) KeyspaceMetadata(keyspaceName string) (*gocql.KeyspaceMetadata, error) {
	args := o.Called(keyspaceName)
	metadata, _ := args.Get(0).(*gocql.KeyspaceMetadata)
	return metadata, args.Error(1)
}

type ResultMock struct {
	mock.Mock
}

func (o *ResultMock) PageState() string {
	return o.Called().String(0)
}

func (o *ResultMock) Values() []map[string]interface{} {
	args := o.Called()
	return args.Get(0).([]map[string]interface{})
}

// NewSessionMock returns a session exposing the "store" keyspace with a "ratings" table.
func NewSessionMock() *SessionMock {
	sessionMock := &SessionMock{}
	sessionMock.On("KeyspaceMetadata", "store").Return(StoreKeyspace(), nil)
	return sessionMock
}

func StoreKeyspace() *gocql.KeyspaceMetadata {
	column := func(name string, index int, kind gocql.ColumnKind, typeInfo gocql.TypeInfo) *gocql.ColumnMetadata {
		return &gocql.ColumnMetadata{
			Keyspace:       "store",
			Table:          "ratings",
			Name:           name,
			ComponentIndex: index,
			Kind:           kind,
			Type:           typeInfo,
		}
	}

	columns := map[string]*gocql.ColumnMetadata{
		"id":           column("id", 0, gocql.ColumnPartitionKey, gocql.NewNativeType(0, gocql.TypeInt, "")),
		"created":      column("created", 0, gocql.ColumnClusteringKey, gocql.NewNativeType(0, gocql.TypeTimestamp, "")),
		"rating":       column("rating", 0, gocql.ColumnRegular, gocql.NewNativeType(0, gocql.TypeText, "")),
		"is_moderated": column("is_moderated", 0, gocql.ColumnRegular, gocql.NewNativeType(0, gocql.TypeBoolean, "")),
		"tags": column("tags", 0, gocql.ColumnRegular, gocql.CollectionType{
			NativeType: gocql.NewNativeType(0, gocql.TypeSet, ""),
			Elem:       gocql.NewNativeType(0, gocql.TypeText, ""),
		}),
	}

	return &gocql.KeyspaceMetadata{
		Name:          "store",
		DurableWrites: true,
		StrategyClass: "NetworkTopologyStrategy",
		StrategyOptions: map[string]interface{}{
			"dc1": "3",
		},
		Tables: map[string]*gocql.TableMetadata{
			"ratings": {
				Keyspace:          "store",
				Name:              "ratings",
				PartitionKey:      createKey(columns, gocql.ColumnPartitionKey),
				ClusteringColumns: createKey(columns, gocql.ColumnClusteringKey),
				Columns:           columns,
			},
		},
	}
}

func createKey(columns map[string]*gocql.ColumnMetadata, kind gocql.ColumnKind) []*gocql.ColumnMetadata {
	key := make([]*gocql.ColumnMetadata, 0)
	for _, column := range columns {
		if column.Kind == kind {
			key = append(key, column)
		}
	}
	sort.Slice(key, func(i, j int) bool {
		return key[i].ComponentIndex < key[j].ComponentIndex
	})
	return key
}
