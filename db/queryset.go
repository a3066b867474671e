package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/datastax/data-api-filters/types"
	"github.com/gocql/gocql"
)

var cqlTerms = types.NewTerms(
	types.LookupExact, types.LookupIn, types.LookupGt, types.LookupGte, types.LookupLt, types.LookupLte,
	types.LookupRange, types.LookupContains,
)

var operatorsPerLookup = map[string]string{
	types.LookupExact:    "=",
	types.LookupIn:       "IN",
	types.LookupGt:       ">",
	types.LookupGte:      ">=",
	types.LookupLt:       "<",
	types.LookupLte:      "<=",
	types.LookupContains: "CONTAINS",
}

var (
	errRelationsNotSupported = errors.New("relations are not supported by cassandra tables")
	errExcludeNotSupported   = errors.New("exclusion is not supported by cassandra tables")
)

// TableQueryset is a lazily evaluated SELECT over a single table. Predicates are validated against the
// table metadata when they are added, so Filter reports bad values before any query is executed.
type TableQueryset struct {
	db         *Db
	table      *gocql.TableMetadata
	conditions []ConditionItem
}

func NewTableQueryset(db *Db, table *gocql.TableMetadata) *TableQueryset {
	return &TableQueryset{db: db, table: table}
}

func (q *TableQueryset) QueryTerms() types.Terms {
	return cqlTerms
}

func (q *TableQueryset) All() types.Queryset {
	return &TableQueryset{db: q.db, table: q.table}
}

func (q *TableQueryset) Filter(predicates types.PredicateSet) (types.Queryset, error) {
	clone := q.clone()
	for _, p := range predicates.Sorted() {
		conditions, err := q.conditionsFor(p)
		if err != nil {
			return nil, types.NewInvalidValueError(p.Key(types.DefaultSeparator), p.Value, err)
		}
		clone.conditions = append(clone.conditions, conditions...)
	}
	return clone, nil
}

func (q *TableQueryset) Exclude(predicates types.PredicateSet) (types.Queryset, error) {
	if len(predicates) == 0 {
		return q.clone(), nil
	}
	keys := predicates.Keys()
	return nil, types.NewInvalidValueError(keys[0], predicates[keys[0]].Value, errExcludeNotSupported)
}

// Rows executes the query. Requests rejected by the server as invalid (e.g. a restriction on a column
// that can not be filtered) are reported as invalid filter values.
func (q *TableQueryset) Rows(ctx context.Context) ([]types.Row, error) {
	info := &SelectInfo{
		Keyspace:       q.table.Keyspace,
		Table:          q.table.Name,
		Where:          q.conditions,
		AllowFiltering: len(q.conditions) > 0,
	}

	rs, err := q.db.Select(info, q.db.options().WithContext(ctx))
	if err != nil {
		var requestErr gocql.RequestError
		if errors.As(err, &requestErr) && requestErr.Code() == gocql.ErrCodeInvalid {
			return nil, types.NewInvalidValueError(q.table.Name, nil, err)
		}
		return nil, err
	}

	values := rs.Values()
	rows := make([]types.Row, len(values))
	for i, value := range values {
		rows[i] = value
	}
	return rows, nil
}

func (q *TableQueryset) clone() *TableQueryset {
	return &TableQueryset{
		db:         q.db,
		table:      q.table,
		conditions: append([]ConditionItem(nil), q.conditions...),
	}
}

func (q *TableQueryset) conditionsFor(p types.Predicate) ([]ConditionItem, error) {
	if len(p.Relations()) > 0 {
		return nil, errRelationsNotSupported
	}

	column, ok := q.table.Columns[p.Field()]
	if !ok {
		return nil, fmt.Errorf("column %s not found in table %s", p.Field(), q.table.Name)
	}

	typeInfo := column.Type
	if p.Lookup == types.LookupContains {
		collection, ok := typeInfo.(gocql.CollectionType)
		if !ok {
			return nil, fmt.Errorf("contains requires a collection column, %s is %s", column.Name, typeInfo.Type())
		}
		typeInfo = collection.Elem
	}

	value, err := types.FromString(p.Value, typeInfo)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("null values can not be used to filter column %s", column.Name)
	}

	switch p.Lookup {
	case types.LookupRange:
		bounds, ok := value.([]interface{})
		if !ok || len(bounds) != 2 {
			return nil, fmt.Errorf("range needs exactly two bounds")
		}
		return []ConditionItem{
			{Column: column.Name, Operator: ">=", Value: bounds[0]},
			{Column: column.Name, Operator: "<=", Value: bounds[1]},
		}, nil
	case types.LookupIn:
		if _, ok := value.([]interface{}); !ok {
			value = []interface{}{value}
		}
	}

	operator, ok := operatorsPerLookup[p.Lookup]
	if !ok {
		return nil, fmt.Errorf("lookup %s is not supported by cassandra tables", p.Lookup)
	}
	return []ConditionItem{{Column: column.Name, Operator: operator, Value: value}}, nil
}
