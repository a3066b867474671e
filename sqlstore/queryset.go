package sqlstore

import (
	"context"
	"errors"

	"github.com/datastax/data-api-filters/types"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var sqlTerms = types.NewTerms(
	types.LookupExact, types.LookupIExact, types.LookupContains, types.LookupIContains, types.LookupIn,
	types.LookupGt, types.LookupGte, types.LookupLt, types.LookupLte,
	types.LookupStartsWith, types.LookupIStartsWith, types.LookupEndsWith, types.LookupIEndsWith,
	types.LookupRange, types.LookupYear, types.LookupMonth, types.LookupDay, types.LookupWeekDay,
	types.LookupIsNull, types.LookupRegex, types.LookupIRegex,
)

// dataExceptionClass is the SQLSTATE class of invalid values (bad literals, out of range numbers...).
const dataExceptionClass pq.ErrorClass = "22"

type Queryset struct {
	store   *Store
	table   Table
	clauses []clause
}

func (q *Queryset) QueryTerms() types.Terms {
	return sqlTerms
}

func (q *Queryset) All() types.Queryset {
	return &Queryset{store: q.store, table: q.table}
}

// Filter adds a conjunction of predicates. Paths are checked against the schema immediately, values
// are only checked by the server when the rows are fetched.
func (q *Queryset) Filter(predicates types.PredicateSet) (types.Queryset, error) {
	return q.with(clause{predicates: predicates})
}

func (q *Queryset) Exclude(predicates types.PredicateSet) (types.Queryset, error) {
	return q.with(clause{predicates: predicates, negate: true})
}

// SQL returns the query and its positional arguments in PostgreSQL bind syntax.
func (q *Queryset) SQL() (string, []interface{}, error) {
	query, values, err := newTranslator(q.store.schema, q.table).toSelect(q.clauses)
	if err != nil {
		return "", nil, err
	}

	query, values, err = sqlx.In(query, values...)
	if err != nil {
		return "", nil, types.NewInvalidValueError(q.table.Name, nil, err)
	}
	return q.store.db.Rebind(query), values, nil
}

func (q *Queryset) Rows(ctx context.Context) ([]types.Row, error) {
	query, values, err := q.SQL()
	if err != nil {
		return nil, err
	}

	q.store.logger.Debug("executing query", "query", query)

	rows, err := q.store.db.QueryxContext(ctx, query, values...)
	if err != nil {
		return nil, q.classify(err)
	}
	defer rows.Close()

	result := make([]types.Row, 0)
	for rows.Next() {
		row := make(types.Row)
		if err := rows.MapScan(row); err != nil {
			return nil, q.classify(err)
		}
		for column, value := range row {
			if b, ok := value.([]byte); ok {
				row[column] = string(b)
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, q.classify(err)
	}
	return result, nil
}

func (q *Queryset) with(c clause) (types.Queryset, error) {
	clauses := append(append([]clause(nil), q.clauses...), c)

	// Resolve paths now so unknown fields fail the filter call
	if _, _, err := newTranslator(q.store.schema, q.table).toSelect(clauses); err != nil {
		return nil, err
	}
	return &Queryset{store: q.store, table: q.table, clauses: clauses}, nil
}

func (q *Queryset) classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == dataExceptionClass {
		return types.NewInvalidValueError(q.table.Name, nil, err)
	}
	return err
}
