package db

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/gocql/gocql"
)

type QueryOptions struct {
	Context           context.Context
	Consistency       gocql.Consistency
	SerialConsistency gocql.SerialConsistency
	PageSize          int
}

func NewQueryOptions() *QueryOptions {
	return &QueryOptions{
		Consistency:       gocql.LocalQuorum,
		SerialConsistency: gocql.LocalSerial,
	}
}

func (q *QueryOptions) WithContext(ctx context.Context) *QueryOptions {
	q.Context = ctx
	return q
}

func (q *QueryOptions) WithConsistency(consistency gocql.Consistency) *QueryOptions {
	q.Consistency = consistency
	return q
}

func (q *QueryOptions) WithSerialConsistency(serialConsistency gocql.SerialConsistency) *QueryOptions {
	q.SerialConsistency = serialConsistency
	return q
}

func (q *QueryOptions) WithPageSize(pageSize int) *QueryOptions {
	q.PageSize = pageSize
	return q
}

type Session interface {
	// ExecuteIter executes a statement and returns the decoded result set
	ExecuteIter(query string, options *QueryOptions, values ...interface{}) (ResultSet, error)

	KeyspaceMetadata(keyspaceName string) (*gocql.KeyspaceMetadata, error)
}

type ResultSet interface {
	PageState() string
	Values() []map[string]interface{}
}

type goCqlResultIterator struct {
	pageState []byte
	values    []map[string]interface{}
}

func (r *goCqlResultIterator) PageState() string {
	return hex.EncodeToString(r.pageState)
}

func (r *goCqlResultIterator) Values() []map[string]interface{} {
	return r.values
}

func newResultIterator(iter *gocql.Iter) (*goCqlResultIterator, error) {
	columns := iter.Columns()
	scanner := iter.Scanner()

	items := make([]map[string]interface{}, 0)

	for scanner.Next() {
		row, err := mapScan(scanner, columns)
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		items = append(items, row)
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	return &goCqlResultIterator{
		pageState: iter.PageState(),
		values:    items,
	}, nil
}

type GoCqlSession struct {
	ref *gocql.Session
}

func NewGoCqlSession(session *gocql.Session) *GoCqlSession {
	return &GoCqlSession{ref: session}
}

func (session *GoCqlSession) ExecuteIter(query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	q := session.ref.Query(query, values...)

	if options != nil {
		if options.Context != nil {
			q = q.WithContext(options.Context)
		}

		q.Consistency(options.Consistency)

		if options.SerialConsistency != gocql.Serial && options.SerialConsistency != gocql.LocalSerial {
			return nil, errors.New("Invalid serial consistency")
		}

		q.SerialConsistency(options.SerialConsistency)

		if options.PageSize > 0 {
			q.PageSize(options.PageSize)
		}
	}
	return newResultIterator(q.Iter())
}

func (session *GoCqlSession) KeyspaceMetadata(keyspaceName string) (*gocql.KeyspaceMetadata, error) {
	return session.ref.KeyspaceMetadata(keyspaceName)
}

func (session *GoCqlSession) Close() {
	session.ref.Close()
}
