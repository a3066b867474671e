package sqlstore

import (
	"context"
	"fmt"

	"github.com/datastax/data-api-filters/log"
	"github.com/datastax/data-api-filters/types"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db     *sqlx.DB
	schema Schema
	logger log.Logger
}

// Open connects to PostgreSQL using a lib/pq connection string.
func Open(ctx context.Context, dsn string, schema Schema, logger log.Logger) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to postgres: %w", err)
	}
	store, err := NewStore(db, schema, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewStore(db *sqlx.DB, schema Schema, logger log.Logger) (*Store, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Store{db: db, schema: schema, logger: logger}, nil
}

func (s *Store) Queryset(ctx context.Context, table string) (types.Queryset, error) {
	definition, ok := s.schema[table]
	if !ok {
		return nil, fmt.Errorf("table %s is not declared", table)
	}
	return &Queryset{store: s, table: definition}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
