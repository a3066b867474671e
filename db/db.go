package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/datastax/data-api-filters/types"
	"github.com/gocql/gocql"
)

type ClusterConfig struct {
	Hosts          []string
	Keyspace       string
	Username       string
	Password       string
	LocalDC        string
	Consistency    string
	Timeout        time.Duration
	ConnectTimeout time.Duration
}

// Db represents a connection to a db
type Db struct {
	session  Session
	keyspace string
	options  func() *QueryOptions
}

// NewDb Gets a pointer to a db
func NewDb(config ClusterConfig) (*Db, error) {
	if config.Keyspace == "" {
		return nil, errors.New("a keyspace is required")
	}

	cluster := gocql.NewCluster(config.Hosts...)
	if config.Timeout > 0 {
		cluster.Timeout = config.Timeout
	}
	if config.ConnectTimeout > 0 {
		cluster.ConnectTimeout = config.ConnectTimeout
	}
	if config.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Username,
			Password: config.Password,
		}
	}
	if config.LocalDC != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
			gocql.DCAwareRoundRobinPolicy(config.LocalDC), gocql.ShuffleReplicas())
	} else {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	}

	consistency := gocql.LocalQuorum
	if config.Consistency != "" {
		var err error
		if consistency, err = gocql.ParseConsistencyWrapper(config.Consistency); err != nil {
			return nil, err
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	if session == nil {
		return nil, errors.New("failed to create session")
	}

	return NewDbWithSession(NewGoCqlSession(session), config.Keyspace, consistency), nil
}

func NewDbWithSession(session Session, keyspace string, consistency gocql.Consistency) *Db {
	return &Db{
		session:  session,
		keyspace: keyspace,
		options: func() *QueryOptions {
			return NewQueryOptions().WithConsistency(consistency)
		},
	}
}

// Keyspace Retrieves the metadata of the configured keyspace
func (db *Db) Keyspace() (*gocql.KeyspaceMetadata, error) {
	return db.session.KeyspaceMetadata(db.keyspace)
}

// Table retrieves the metadata of a table in the configured keyspace
func (db *Db) Table(name string) (*gocql.TableMetadata, error) {
	keyspace, err := db.Keyspace()
	if err != nil {
		return nil, err
	}
	table, ok := keyspace.Tables[name]
	if !ok {
		return nil, fmt.Errorf("table %s not found in keyspace %s", name, db.keyspace)
	}
	return table, nil
}

// Queryset returns an unfiltered queryset over a table of the configured keyspace
func (db *Db) Queryset(ctx context.Context, table string) (types.Queryset, error) {
	metadata, err := db.Table(table)
	if err != nil {
		return nil, err
	}
	return NewTableQueryset(db, metadata), nil
}

// Close releases the underlying session, when it can be released
func (db *Db) Close() {
	if closer, ok := db.session.(interface{ Close() }); ok {
		closer.Close()
	}
}
