// Package database wraps the database implementation used for Papertrade.
package database

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgtype"
	shopspring "github.com/jackc/pgtype/ext/shopspring-numeric"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var ErrNoRows = pgx.ErrNoRows

// Row is a single result row that values can be scanned from.
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates over the result rows for a query.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

// Queryable defines an interface for a connection or transaction.
type Queryable interface {
	Exec(ctx context.Context, sql string, arguments ...any) error
	Query(ctx context.Context, sql string, arguments ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) Row
}

// Conn is a pool of connections to the Postgres database.
type Conn struct {
	pool *pgxpool.Pool
}

// URLFromEnvironment builds a connection URL from the project environment variables.
func URLFromEnvironment() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)
}

func connectPool(url string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)

	if err != nil {
		return nil, err
	}

	// Money values scan directly into decimal.Decimal.
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		conn.ConnInfo().RegisterDataType(pgtype.DataType{
			Value: &shopspring.Numeric{},
			Name:  "numeric",
			OID:   pgtype.NumericOID,
		})

		return nil
	}

	return pgxpool.ConnectConfig(context.Background(), config)
}

// Connect connects to the Postgres database with the project environment variables.
func Connect() (*Conn, error) {
	pool, err := connectPool(URLFromEnvironment())

	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	return &Conn{pool: pool}, nil
}

// ConnectURL connects to the Postgres database at the given URL.
func ConnectURL(url string) (*Conn, error) {
	pool, err := connectPool(url)

	if err != nil {
		return nil, err
	}

	return &Conn{pool: pool}, nil
}

// Close closes a database connection.
func (conn *Conn) Close() {
	conn.pool.Close()
}

// Exec executes a database query.
func (conn *Conn) Exec(ctx context.Context, sql string, arguments ...any) error {
	_, err := conn.pool.Exec(ctx, sql, arguments...)

	return err
}

// Query executes a database query.
func (conn *Conn) Query(ctx context.Context, sql string, arguments ...any) (Rows, error) {
	return conn.pool.Query(ctx, sql, arguments...)
}

// QueryRow executes a database query returning Row data.
func (conn *Conn) QueryRow(ctx context.Context, sql string, arguments ...any) Row {
	return conn.pool.QueryRow(ctx, sql, arguments...)
}

// Begin starts a database transaction.
//
// The transaction holds a connection from the pool until Commit or Rollback
// is called.
func (conn *Conn) Begin(ctx context.Context) (*Tx, error) {
	tx, err := conn.pool.Begin(ctx)

	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx}, nil
}

// Tx is a database transaction satisfying Queryable.
type Tx struct {
	tx pgx.Tx
}

// Exec executes a database query within the transaction.
func (tx *Tx) Exec(ctx context.Context, sql string, arguments ...any) error {
	_, err := tx.tx.Exec(ctx, sql, arguments...)

	return err
}

// Query executes a database query within the transaction.
func (tx *Tx) Query(ctx context.Context, sql string, arguments ...any) (Rows, error) {
	return tx.tx.Query(ctx, sql, arguments...)
}

// QueryRow executes a database query returning Row data within the transaction.
func (tx *Tx) QueryRow(ctx context.Context, sql string, arguments ...any) Row {
	return tx.tx.QueryRow(ctx, sql, arguments...)
}

// Commit commits the transaction.
func (tx *Tx) Commit(ctx context.Context) error {
	return tx.tx.Commit(ctx)
}

// Rollback aborts the transaction. Rolling back after Commit is a no-op.
func (tx *Tx) Rollback(ctx context.Context) error {
	err := tx.tx.Rollback(ctx)

	if err == pgx.ErrTxClosed {
		return nil
	}

	return err
}
