package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sharehope/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type DB struct {
	conn    *sql.DB
	dialect Dialect
}

func New(conn *sql.DB, dialect Dialect) *DB {
	return &DB{conn: conn, dialect: dialect}
}

func Connect(ctx context.Context, config *types.Config) (*DB, error) {
	dialect, err := ParseDialect(config.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	var conn *sql.DB
	switch dialect {
	case MySQL:
		mysqlConfig, err := MySQLConfig(config)
		if err != nil {
			return nil, err
		}

		connector, err := mysql.NewConnector(mysqlConfig)
		if err != nil {
			return nil, fmt.Errorf("create mysql connector: %w", err)
		}
		conn = sql.OpenDB(connector)
	case Postgres:
		dsn, err := PostgresDSN(config)
		if err != nil {
			return nil, err
		}

		conn, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
	}

	maxOpen := config.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxOpen)
	if config.MaxIdleTimeSec > 0 {
		conn.SetConnMaxIdleTime(time.Duration(config.MaxIdleTimeSec) * time.Second)
	}
	conn.SetConnMaxLifetime(45 * time.Minute)

	timeout := time.Duration(config.ConnectTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return New(conn, dialect), nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) Dialect() Dialect {
	return d.dialect
}

func (d *DB) Builder() sq.StatementBuilderType {
	return d.dialect.Builder()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.conn.PingContext(ctx)
}

// KeepAlive pings the pool on every tick until ctx is done so idle
// connections are not dropped by the server.
func (d *DB) KeepAlive(ctx context.Context, interval time.Duration, logger logrus.FieldLogger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := d.conn.PingContext(pingCtx)
			cancel()
			if err != nil && ctx.Err() == nil {
				logger.WithError(err).Warn("database keep-alive ping failed")
			}
		}
	}
}

type txKey struct{}

// Querier returns the transaction bound to ctx, or the pool.
func (d *DB) Querier(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return d.conn
}

// WithinTx runs fn inside a transaction carried by the context passed to it.
// Nested calls join the outer transaction.
func (d *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return Translate(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return Translate(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}

// Get scans a single row into dst. found is false when no row matched.
func (d *DB) Get(ctx context.Context, dst any, query sq.Sqlizer) (found bool, err error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate query: %w", err)
	}

	err = sqlscan.Get(ctx, d.Querier(ctx), dst, sqlStr, args...)
	if err != nil {
		if sqlscan.NotFound(err) {
			return false, nil
		}
		return false, Translate(err)
	}

	return true, nil
}

func (d *DB) Select(ctx context.Context, dst any, query sq.Sqlizer) error {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate query: %w", err)
	}

	if err := sqlscan.Select(ctx, d.Querier(ctx), dst, sqlStr, args...); err != nil {
		return Translate(err)
	}

	return nil
}

// Scalar scans the single column of a single row.
func (d *DB) Scalar(ctx context.Context, dst any, query sq.Sqlizer) error {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate query: %w", err)
	}

	if err := d.Querier(ctx).QueryRowContext(ctx, sqlStr, args...).Scan(dst); err != nil {
		return Translate(err)
	}

	return nil
}

// Exec runs a statement and returns the number of matched rows.
func (d *DB) Exec(ctx context.Context, query sq.Sqlizer) (int64, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate statement: %w", err)
	}

	res, err := d.Querier(ctx).ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, Translate(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, Translate(err)
	}

	return n, nil
}

// Insert runs an INSERT and returns the generated id.
func (d *DB) Insert(ctx context.Context, query sq.InsertBuilder) (int64, error) {
	if d.dialect == Postgres {
		sqlStr, args, err := query.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, fmt.Errorf("failed to generate insert: %w", err)
		}

		var id int64
		if err := d.Querier(ctx).QueryRowContext(ctx, sqlStr, args...).Scan(&id); err != nil {
			return 0, Translate(err)
		}
		return id, nil
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate insert: %w", err)
	}

	res, err := d.Querier(ctx).ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, Translate(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, Translate(err)
	}

	return id, nil
}
