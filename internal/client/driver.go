package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/sijms/go-ora/v2/network"
	"modernc.org/sqlite"

	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/sijms/go-ora/v2"     // registers "oracle"
)

// Config describes one connection.
type Config struct {
	Name         string          `mapstructure:"name"`
	Dialect      dialect.Dialect `mapstructure:"dialect"`
	DSN          string          `mapstructure:"dsn"`
	Schema       string          `mapstructure:"schema"`
	ChunkSize    int             `mapstructure:"chunk_size"`
	MaxOpenConns int             `mapstructure:"max_open_conns"`
}

// driverName maps a dialect onto the registered database/sql driver.
func driverName(d dialect.Dialect) (string, bool) {
	switch d {
	case dialect.Postgres:
		return "pgx", true
	case dialect.CockroachDB, dialect.Redshift:
		return "postgres", true
	case dialect.MySQL, dialect.MariaDB:
		return "mysql", true
	case dialect.SQLServer:
		return "sqlserver", true
	case dialect.Oracle:
		return "oracle", true
	case dialect.SQLite:
		return "sqlite", true
	}
	return "", false
}

// Open connects with the driver for cfg.Dialect and verifies the connection.
func Open(ctx context.Context, cfg Config) (*SQLClient, error) {
	name, ok := driverName(cfg.Dialect)
	if !ok {
		return nil, dberr.NotSupported(cfg.Dialect.String(), "database/sql connection")
	}

	dsn := cfg.DSN
	schemaName := cfg.Schema
	if name == "mysql" {
		mc, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		mc.ParseTime = true
		mc.Loc = time.UTC
		if schemaName == "" {
			schemaName = mc.DBName
		}
		dsn = mc.FormatDSN()
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Dialect, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", cfg.Dialect, err)
	}

	return New(db, cfg.Dialect, WithSchema(schemaName), WithChunkSize(cfg.ChunkSize)), nil
}

// execError wraps a driver failure and records the backend's own error code.
func execError(query string, err error) error {
	e := dberr.Execution(query, err)

	var (
		pgErr   *pgconn.PgError
		pqErr   *pq.Error
		myErr   *mysql.MySQLError
		msErr   mssql.Error
		oraErr  *network.OracleError
		liteErr *sqlite.Error
	)
	switch {
	case errors.As(err, &pgErr):
		e.With("sqlstate", pgErr.Code)
	case errors.As(err, &pqErr):
		e.With("sqlstate", string(pqErr.Code))
	case errors.As(err, &myErr):
		e.With("number", myErr.Number)
	case errors.As(err, &msErr):
		e.With("number", msErr.Number)
	case errors.As(err, &oraErr):
		e.With("number", oraErr.ErrCode)
	case errors.As(err, &liteErr):
		e.With("number", liteErr.Code())
	}
	return e
}
