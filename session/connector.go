package session

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	mssql "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/syssam/velox-bench/dialect"
)

// Connector wraps a driver.Connector so that every physical connection
// has a session script applied before it enters the database/sql pool.
//
// The pool calls Connect exactly once per physical connection and never
// for pooled reuse, which gives the required guarantee: no connection
// is handed to application code before its session is normalized.
type Connector struct {
	inner driver.Connector
	hook  *Hook
}

// WrapConnector returns a Connector applying the given SQL text on top
// of inner.
func WrapConnector(inner driver.Connector, text string) *Connector {
	return &Connector{inner: inner, hook: NewHook(text)}
}

// Connect opens a physical connection through the inner connector and
// runs the session hook on it. If the hook fails, the connection is
// closed and the hook's error is returned unchanged, so the pool never
// sees a half-configured connection.
func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := c.inner.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.hook.ConnectionOpened(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// Driver returns the underlying driver.
func (c *Connector) Driver() driver.Driver { return c.inner.Driver() }

// NewConnector builds the native connector for the given dialect and
// DSN, wrapped with the dialect's canonical session script.
func NewConnector(name, dsn string) (driver.Connector, error) {
	script, err := ForDialect(name)
	if err != nil {
		return nil, err
	}
	inner, err := baseConnector(dialect.Detect(name), dsn)
	if err != nil {
		return nil, err
	}
	return WrapConnector(inner, script.Text()), nil
}

// Open returns a *sql.DB whose physical connections all have the
// dialect's canonical session script applied.
func Open(name, dsn string) (*sql.DB, error) {
	c, err := NewConnector(name, dsn)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(c), nil
}

func baseConnector(d, dsn string) (driver.Connector, error) {
	switch d {
	case dialect.Postgres:
		return pq.NewConnector(dsn)
	case dialect.MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, err
		}
		return mysql.NewConnector(cfg)
	case dialect.SQLServer:
		return mssql.NewConnector(dsn)
	case dialect.SQLite:
		db, err := sql.Open(dialect.SQLite, dsn)
		if err != nil {
			return nil, err
		}
		drv := db.Driver()
		if err := db.Close(); err != nil {
			return nil, err
		}
		return dsnConnector{drv: drv, dsn: dsn}, nil
	default:
		return nil, fmt.Errorf("session: unsupported dialect %q", d)
	}
}

// dsnConnector adapts a plain driver.Driver to driver.Connector, the
// same fallback database/sql uses for drivers that predate connectors.
type dsnConnector struct {
	drv driver.Driver
	dsn string
}

func (c dsnConnector) Connect(context.Context) (driver.Conn, error) {
	return c.drv.Open(c.dsn)
}

func (c dsnConnector) Driver() driver.Driver { return c.drv }
