// Package session normalizes server-side session settings on database
// connections used by the benchmarking harness.
//
// Provider defaults for NULL concatenation, identifier quoting and
// arithmetic overflow differ between backends and can skew benchmark
// results. The package carries one canonical script of session-scoped
// statements per dialect and a connection-open hook that applies the
// script to every physical connection before it is handed to callers.
package session

import (
	"fmt"
	"strings"

	"github.com/syssam/velox-bench/dialect"
)

// SQLServerSessionSettings normalizes a SQL Server session. The options
// mirror the ANSI behavior the query builders assume: quoted
// identifiers, NULL-propagating concatenation and strict arithmetic.
const SQLServerSessionSettings = `SET ANSI_NULLS ON;
SET ANSI_PADDING ON;
SET ANSI_WARNINGS ON;
SET ARITHABORT ON;
SET CONCAT_NULL_YIELDS_NULL ON;
SET NUMERIC_ROUNDABORT OFF;
SET QUOTED_IDENTIFIER ON;`

// PostgresSessionSettings normalizes a PostgreSQL session.
const PostgresSessionSettings = `SET standard_conforming_strings = on;
SET client_min_messages = warning;
SET extra_float_digits = 3;`

// MySQLSessionSettings normalizes a MySQL session. ANSI_QUOTES and
// PIPES_AS_CONCAT align quoting and concatenation with the other
// dialects.
const MySQLSessionSettings = `SET SESSION sql_mode = 'ANSI_QUOTES,PIPES_AS_CONCAT,STRICT_ALL_TABLES,NO_ZERO_DATE,NO_ZERO_IN_DATE';
SET SESSION innodb_lock_wait_timeout = 50;`

// SQLiteSessionSettings normalizes a SQLite session. SQLite exposes
// session options through PRAGMA rather than SET.
const SQLiteSessionSettings = `PRAGMA foreign_keys = ON;
PRAGMA busy_timeout = 5000;`

// Script is a session-normalization script for one dialect. It is
// immutable after construction and safe to share between goroutines.
type Script struct {
	dialect string
	text    string
}

// NewScript returns a script binding the given SQL text to a dialect.
func NewScript(d, text string) Script {
	return Script{dialect: d, text: text}
}

// Dialect returns the dialect the script targets.
func (s Script) Dialect() string { return s.dialect }

// Text returns the SQL text of the script.
func (s Script) Text() string { return s.text }

// Validate checks that the script contains only complete session-scoped
// statements: every non-empty line must be a SET or PRAGMA statement
// terminated by a semicolon. Scripts run unconditionally on every new
// physical connection, so transactional or schema-mutating statements
// are rejected.
func (s Script) Validate() error {
	if strings.TrimSpace(s.text) == "" {
		return fmt.Errorf("session: empty script for dialect %q", s.dialect)
	}
	for i, line := range strings.Split(s.text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		if !strings.HasPrefix(upper, "SET ") && !strings.HasPrefix(upper, "PRAGMA ") {
			return fmt.Errorf("session: line %d is not a session-scoped statement: %q", i+1, line)
		}
		if !strings.HasSuffix(line, ";") {
			return fmt.Errorf("session: line %d is not semicolon-terminated: %q", i+1, line)
		}
	}
	return nil
}

// scripts maps each dialect to its canonical script.
var scripts = map[string]Script{
	dialect.SQLServer: NewScript(dialect.SQLServer, SQLServerSessionSettings),
	dialect.Postgres:  NewScript(dialect.Postgres, PostgresSessionSettings),
	dialect.MySQL:     NewScript(dialect.MySQL, MySQLSessionSettings),
	dialect.SQLite:    NewScript(dialect.SQLite, SQLiteSessionSettings),
}

// ForDialect returns the canonical script for the given dialect.
func ForDialect(d string) (Script, error) {
	s, ok := scripts[dialect.Detect(d)]
	if !ok {
		return Script{}, fmt.Errorf("session: no script for dialect %q", d)
	}
	return s, nil
}
