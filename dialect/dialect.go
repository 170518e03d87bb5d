// Package dialect names the database backends supported by the
// benchmarking harness.
//
// Each backend is identified by a constant string matching the name of
// its database/sql driver:
//
//	dialect.MySQL     = "mysql"
//	dialect.SQLite    = "sqlite"
//	dialect.Postgres  = "postgres"
//	dialect.SQLServer = "sqlserver"
//
// Driver names are sometimes qualified with a suffix (for example
// "postgres-tracing" when the driver is wrapped with telemetry); Detect
// strips such suffixes back to the base dialect.
package dialect

import "strings"

// Supported dialects.
const (
	// MySQL is the mysql dialect.
	MySQL = "mysql"
	// SQLite is the sqlite dialect.
	SQLite = "sqlite"
	// Postgres is the postgres dialect.
	Postgres = "postgres"
	// SQLServer is the sqlserver dialect.
	SQLServer = "sqlserver"
)

// All holds every supported dialect.
var All = []string{MySQL, SQLite, Postgres, SQLServer}

// Detect returns the base dialect for a possibly qualified driver name.
// If the name matches no supported dialect, it is returned unchanged.
func Detect(name string) string {
	for _, d := range All {
		if strings.HasPrefix(name, d) {
			return d
		}
	}
	return name
}

// Valid reports whether name is a supported dialect.
func Valid(name string) bool {
	for _, d := range All {
		if name == d {
			return true
		}
	}
	return false
}
