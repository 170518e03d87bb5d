package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/velox-bench/dialect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"postgres", dialect.Postgres},
		{"postgres-tracing", dialect.Postgres},
		{"mysql", dialect.MySQL},
		{"mysql-metrics", dialect.MySQL},
		{"sqlite", dialect.SQLite},
		{"sqlite3", dialect.SQLite},
		{"sqlserver", dialect.SQLServer},
		{"oracle", "oracle"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dialect.Detect(tt.name))
		})
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	for _, d := range dialect.All {
		assert.True(t, dialect.Valid(d), d)
	}
	assert.False(t, dialect.Valid("postgres-tracing"))
	assert.False(t, dialect.Valid("oracle"))
	assert.False(t, dialect.Valid(""))
}
