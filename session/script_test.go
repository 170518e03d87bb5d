package session_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/velox-bench/dialect"
	"github.com/syssam/velox-bench/session"
)

// TestCanonicalScripts checks the invariant on every shipped script:
// only complete, semicolon-terminated session-scoped statements.
func TestCanonicalScripts(t *testing.T) {
	t.Parallel()

	for _, d := range dialect.All {
		t.Run(d, func(t *testing.T) {
			s, err := session.ForDialect(d)
			require.NoError(t, err)
			assert.Equal(t, d, s.Dialect())
			assert.NoError(t, s.Validate())

			for _, line := range strings.Split(s.Text(), "\n") {
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				upper := strings.ToUpper(line)
				ok := strings.HasPrefix(upper, "SET ") || strings.HasPrefix(upper, "PRAGMA ")
				assert.True(t, ok, "not a session-scoped statement: %q", line)
				assert.True(t, strings.HasSuffix(line, ";"), "incomplete statement: %q", line)
			}
		})
	}
}

func TestForDialect(t *testing.T) {
	t.Parallel()

	t.Run("Qualified", func(t *testing.T) {
		s, err := session.ForDialect("postgres-tracing")
		require.NoError(t, err)
		assert.Equal(t, session.PostgresSessionSettings, s.Text())
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := session.ForDialect("oracle")
		assert.Error(t, err)
	})
}

func TestScriptValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"SetOnly", "SET A ON;\nSET B ON;", false},
		{"Pragma", "PRAGMA foreign_keys = ON;", false},
		{"BlankLines", "SET A ON;\n\nSET B ON;", false},
		{"LowerCase", "set a on;", false},
		{"Empty", "", true},
		{"Incomplete", "SET A ON", true},
		{"Transactional", "BEGIN;", true},
		{"SchemaMutation", "SET A ON;\nCREATE TABLE t (id int);", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := session.NewScript(dialect.Postgres, tt.text).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
