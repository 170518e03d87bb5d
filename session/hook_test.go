package session_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/velox-bench/session"
)

// fakeConn records statements executed through driver.ExecerContext.
type fakeConn struct {
	mu       sync.Mutex
	executed []string
	execErr  error
	closed   bool
}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { panic("unexpected Prepare") }
func (c *fakeConn) Begin() (driver.Tx, error)           { panic("unexpected Begin") }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.execErr != nil {
		return nil, c.execErr
	}
	c.executed = append(c.executed, query)
	return driver.RowsAffected(0), nil
}

// legacyConn exercises the Prepare/Exec fallback for drivers without
// context support.
type legacyConn struct {
	executed []string
	stmts    []*legacyStmt
}

func (c *legacyConn) Prepare(query string) (driver.Stmt, error) {
	s := &legacyStmt{conn: c, query: query}
	c.stmts = append(c.stmts, s)
	return s, nil
}

func (c *legacyConn) Begin() (driver.Tx, error) { panic("unexpected Begin") }
func (c *legacyConn) Close() error              { return nil }

type legacyStmt struct {
	conn   *legacyConn
	query  string
	closed bool
}

func (s *legacyStmt) Close() error { s.closed = true; return nil }
func (s *legacyStmt) NumInput() int { return -1 }

func (s *legacyStmt) Exec([]driver.Value) (driver.Result, error) {
	s.conn.executed = append(s.conn.executed, s.query)
	return driver.RowsAffected(0), nil
}

func (s *legacyStmt) Query([]driver.Value) (driver.Rows, error) { panic("unexpected Query") }

func TestHookAppliesScript(t *testing.T) {
	t.Parallel()

	const text = "SET A ON;\nSET B ON;"
	hook := session.NewHook(text)
	conn := &fakeConn{}

	err := hook.ConnectionOpened(context.Background(), conn)
	require.NoError(t, err)
	require.Len(t, conn.executed, 1, "exactly one execution per open")
	assert.Equal(t, text, conn.executed[0])
	assert.False(t, conn.closed)
}

func TestHookLegacyDriver(t *testing.T) {
	t.Parallel()

	hook := session.NewHook("SET A ON;")
	conn := &legacyConn{}

	require.NoError(t, hook.ConnectionOpened(context.Background(), conn))
	require.Equal(t, []string{"SET A ON;"}, conn.executed)
	require.Len(t, conn.stmts, 1)
	assert.True(t, conn.stmts[0].closed, "statement must be released")
}

// TestHookErrorIdentity locks in the propagation contract: the driver's
// failure comes back unchanged, with no wrapping and no swallowing.
func TestHookErrorIdentity(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("permission denied for SET")
	hook := session.NewHook("SET A ON;")
	conn := &fakeConn{execErr: errBoom}

	err := hook.ConnectionOpened(context.Background(), conn)
	require.Error(t, err)
	assert.Equal(t, errBoom, err)
	assert.Empty(t, conn.executed)
}

func TestHookCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hook := session.NewHook("SET A ON;")
	conn := &fakeConn{}

	err := hook.ConnectionOpened(ctx, conn)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, conn.executed, "no execution after cancellation")
}

// TestHookConcurrentOpens invokes one hook against N distinct
// connections in parallel, as the pool does when it grows under load.
func TestHookConcurrentOpens(t *testing.T) {
	t.Parallel()

	const n = 32
	hook := session.NewHook(session.PostgresSessionSettings)
	conns := make([]*fakeConn, n)
	var wg sync.WaitGroup
	for i := range conns {
		conns[i] = &fakeConn{}
		wg.Add(1)
		go func(c *fakeConn) {
			defer wg.Done()
			assert.NoError(t, hook.ConnectionOpened(context.Background(), c))
		}(conns[i])
	}
	wg.Wait()

	for _, c := range conns {
		require.Len(t, c.executed, 1)
		assert.Equal(t, session.PostgresSessionSettings, c.executed[0])
	}
}
