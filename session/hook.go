package session

import (
	"context"
	"database/sql/driver"
)

// Hook applies a fixed SQL text to newly opened physical connections
// before they are handed to callers. Its only field is the immutable
// text bound at construction, so a single instance may be invoked
// concurrently for connections opened in parallel.
type Hook struct {
	text string
}

// NewHook returns a hook bound to the given SQL text, usually one of
// the session-settings constants in this package.
func NewHook(text string) *Hook {
	return &Hook{text: text}
}

// Text returns the SQL text the hook was constructed with.
func (h *Hook) Text() string { return h.text }

// ConnectionOpened runs the hook's script on a freshly opened physical
// connection and waits for it to complete. Any failure raised by the
// driver is returned unchanged: no retry, no wrapping, no translation.
// Callers that receive an error must treat the connection as unusable.
func (h *Hook) ConnectionOpened(ctx context.Context, conn driver.Conn) error {
	return execConn(ctx, conn, h.text)
}

// execConn executes a statement on a raw driver connection. The
// prepared statement, when one is needed, is released on every exit
// path. A context cancelled before the call is observed without
// touching the connection.
func execConn(ctx context.Context, conn driver.Conn, query string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ec, ok := conn.(driver.ExecerContext); ok {
		_, err := ec.ExecContext(ctx, query, nil)
		return err
	}
	stmt, err := conn.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	if sc, ok := stmt.(driver.StmtExecContext); ok {
		_, err = sc.ExecContext(ctx, nil)
		return err
	}
	_, err = stmt.Exec(nil)
	return err
}
