package structured

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakePool implements the consumer interface for tests.
type fakePool struct {
	queryFn func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (f *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.queryFn != nil {
		return f.queryFn(ctx, sql, args...)
	}
	return &fakeRows{}, nil
}

func (f *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.beginFn != nil {
		return f.beginFn(ctx)
	}
	return &fakeTx{}, nil
}

// fakeRows serves pre-baked rows whose values line up with the Scan destinations.
type fakeRows struct {
	pgx.Rows
	data   [][]any
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(row) != len(dest) {
		return fmt.Errorf("scan: %d values for %d destinations", len(row), len(dest))
	}
	for i, d := range dest {
		if err := assign(d, row[i]); err != nil {
			return fmt.Errorf("scan column %d: %w", i, err)
		}
	}
	return nil
}

func assign(dest, v any) error {
	switch d := dest.(type) {
	case *string:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("cannot scan %v into *string", v)
		}
		*d = s
	case *[]string:
		*d, _ = v.([]string)
	case *[]byte:
		*d, _ = v.([]byte)
	case **string:
		if s, ok := v.(string); ok {
			*d = &s
		}
	case **float64:
		if f, ok := v.(float64); ok {
			*d = &f
		}
	case **int64:
		if n, ok := v.(int64); ok {
			*d = &n
		}
	default:
		return fmt.Errorf("unsupported destination %T", dest)
	}
	return nil
}

// fakeTx records Exec calls.
type fakeTx struct {
	pgx.Tx
	execs     []string
	args      []pgx.NamedArgs
	failOn    int // 1-based Exec call that fails; 0 never
	committed bool
	rolled    bool
}

func (tx *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.execs = append(tx.execs, sql)
	if len(args) == 1 {
		if na, ok := args[0].(pgx.NamedArgs); ok {
			tx.args = append(tx.args, na)
		}
	}
	if tx.failOn == len(tx.execs) {
		return pgconn.CommandTag{}, fmt.Errorf("exec %d failed", tx.failOn)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if tx.committed {
		return pgx.ErrTxClosed
	}
	tx.rolled = true
	return nil
}
