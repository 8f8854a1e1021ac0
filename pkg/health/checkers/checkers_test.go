package checkers

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePool struct {
	pingErr error
	tables  map[string]bool
	scanErr error
	asked   []string
}

func (p *fakePool) Ping(context.Context) error { return p.pingErr }

func (p *fakePool) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	name := args[0].(string)
	p.asked = append(p.asked, name)
	return fakeRow{exists: p.tables[name], err: p.scanErr}
}

type fakeRow struct {
	exists bool
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*bool) = r.exists
	return nil
}

func migrated() map[string]bool {
	return map[string]bool{"public.users": true, "public.resumes": true, "public.user_info": true}
}

func TestPostgresChecker(t *testing.T) {
	pool := &fakePool{tables: migrated()}
	c := NewPostgresChecker(pool)
	assert.Equal(t, "postgres", c.Name())
	require.NoError(t, c.Check(t.Context()))
	assert.Equal(t, []string{"public.users", "public.resumes", "public.user_info"}, pool.asked)
}

func TestPostgresCheckerFailures(t *testing.T) {
	down := &fakePool{pingErr: errors.New("connection refused")}
	assert.EqualError(t, NewPostgresChecker(down).Check(t.Context()), "connection refused")
	assert.Empty(t, down.asked)

	tables := migrated()
	delete(tables, "public.user_info")
	err := NewPostgresChecker(&fakePool{tables: tables}).Check(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_info")
	assert.NotContains(t, err.Error(), "resumes")

	err = NewPostgresChecker(&fakePool{scanErr: errors.New("permission denied")}).Check(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "look up table users")
}

type conn struct{ closed bool }

func (c conn) IsClosed() bool { return c.closed }

func TestBrokerChecker(t *testing.T) {
	assert.NoError(t, NewBrokerChecker(conn{}).Check(t.Context()))
	assert.Error(t, NewBrokerChecker(conn{closed: true}).Check(t.Context()))
}
