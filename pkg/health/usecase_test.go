package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/resumebuilder/pkg/health/checkers"
)

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Name() string                { return f.name }
func (f fakeChecker) Check(context.Context) error { return f.err }

type fakeConn bool

func (f fakeConn) IsClosed() bool { return bool(f) }

func TestReady(t *testing.T) {
	require.NoError(t, NewService().Ready(t.Context()))
	require.NoError(t, NewService(fakeChecker{name: "postgres"}, nil).Ready(t.Context()))

	down := errors.New("connection refused")
	err := NewService(
		fakeChecker{name: "postgres", err: down},
		fakeChecker{name: "cache"},
		checkers.NewBrokerChecker(fakeConn(true)),
	).Ready(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, down)
	assert.Contains(t, err.Error(), "postgres: connection refused")
	assert.Contains(t, err.Error(), "amqp: connection closed")
	assert.NotContains(t, err.Error(), "cache")
}
