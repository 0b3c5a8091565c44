package imapapi

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type connSpy struct {
	closed  atomic.Int32
	logouts atomic.Int32
}

func (c *connSpy) bind(ctx context.Context) func() {
	return bindSession(ctx,
		func() error { c.closed.Add(1); return nil },
		func() { c.logouts.Add(1) },
	)
}

func TestBindSession_LiveContextLogsOut(t *testing.T) {
	var c connSpy
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	release := c.bind(ctx)
	release()
	cancel()

	assert.Equal(t, int32(1), c.logouts.Load())
	assert.Never(t, func() bool { return c.closed.Load() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestBindSession_CancelClosesConnection(t *testing.T) {
	var c connSpy
	ctx, cancel := context.WithCancel(context.Background())

	release := c.bind(ctx)
	cancel()
	require.Eventually(t, func() bool { return c.closed.Load() == 1 }, time.Second, 5*time.Millisecond)

	release()
	assert.Zero(t, c.logouts.Load())
}

func TestAbortErr(t *testing.T) {
	ioErr := errors.New("use of closed network connection")

	assert.NoError(t, abortErr(context.Background(), nil))
	assert.Equal(t, ioErr, abortErr(context.Background(), ioErr))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, abortErr(ctx, ioErr), context.Canceled)
	assert.NoError(t, abortErr(ctx, nil))
}

// cancellingSource cancels the scan while the first mailbox is read.
type cancellingSource struct {
	cancel context.CancelFunc
	calls  int
}

func (s *cancellingSource) envelopes(string) ([]Envelope, error) {
	s.calls++
	s.cancel()
	return nil, nil
}

func TestFindThread_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &cancellingSource{cancel: cancel}

	_, err := findThread(ctx, src, ThreadID("Budget"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, src.calls)
}
