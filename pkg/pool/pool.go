// Package pool provides a bounded pool of long-lived backend connections with
// blocking checkout and reconnect-on-failure.
package pool

import (
	"context"
	"sync"

	"github.com/gear6io/lakecat/pkg/errors"
	"github.com/rs/zerolog"
)

// Package-specific error codes for pool operations
var (
	PoolClosed          = errors.MustNewCode("pool.closed")
	PoolConnectFailed   = errors.MustNewCode("pool.connect_failed")
	PoolReconnectFailed = errors.MustNewCode("pool.reconnect_failed")
)

// Ops supplies the connection lifecycle callbacks for a pool.
type Ops[C any] struct {
	// New opens a fresh connection. Called while holding a pool slot.
	New func(ctx context.Context) (C, error)

	// Close releases a connection. Must not block indefinitely.
	Close func(client C)

	// Reconnect replaces a broken connection with a working one. The broken
	// connection is owned by Reconnect and must be closed by it.
	Reconnect func(ctx context.Context, client C) (C, error)

	// IsConnectionError reports whether an action failure means the
	// connection itself is broken and worth a reconnect. Business errors
	// must return false so the retry path cannot swallow them.
	IsConnectionError func(err error) bool
}

// Pool multiplexes at most size live connections across unboundedly many
// concurrent callers. Acquisition blocks without polling until a connection is
// released, creating new connections lazily while fewer than size exist.
type Pool[C any] struct {
	ops    Ops[C]
	size   int
	retry  bool
	logger zerolog.Logger

	// slots caps the number of live connections; a held token means one
	// connection exists (idle or checked out)
	slots chan struct{}
	idle  chan C
	done  chan struct{}
	once  sync.Once
}

// New creates a pool of at most size connections. When retry is true, an
// action failing with a connection error is retried exactly once on a freshly
// reconnected connection.
func New[C any](size int, retry bool, ops Ops[C], logger zerolog.Logger) *Pool[C] {
	if size < 1 {
		size = 1
	}
	return &Pool[C]{
		ops:    ops,
		size:   size,
		retry:  retry,
		logger: logger.With().Str("component", "client-pool").Logger(),
		slots:  make(chan struct{}, size),
		idle:   make(chan C, size),
		done:   make(chan struct{}),
	}
}

// Size returns the configured maximum number of live connections
func (p *Pool[C]) Size() int {
	return p.size
}

// Run checks out a connection, executes action, and returns the connection on
// every exit path. Cancellation of ctx while blocked on checkout unblocks
// promptly without leaking a connection.
func (p *Pool[C]) Run(ctx context.Context, action func(client C) error) error {
	client, err := p.acquire(ctx)
	if err != nil {
		return err
	}

	// Release on every exit path, including a panicking action. The closure
	// reads client so a reconnect swap releases the fresh connection.
	held := true
	defer func() {
		if held {
			p.release(client)
		}
	}()

	err = action(client)
	if err != nil && p.retry && p.ops.IsConnectionError != nil && p.ops.IsConnectionError(err) {
		fresh, rerr := p.ops.Reconnect(ctx, client)
		if rerr != nil {
			// The broken connection was consumed by the failed reconnect;
			// free its slot instead of releasing it.
			held = false
			p.freeSlot()
			p.logger.Warn().Err(rerr).Msg("Reconnect failed, surfacing original failure")
			return errors.Wrap(PoolReconnectFailed, err, "connection lost and reconnect failed").
				AddContext("reconnect_error", rerr.Error())
		}
		client = fresh
		p.logger.Debug().Msg("Reconnected broken connection, retrying action once")
		err = action(client)
	}

	return err
}

func (p *Pool[C]) acquire(ctx context.Context) (C, error) {
	var zero C

	select {
	case <-p.done:
		return zero, errors.Newf(PoolClosed, "cannot check out a connection from a closed pool")
	default:
	}

	// Fast path: an idle connection is ready
	select {
	case client := <-p.idle:
		return client, nil
	default:
	}

	select {
	case client := <-p.idle:
		return client, nil
	case p.slots <- struct{}{}:
		client, err := p.ops.New(ctx)
		if err != nil {
			p.freeSlot()
			return zero, errors.Wrap(PoolConnectFailed, err, "failed to open backend connection")
		}
		return client, nil
	case <-p.done:
		return zero, errors.Newf(PoolClosed, "cannot check out a connection from a closed pool")
	case <-ctx.Done():
		return zero, errors.Wrap(errors.CommonCanceled, ctx.Err(), "canceled while waiting for a pooled connection")
	}
}

func (p *Pool[C]) release(client C) {
	p.idle <- client

	// If the pool closed while this connection was checked out, the closer's
	// drain may already have run; drain again so nothing lingers.
	select {
	case <-p.done:
		p.drainIdle()
	default:
	}
}

// freeSlot releases a slot whose connection no longer exists
func (p *Pool[C]) freeSlot() {
	<-p.slots
}

func (p *Pool[C]) drainIdle() {
	for {
		select {
		case client := <-p.idle:
			p.ops.Close(client)
			p.freeSlot()
		default:
			return
		}
	}
}

// Close marks the pool closed, destroys all idle connections and makes any
// further Run fail fast. In-flight actions complete; their connections are
// destroyed on release.
func (p *Pool[C]) Close() {
	p.once.Do(func() {
		close(p.done)
		p.drainIdle()
		p.logger.Debug().Msg("Client pool closed")
	})
}
