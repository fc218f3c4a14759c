package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/zag-shortener/internal/shortener"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// DefaultRetryDelay is the fixed pause between connection attempts.
const DefaultRetryDelay = 5 * time.Second

var (
	// ErrMissingDSN is returned by a connection attempt when no connection string is configured.
	ErrMissingDSN = errors.New("database connection string is not configured")
	// ErrConnectorClosed is returned by Run once Shutdown has been called.
	ErrConnectorClosed = errors.New("database connector is shut down")
)

// State describes the connector's view of the database connection.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// DialFunc opens a ready-to-use pool for dsn.
type DialFunc func(ctx context.Context, dsn string) (*pgxpool.Pool, error)

// Connector owns the process-wide PostgreSQL pool and keeps trying to
// establish it until it succeeds.
type Connector struct {
	dsn      string
	delay    time.Duration
	dial     DialFunc
	logger   *zap.Logger
	pool     atomic.Pointer[pgxpool.Pool]
	state    atomic.Int32
	attempts atomic.Int64
	closed   atomic.Bool
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithRetryDelay overrides DefaultRetryDelay.
func WithRetryDelay(delay time.Duration) ConnectorOption {
	return func(c *Connector) {
		c.delay = delay
	}
}

// WithDialFunc overrides how pools are opened.
func WithDialFunc(dial DialFunc) ConnectorOption {
	return func(c *Connector) {
		c.dial = dial
	}
}

// NewConnector creates a connector for dsn. Nothing is dialed until Run.
func NewConnector(dsn string, logger *zap.Logger, opts ...ConnectorOption) *Connector {
	c := &Connector{
		dsn:    dsn,
		delay:  DefaultRetryDelay,
		dial:   Dial,
		logger: logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Dial opens a pool, verifies it with a ping and applies migrations.
func Dial(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err = Migrate(ctx, pool); err != nil {
		pool.Close()

		return nil, err
	}

	return pool, nil
}

// Run blocks until a connection is established, ctx is done or the connector
// is shut down. Attempts are spaced by a constant delay and never give up on
// their own. A pool that arrives after cancellation or Shutdown is closed.
func (c *Connector) Run(ctx context.Context) error {
	backoff := retry.NewConstant(c.delay)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if c.closed.Load() {
			return ErrConnectorClosed
		}

		attempt := c.attempts.Add(1)
		c.state.Store(int32(StateConnecting))

		c.logger.Info("connecting to database", zap.Int64("attempt", attempt))

		pool, err := c.dial(ctx, c.dsn)
		if err != nil {
			c.state.Store(int32(StateDisconnected))
			c.logger.Error("database connection failed",
				zap.Int64("attempt", attempt),
				zap.Duration("retryIn", c.delay),
				zap.Error(err),
			)

			return retry.RetryableError(err)
		}

		if err = ctx.Err(); err != nil {
			pool.Close()
			c.state.Store(int32(StateDisconnected))

			return err
		}

		c.pool.Store(pool)
		c.state.Store(int32(StateConnected))

		// Shutdown may have run while dial was in flight; whichever side
		// swaps the pool out closes it.
		if c.closed.Load() {
			c.release()

			return ErrConnectorClosed
		}

		c.logger.Info("connected to database", zap.Int64("attempt", attempt))

		return nil
	})
}

// Pool returns the live pool, or a StoreError wrapping ErrUnavailable.
func (c *Connector) Pool() (*pgxpool.Pool, error) {
	pool := c.pool.Load()
	if pool == nil {
		return nil, shortener.NewStoreError("connect", shortener.ErrUnavailable)
	}

	return pool, nil
}

// State returns the current connection state.
func (c *Connector) State() State {
	return State(c.state.Load())
}

// Attempts returns how many connection attempts have been made.
func (c *Connector) Attempts() int64 {
	return c.attempts.Load()
}

// Shutdown closes the pool if one was established and stops Run from
// installing a new one.
func (c *Connector) Shutdown() error {
	c.closed.Store(true)
	c.release()

	return nil
}

func (c *Connector) release() {
	if pool := c.pool.Swap(nil); pool != nil {
		pool.Close()
	}

	c.state.Store(int32(StateDisconnected))
}

// Compile-time check.
var _ PoolProvider = (*Connector)(nil)
