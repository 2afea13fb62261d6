// Package pgxres provides a repool.Factory that dials PostgreSQL
// connections with pgx. Pair it with a repool.Pool to recycle
// connections with bounded lifetime and idle time:
//
//	factory, err := pgxres.New(dsn)
//	if err != nil { ... }
//	pool := repool.New("postgres", factory, repool.DefaultConfig())
package pgxres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kimuyb/repool"
)

// DefaultConnectTimeout bounds each connection attempt and close.
const DefaultConnectTimeout = 10 * time.Second

// Factory creates and closes PostgreSQL connections.
type Factory struct {
	config  *pgx.ConnConfig
	timeout time.Duration
	log     *slog.Logger
}

var _ repool.Factory[*pgx.Conn] = (*Factory)(nil)

// Option configures a Factory.
type Option func(*Factory)

// WithConnectTimeout overrides DefaultConnectTimeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(f *Factory) { f.timeout = d }
}

// WithLogger sets the logger for connection lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(f *Factory) { f.log = log }
}

// New creates a factory from a PostgreSQL connection string.
func New(dsn string, opts ...Option) (*Factory, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}
	f := &Factory{
		config:  config,
		timeout: DefaultConnectTimeout,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// CreateResource dials a new connection and verifies it with a ping.
func (f *Factory) CreateResource() (*pgx.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	conn, err := pgx.ConnectConfig(ctx, f.config)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	f.log.Debug("database connection opened",
		"host", f.config.Host,
		"port", f.config.Port,
		"database", f.config.Database,
	)
	return conn, nil
}

// DestroyResource closes a connection.
func (f *Factory) DestroyResource(conn *pgx.Conn) error {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	if err := conn.Close(ctx); err != nil {
		return fmt.Errorf("closing database connection: %w", err)
	}
	f.log.Debug("database connection closed",
		"host", f.config.Host,
		"database", f.config.Database,
	)
	return nil
}
