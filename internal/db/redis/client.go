package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/geoknow/internal/db"
)

var _ db.Store = (*Store)(nil)

// DefaultClientName is reported to the server via CLIENT SETNAME.
const DefaultClientName = "geoknow"

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs       []string
	Username    string
	Password    string
	DB          int
	ClientName  string
	DialTimeout time.Duration
}

func (c *Config) clientOption() rueidis.ClientOption {
	name := c.ClientName
	if name == "" {
		name = DefaultClientName
	}
	opt := rueidis.ClientOption{
		InitAddress: c.Addrs,
		Username:    c.Username,
		Password:    c.Password,
		SelectDB:    c.DB,
		ClientName:  name,
		// Query results are cached in the embedding cache, not client-side.
		DisableCache: true,
		// FT.SEARCH replies are parsed as RESP2 arrays.
		AlwaysRESP2: true,
	}
	if c.DialTimeout > 0 {
		opt.Dialer.Timeout = c.DialTimeout
	}
	return opt
}

// Store is the Redis 8 backend for the vector index, the embedding cache and
// the gazetteer. It needs the query engine and GEO commands.
type Store struct {
	client rueidis.Client
}

// NewStore dials Redis with cfg.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis: addrs is required")
	}
	client, err := rueidis.NewClient(cfg.clientOption())
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	return newStore(client), nil
}

func newStore(c rueidis.Client) *Store {
	return &Store{client: c}
}

// Ping sends PING once.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// WaitForReady blocks until PING succeeds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, "redis", timeout, s.Ping)
}

// Close releases all connections.
func (s *Store) Close() {
	s.client.Close()
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// isRedisErr reports whether err is a server reply containing substr, ignoring case.
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
