// Package datasource fetches records from a DynamoDB table while
// transparently caching single-item reads and writes in an expiring
// key-value cache.
//
// Reads go through the cache (read-through): a Get first tries the cache
// under the key derived from the table's key schema and falls back to
// DynamoDB on a miss, populating the cache when a TTL is supplied. Writes go
// through to DynamoDB first and then refresh the cache entry (write-through)
// when a TTL is supplied. Query and Scan always hit DynamoDB and
// opportunistically populate the cache per returned record. Delete evicts
// the cache entry after the store delete succeeds.
//
// The cache is a derived, disposable view: losing every cache entry loses
// read performance, never data. No entry is ever written without a caller
// supplied TTL.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cachekit/ddbsource/cache"
	"github.com/cachekit/ddbsource/cachekey"
	"github.com/cachekit/ddbsource/table"
)

// Source is a cache-backed accessor for a single DynamoDB table. Construct
// with New, then call Initialize exactly once before any operation; the
// calling framework typically supplies the shared clients only after
// construction.
//
// All fields are immutable after Initialize. The underlying clients are
// assumed safe for concurrent calls; two concurrent operations on the same
// primary key may race, and the last cache write to complete wins.
type Source struct {
	def    table.Definition
	prefix string
	codec  Codec
	log    *zap.Logger

	ddb       DynamoClient
	cacheStor cache.Cache
}

// Option configures a Source at construction time.
type Option func(*Source)

// WithKeyPrefix sets the literal prefix prepended to every derived cache
// key. Defaults to empty.
func WithKeyPrefix(prefix string) Option {
	return func(s *Source) { s.prefix = prefix }
}

// WithCodec sets the record serialization codec. Defaults to JSON.
func WithCodec(c Codec) Option {
	return func(s *Source) { s.codec = c }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Source) { s.log = log }
}

// New constructs a Source for the given table definition. The definition's
// key schema must be valid. The returned Source is not usable until
// Initialize has been called.
func New(def table.Definition, opts ...Option) (*Source, error) {
	if def.Name == "" {
		return nil, errors.New("table name is required")
	}
	if err := def.Keys.Validate(); err != nil {
		return nil, fmt.Errorf("invalid key schema for table %q: %w", def.Name, err)
	}
	s := &Source{
		def:   def,
		codec: JSONCodec(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// InitParams carries the shared dependencies injected after construction.
type InitParams struct {
	// Client is the DynamoDB client. Required.
	Client DynamoClient
	// Cache is the expiring key-value cache. If nil, a fresh bounded
	// in-memory cache is created for this Source.
	Cache cache.Cache
}

// Initialize installs the backing store client and the cache. It must be
// called exactly once before any other operation.
func (s *Source) Initialize(p InitParams) error {
	if s.ddb != nil {
		return errors.New("datasource: already initialized")
	}
	if p.Client == nil {
		return errors.New("datasource: dynamo client is required")
	}
	s.ddb = p.Client
	s.cacheStor = p.Cache
	if s.cacheStor == nil {
		s.cacheStor = cache.NewMemory()
	}
	return nil
}

func (s *Source) ready() error {
	if s.ddb == nil {
		return ErrNotInitialized
	}
	return nil
}

func (s *Source) cacheKey(key table.Item) string {
	return cachekey.Key(s.prefix, s.def.Name, s.def.Keys, key)
}

// cacheLookup tries to read and decode a cached record. Any failure (I/O or
// decode) is treated as a miss; a cache being unavailable must never block a
// correct read path.
func (s *Source) cacheLookup(ctx context.Context, key string) (table.Item, bool) {
	data, found, err := s.cacheStor.Get(ctx, key)
	if err != nil {
		s.log.Debug("cache read failed, treating as miss", zap.String("cacheKey", key), zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	item, err := s.codec.Decode(data)
	if err != nil {
		s.log.Debug("cache decode failed, treating as miss", zap.String("cacheKey", key), zap.Error(err))
		return nil, false
	}
	return item, true
}

// cacheWrite encodes and stores a record. Failures surface as *CacheError.
func (s *Source) cacheWrite(ctx context.Context, key string, item table.Item, ttl time.Duration) error {
	data, err := s.codec.Encode(item)
	if err != nil {
		return newCacheError(err)
	}
	if err := s.cacheStor.Set(ctx, key, data, ttl); err != nil {
		return newCacheError(err)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
