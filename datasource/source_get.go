package datasource

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cachekit/ddbsource/table"
)

// Get fetches a single record, reading through the cache. On a cache hit the
// backing store is never called. On a miss the record is fetched from
// DynamoDB and, when ttl is positive, written to the cache under the derived
// key before returning. A record absent from the store is returned as nil
// and never cached.
func (s *Source) Get(ctx context.Context, req GetRequest, ttl time.Duration) (table.Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	key := s.cacheKey(req.Key)

	if item, ok := s.cacheLookup(ctx, key); ok {
		s.log.Debug("cache hit", zap.String("cacheKey", key))
		return item, nil
	}
	s.log.Debug("cache miss", zap.String("cacheKey", key))

	input, err := req.toInput(s.def.Name)
	if err != nil {
		return nil, err
	}
	res, err := s.ddb.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}
	if res.Item == nil {
		return nil, nil
	}

	if ttl > 0 {
		if err := s.cacheWrite(ctx, key, res.Item, ttl); err != nil {
			return nil, err
		}
	}
	return res.Item, nil
}
