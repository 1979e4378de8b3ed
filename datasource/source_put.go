package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/cachekit/ddbsource/table"
)

// Put writes the record to DynamoDB unconditionally (or under the request's
// condition, with a failed check propagating as a store error). After a
// successful write, a positive ttl refreshes the cache entry under the key
// derived from the written record's primary key. Returns the record as
// given, not re-read from the store.
func (s *Source) Put(ctx context.Context, req PutRequest, ttl time.Duration) (table.Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	input, err := req.toInput(s.def.Name)
	if err != nil {
		return nil, err
	}
	if _, err := s.ddb.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to put item: %w", err)
	}

	if ttl > 0 {
		pk, err := s.def.ExtractPrimaryKey(req.Item)
		if err != nil {
			return nil, newCacheError(err)
		}
		if err := s.cacheWrite(ctx, s.cacheKey(pk), req.Item, ttl); err != nil {
			return nil, err
		}
	}
	return req.Item, nil
}
