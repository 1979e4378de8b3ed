package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/cachekit/ddbsource/table"
)

// Update applies a partial update and returns the post-update record. If the
// store returns no record (e.g. a conditional update did not match), nil is
// returned and the cache is left untouched. Otherwise a positive ttl
// refreshes the cache entry under the key derived from the request's key
// field, not re-derived from the result.
func (s *Source) Update(ctx context.Context, req UpdateRequest, ttl time.Duration) (table.Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	input, err := req.toInput(s.def.Name)
	if err != nil {
		return nil, err
	}
	res, err := s.ddb.UpdateItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if len(res.Attributes) == 0 {
		return nil, nil
	}

	if ttl > 0 {
		if err := s.cacheWrite(ctx, s.cacheKey(req.Key), res.Attributes, ttl); err != nil {
			return nil, err
		}
	}
	return res.Attributes, nil
}
