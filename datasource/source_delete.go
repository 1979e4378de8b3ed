package datasource

import (
	"context"
	"fmt"

	"github.com/cachekit/ddbsource/table"
)

// Delete removes the record from DynamoDB and then evicts the corresponding
// cache entry, whether or not the store returned a pre-delete record. A
// store-level delete failure short-circuits before any eviction is
// attempted; an eviction failure surfaces as *CacheError. Returns the
// pre-delete record, or nil if none existed.
func (s *Source) Delete(ctx context.Context, req DeleteRequest) (table.Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	input, err := req.toInput(s.def.Name)
	if err != nil {
		return nil, err
	}
	res, err := s.ddb.DeleteItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to delete item: %w", err)
	}

	if _, err := s.cacheStor.Delete(ctx, s.cacheKey(req.Key)); err != nil {
		return nil, newCacheError(err)
	}

	if len(res.Attributes) == 0 {
		return nil, nil
	}
	return res.Attributes, nil
}
