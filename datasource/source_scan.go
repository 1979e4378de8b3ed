package datasource

import (
	"context"
	"time"

	"github.com/cachekit/ddbsource/table"
)

// Scan runs a single full-table scan page, forwarding the caller's
// pagination token unchanged. Caching behavior matches Query: a positive ttl
// writes every returned record to the cache under its derived key. Store
// errors propagate untranslated; cache population failures surface as
// *CacheError.
func (s *Source) Scan(ctx context.Context, req ScanRequest, ttl time.Duration) ([]table.Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	input, err := req.toInput(s.def.Name)
	if err != nil {
		return nil, err
	}
	res, err := s.ddb.Scan(ctx, input)
	if err != nil {
		return nil, err
	}

	items := res.Items

	if ttl > 0 && len(items) > 0 {
		if err := s.populateCache(ctx, items, ttl); err != nil {
			return nil, err
		}
	}
	return items, nil
}
