package datasource

import (
	"context"
	"time"

	"github.com/cachekit/ddbsource/table"
)

// Query runs a key-condition query and returns all matched records,
// following LastEvaluatedKey internally. When ttl is positive and the result
// set is non-empty, every returned record is written to the cache under its
// derived key. Store errors propagate untranslated; cache population
// failures surface as *CacheError.
func (s *Source) Query(ctx context.Context, req QueryRequest, ttl time.Duration) ([]table.Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	input, err := req.toInput(s.def.Name)
	if err != nil {
		return nil, err
	}

	var items []table.Item
	for {
		res, err := s.ddb.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, res.Items...)
		if res.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = res.LastEvaluatedKey
	}

	if ttl > 0 && len(items) > 0 {
		if err := s.populateCache(ctx, items, ttl); err != nil {
			return nil, err
		}
	}
	return items, nil
}
