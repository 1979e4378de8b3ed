package datasource

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cachekit/ddbsource/cachekey"
	"github.com/cachekit/ddbsource/table"
)

// bulkWriteConcurrency bounds how many cache writes a single bulk population
// issues at once.
const bulkWriteConcurrency = 16

// populateCache writes one cache entry per record, concurrently, and awaits
// all of them. The writes are independent: a failure mid-batch leaves the
// other entries written. The first failure is returned as a *CacheError and
// every failure is logged, so partial outcomes are never silently dropped.
func (s *Source) populateCache(ctx context.Context, items []table.Item, ttl time.Duration) error {
	bulk, err := cachekey.BulkMap(s.prefix, s.def.Name, s.def.Keys, items)
	if err != nil {
		return newCacheError(err)
	}

	var g errgroup.Group
	g.SetLimit(bulkWriteConcurrency)
	for key, item := range bulk {
		g.Go(func() error {
			if err := s.cacheWrite(ctx, key, item, ttl); err != nil {
				s.log.Warn("bulk cache write failed",
					zap.String("cacheKey", key), zap.Error(err))
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// cacheWrite already wraps as *CacheError.
		return err
	}
	return nil
}
