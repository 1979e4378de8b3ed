package datasource

import "errors"

// ErrNotInitialized is returned by every operation invoked before
// Initialize. Calling an operation on an uninitialized Source is a
// programmer error.
var ErrNotInitialized = errors.New("datasource: not initialized, call Initialize first")

const cacheErrMessage = "cache operation failed"

// CacheError reports a failure in the cache sub-step of an operation, as
// opposed to a backing-store failure, which propagates with the store's own
// semantics. Swallowed cache-read failures inside Get never surface as
// CacheErrors.
type CacheError struct {
	cause error
}

func newCacheError(cause error) *CacheError {
	return &CacheError{cause: cause}
}

func (e *CacheError) Error() string {
	if e.cause == nil || e.cause.Error() == "" {
		return cacheErrMessage
	}
	return cacheErrMessage + ": " + e.cause.Error()
}

func (e *CacheError) Unwrap() error {
	return e.cause
}
