package timeline

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"timeliner/internal/temporal"
)

type resolveKey struct {
	token string
	ref   temporal.CalendarDate
}

// cachedResolver memoizes resolutions. Annotated corpora repeat the same
// few tokens ("PRESENT_REF", the document year) many times per document.
// Cached slices are shared and must not be modified by callers.
type cachedResolver struct {
	next  temporal.DateResolver
	cache *lru.Cache[resolveKey, []temporal.CalendarDate]
}

func newCachedResolver(next temporal.DateResolver, size int) (*cachedResolver, error) {
	cache, err := lru.New[resolveKey, []temporal.CalendarDate](size)
	if err != nil {
		return nil, errors.Wrap(err, "create token cache")
	}
	return &cachedResolver{next: next, cache: cache}, nil
}

func (c *cachedResolver) Resolve(token string, ref temporal.CalendarDate) []temporal.CalendarDate {
	key := resolveKey{token: token, ref: ref}
	if dates, ok := c.cache.Get(key); ok {
		return dates
	}
	dates := c.next.Resolve(token, ref)
	c.cache.Add(key, dates)
	return dates
}
