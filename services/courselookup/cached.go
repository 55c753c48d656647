package courselookup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/JoshCrouch/uq-program-planner/program"
	"github.com/JoshCrouch/uq-program-planner/utils/cache"
	"github.com/gofiber/fiber/v2/log"
)

const keyPrefix = "course:"

// CachedLookup decorates a CourseLookup with a cache. Only successful lookups
// are cached so a course that failed to load is retried next time.
type CachedLookup struct {
	next  program.CourseLookup
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedLookup wraps next. A nil cache disables caching.
func NewCachedLookup(next program.CourseLookup, c cache.Cache, ttl time.Duration) *CachedLookup {
	return &CachedLookup{next: next, cache: c, ttl: ttl}
}

func cacheKey(code string) string {
	return keyPrefix + strings.ToUpper(strings.TrimSpace(code))
}

// LookupCourse implements program.CourseLookup.
func (l *CachedLookup) LookupCourse(ctx context.Context, code string) (program.CourseInfo, error) {
	if l.cache == nil {
		return l.next.LookupCourse(ctx, code)
	}

	key := cacheKey(code)

	var info program.CourseInfo
	err := l.cache.GetJSON(ctx, key, &info)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		log.Warnf("course cache read failed for %s: %v", code, err)
	}

	info, err = l.next.LookupCourse(ctx, code)
	if err != nil {
		return program.CourseInfo{}, err
	}

	if err := l.cache.SetJSON(ctx, key, info, l.ttl); err != nil {
		log.Warnf("course cache write failed for %s: %v", code, err)
	}
	return info, nil
}

// Invalidate drops cached entries for the given codes.
func (l *CachedLookup) Invalidate(ctx context.Context, codes ...string) error {
	if l.cache == nil || len(codes) == 0 {
		return nil
	}
	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = cacheKey(code)
	}
	return l.cache.Delete(ctx, keys...)
}

var _ program.CourseLookup = (*CachedLookup)(nil)
