package courselookup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JoshCrouch/uq-program-planner/program"
	"github.com/JoshCrouch/uq-program-planner/utils/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLookup struct {
	mu      sync.Mutex
	calls   int
	courses map[string]program.CourseInfo
}

func (l *countingLookup) LookupCourse(_ context.Context, code string) (program.CourseInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	info, ok := l.courses[code]
	if !ok {
		return program.CourseInfo{}, errors.New("failed to fetch course data: Not Found")
	}
	return info, nil
}

func TestCachedLookup_CachesSuccess(t *testing.T) {
	next := &countingLookup{courses: map[string]program.CourseInfo{
		"CSSE1001": {Code: "CSSE1001", Title: "Intro", Units: 2},
	}}
	lookup := NewCachedLookup(next, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	for range 3 {
		info, err := lookup.LookupCourse(context.Background(), "CSSE1001")
		require.NoError(t, err)
		assert.Equal(t, "Intro", info.Title)
	}
	assert.Equal(t, 1, next.calls)
}

func TestCachedLookup_DoesNotCacheFailures(t *testing.T) {
	next := &countingLookup{courses: map[string]program.CourseInfo{}}
	lookup := NewCachedLookup(next, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	_, err := lookup.LookupCourse(context.Background(), "X")
	require.Error(t, err)
	_, err = lookup.LookupCourse(context.Background(), "X")
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedLookup_Invalidate(t *testing.T) {
	next := &countingLookup{courses: map[string]program.CourseInfo{
		"CSSE1001": {Code: "CSSE1001", Title: "Intro", Units: 2},
	}}
	lookup := NewCachedLookup(next, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	ctx := context.Background()

	_, err := lookup.LookupCourse(ctx, "CSSE1001")
	require.NoError(t, err)
	require.NoError(t, lookup.Invalidate(ctx, "csse1001"))
	_, err = lookup.LookupCourse(ctx, "CSSE1001")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedLookup_NilCachePassesThrough(t *testing.T) {
	next := &countingLookup{courses: map[string]program.CourseInfo{
		"A": {Code: "A", Title: "A", Units: 1},
	}}
	lookup := NewCachedLookup(next, nil, time.Minute)

	_, err := lookup.LookupCourse(context.Background(), "A")
	require.NoError(t, err)
	_, err = lookup.LookupCourse(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}
