package program

import (
	"context"
	"fmt"
	"sync"
)

// catalogLookup is an in-memory CourseLookup that records the codes it was
// asked for.
type catalogLookup struct {
	mu      sync.Mutex
	courses map[string]CourseInfo
	calls   []string
}

func newCatalogLookup(courses ...CourseInfo) *catalogLookup {
	l := &catalogLookup{courses: make(map[string]CourseInfo)}
	for _, c := range courses {
		l.courses[c.Code] = c
	}
	return l
}

func (l *catalogLookup) LookupCourse(_ context.Context, code string) (CourseInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, code)

	info, ok := l.courses[code]
	if !ok {
		return CourseInfo{}, fmt.Errorf("failed to fetch course data: 404 Not Found")
	}
	return info, nil
}

func (l *catalogLookup) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}
