package program

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csse1001 = CourseInfo{Code: "CSSE1001", Title: "Introduction to Software Engineering", Units: 2}

func TestResolveCourse_Success(t *testing.T) {
	c := ResolveCourse(context.Background(), newCatalogLookup(csse1001), "CSSE1001")

	assert.Equal(t, "CSSE1001", c.Code())
	assert.Equal(t, csse1001.Title, c.Title())
	assert.Equal(t, 2, c.Units())
	_, failed := c.ErrorMessage()
	assert.False(t, failed)
}

func TestResolveCourse_UsesCodeFromResponse(t *testing.T) {
	lookup := CourseLookupFunc(func(_ context.Context, code string) (CourseInfo, error) {
		return CourseInfo{Code: "CSSE1001", Title: "Intro", Units: 2}, nil
	})

	c := ResolveCourse(context.Background(), lookup, "csse1001")
	assert.Equal(t, "CSSE1001", c.Code())
}

func TestResolveCourse_NotFoundFallsBack(t *testing.T) {
	c := ResolveCourse(context.Background(), newCatalogLookup(), "X")

	assert.Equal(t, "X", c.Code())
	assert.Equal(t, FailedCourseTitle, c.Title())
	assert.Equal(t, 0, c.Units())
	msg, failed := c.ErrorMessage()
	require.True(t, failed)
	assert.Contains(t, msg, "404")
}

func TestResolveCourse_EmptyErrorGetsDefaultReason(t *testing.T) {
	lookup := CourseLookupFunc(func(context.Context, string) (CourseInfo, error) {
		return CourseInfo{}, errors.New("")
	})

	c := ResolveCourse(context.Background(), lookup, "X")
	msg, failed := c.ErrorMessage()
	require.True(t, failed)
	assert.Equal(t, defaultLookupFailure, msg)
}

func TestResolveCourse_NilLookupFallsBack(t *testing.T) {
	c := ResolveCourse(context.Background(), nil, "CSSE1001")

	assert.Equal(t, FailedCourseTitle, c.Title())
	msg, failed := c.ErrorMessage()
	require.True(t, failed)
	assert.Equal(t, errNoLookup.Error(), msg)
}

func TestCourse_ConstructorHasNoError(t *testing.T) {
	c := NewCourse("MATH1061", "Discrete Mathematics", 2)

	_, failed := c.ErrorMessage()
	assert.False(t, failed)

	c.SetErrorMessage("boom")
	msg, failed := c.ErrorMessage()
	assert.True(t, failed)
	assert.Equal(t, "boom", msg)

	c.ClearErrorMessage()
	_, failed = c.ErrorMessage()
	assert.False(t, failed)
}

func TestCourse_SetCodeRefreshesInBackground(t *testing.T) {
	lookup := newCatalogLookup(csse1001)
	c := NewCourse("OLD1000", "Old", 4)
	c.SetErrorMessage("stale")

	done := c.SetCode(context.Background(), "CSSE1001", lookup)
	assert.Equal(t, "CSSE1001", c.Code(), "code changes before the lookup completes")

	waitDone(t, done)
	assert.Equal(t, csse1001.Title, c.Title())
	assert.Equal(t, 2, c.Units())
	_, failed := c.ErrorMessage()
	assert.False(t, failed)
}

func TestCourse_SetCodeFailureMarksCourse(t *testing.T) {
	c := NewCourse("CSSE1001", "Intro", 2)

	waitDone(t, c.SetCode(context.Background(), "NOPE0000", newCatalogLookup()))

	assert.Equal(t, "NOPE0000", c.Code())
	assert.Equal(t, FailedCourseTitle, c.Title())
	assert.Equal(t, 0, c.Units())
	_, failed := c.ErrorMessage()
	assert.True(t, failed)
}

func TestCourse_SetCodeNilLookupOnlyChangesCode(t *testing.T) {
	c := NewCourse("CSSE1001", "Intro", 2)

	waitDone(t, c.SetCode(context.Background(), "CSSE2002", nil))

	assert.Equal(t, "CSSE2002", c.Code())
	assert.Equal(t, "Intro", c.Title())
}

func TestCourse_SetCodeDiscardsStaleResponse(t *testing.T) {
	release := map[string]chan struct{}{
		"AAAA1000": make(chan struct{}),
		"BBBB2000": make(chan struct{}),
	}
	lookup := CourseLookupFunc(func(_ context.Context, code string) (CourseInfo, error) {
		<-release[code]
		return CourseInfo{Code: code, Title: "Title " + code, Units: len(code)}, nil
	})

	c := NewCourse("START0000", "Start", 2)
	first := c.SetCode(context.Background(), "AAAA1000", lookup)
	second := c.SetCode(context.Background(), "BBBB2000", lookup)

	// The newer request answers first, the older one last.
	close(release["BBBB2000"])
	waitDone(t, second)
	close(release["AAAA1000"])
	waitDone(t, first)

	assert.Equal(t, "BBBB2000", c.Code())
	assert.Equal(t, "Title BBBB2000", c.Title())
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for course lookup")
	}
}
