package program

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// FailedCourseTitle is the title given to a course whose enrichment failed.
const FailedCourseTitle = "Error Loading Course"

const defaultLookupFailure = "An error occurred while fetching the course data."

var errNoLookup = errors.New("no course lookup configured")

// Course is a single course requirement. Title and units come from the lookup
// service; when the most recent lookup failed they hold placeholder values and
// ErrorMessage reports the reason.
//
// A Course may be updated by a background lookup started with SetCode, so its
// fields are guarded by a mutex.
type Course struct {
	mu           sync.RWMutex
	code         string
	title        string
	units        int
	errorMessage *string

	// generation increases on every SetCode; a lookup only applies its result
	// if the generation it started with is still current.
	generation uint64
}

// NewCourse creates a Course from already known values. No lookup happens.
func NewCourse(code, title string, units int) *Course {
	return &Course{code: code, title: title, units: units}
}

func newFailedCourse(code, reason string) *Course {
	c := &Course{code: code}
	c.applyFailure(reason)
	return c
}

// ResolveCourse looks code up and builds a Course from the response. Lookup
// failures never escape: the returned Course keeps code, carries
// FailedCourseTitle and zero units, and reports the failure reason.
func ResolveCourse(ctx context.Context, lookup CourseLookup, code string) *Course {
	info, err := lookupCourse(ctx, lookup, code)
	if err != nil {
		log.Warnf("course lookup failed for %s: %v", code, err)
		return newFailedCourse(code, failureReason(err))
	}

	c := &Course{}
	c.applyInfo(code, info)
	return c
}

func lookupCourse(ctx context.Context, lookup CourseLookup, code string) (CourseInfo, error) {
	if lookup == nil {
		return CourseInfo{}, errNoLookup
	}
	return lookup.LookupCourse(ctx, code)
}

func failureReason(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return defaultLookupFailure
}

// Type returns TypeCourse.
func (c *Course) Type() string { return TypeCourse }

// Code returns the course code.
func (c *Course) Code() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.code
}

// Title returns the course title.
func (c *Course) Title() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.title
}

// SetTitle sets the course title.
func (c *Course) SetTitle(title string) {
	c.mu.Lock()
	c.title = title
	c.mu.Unlock()
}

// Units returns the course units.
func (c *Course) Units() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.units
}

// SetUnits sets the course units.
func (c *Course) SetUnits(units int) {
	c.mu.Lock()
	c.units = units
	c.mu.Unlock()
}

// ErrorMessage returns the reason the most recent lookup failed. ok is false
// when there is no failure to report.
func (c *Course) ErrorMessage() (msg string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.errorMessage == nil {
		return "", false
	}
	return *c.errorMessage, true
}

// SetErrorMessage records a failure reason.
func (c *Course) SetErrorMessage(msg string) {
	c.mu.Lock()
	c.errorMessage = &msg
	c.mu.Unlock()
}

// ClearErrorMessage removes any recorded failure.
func (c *Course) ClearErrorMessage() {
	c.mu.Lock()
	c.errorMessage = nil
	c.mu.Unlock()
}

// SetCode changes the course code immediately and refreshes title and units
// in the background. The returned channel is closed once the lookup has
// finished and its result has been applied or discarded. Results are applied
// in call order: a response that arrives after a newer SetCode is dropped.
//
// With a nil lookup only the code changes and the channel is already closed.
func (c *Course) SetCode(ctx context.Context, code string, lookup CourseLookup) <-chan struct{} {
	done := make(chan struct{})

	c.mu.Lock()
	c.code = code
	c.generation++
	generation := c.generation
	c.mu.Unlock()

	if lookup == nil {
		close(done)
		return done
	}

	go func() {
		defer close(done)

		info, err := lookup.LookupCourse(ctx, code)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generation != generation {
			log.Debugf("discarding stale lookup result for %s", code)
			return
		}
		if err != nil {
			log.Warnf("course lookup failed for %s: %v", code, err)
			c.applyFailureLocked(failureReason(err))
			return
		}
		c.applyInfoLocked(code, info)
	}()

	return done
}

func (c *Course) applyInfo(requested string, info CourseInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyInfoLocked(requested, info)
}

func (c *Course) applyInfoLocked(requested string, info CourseInfo) {
	c.code = requested
	if info.Code != "" {
		c.code = info.Code
	}
	c.title = info.Title
	c.units = info.Units
	c.errorMessage = nil
}

func (c *Course) applyFailure(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyFailureLocked(reason)
}

func (c *Course) applyFailureLocked(reason string) {
	c.title = FailedCourseTitle
	c.units = 0
	c.errorMessage = &reason
}

func (c *Course) document() CourseEntryDocument {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc := CourseEntryDocument{
		Type:  TypeCourse,
		Code:  c.code,
		Title: c.title,
		Units: c.units,
	}
	if c.errorMessage != nil {
		doc.Error = *c.errorMessage
	}
	return doc
}

func courseCodec() CourseEntryCodec {
	return CourseEntryCodec{
		FromDocument: func(ctx context.Context, f *Factory, doc CourseEntryDocument) (CourseEntry, error) {
			if doc.Code == "" {
				return nil, fmt.Errorf("%w: course entry requires a code", ErrInvalidArgument)
			}
			return ResolveCourse(ctx, f.lookup, doc.Code), nil
		},
		ToDocument: func(_ *Factory, entry CourseEntry) (CourseEntryDocument, error) {
			course, ok := entry.(*Course)
			if !ok {
				return CourseEntryDocument{}, mismatchedVariant(TypeCourse, entry.Type())
			}
			return course.document(), nil
		},
	}
}
