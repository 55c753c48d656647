package program

import "context"

// Course entry type tags.
const (
	TypeCourse       = "singular"
	TypeCourseOption = "option"
)

// CourseEntry is a leaf requirement within a Section.
type CourseEntry interface {
	Type() string
	Title() string
}

// CourseInfo is the display metadata the lookup service returns for a code.
type CourseInfo struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	Units int    `json:"units"`
}

// CourseLookup resolves a bare course code into display metadata. Any error
// is treated as a failed enrichment.
type CourseLookup interface {
	LookupCourse(ctx context.Context, code string) (CourseInfo, error)
}

// CourseLookupFunc adapts a function to CourseLookup.
type CourseLookupFunc func(ctx context.Context, code string) (CourseInfo, error)

// LookupCourse calls fn.
func (fn CourseLookupFunc) LookupCourse(ctx context.Context, code string) (CourseInfo, error) {
	return fn(ctx, code)
}
