package program

import (
	"context"
	"fmt"
)

// CourseOption is a requirement satisfied by either of two courses.
type CourseOption struct {
	optionOne *Course
	optionTwo *Course
}

// NewCourseOption creates a CourseOption. Both courses are required.
func NewCourseOption(optionOne, optionTwo *Course) (*CourseOption, error) {
	if optionOne == nil || optionTwo == nil {
		return nil, fmt.Errorf("%w: a course option needs two courses", ErrInvalidArgument)
	}
	return &CourseOption{optionOne: optionOne, optionTwo: optionTwo}, nil
}

// ResolveCourseOption looks up both codes, one after the other, with the same
// fallback behaviour as ResolveCourse.
func ResolveCourseOption(ctx context.Context, lookup CourseLookup, codeOne, codeTwo string) (*CourseOption, error) {
	if codeOne == "" || codeTwo == "" {
		return nil, fmt.Errorf("%w: course option requires optionOne and optionTwo", ErrInvalidArgument)
	}

	optionOne := ResolveCourse(ctx, lookup, codeOne)
	optionTwo := ResolveCourse(ctx, lookup, codeTwo)
	return NewCourseOption(optionOne, optionTwo)
}

// Type returns TypeCourseOption.
func (o *CourseOption) Type() string { return TypeCourseOption }

// Title is derived from the two course codes.
func (o *CourseOption) Title() string {
	return "Option " + o.optionOne.Code() + " or " + o.optionTwo.Code()
}

// Option returns course 1 or 2.
func (o *CourseOption) Option(n int) (*Course, error) {
	switch n {
	case 1:
		return o.optionOne, nil
	case 2:
		return o.optionTwo, nil
	default:
		return nil, invalidOptionNumber(n)
	}
}

// SetOption replaces course 1 or 2.
func (o *CourseOption) SetOption(n int, course *Course) error {
	if course == nil {
		return fmt.Errorf("%w: option %d must not be nil", ErrInvalidArgument, n)
	}

	switch n {
	case 1:
		o.optionOne = course
	case 2:
		o.optionTwo = course
	default:
		return invalidOptionNumber(n)
	}
	return nil
}

func invalidOptionNumber(n int) error {
	return fmt.Errorf("%w: option number %d, use 1 or 2", ErrInvalidArgument, n)
}

func courseOptionCodec() CourseEntryCodec {
	return CourseEntryCodec{
		FromDocument: func(ctx context.Context, f *Factory, doc CourseEntryDocument) (CourseEntry, error) {
			return ResolveCourseOption(ctx, f.lookup, doc.OptionOne, doc.OptionTwo)
		},
		ToDocument: func(_ *Factory, entry CourseEntry) (CourseEntryDocument, error) {
			option, ok := entry.(*CourseOption)
			if !ok {
				return CourseEntryDocument{}, mismatchedVariant(TypeCourseOption, entry.Type())
			}
			return CourseEntryDocument{
				Type:      TypeCourseOption,
				OptionOne: option.optionOne.Code(),
				OptionTwo: option.optionTwo.Code(),
			}, nil
		},
	}
}
