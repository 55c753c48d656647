package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_SectionByIDAndRemove(t *testing.T) {
	core := NewSection("core", "Core", 8, 8)
	majors := NewSection("majors", "Majors", 0, 16)
	category := NewCategory("cat1", "Requirements", 24, 24, core, majors)

	got, ok := category.SectionByID("majors")
	require.True(t, ok)
	assert.Same(t, majors, got)

	_, ok = category.SectionByID("missing")
	assert.False(t, ok)

	held := category.Sections()
	category.RemoveSectionByID("core")
	assert.Equal(t, []*Section{majors}, category.Sections())
	assert.Len(t, held, 2, "previously returned slices are left alone")

	category.RemoveSectionByID("missing")
	assert.Len(t, category.Sections(), 1)
}

func TestCategory_RemoveDropsEveryMatchingID(t *testing.T) {
	category := NewCategory("cat1", "Requirements", 0, 0,
		NewSection("dup", "First", 0, 0),
		NewSection("keep", "Keep", 0, 0),
		NewSection("dup", "Second", 0, 0),
	)

	first, ok := category.SectionByID("dup")
	require.True(t, ok)
	assert.Equal(t, "First", first.Title())

	category.RemoveSectionByID("dup")
	require.Len(t, category.Sections(), 1)
	assert.Equal(t, "keep", category.Sections()[0].ID())
}

func TestSection_RemoveCourseEntryMatchesIdentity(t *testing.T) {
	a := NewCourse("CSSE1001", "Intro", 2)
	twin := NewCourse("CSSE1001", "Intro", 2)
	b := NewCourse("MATH1061", "Discrete", 2)
	section := NewSection("sec1", "Core", 0, 0, a, b)

	section.RemoveCourseEntry(twin)
	assert.Len(t, section.CourseEntries(), 2, "an equal but distinct course is not removed")

	section.RemoveCourseEntry(a)
	assert.Equal(t, []CourseEntry{b}, section.CourseEntries())
}

func TestSection_RemoveCourseEntryOnlyFirstOccurrence(t *testing.T) {
	a := NewCourse("CSSE1001", "Intro", 2)
	section := NewSection("sec1", "Core", 0, 0, a, a)

	section.RemoveCourseEntry(a)
	assert.Len(t, section.CourseEntries(), 1)
}

func TestComponent_MutableFields(t *testing.T) {
	var c Component = NewProgramElective("pe", "Program Electives", 0, 8)

	c.SetID("pe2")
	c.SetTitle("Electives")
	c.SetMinUnits(2)
	c.SetMaxUnits(10)

	assert.Equal(t, "pe2", c.ID())
	assert.Equal(t, "Electives", c.Title())
	assert.Equal(t, 2, c.MinUnits())
	assert.Equal(t, 10, c.MaxUnits())
	assert.Equal(t, TypeProgramElectives, c.Type())
}

func TestProgram_ElectivePredicates(t *testing.T) {
	p := NewProgram("BSc", "2500", 2024, 24, NewSection("sec1", "Core", 0, 0))
	assert.False(t, p.HasProgramElectiveComponent())
	assert.False(t, p.HasGeneralElectiveComponent())

	p.AddComponent(NewProgramElective("pe", "Program Electives", 0, 8))
	assert.True(t, p.HasProgramElectiveComponent())
	assert.False(t, p.HasGeneralElectiveComponent())

	p.AddComponent(NewGeneralElective("ge", "General Electives", 0, 8))
	assert.True(t, p.HasGeneralElectiveComponent())

	p.RemoveComponentByID("pe")
	assert.False(t, p.HasProgramElectiveComponent())
}

func TestProgram_ElectivesNestedInCategoryDoNotCount(t *testing.T) {
	// Categories hold sections only, so electives can only appear at the top level.
	p := NewProgram("BSc", "2500", 2024, 24, NewCategory("cat", "Cat", 0, 0))
	assert.False(t, p.HasProgramElectiveComponent())
}

func TestProgram_ComponentByIDShadowsDuplicates(t *testing.T) {
	first := NewSection("dup", "First", 0, 0)
	second := NewSection("dup", "Second", 0, 0)
	p := NewProgram("BSc", "2500", 2024, 24, first, second)

	got, ok := p.ComponentByID("dup")
	require.True(t, ok)
	assert.Same(t, first, got)

	p.RemoveComponentByID("dup")
	assert.Empty(t, p.Components())
}

func TestProgram_ScalarAccessors(t *testing.T) {
	p := NewProgram("BSc", "2500", 2024, 24)
	p.SetName("BE")
	p.SetCode("2342")
	p.SetYear(2025)
	p.SetUnits(32)

	assert.Equal(t, "BE", p.Name())
	assert.Equal(t, "2342", p.Code())
	assert.Equal(t, 2025, p.Year())
	assert.Equal(t, 32, p.Units())
}
