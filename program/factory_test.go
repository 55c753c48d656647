package program

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bscDocument = `{
  "name": "BSc CS",
  "code": "2500",
  "year": 2024,
  "units": 24,
  "components": [
    {
      "id": "sec1",
      "type": "section",
      "title": "Core",
      "minUnits": 2,
      "maxUnits": 2,
      "courseEntries": [{"type": "singular", "code": "CSSE1001"}]
    }
  ]
}`

func newTestFactory(t *testing.T, lookup CourseLookup) *Factory {
	t.Helper()
	f, err := NewDefaultFactory(lookup)
	require.NoError(t, err)
	return f
}

func decodeProgram(t *testing.T, data string) ProgramDocument {
	t.Helper()
	var doc ProgramDocument
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	return doc
}

func TestBuildProgram_EnrichesCourses(t *testing.T) {
	f := newTestFactory(t, newCatalogLookup(csse1001))

	p, err := f.BuildProgram(context.Background(), decodeProgram(t, bscDocument))
	require.NoError(t, err)

	assert.Equal(t, "BSc CS", p.Name())
	assert.Equal(t, "2500", p.Code())
	assert.Equal(t, 2024, p.Year())
	assert.Equal(t, 24, p.Units())
	require.Len(t, p.Components(), 1)

	section, ok := p.Components()[0].(*Section)
	require.True(t, ok)
	assert.Equal(t, "sec1", section.ID())
	require.Len(t, section.CourseEntries(), 1)

	course, ok := section.CourseEntries()[0].(*Course)
	require.True(t, ok)
	assert.Equal(t, "CSSE1001", course.Code())
	assert.Equal(t, "Introduction to Software Engineering", course.Title())
	assert.Equal(t, 2, course.Units())
}

func TestBuildProgram_UnknownTypeFailsFast(t *testing.T) {
	lookup := newCatalogLookup(csse1001)
	f := newTestFactory(t, lookup)

	doc := decodeProgram(t, `{"name":"P","components":[
		{"id":"x","type":"bogus"},
		{"id":"sec1","type":"section","courseEntries":[{"type":"singular","code":"CSSE1001"}]}
	]}`)

	p, err := f.BuildProgram(context.Background(), doc)
	require.ErrorIs(t, err, ErrUnregisteredType)
	assert.Nil(t, p)
	assert.Empty(t, lookup.Calls(), "nothing after the bad node is built")
}

func TestBuildProgram_UnknownCourseEntryType(t *testing.T) {
	f := newTestFactory(t, newCatalogLookup())

	doc := decodeProgram(t, `{"name":"P","components":[
		{"id":"sec1","type":"section","courseEntries":[{"type":"elective","code":"X"}]}
	]}`)

	_, err := f.BuildProgram(context.Background(), doc)
	require.ErrorIs(t, err, ErrUnregisteredType)
	assert.Contains(t, err.Error(), "course entry")
}

func TestBuildProgram_LookupFailureStillLoads(t *testing.T) {
	f := newTestFactory(t, newCatalogLookup())

	doc := decodeProgram(t, `{"name":"P","components":[
		{"id":"sec1","type":"section","courseEntries":[{"type":"singular","code":"X"}]}
	]}`)

	p, err := f.BuildProgram(context.Background(), doc)
	require.NoError(t, err)

	course := p.Components()[0].(*Section).CourseEntries()[0].(*Course)
	assert.Equal(t, "X", course.Code())
	assert.Equal(t, FailedCourseTitle, course.Title())
	assert.Equal(t, 0, course.Units())
	_, failed := course.ErrorMessage()
	assert.True(t, failed)

	out, err := f.BuildDocument(p)
	require.NoError(t, err)
	entry := out.Components[0].CourseEntries[0]
	assert.Equal(t, "X", entry.Code)
	assert.NotEmpty(t, entry.Error)
}

func TestBuildProgram_MalformedEntries(t *testing.T) {
	f := newTestFactory(t, newCatalogLookup())

	tests := []struct {
		name  string
		entry string
	}{
		{"course without code", `{"type":"singular"}`},
		{"option without second course", `{"type":"option","optionOne":"A"}`},
		{"option without first course", `{"type":"option","optionTwo":"B"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decodeProgram(t, `{"name":"P","components":[
				{"id":"sec1","type":"section","courseEntries":[`+tt.entry+`]}
			]}`)

			p, err := f.BuildProgram(context.Background(), doc)
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Nil(t, p)
		})
	}
}

func TestBuildProgram_BlankCodeIsLookedUp(t *testing.T) {
	lookup := newCatalogLookup()
	f := newTestFactory(t, lookup)

	doc := decodeProgram(t, `{"name":"P","components":[
		{"id":"sec1","type":"section","courseEntries":[{"type":"singular","code":"  "}]}
	]}`)

	p, err := f.BuildProgram(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"  "}, lookup.Calls())

	course := p.Components()[0].(*Section).CourseEntries()[0].(*Course)
	assert.Equal(t, "  ", course.Code())
	assert.Equal(t, FailedCourseTitle, course.Title())
	_, failed := course.ErrorMessage()
	assert.True(t, failed)
}

func TestBuildProgram_CategoryRejectsNonSection(t *testing.T) {
	f := newTestFactory(t, newCatalogLookup())

	doc := decodeProgram(t, `{"name":"P","components":[
		{"id":"cat1","type":"category","sections":[{"id":"pe","type":"programElectives"}]}
	]}`)

	_, err := f.BuildProgram(context.Background(), doc)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBuildProgram_CategoryWithUnknownChild(t *testing.T) {
	f := newTestFactory(t, newCatalogLookup())

	doc := decodeProgram(t, `{"name":"P","components":[
		{"id":"cat1","type":"category","sections":[{"id":"x","type":"bogus"}]}
	]}`)

	_, err := f.BuildProgram(context.Background(), doc)
	require.ErrorIs(t, err, ErrUnregisteredType)
}

func TestBuildProgram_PreservesOrderAndLooksUpSequentially(t *testing.T) {
	lookup := newCatalogLookup(
		CourseInfo{Code: "A1000", Title: "A", Units: 2},
		CourseInfo{Code: "B2000", Title: "B", Units: 2},
		CourseInfo{Code: "C3000", Title: "C", Units: 2},
		CourseInfo{Code: "D4000", Title: "D", Units: 2},
	)
	f := newTestFactory(t, lookup)

	doc := decodeProgram(t, `{"name":"P","components":[
		{"id":"cat1","type":"category","sections":[
			{"id":"s1","type":"section","courseEntries":[
				{"type":"singular","code":"A1000"},
				{"type":"option","optionOne":"B2000","optionTwo":"C3000"}
			]}
		]},
		{"id":"pe","type":"programElectives","title":"Program Electives","minUnits":0,"maxUnits":8},
		{"id":"s2","type":"section","courseEntries":[{"type":"singular","code":"D4000"}]},
		{"id":"ge","type":"generalElectives","title":"General Electives","minUnits":0,"maxUnits":4}
	]}`)

	p, err := f.BuildProgram(context.Background(), doc)
	require.NoError(t, err)

	var ids []string
	for _, c := range p.Components() {
		ids = append(ids, c.ID())
	}
	assert.Equal(t, []string{"cat1", "pe", "s2", "ge"}, ids)
	assert.Equal(t, []string{"A1000", "B2000", "C3000", "D4000"}, lookup.Calls())

	entries := p.Components()[0].(*Category).Sections()[0].CourseEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Option B2000 or C3000", entries[1].Title())
	assert.True(t, p.HasProgramElectiveComponent())
	assert.True(t, p.HasGeneralElectiveComponent())
}

func TestBuildProgram_EmptyComponents(t *testing.T) {
	f := newTestFactory(t, newCatalogLookup())

	p, err := f.BuildProgram(context.Background(), ProgramDocument{Name: "Empty"})
	require.NoError(t, err)
	assert.Empty(t, p.Components())

	out, err := f.BuildDocument(p)
	require.NoError(t, err)
	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Empty","code":"","year":0,"units":0,"components":[]}`, string(data))
}

func TestBuildProgram_CancelledContext(t *testing.T) {
	lookup := newCatalogLookup(csse1001)
	f := newTestFactory(t, lookup)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.BuildProgram(ctx, decodeProgram(t, bscDocument))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, lookup.Calls())
}

func TestBuildProgram_CancelledDuringLookup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lookup := CourseLookupFunc(func(ctx context.Context, code string) (CourseInfo, error) {
		cancel()
		return CourseInfo{}, ctx.Err()
	})
	f := newTestFactory(t, lookup)

	p, err := f.BuildProgram(ctx, decodeProgram(t, bscDocument))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, p)
}

func TestBuildDocument_IsIdempotent(t *testing.T) {
	f := newTestFactory(t, newCatalogLookup(csse1001))

	p, err := f.BuildProgram(context.Background(), decodeProgram(t, bscDocument))
	require.NoError(t, err)

	first, err := f.BuildDocument(p)
	require.NoError(t, err)
	second, err := f.BuildDocument(p)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entry := first.Components[0].CourseEntries[0]
	assert.Equal(t, CourseEntryDocument{
		Type:  TypeCourse,
		Code:  "CSSE1001",
		Title: "Introduction to Software Engineering",
		Units: 2,
	}, entry)
}

func TestBuildDocument_IgnoresStoredEnrichment(t *testing.T) {
	f := newTestFactory(t, newCatalogLookup(csse1001))

	doc := decodeProgram(t, `{"name":"P","components":[
		{"id":"sec1","type":"section","courseEntries":[
			{"type":"singular","code":"CSSE1001","title":"Stale","units":99,"error":"old failure"}
		]}
	]}`)

	p, err := f.BuildProgram(context.Background(), doc)
	require.NoError(t, err)

	course := p.Components()[0].(*Section).CourseEntries()[0].(*Course)
	assert.Equal(t, "Introduction to Software Engineering", course.Title())
	_, failed := course.ErrorMessage()
	assert.False(t, failed)
}

func TestPlanner_LoadAndSerialize(t *testing.T) {
	planner := NewPlanner(newTestFactory(t, newCatalogLookup(csse1001)))

	_, err := planner.ToDocument()
	require.ErrorIs(t, err, ErrNoProgram)
	assert.Nil(t, planner.Program())

	require.NoError(t, planner.LoadJSON(context.Background(), []byte(bscDocument)))
	require.NotNil(t, planner.Program())
	assert.Equal(t, "BSc CS", planner.Program().Name())

	data, err := planner.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "BSc CS", "code": "2500", "year": 2024, "units": 24,
		"components": [{
			"id": "sec1", "type": "section", "title": "Core", "minUnits": 2, "maxUnits": 2,
			"courseEntries": [{
				"type": "singular", "code": "CSSE1001",
				"title": "Introduction to Software Engineering", "units": 2
			}]
		}]
	}`, string(data))
}

func TestPlanner_FailedLoadKeepsCurrentProgram(t *testing.T) {
	planner := NewPlanner(newTestFactory(t, newCatalogLookup(csse1001)))
	require.NoError(t, planner.LoadJSON(context.Background(), []byte(bscDocument)))
	loaded := planner.Program()

	err := planner.LoadJSON(context.Background(), []byte(`{"name":"P","components":[{"id":"x","type":"bogus"}]}`))
	require.ErrorIs(t, err, ErrUnregisteredType)
	assert.Same(t, loaded, planner.Program())

	err = planner.LoadJSON(context.Background(), []byte(`{not json`))
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Same(t, loaded, planner.Program())
}

func TestPlanner_SetProgram(t *testing.T) {
	planner := NewPlanner(newTestFactory(t, nil))
	p := NewProgram("Manual", "1", 2024, 2, NewGeneralElective("ge", "General", 0, 2))

	planner.SetProgram(p)

	doc, err := planner.ToDocument()
	require.NoError(t, err)
	assert.Equal(t, "Manual", doc.Name)
	require.Len(t, doc.Components, 1)
	assert.Equal(t, TypeGeneralElectives, doc.Components[0].Type)
}
