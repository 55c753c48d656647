package program

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// drawCatalog draws a set of courses with distinct codes.
func drawCatalog(t *rapid.T) []CourseInfo {
	codes := rapid.SliceOfNDistinct(rapid.StringMatching(`[A-Z]{4}[0-9]{4}`), 1, 8, rapid.ID[string]).Draw(t, "codes")
	catalog := make([]CourseInfo, len(codes))
	for i, code := range codes {
		catalog[i] = CourseInfo{
			Code:  code,
			Title: rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,30}`).Draw(t, "title"),
			Units: rapid.IntRange(0, 8).Draw(t, "units"),
		}
	}
	return catalog
}

func drawCourse(t *rapid.T, catalog []CourseInfo) *Course {
	info := rapid.SampledFrom(catalog).Draw(t, "course")
	return NewCourse(info.Code, info.Title, info.Units)
}

func drawSection(t *rapid.T, catalog []CourseInfo) *Section {
	section := NewSection(
		rapid.StringMatching(`[a-z0-9]{1,6}`).Draw(t, "sectionID"),
		rapid.String().Draw(t, "sectionTitle"),
		rapid.IntRange(0, 32).Draw(t, "sectionMin"),
		rapid.IntRange(0, 32).Draw(t, "sectionMax"),
	)
	n := rapid.IntRange(0, 4).Draw(t, "entries")
	for range n {
		if rapid.Bool().Draw(t, "isOption") {
			option, err := NewCourseOption(drawCourse(t, catalog), drawCourse(t, catalog))
			if err != nil {
				t.Fatalf("NewCourseOption: %v", err)
			}
			section.AddCourseEntry(option)
			continue
		}
		section.AddCourseEntry(drawCourse(t, catalog))
	}
	return section
}

func drawComponent(t *rapid.T, catalog []CourseInfo) Component {
	id := rapid.StringMatching(`[a-z0-9]{1,6}`).Draw(t, "id")
	title := rapid.String().Draw(t, "title")
	minUnits := rapid.IntRange(0, 32).Draw(t, "min")
	maxUnits := rapid.IntRange(0, 32).Draw(t, "max")

	switch rapid.SampledFrom([]string{TypeCategory, TypeSection, TypeProgramElectives, TypeGeneralElectives}).Draw(t, "type") {
	case TypeCategory:
		category := NewCategory(id, title, minUnits, maxUnits)
		for range rapid.IntRange(0, 3).Draw(t, "sections") {
			category.AddSection(drawSection(t, catalog))
		}
		return category
	case TypeSection:
		return drawSection(t, catalog)
	case TypeProgramElectives:
		return NewProgramElective(id, title, minUnits, maxUnits)
	default:
		return NewGeneralElective(id, title, minUnits, maxUnits)
	}
}

func TestProgramDocumentRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		catalog := drawCatalog(rt)
		f, err := NewDefaultFactory(newCatalogLookup(catalog...))
		if err != nil {
			rt.Fatalf("NewDefaultFactory: %v", err)
		}

		p := NewProgram(
			rapid.String().Draw(rt, "name"),
			rapid.StringMatching(`[0-9]{0,4}`).Draw(rt, "code"),
			rapid.IntRange(2000, 2100).Draw(rt, "year"),
			rapid.IntRange(0, 64).Draw(rt, "units"),
		)
		for range rapid.IntRange(0, 5).Draw(rt, "components") {
			p.AddComponent(drawComponent(rt, catalog))
		}

		first, err := f.BuildDocument(p)
		require.NoError(rt, err)

		rebuilt, err := f.BuildProgram(context.Background(), first)
		require.NoError(rt, err)

		second, err := f.BuildDocument(rebuilt)
		require.NoError(rt, err)
		require.Equal(rt, first, second)
	})
}

func TestProgramJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "empty children are kept",
			doc: `{"name":"BSc CS","code":"2500","year":2024,"units":24,"components":[
				{"id":"c","type":"category","title":"Majors","minUnits":0,"maxUnits":0,"sections":[]},
				{"id":"s","type":"section","title":"Core","minUnits":0,"maxUnits":0,"courseEntries":[]}
			]}`,
		},
		{
			name: "electives carry no child arrays",
			doc: `{"name":"BSc CS","code":"2500","year":2024,"units":24,"components":[
				{"id":"pe","type":"programElectives","title":"Program electives","minUnits":4,"maxUnits":8},
				{"id":"ge","type":"generalElectives","title":"General electives","minUnits":0,"maxUnits":4}
			]}`,
		},
		{
			name: "nested category with an enriched course",
			doc: `{"name":"BSc CS","code":"2500","year":2024,"units":24,"components":[
				{"id":"c","type":"category","title":"Majors","minUnits":2,"maxUnits":2,"sections":[
					{"id":"s","type":"section","title":"Software","minUnits":2,"maxUnits":2,"courseEntries":[
						{"type":"singular","code":"CSSE1001","title":"Introduction to Software Engineering","units":2}
					]},
					{"id":"empty","type":"section","title":"Empty","minUnits":0,"maxUnits":0,"courseEntries":[]}
				]}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFactory(t, newCatalogLookup(csse1001))

			var doc ProgramDocument
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &doc))

			p, err := f.BuildProgram(context.Background(), doc)
			require.NoError(t, err)
			out, err := f.BuildDocument(p)
			require.NoError(t, err)

			data, err := json.Marshal(out)
			require.NoError(t, err)
			require.JSONEq(t, tt.doc, string(data))
		})
	}
}

func TestProgramJSONRoundTrip_Generated(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		catalog := drawCatalog(rt)
		f, err := NewDefaultFactory(newCatalogLookup(catalog...))
		if err != nil {
			rt.Fatalf("NewDefaultFactory: %v", err)
		}

		p := NewProgram(rapid.String().Draw(rt, "name"), "2500", 2024, 48)
		for range rapid.IntRange(0, 5).Draw(rt, "components") {
			p.AddComponent(drawComponent(rt, catalog))
		}
		built, err := f.BuildDocument(p)
		require.NoError(rt, err)
		input, err := json.Marshal(built)
		require.NoError(rt, err)

		var doc ProgramDocument
		require.NoError(rt, json.Unmarshal(input, &doc))
		rebuilt, err := f.BuildProgram(context.Background(), doc)
		require.NoError(rt, err)
		out, err := f.BuildDocument(rebuilt)
		require.NoError(rt, err)

		output, err := json.Marshal(out)
		require.NoError(rt, err)
		require.JSONEq(rt, string(input), string(output))
	})
}
