package program

import "encoding/json"

// ProgramDocument is the JSON representation of a Program.
type ProgramDocument struct {
	Name       string              `json:"name" validate:"required,max=255"`
	Code       string              `json:"code" validate:"max=50"`
	Year       int                 `json:"year" validate:"gte=0"`
	Units      int                 `json:"units" validate:"gte=0"`
	Components []ComponentDocument `json:"components" validate:"dive"`
}

// ComponentDocument is the JSON representation of any Component variant.
// Sections is only populated for categories and CourseEntries only for
// sections. A category always writes "sections" and a section always writes
// "courseEntries", even when empty.
type ComponentDocument struct {
	ID            string                `json:"id" validate:"required,max=100"`
	Type          string                `json:"type" validate:"required"`
	Title         string                `json:"title" validate:"max=255"`
	MinUnits      int                   `json:"minUnits" validate:"gte=0"`
	MaxUnits      int                   `json:"maxUnits" validate:"gte=0"`
	Sections      []ComponentDocument   `json:"sections,omitempty" validate:"dive"`
	CourseEntries []CourseEntryDocument `json:"courseEntries,omitempty" validate:"dive"`
}

// CourseEntryDocument is the JSON representation of any CourseEntry variant.
// Title, Units and Error are written for singular courses so that a saved
// document shows what enrichment produced; they are ignored when decoding.
type CourseEntryDocument struct {
	Type      string `json:"type" validate:"required"`
	Code      string `json:"code,omitempty"`
	Title     string `json:"title,omitempty"`
	Units     int    `json:"units,omitempty"`
	Error     string `json:"error,omitempty"`
	OptionOne string `json:"optionOne,omitempty"`
	OptionTwo string `json:"optionTwo,omitempty"`
}

// MarshalJSON writes the child array owned by the component type even when it
// is empty, and omits child arrays other types leave unset.
func (d ComponentDocument) MarshalJSON() ([]byte, error) {
	type plain ComponentDocument
	wire := struct {
		plain
		Sections      *[]ComponentDocument   `json:"sections,omitempty"`
		CourseEntries *[]CourseEntryDocument `json:"courseEntries,omitempty"`
	}{plain: plain(d)}

	if d.Type == TypeCategory || len(d.Sections) > 0 {
		sections := d.Sections
		if sections == nil {
			sections = []ComponentDocument{}
		}
		wire.Sections = &sections
	}
	if d.Type == TypeSection || len(d.CourseEntries) > 0 {
		entries := d.CourseEntries
		if entries == nil {
			entries = []CourseEntryDocument{}
		}
		wire.CourseEntries = &entries
	}
	return json.Marshal(wire)
}
