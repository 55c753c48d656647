package program

import (
	"context"
	"fmt"
)

// Section owns an ordered list of CourseEntries.
type Section struct {
	componentBase
	courseEntries []CourseEntry
}

// NewSection creates a Section holding the given entries in order.
func NewSection(id, title string, minUnits, maxUnits int, entries ...CourseEntry) *Section {
	return &Section{
		componentBase: newComponentBase(id, title, minUnits, maxUnits),
		courseEntries: append([]CourseEntry(nil), entries...),
	}
}

// Type returns TypeSection.
func (s *Section) Type() string { return TypeSection }

// CourseEntries returns the entries of the section in order.
func (s *Section) CourseEntries() []CourseEntry { return s.courseEntries }

// SetCourseEntries replaces the entries of the section.
func (s *Section) SetCourseEntries(entries []CourseEntry) { s.courseEntries = entries }

// AddCourseEntry appends an entry.
func (s *Section) AddCourseEntry(entry CourseEntry) {
	s.courseEntries = append(s.courseEntries, entry)
}

// RemoveCourseEntry removes the first entry that is the very same value as
// entry. Entries are matched by identity, not by code.
func (s *Section) RemoveCourseEntry(entry CourseEntry) {
	for i, candidate := range s.courseEntries {
		if candidate == entry {
			kept := make([]CourseEntry, 0, len(s.courseEntries)-1)
			kept = append(kept, s.courseEntries[:i]...)
			s.courseEntries = append(kept, s.courseEntries[i+1:]...)
			return
		}
	}
}

func sectionCodec() ComponentCodec {
	return ComponentCodec{
		FromDocument: func(ctx context.Context, f *Factory, doc ComponentDocument) (Component, error) {
			section := NewSection(doc.ID, doc.Title, doc.MinUnits, doc.MaxUnits)
			for i, entryDoc := range doc.CourseEntries {
				entry, err := f.CourseEntryFromDocument(ctx, entryDoc)
				if err != nil {
					return nil, fmt.Errorf("section %q course entry %d: %w", doc.ID, i, err)
				}
				section.AddCourseEntry(entry)
			}
			return section, nil
		},
		ToDocument: func(f *Factory, component Component) (ComponentDocument, error) {
			section, ok := component.(*Section)
			if !ok {
				return ComponentDocument{}, mismatchedVariant(TypeSection, component.Type())
			}

			doc := section.document(TypeSection)
			for _, entry := range section.courseEntries {
				entryDoc, err := f.CourseEntryToDocument(entry)
				if err != nil {
					return ComponentDocument{}, fmt.Errorf("section %q: %w", section.id, err)
				}
				doc.CourseEntries = append(doc.CourseEntries, entryDoc)
			}
			return doc, nil
		},
	}
}
