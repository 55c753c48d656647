package program

import (
	"context"
	"fmt"
)

// Category groups Sections one level below the Program.
type Category struct {
	componentBase
	sections []*Section
}

// NewCategory creates a Category holding the given sections in order.
func NewCategory(id, title string, minUnits, maxUnits int, sections ...*Section) *Category {
	return &Category{
		componentBase: newComponentBase(id, title, minUnits, maxUnits),
		sections:      append([]*Section(nil), sections...),
	}
}

// Type returns TypeCategory.
func (c *Category) Type() string { return TypeCategory }

// Sections returns the sections of the category in order.
func (c *Category) Sections() []*Section { return c.sections }

// SetSections replaces the sections of the category.
func (c *Category) SetSections(sections []*Section) { c.sections = sections }

// AddSection appends a section.
func (c *Category) AddSection(section *Section) {
	c.sections = append(c.sections, section)
}

// RemoveSectionByID removes every section whose id equals id. It does nothing
// when no section matches.
func (c *Category) RemoveSectionByID(id string) {
	kept := make([]*Section, 0, len(c.sections))
	for _, section := range c.sections {
		if section.ID() != id {
			kept = append(kept, section)
		}
	}
	c.sections = kept
}

// SectionByID returns the first section with the given id.
func (c *Category) SectionByID(id string) (*Section, bool) {
	for _, section := range c.sections {
		if section.ID() == id {
			return section, true
		}
	}
	return nil, false
}

func categoryCodec() ComponentCodec {
	return ComponentCodec{
		FromDocument: func(ctx context.Context, f *Factory, doc ComponentDocument) (Component, error) {
			category := NewCategory(doc.ID, doc.Title, doc.MinUnits, doc.MaxUnits)

			// Children go through the component registry rather than straight
			// to the section codec so other section-like variants can be added.
			for i, sectionDoc := range doc.Sections {
				child, err := f.ComponentFromDocument(ctx, sectionDoc)
				if err != nil {
					return nil, fmt.Errorf("category %q section %d: %w", doc.ID, i, err)
				}
				section, ok := child.(*Section)
				if !ok {
					return nil, fmt.Errorf("%w: category %q cannot contain component type %q",
						ErrInvalidArgument, doc.ID, child.Type())
				}
				category.AddSection(section)
			}
			return category, nil
		},
		ToDocument: func(f *Factory, component Component) (ComponentDocument, error) {
			category, ok := component.(*Category)
			if !ok {
				return ComponentDocument{}, mismatchedVariant(TypeCategory, component.Type())
			}

			doc := category.document(TypeCategory)
			for _, section := range category.sections {
				sectionDoc, err := f.ComponentToDocument(section)
				if err != nil {
					return ComponentDocument{}, fmt.Errorf("category %q: %w", category.id, err)
				}
				doc.Sections = append(doc.Sections, sectionDoc)
			}
			return doc, nil
		},
	}
}

func mismatchedVariant(want, got string) error {
	return fmt.Errorf("%w: codec for %q received a %q value", ErrInvalidArgument, want, got)
}
