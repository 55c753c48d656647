package program

import (
	"context"
	"fmt"
)

// Factory builds Programs from documents and documents from Programs. It owns
// one registry per variant family and the lookup used to enrich courses.
type Factory struct {
	components *Registry[ComponentDocument, Component]
	entries    *Registry[CourseEntryDocument, CourseEntry]
	lookup     CourseLookup
}

// NewFactory creates a Factory with empty registries. Variants must be
// registered, for example with RegisterDefaults, before documents that use
// them are processed.
func NewFactory(lookup CourseLookup) *Factory {
	return &Factory{
		components: NewRegistry[ComponentDocument, Component]("component"),
		entries:    NewRegistry[CourseEntryDocument, CourseEntry]("course entry"),
		lookup:     lookup,
	}
}

// NewDefaultFactory creates a Factory with every built-in variant registered.
func NewDefaultFactory(lookup CourseLookup) (*Factory, error) {
	f := NewFactory(lookup)
	if err := RegisterDefaults(f); err != nil {
		return nil, err
	}
	return f, nil
}

// RegisterDefaults registers the built-in Component and CourseEntry variants.
func RegisterDefaults(f *Factory) error {
	components := map[string]ComponentCodec{
		TypeCategory:         categoryCodec(),
		TypeSection:          sectionCodec(),
		TypeProgramElectives: programElectiveCodec(),
		TypeGeneralElectives: generalElectiveCodec(),
	}
	for tag, codec := range components {
		if err := f.components.Register(tag, codec); err != nil {
			return err
		}
	}

	entries := map[string]CourseEntryCodec{
		TypeCourse:       courseCodec(),
		TypeCourseOption: courseOptionCodec(),
	}
	for tag, codec := range entries {
		if err := f.entries.Register(tag, codec); err != nil {
			return err
		}
	}
	return nil
}

// Components returns the Component registry.
func (f *Factory) Components() *Registry[ComponentDocument, Component] {
	return f.components
}

// CourseEntries returns the CourseEntry registry.
func (f *Factory) CourseEntries() *Registry[CourseEntryDocument, CourseEntry] {
	return f.entries
}

// Lookup returns the course lookup used for enrichment.
func (f *Factory) Lookup() CourseLookup {
	return f.lookup
}

// BuildProgram constructs a Program from doc, keeping document order at every
// level. Course lookups run one at a time in document order. An unknown type
// tag or a malformed node aborts the build; lookup failures do not, unless ctx
// was cancelled, in which case the ctx error is returned.
func (f *Factory) BuildProgram(ctx context.Context, doc ProgramDocument) (*Program, error) {
	p := NewProgram(doc.Name, doc.Code, doc.Year, doc.Units)

	for i, componentDoc := range doc.Components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		component, err := f.ComponentFromDocument(ctx, componentDoc)
		if err != nil {
			return nil, fmt.Errorf("component %d (%q): %w", i, componentDoc.ID, err)
		}
		p.AddComponent(component)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// BuildDocument flattens p into a document.
func (f *Factory) BuildDocument(p *Program) (ProgramDocument, error) {
	doc := ProgramDocument{
		Name:       p.Name(),
		Code:       p.Code(),
		Year:       p.Year(),
		Units:      p.Units(),
		Components: make([]ComponentDocument, 0, len(p.Components())),
	}

	for _, component := range p.Components() {
		componentDoc, err := f.ComponentToDocument(component)
		if err != nil {
			return ProgramDocument{}, err
		}
		doc.Components = append(doc.Components, componentDoc)
	}
	return doc, nil
}

// ComponentFromDocument resolves doc.Type through the Component registry and
// builds the component.
func (f *Factory) ComponentFromDocument(ctx context.Context, doc ComponentDocument) (Component, error) {
	codec, err := f.components.Resolve(doc.Type)
	if err != nil {
		return nil, err
	}
	return codec.FromDocument(ctx, f, doc)
}

// ComponentToDocument serializes c with the codec registered for c.Type().
func (f *Factory) ComponentToDocument(c Component) (ComponentDocument, error) {
	if c == nil {
		return ComponentDocument{}, fmt.Errorf("%w: nil component", ErrInvalidArgument)
	}
	codec, err := f.components.Resolve(c.Type())
	if err != nil {
		return ComponentDocument{}, err
	}
	return codec.ToDocument(f, c)
}

// CourseEntryFromDocument resolves doc.Type through the CourseEntry registry
// and builds the entry, enriching any courses it contains.
func (f *Factory) CourseEntryFromDocument(ctx context.Context, doc CourseEntryDocument) (CourseEntry, error) {
	codec, err := f.entries.Resolve(doc.Type)
	if err != nil {
		return nil, err
	}
	return codec.FromDocument(ctx, f, doc)
}

// CourseEntryToDocument serializes e with the codec registered for e.Type().
func (f *Factory) CourseEntryToDocument(e CourseEntry) (CourseEntryDocument, error) {
	if e == nil {
		return CourseEntryDocument{}, fmt.Errorf("%w: nil course entry", ErrInvalidArgument)
	}
	codec, err := f.entries.Resolve(e.Type())
	if err != nil {
		return CourseEntryDocument{}, err
	}
	return codec.ToDocument(f, e)
}
