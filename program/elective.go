package program

import "context"

// ProgramElective is a leaf component standing for units taken from the
// program's elective list.
type ProgramElective struct {
	componentBase
}

// NewProgramElective creates a ProgramElective.
func NewProgramElective(id, title string, minUnits, maxUnits int) *ProgramElective {
	return &ProgramElective{componentBase: newComponentBase(id, title, minUnits, maxUnits)}
}

// Type returns TypeProgramElectives.
func (e *ProgramElective) Type() string { return TypeProgramElectives }

// GeneralElective is a leaf component standing for units taken from any
// course.
type GeneralElective struct {
	componentBase
}

// NewGeneralElective creates a GeneralElective.
func NewGeneralElective(id, title string, minUnits, maxUnits int) *GeneralElective {
	return &GeneralElective{componentBase: newComponentBase(id, title, minUnits, maxUnits)}
}

// Type returns TypeGeneralElectives.
func (e *GeneralElective) Type() string { return TypeGeneralElectives }

func programElectiveCodec() ComponentCodec {
	return ComponentCodec{
		FromDocument: func(_ context.Context, _ *Factory, doc ComponentDocument) (Component, error) {
			return &ProgramElective{componentBase: componentBaseFromDocument(doc)}, nil
		},
		ToDocument: func(_ *Factory, component Component) (ComponentDocument, error) {
			elective, ok := component.(*ProgramElective)
			if !ok {
				return ComponentDocument{}, mismatchedVariant(TypeProgramElectives, component.Type())
			}
			return elective.document(TypeProgramElectives), nil
		},
	}
}

func generalElectiveCodec() ComponentCodec {
	return ComponentCodec{
		FromDocument: func(_ context.Context, _ *Factory, doc ComponentDocument) (Component, error) {
			return &GeneralElective{componentBase: componentBaseFromDocument(doc)}, nil
		},
		ToDocument: func(_ *Factory, component Component) (ComponentDocument, error) {
			elective, ok := component.(*GeneralElective)
			if !ok {
				return ComponentDocument{}, mismatchedVariant(TypeGeneralElectives, component.Type())
			}
			return elective.document(TypeGeneralElectives), nil
		},
	}
}
