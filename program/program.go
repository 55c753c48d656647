package program

// Program is the root aggregate of a degree plan.
type Program struct {
	name       string
	code       string
	year       int
	units      int
	components []Component
}

// NewProgram creates a Program holding the given components in order.
func NewProgram(name, code string, year, units int, components ...Component) *Program {
	return &Program{
		name:       name,
		code:       code,
		year:       year,
		units:      units,
		components: append([]Component(nil), components...),
	}
}

// Scalar metadata accessors.
func (p *Program) Name() string        { return p.name }
func (p *Program) SetName(name string) { p.name = name }
func (p *Program) Code() string        { return p.code }
func (p *Program) SetCode(code string) { p.code = code }
func (p *Program) Year() int           { return p.year }
func (p *Program) SetYear(year int)    { p.year = year }
func (p *Program) Units() int          { return p.units }
func (p *Program) SetUnits(units int)  { p.units = units }

// Components returns the top-level components in order.
func (p *Program) Components() []Component {
	return p.components
}

// SetComponents replaces the top-level components.
func (p *Program) SetComponents(components []Component) {
	p.components = components
}

// AddComponent appends a top-level component. Callers that want at most one
// elective component of each kind check HasProgramElectiveComponent and
// HasGeneralElectiveComponent first.
func (p *Program) AddComponent(component Component) {
	p.components = append(p.components, component)
}

// RemoveComponentByID removes every component whose id equals id. It does
// nothing when no component matches.
func (p *Program) RemoveComponentByID(id string) {
	kept := make([]Component, 0, len(p.components))
	for _, component := range p.components {
		if component.ID() != id {
			kept = append(kept, component)
		}
	}
	p.components = kept
}

// ComponentByID returns the first component with the given id. Later
// components sharing the id are unreachable through this method.
func (p *Program) ComponentByID(id string) (Component, bool) {
	for _, component := range p.components {
		if component.ID() == id {
			return component, true
		}
	}
	return nil, false
}

// HasProgramElectiveComponent reports whether any top-level component is a
// program elective.
func (p *Program) HasProgramElectiveComponent() bool {
	return p.hasComponentType(TypeProgramElectives)
}

// HasGeneralElectiveComponent reports whether any top-level component is a
// general elective.
func (p *Program) HasGeneralElectiveComponent() bool {
	return p.hasComponentType(TypeGeneralElectives)
}

func (p *Program) hasComponentType(tag string) bool {
	for _, component := range p.components {
		if component.Type() == tag {
			return true
		}
	}
	return false
}
