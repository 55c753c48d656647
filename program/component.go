package program

// Component type tags.
const (
	TypeCategory         = "category"
	TypeSection          = "section"
	TypeProgramElectives = "programElectives"
	TypeGeneralElectives = "generalElectives"
)

// Component is a structural element of a Program. Ids are caller supplied and
// are the only lookup key; nothing enforces their uniqueness, and unit bounds
// are not validated here.
type Component interface {
	Type() string

	ID() string
	SetID(id string)
	Title() string
	SetTitle(title string)
	MinUnits() int
	SetMinUnits(units int)
	MaxUnits() int
	SetMaxUnits(units int)
}

// componentBase holds the scalar fields shared by every Component variant.
type componentBase struct {
	id       string
	title    string
	minUnits int
	maxUnits int
}

func newComponentBase(id, title string, minUnits, maxUnits int) componentBase {
	return componentBase{id: id, title: title, minUnits: minUnits, maxUnits: maxUnits}
}

func componentBaseFromDocument(doc ComponentDocument) componentBase {
	return newComponentBase(doc.ID, doc.Title, doc.MinUnits, doc.MaxUnits)
}

func (b *componentBase) ID() string            { return b.id }
func (b *componentBase) SetID(id string)       { b.id = id }
func (b *componentBase) Title() string         { return b.title }
func (b *componentBase) SetTitle(title string) { b.title = title }
func (b *componentBase) MinUnits() int         { return b.minUnits }
func (b *componentBase) SetMinUnits(units int) { b.minUnits = units }
func (b *componentBase) MaxUnits() int         { return b.maxUnits }
func (b *componentBase) SetMaxUnits(units int) { b.maxUnits = units }

func (b *componentBase) document(tag string) ComponentDocument {
	return ComponentDocument{
		ID:       b.id,
		Type:     tag,
		Title:    b.title,
		MinUnits: b.minUnits,
		MaxUnits: b.maxUnits,
	}
}
