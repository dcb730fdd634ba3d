package catalog

// Kind is the catalog item kind.
type Kind string

// Item kind constants.
const (
	// KindBook is a physical or digital book record.
	KindBook Kind = "book"
	// KindMedia is a film or TV record.
	KindMedia     Kind = "media"
	KindGame      Kind = "game"
	KindEquipment Kind = "equipment"
	KindComic     Kind = "comic"
	// KindThing is the catch-all kind for items of a "library of things"
	// (tools, instruments, kits) that carry no creator credit.
	KindThing Kind = "thing"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	switch k {
	case KindBook, KindMedia, KindGame, KindEquipment, KindComic, KindThing:
		return true
	}
	return false
}
