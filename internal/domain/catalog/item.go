package catalog

// Core holds the fields every catalog item carries regardless of kind.
// Rating is nil when the item has no rating; zero would read as a real score.
type Core struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Cover       string   `json:"cover,omitempty"`
	Formats     []Format `json:"formats,omitempty"`
	Description string   `json:"description,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Popular     bool     `json:"popular,omitempty"`
}

// Available reports whether at least one format can be borrowed right now.
func (c *Core) Available() bool {
	for _, f := range c.Formats {
		if f.Status == StatusAvailable {
			return true
		}
	}
	return false
}

// Item is a catalog record of one of the closed set of kinds. The per-kind
// structs carry only the detail fields that kind actually has, so a book
// with an ESRB rating is unrepresentable rather than merely invalid.
//
// Creator, SubjectTags, and ReleaseYear expose the kind-specific detail
// fields under a common shape for ranking and compaction: the creator is
// the author/director/developer/writer/brand depending on kind, subject
// tags are subjects/genres/categories/tags, and ReleaseYear is 0 when the
// kind has no meaningful year.
type Item interface {
	Kind() Kind
	Common() *Core
	Creator() string
	SubjectTags() []string
	ReleaseYear() int

	sealed()
}

// BookItem is a book record.
type BookItem struct {
	Core
	Author   string   `json:"author,omitempty"`
	Subjects []string `json:"subjects,omitempty"`
	Year     int      `json:"publication_year,omitempty"`
	Pages    int      `json:"pages,omitempty"`
	ISBN     string   `json:"isbn,omitempty"`
}

// Kind returns KindBook.
func (b *BookItem) Kind() Kind            { return KindBook }
func (b *BookItem) Common() *Core         { return &b.Core }
func (b *BookItem) Creator() string       { return b.Author }
func (b *BookItem) SubjectTags() []string { return b.Subjects }
func (b *BookItem) ReleaseYear() int      { return b.Year }
func (b *BookItem) sealed()               {}

// MediaItem is a film or TV record.
type MediaItem struct {
	Core
	Director       string   `json:"director,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	Year           int      `json:"year,omitempty"`
	RuntimeMinutes int      `json:"runtime_minutes,omitempty"`
}

// Kind returns KindMedia.
func (m *MediaItem) Kind() Kind            { return KindMedia }
func (m *MediaItem) Common() *Core         { return &m.Core }
func (m *MediaItem) Creator() string       { return m.Director }
func (m *MediaItem) SubjectTags() []string { return m.Genres }
func (m *MediaItem) ReleaseYear() int      { return m.Year }
func (m *MediaItem) sealed()               {}

// GameItem is a video game record.
type GameItem struct {
	Core
	Developer string   `json:"developer,omitempty"`
	Genres    []string `json:"genres,omitempty"`
	Year      int      `json:"year,omitempty"`
	Platform  string   `json:"platform,omitempty"`
	ESRB      string   `json:"esrb,omitempty"`
}

// Kind returns KindGame.
func (g *GameItem) Kind() Kind            { return KindGame }
func (g *GameItem) Common() *Core         { return &g.Core }
func (g *GameItem) Creator() string       { return g.Developer }
func (g *GameItem) SubjectTags() []string { return g.Genres }
func (g *GameItem) ReleaseYear() int      { return g.Year }
func (g *GameItem) sealed()               {}

// EquipmentItem is a loanable equipment record (projectors, hotspots, tools).
type EquipmentItem struct {
	Core
	Brand      string   `json:"brand,omitempty"`
	Model      string   `json:"model,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Kind returns KindEquipment.
func (e *EquipmentItem) Kind() Kind            { return KindEquipment }
func (e *EquipmentItem) Common() *Core         { return &e.Core }
func (e *EquipmentItem) Creator() string       { return e.Brand }
func (e *EquipmentItem) SubjectTags() []string { return e.Categories }
func (e *EquipmentItem) ReleaseYear() int      { return 0 }
func (e *EquipmentItem) sealed()               {}

// ComicItem is a comic or graphic novel record.
type ComicItem struct {
	Core
	Writer      string   `json:"writer,omitempty"`
	Illustrator string   `json:"illustrator,omitempty"`
	Subjects    []string `json:"subjects,omitempty"`
	Year        int      `json:"year,omitempty"`
	Volume      int      `json:"volume,omitempty"`
}

// Kind returns KindComic.
func (c *ComicItem) Kind() Kind            { return KindComic }
func (c *ComicItem) Common() *Core         { return &c.Core }
func (c *ComicItem) Creator() string       { return c.Writer }
func (c *ComicItem) SubjectTags() []string { return c.Subjects }
func (c *ComicItem) ReleaseYear() int      { return c.Year }
func (c *ComicItem) sealed()               {}

// ThingItem is a miscellaneous "library of things" record.
type ThingItem struct {
	Core
	Tags []string `json:"tags,omitempty"`
}

// Kind returns KindThing.
func (t *ThingItem) Kind() Kind            { return KindThing }
func (t *ThingItem) Common() *Core         { return &t.Core }
func (t *ThingItem) Creator() string       { return "" }
func (t *ThingItem) SubjectTags() []string { return t.Tags }
func (t *ThingItem) ReleaseYear() int      { return 0 }
func (t *ThingItem) sealed()               {}
