// Package catalog loads catalog snapshots from their backing sources and
// hydrates them into domain items.
package catalog

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/calliope-systems/shelfrank/internal/domain/catalog"
)

// Record is the wire representation of one catalog item. All kind-specific
// fields live flat on the record; hydration picks the ones the declared
// type uses and ignores the rest.
type Record struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Title       string           `json:"title"`
	Cover       string           `json:"cover,omitempty"`
	Formats     []catalog.Format `json:"formats,omitempty"`
	Description string           `json:"description,omitempty"`
	Rating      *float64         `json:"rating,omitempty"`
	Popular     bool             `json:"popular,omitempty"`

	Author   string   `json:"author,omitempty"`
	Subjects []string `json:"subjects,omitempty"`
	Year     int      `json:"year,omitempty"`
	Pages    int      `json:"pages,omitempty"`
	ISBN     string   `json:"isbn,omitempty"`

	Director string   `json:"director,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Runtime  int      `json:"runtime,omitempty"`

	Developer string `json:"developer,omitempty"`
	Platform  string `json:"platform,omitempty"`
	ESRB      string `json:"esrb,omitempty"`

	Brand      string   `json:"brand,omitempty"`
	Model      string   `json:"model,omitempty"`
	Categories []string `json:"categories,omitempty"`

	Writer      string `json:"writer,omitempty"`
	Illustrator string `json:"illustrator,omitempty"`
	Volume      int    `json:"volume,omitempty"`

	Tags []string `json:"tags,omitempty"`
}

// ToItem hydrates the record into a domain item. A missing id gets a
// generated one; an unrecognized type degrades to a generic thing so one
// odd record never sinks the whole catalog load.
func (r Record) ToItem(logger *zap.Logger) catalog.Item {
	if logger == nil {
		logger = zap.NewNop()
	}

	core := catalog.Core{
		ID:          r.ID,
		Title:       r.Title,
		Cover:       r.Cover,
		Formats:     r.Formats,
		Description: r.Description,
		Rating:      r.Rating,
		Popular:     r.Popular,
	}
	if core.ID == "" {
		core.ID = uuid.NewString()
		logger.Warn("catalog record has no id, generated one",
			zap.String("title", r.Title), zap.String("id", core.ID))
	}

	switch catalog.Kind(r.Type) {
	case catalog.KindBook:
		return &catalog.BookItem{
			Core: core, Author: r.Author, Subjects: r.Subjects,
			Year: r.Year, Pages: r.Pages, ISBN: r.ISBN,
		}
	case catalog.KindMedia:
		return &catalog.MediaItem{
			Core: core, Director: r.Director, Genres: r.Genres,
			Year: r.Year, RuntimeMinutes: r.Runtime,
		}
	case catalog.KindGame:
		return &catalog.GameItem{
			Core: core, Developer: r.Developer, Genres: r.Genres,
			Year: r.Year, Platform: r.Platform, ESRB: r.ESRB,
		}
	case catalog.KindEquipment:
		return &catalog.EquipmentItem{
			Core: core, Brand: r.Brand, Model: r.Model, Categories: r.Categories,
		}
	case catalog.KindComic:
		return &catalog.ComicItem{
			Core: core, Writer: r.Writer, Illustrator: r.Illustrator,
			Subjects: r.Subjects, Year: r.Year, Volume: r.Volume,
		}
	case catalog.KindThing:
		return &catalog.ThingItem{Core: core, Tags: r.Tags}
	default:
		logger.Warn("catalog record has unknown type, treating as thing",
			zap.String("id", core.ID), zap.String("type", r.Type))
		return &catalog.ThingItem{Core: core, Tags: r.Tags}
	}
}

// FromItem flattens a domain item back into its wire record.
func FromItem(it catalog.Item) Record {
	if it == nil {
		return Record{}
	}
	core := it.Common()
	r := Record{
		ID:          core.ID,
		Type:        string(it.Kind()),
		Title:       core.Title,
		Cover:       core.Cover,
		Formats:     core.Formats,
		Description: core.Description,
		Rating:      core.Rating,
		Popular:     core.Popular,
	}

	switch v := it.(type) {
	case *catalog.BookItem:
		r.Author, r.Subjects, r.Year, r.Pages, r.ISBN = v.Author, v.Subjects, v.Year, v.Pages, v.ISBN
	case *catalog.MediaItem:
		r.Director, r.Genres, r.Year, r.Runtime = v.Director, v.Genres, v.Year, v.RuntimeMinutes
	case *catalog.GameItem:
		r.Developer, r.Genres, r.Year, r.Platform, r.ESRB = v.Developer, v.Genres, v.Year, v.Platform, v.ESRB
	case *catalog.EquipmentItem:
		r.Brand, r.Model, r.Categories = v.Brand, v.Model, v.Categories
	case *catalog.ComicItem:
		r.Writer, r.Illustrator, r.Subjects, r.Year, r.Volume = v.Writer, v.Illustrator, v.Subjects, v.Year, v.Volume
	case *catalog.ThingItem:
		r.Tags = v.Tags
	}
	return r
}
