// Package dataset loads color-name datasets from files, URLs and the local
// dataset library, and filters them down to entries that can be quizzed.
package dataset

import (
	"time"
)

// Record is a single raw dataset record as decoded from the source.
// Values are loosely typed: JSON sources yield strings, numbers, bools or nil;
// CSV sources yield strings (or nil for short rows).
type Record map[string]any

// Field names of the dataset source format.
const (
	FieldName            = "name"
	FieldSystemColorName = "systemcolorname"
	FieldMunsell         = "munsell"
	FieldRGB             = "rgb"
	FieldDescription     = "description"
)

// Fields lists the dataset fields in their canonical column order.
var Fields = []string{FieldName, FieldSystemColorName, FieldMunsell, FieldRGB, FieldDescription}

// ColorEntry is one quizzable color. Entries are immutable once loaded.
type ColorEntry struct {
	// ID is the entry's position in the loaded dataset. It identifies the
	// entry within a session even when two entries carry identical text.
	ID int `json:"-"`

	Name            string `json:"name"`
	SystemColorName string `json:"systemcolorname"`
	Munsell         string `json:"munsell"`
	RGB             string `json:"rgb"`
	Description     string `json:"description"`
}

// Dataset is a successfully loaded, filtered, non-empty set of entries.
// Entries must be treated as read-only: loaded datasets are shared through
// the loader cache.
type Dataset struct {
	Source   string
	Entries  []ColorEntry
	LoadedAt time.Time
}

// Len returns the number of entries in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Entries)
}
