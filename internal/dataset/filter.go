package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Eligible reports whether a raw record can be quizzed: its rgb value must be
// a non-empty string that starts with "#" once surrounding whitespace is
// trimmed.
func Eligible(rec Record) bool {
	v, ok := lookup(rec, FieldRGB)
	if !ok {
		return false
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(s), "#")
}

// Filter converts the eligible records to entries, preserving source order.
// IDs are assigned by position among the surviving entries. Fields other
// than rgb are passed through without validation.
func Filter(records []Record) []ColorEntry {
	entries := make([]ColorEntry, 0, len(records))
	for _, rec := range records {
		if !Eligible(rec) {
			continue
		}
		entries = append(entries, ColorEntry{
			ID:              len(entries),
			Name:            stringField(rec, FieldName),
			SystemColorName: stringField(rec, FieldSystemColorName),
			Munsell:         stringField(rec, FieldMunsell),
			RGB:             strings.TrimSpace(stringField(rec, FieldRGB)),
			Description:     stringField(rec, FieldDescription),
		})
	}
	return entries
}

// lookup finds a field by exact key first, then case-insensitively.
// CSV exports disagree on header casing ("systemColorName", "RGB").
// When several keys differ only in case, the lexically smallest wins.
func lookup(rec Record, key string) (any, bool) {
	if v, ok := rec[key]; ok {
		return v, true
	}
	match, found := "", false
	for k := range rec {
		if !strings.EqualFold(strings.TrimSpace(k), key) {
			continue
		}
		if !found || k < match {
			match, found = k, true
		}
	}
	if !found {
		return nil, false
	}
	return rec[match], true
}

// stringField renders a loosely-typed field as text. Missing and null
// values become "".
func stringField(rec Record, key string) string {
	v, ok := lookup(rec, key)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
