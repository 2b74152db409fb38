// Package romaji converts kana to romaji and checks learner answers
// against the expected reading, down to the individual kana unit.
package romaji

import (
	"github.com/f3rmion/kana/internal/kana"
)

// Table maps a kana unit (single kana or digraph) to its accepted romaji
// spellings. Index 0 is the canonical spelling. A Table is immutable after
// NewTable returns and may be shared between goroutines.
type Table struct {
	entries map[kana.Unit][]string
	groups  map[kana.Unit]string
	order   []kana.Unit
	dict    *Dictionary
}

// NewTable flattens every group of every script in declaration order.
// The first registration of a unit wins; later duplicates are ignored.
func NewTable(dict *Dictionary) *Table {
	t := &Table{
		entries: make(map[kana.Unit][]string),
		groups:  make(map[kana.Unit]string),
		dict:    dict,
	}
	if dict == nil {
		return t
	}

	for _, script := range dict.Scripts {
		for _, group := range script.Groups {
			for _, e := range group.Entries {
				if _, exists := t.entries[e.Unit]; exists {
					continue
				}
				spellings := make([]string, len(e.Spellings))
				copy(spellings, e.Spellings)
				t.entries[e.Unit] = spellings
				t.groups[e.Unit] = group.Name
				t.order = append(t.order, e.Unit)
			}
		}
	}
	return t
}

// Dictionary returns the dictionary the table was built from. Callers
// must not modify it.
func (t *Table) Dictionary() *Dictionary {
	return t.dict
}

// LookupAll returns every valid spelling of unit, or nil if unknown.
// The returned slice is a copy.
func (t *Table) LookupAll(unit kana.Unit) []string {
	spellings, ok := t.entries[unit]
	if !ok {
		return nil
	}
	out := make([]string, len(spellings))
	copy(out, spellings)
	return out
}

// LookupPrimary returns the canonical spelling of unit, or "".
func (t *Table) LookupPrimary(unit kana.Unit) string {
	if spellings := t.entries[unit]; len(spellings) > 0 {
		return spellings[0]
	}
	return ""
}

// Has reports whether unit has an entry.
func (t *Table) Has(unit kana.Unit) bool {
	_, ok := t.entries[unit]
	return ok
}

// GroupOf returns the dictionary group that registered unit.
func (t *Table) GroupOf(unit kana.Unit) string {
	return t.groups[unit]
}

// Units returns all units in registration order.
func (t *Table) Units() []kana.Unit {
	out := make([]kana.Unit, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of distinct units.
func (t *Table) Len() int {
	return len(t.entries)
}
