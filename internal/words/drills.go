package words

import (
	"fmt"

	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/romaji"
)

// UnitDrills builds one quiz word per dictionary unit, tagged with the
// unit's group, so single kana can be drilled group by group. Units that
// appear in more than one group are drilled under the first.
func UnitDrills(dict *romaji.Dictionary) *Set {
	s := NewSet("kana")
	for _, sg := range dict.Scripts {
		for _, g := range sg.Groups {
			for _, e := range g.Entries {
				s.Add(kana.JapaneseWord{
					Kana:   string(e.Unit),
					Romaji: e.Spellings[0],
					Type:   sg.Script,
					Groups: []string{g.Name},
				})
			}
		}
	}
	return s
}

// SokuonDrills pairs a sokuon with every unit of the given groups whose
// canonical spelling starts with a consonant (っか, っしゃ, ...).
func SokuonDrills(table *romaji.Table, dict *romaji.Dictionary, groups ...string) *Set {
	s := NewSet("sokuon")
	for _, sg := range dict.Scripts {
		marker := "っ"
		if sg.Script == kana.Katakana {
			marker = "ッ"
		}
		for _, name := range groups {
			g := dict.Group(sg.Script, name)
			if g == nil {
				continue
			}
			for _, e := range g.Entries {
				if e.Spellings[0] == "n" {
					continue
				}
				unit := kana.Unit(marker + string(e.Unit))
				valid := table.ValidRomaji(unit)
				if len(valid) == 0 || valid[0] == e.Spellings[0] {
					continue
				}
				s.Add(kana.JapaneseWord{
					Kana:   string(unit),
					Romaji: valid[0],
					Type:   sg.Script,
					Groups: []string{GroupSokuon, name},
				})
			}
		}
	}
	return s
}

// Builtin returns the named computed set: "kana", "sokuon", "numbers",
// "days" or "months".
func Builtin(name string, table *romaji.Table, dict *romaji.Dictionary) (*Set, error) {
	switch name {
	case "kana":
		return UnitDrills(dict), nil
	case "sokuon":
		return SokuonDrills(table, dict, "base", "dakuten", "handakuten", "digraphs"), nil
	case "numbers":
		return NumberSet(table, 0, 100)
	case "days":
		return DaySet(table), nil
	case "months":
		return MonthSet(table), nil
	}
	return nil, fmt.Errorf("%w: built-in set %q", ErrNotFound, name)
}

// BuiltinNames lists the names accepted by Builtin.
func BuiltinNames() []string {
	return []string{"kana", "sokuon", "numbers", "days", "months"}
}

// ReviewDrills builds one quiz word per missed unit so the units a
// learner keeps getting wrong can be drilled on their own.
func ReviewDrills(table *romaji.Table, units []kana.Unit) *Set {
	s := NewSet("review")
	for _, u := range units {
		text := string(u)
		s.Add(kana.JapaneseWord{
			Kana:   text,
			Romaji: table.ToRomaji(text),
			Type:   DetectScript(text),
			Groups: UnitGroups(table, text),
		})
	}
	return s
}
