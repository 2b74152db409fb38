package anki

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/words"
)

// Field names tried, in order, when looking for a gloss.
var meaningFieldNames = []string{"Meaning", "English", "Back", "Definition", "Gloss"}

// IsKana reports whether s is non-empty and written only in kana (long
// vowel marks and spaces allowed).
func IsKana(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == 'ー' || r == ' ' || r == '　' {
			continue
		}
		if !unicode.In(r, unicode.Hiragana, unicode.Katakana) {
			return false
		}
	}
	return true
}

// DetectKanaField returns the field of model whose values are most often
// pure kana, considering only the model's notes. It returns "" if no field
// holds kana in at least half of the notes.
func (p *Package) DetectKanaField(model *Model) string {
	hits := make([]int, len(model.Fields))
	total := 0
	for _, note := range p.Notes {
		if note.ModelID != model.ID {
			continue
		}
		total++
		for _, f := range model.Fields {
			if f.Ord < len(note.Fields) && IsKana(StripHTML(note.Fields[f.Ord])) {
				hits[f.Ord]++
			}
		}
	}
	if total == 0 {
		return ""
	}

	best, bestHits := "", 0
	for _, f := range model.Fields {
		if f.Ord < len(hits) && hits[f.Ord] > bestHits {
			best, bestHits = f.Name, hits[f.Ord]
		}
	}
	if bestHits*2 < total {
		return ""
	}
	return best
}

// ImportOptions controls ImportWords.
type ImportOptions struct {
	KanaField    string // detected per model when empty
	MeaningField string // first of meaningFieldNames when empty
	KanjiField   string

	// Readings, when set, supplies the kana of notes whose kana field is
	// not pure kana. It is given KanjiField, or the kana field when
	// KanjiField is empty. Notes it cannot read are skipped.
	Readings func(text string) (string, bool)
}

// ImportWords builds a word set from every note whose kana field holds
// pure kana. Romaji and groups are left for words.Set.Fill.
func (p *Package) ImportWords(name string, opts ImportOptions) (*words.Set, error) {
	set := words.NewSet(name)

	for _, model := range p.SortedModels() {
		kanaField := opts.KanaField
		if kanaField == "" {
			kanaField = p.DetectKanaField(model)
		}
		readFrom := ""
		if opts.Readings != nil {
			readFrom = opts.KanjiField
			if readFrom == "" {
				readFrom = kanaField
			}
		}
		if model.FieldIndex(kanaField) < 0 && model.FieldIndex(readFrom) < 0 {
			continue
		}
		meaningField := opts.MeaningField
		if meaningField == "" {
			meaningField = firstField(model, meaningFieldNames)
		}

		for _, note := range p.Notes {
			if note.ModelID != model.ID {
				continue
			}
			text := p.GetFieldValue(note, kanaField)
			kanji := p.GetFieldValue(note, opts.KanjiField)
			if !IsKana(text) {
				if opts.Readings == nil {
					continue
				}
				source := p.GetFieldValue(note, readFrom)
				reading, ok := opts.Readings(source)
				if !ok || !IsKana(reading) {
					continue
				}
				if kanji == "" {
					kanji = source
				}
				text = reading
			}
			set.Add(kana.JapaneseWord{
				Kana:    strings.ReplaceAll(text, " ", ""),
				Type:    words.DetectScript(text),
				Meaning: p.GetFieldValue(note, meaningField),
				Kanji:   kanji,
			})
		}
	}

	if set.Len() == 0 {
		return nil, fmt.Errorf("no kana notes found in %s", p.path)
	}
	return set, nil
}

func firstField(model *Model, names []string) string {
	for _, n := range names {
		if model.FieldIndex(n) >= 0 {
			return n
		}
	}
	return ""
}
