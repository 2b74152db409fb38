package anki

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/f3rmion/kana/internal/romaji"
)

// Fields added to augmented notes.
const (
	FieldRomaji      = "Romaji"
	FieldRomajiUnits = "RomajiUnits"
)

// RomajiFields are the fields Augment adds to a note type.
var RomajiFields = []string{FieldRomaji, FieldRomajiUnits}

// AddFields appends the named fields to a model unless present.
func (p *Package) AddFields(modelID int64, names ...string) error {
	model, ok := p.Models[modelID]
	if !ok {
		return fmt.Errorf("model %d not found", modelID)
	}

	for _, name := range names {
		if model.FieldIndex(name) >= 0 {
			continue
		}
		model.Fields = append(model.Fields, Field{
			Name: name,
			Ord:  len(model.Fields),
			Font: "Arial",
			Size: 20,
		})
	}
	return nil
}

// SetField sets a named field of note.
func (p *Package) SetField(note *Note, name, value string) error {
	model := p.GetModel(note)
	if model == nil {
		return fmt.Errorf("model not found for note %d", note.ID)
	}
	idx := model.FieldIndex(name)
	if idx < 0 {
		return fmt.Errorf("note type %q has no field %q", model.Name, name)
	}

	for len(note.Fields) < len(model.Fields) {
		note.Fields = append(note.Fields, "")
	}
	if note.Fields[idx] == value {
		return nil
	}
	note.Fields[idx] = value
	note.Mod = time.Now().Unix()
	note.dirty = true
	return nil
}

// Augment adds Romaji and RomajiUnits fields to every note type that has
// a kana field, and fills them for each kana note. RomajiUnits lists each
// answer unit with its accepted spellings, e.g. "に=ni っぽ=ppo ん=n/nn/n'".
// kanaField is detected per model when empty. It returns the number of
// notes changed.
func (p *Package) Augment(table *romaji.Table, kanaField string) (int, error) {
	changed := 0
	for _, model := range p.SortedModels() {
		field := kanaField
		if field == "" {
			field = p.DetectKanaField(model)
		}
		if field == "" || model.FieldIndex(field) < 0 {
			continue
		}
		if err := p.AddFields(model.ID, RomajiFields...); err != nil {
			return changed, err
		}

		for _, note := range p.Notes {
			if note.ModelID != model.ID {
				continue
			}
			text := p.GetFieldValue(note, field)
			if !IsKana(text) {
				continue
			}
			if err := p.SetField(note, FieldRomaji, table.ToRomaji(text)); err != nil {
				return changed, err
			}
			if err := p.SetField(note, FieldRomajiUnits, UnitBreakdown(table, text)); err != nil {
				return changed, err
			}
			if note.dirty {
				changed++
			}
		}
	}
	return changed, nil
}

// UnitBreakdown formats the answer units of text with their spellings.
func UnitBreakdown(table *romaji.Table, text string) string {
	var parts []string
	for _, u := range romaji.Tokenize(strings.ReplaceAll(text, " ", "")) {
		valid := table.ValidRomaji(u)
		if len(valid) == 0 {
			valid = []string{"?"}
		}
		parts = append(parts, string(u)+"="+strings.Join(valid, "/"))
	}
	return strings.Join(parts, " ")
}

// SaveAs writes the package, with all changes, to a new .apkg file.
func (p *Package) SaveAs(outputPath string) error {
	if err := p.updateModels(); err != nil {
		return fmt.Errorf("updating database: %w", err)
	}
	if err := p.updateNotes(); err != nil {
		return fmt.Errorf("updating database: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	zw := zip.NewWriter(out)
	walkErr := filepath.WalkDir(p.tempDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(p.tempDir, path)
		if err != nil {
			return err
		}
		return addToZip(zw, filepath.ToSlash(rel), path)
	})

	if err := zw.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if err := out.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if walkErr != nil {
		return fmt.Errorf("creating zip: %w", walkErr)
	}
	return nil
}

func addToZip(zw *zip.Writer, name, path string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// updateModels writes the model JSON back to the col table, keeping keys
// this package does not interpret.
func (p *Package) updateModels() error {
	modelsMap := make(map[string]map[string]json.RawMessage, len(p.Models))
	for id, model := range p.Models {
		raw := make(map[string]json.RawMessage, len(model.raw)+1)
		for k, v := range model.raw {
			raw[k] = v
		}
		flds, err := json.Marshal(model.Fields)
		if err != nil {
			return fmt.Errorf("marshaling fields of %s: %w", model.Name, err)
		}
		raw["flds"] = flds
		if _, ok := raw["id"]; !ok {
			raw["id"] = json.RawMessage(strconv.FormatInt(model.ID, 10))
		}
		modelsMap[strconv.FormatInt(id, 10)] = raw
	}

	modelsJSON, err := json.Marshal(modelsMap)
	if err != nil {
		return fmt.Errorf("marshaling models: %w", err)
	}
	if _, err := p.db.Exec("UPDATE col SET models = ?", string(modelsJSON)); err != nil {
		return fmt.Errorf("updating models: %w", err)
	}
	return nil
}

// updateNotes writes changed notes back to the database.
func (p *Package) updateNotes() error {
	for _, note := range p.Notes {
		if !note.dirty {
			continue
		}
		note.CSum = checksum(note.SFLD)

		_, err := p.db.Exec(`UPDATE notes SET mod = ?, flds = ?, sfld = ?, csum = ? WHERE id = ?`,
			note.Mod, strings.Join(note.Fields, fieldSeparator), note.SFLD, note.CSum, note.ID)
		if err != nil {
			return fmt.Errorf("updating note %d: %w", note.ID, err)
		}
		note.dirty = false
	}
	return nil
}

// checksum is Anki's csum: the first 8 hex digits of the SHA-1 of the
// stripped sort field.
func checksum(sfld string) int64 {
	sum := sha1.Sum([]byte(StripHTML(sfld)))
	v, _ := strconv.ParseInt(fmt.Sprintf("%x", sum[:4]), 16, 64)
	return v
}
