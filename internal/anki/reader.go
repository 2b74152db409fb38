// Package anki reads Anki .apkg packages, extracts kana vocabulary from
// them and writes packages augmented with romaji fields.
package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// fieldSeparator joins note fields in the flds column.
const fieldSeparator = "\x1f"

// Package represents an opened Anki .apkg file.
type Package struct {
	path    string
	tempDir string
	db      *sql.DB
	Models  map[int64]*Model
	Decks   map[int64]*Deck
	Notes   []*Note
	Cards   int
}

// Model represents an Anki note type.
type Model struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"flds"`

	// raw keeps every key of the model JSON so writing it back does not
	// drop templates, CSS or other settings.
	raw map[string]json.RawMessage
}

// Field represents a field in a note type.
type Field struct {
	Name   string `json:"name"`
	Ord    int    `json:"ord"`
	Sticky bool   `json:"sticky"`
	RTL    bool   `json:"rtl"`
	Font   string `json:"font"`
	Size   int    `json:"size"`
}

// Deck represents an Anki deck.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Note represents an Anki note.
type Note struct {
	ID      int64
	GUID    string
	ModelID int64
	Mod     int64
	Tags    string
	Fields  []string // split from the flds column
	SFLD    string
	CSum    int64

	dirty bool
}

// OpenPackage extracts an .apkg into a temp directory and loads its
// collection. Close removes the temp directory.
func OpenPackage(path string) (*Package, error) {
	tempDir, err := os.MkdirTemp("", "kana-anki-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	pkg := &Package{
		path:    path,
		tempDir: tempDir,
		Models:  make(map[int64]*Model),
		Decks:   make(map[int64]*Deck),
	}

	if err := pkg.open(); err != nil {
		pkg.Close()
		return nil, err
	}
	return pkg, nil
}

func (p *Package) open() error {
	if err := extract(p.path, p.tempDir); err != nil {
		return err
	}

	dbPath, err := p.collectionPath()
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening collection: %w", err)
	}
	p.db = db

	for _, load := range []func() error{p.loadCollection, p.loadNotes, p.countCards} {
		if err := load(); err != nil {
			return err
		}
	}
	return nil
}

// collectionPath prefers the legacy collection.anki2 and falls back to
// collection.anki21.
func (p *Package) collectionPath() (string, error) {
	for _, name := range []string{"collection.anki2", "collection.anki21"} {
		path := filepath.Join(p.tempDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.New("package has no collection database")
}

// extract unzips src into dir, rejecting entries that escape dir.
func extract(src, dir string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(dir) + string(os.PathSeparator)
	for _, f := range r.File {
		dest := filepath.Join(dir, f.Name)
		if !strings.HasPrefix(dest, root) {
			return fmt.Errorf("illegal file path: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(f, dest); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// loadCollection loads models and decks from the col table.
func (p *Package) loadCollection() error {
	var models, decks string
	if err := p.db.QueryRow("SELECT models, decks FROM col").Scan(&models, &decks); err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	var modelsMap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(models), &modelsMap); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}
	for _, raw := range modelsMap {
		model := &Model{}
		if err := json.Unmarshal(raw, model); err != nil {
			continue // Skip malformed models
		}
		if err := json.Unmarshal(raw, &model.raw); err != nil {
			continue
		}
		p.Models[model.ID] = model
	}

	var decksMap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(decks), &decksMap); err != nil {
		return fmt.Errorf("parsing decks: %w", err)
	}
	for _, raw := range decksMap {
		var deck Deck
		if err := json.Unmarshal(raw, &deck); err != nil {
			continue // Skip malformed decks
		}
		p.Decks[deck.ID] = &deck
	}

	return nil
}

// loadNotes loads all notes from the database.
func (p *Package) loadNotes() error {
	rows, err := p.db.Query(`SELECT id, guid, mid, mod, tags, flds, sfld, csum FROM notes ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			note Note
			flds string
		)
		if err := rows.Scan(&note.ID, &note.GUID, &note.ModelID, &note.Mod, &note.Tags, &flds, &note.SFLD, &note.CSum); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}
		note.Fields = strings.Split(flds, fieldSeparator)
		p.Notes = append(p.Notes, &note)
	}

	return rows.Err()
}

func (p *Package) countCards() error {
	if err := p.db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&p.Cards); err != nil {
		return fmt.Errorf("counting cards: %w", err)
	}
	return nil
}

// GetModel returns the model for a note.
func (p *Package) GetModel(note *Note) *Model {
	return p.Models[note.ModelID]
}

// FieldIndex returns the position of the named field, or -1.
func (m *Model) FieldIndex(name string) int {
	for _, f := range m.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Ord
		}
	}
	return -1
}

// FieldNames returns the model's field names in order.
func (m *Model) FieldNames() []string {
	names := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		names[i] = f.Name
	}
	return names
}

// GetFieldValue returns a field of a note by name, with HTML removed.
func (p *Package) GetFieldValue(note *Note, fieldName string) string {
	model := p.GetModel(note)
	if model == nil {
		return ""
	}
	idx := model.FieldIndex(fieldName)
	if idx < 0 || idx >= len(note.Fields) {
		return ""
	}
	return StripHTML(note.Fields[idx])
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	soundPattern = regexp.MustCompile(`\[sound:[^\]]*\]`)
	// furigana written as 漢字[かんじ]
	rubyPattern = regexp.MustCompile(`\[[^\]]*\]`)
)

// StripHTML removes markup, sound tags and furigana brackets from a field.
func StripHTML(s string) string {
	s = strings.NewReplacer("<br>", " ", "<br/>", " ", "<br />", " ").Replace(s)
	s = tagPattern.ReplaceAllString(s, "")
	s = soundPattern.ReplaceAllString(s, "")
	s = rubyPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// Close releases the database and removes extracted files.
func (p *Package) Close() error {
	var err error
	if p.db != nil {
		err = p.db.Close()
	}
	if p.tempDir != "" {
		os.RemoveAll(p.tempDir)
	}
	return err
}

// Summary returns a summary of the package contents.
func (p *Package) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Anki Package: %s\n", p.path)
	fmt.Fprintf(&sb, "  Decks: %d\n", len(p.Decks))
	for _, deck := range p.sortedDecks() {
		fmt.Fprintf(&sb, "    - %s\n", deck.Name)
	}
	fmt.Fprintf(&sb, "  Note types: %d\n", len(p.Models))
	for _, model := range p.SortedModels() {
		fmt.Fprintf(&sb, "    - %s (%s)\n", model.Name, strings.Join(model.FieldNames(), ", "))
	}
	fmt.Fprintf(&sb, "  Notes: %d\n", len(p.Notes))
	fmt.Fprintf(&sb, "  Cards: %d\n", p.Cards)

	return sb.String()
}

// SortedModels returns the models ordered by name.
func (p *Package) SortedModels() []*Model {
	models := make([]*Model, 0, len(p.Models))
	for _, m := range p.Models {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models
}

func (p *Package) sortedDecks() []*Deck {
	decks := make([]*Deck, 0, len(p.Decks))
	for _, d := range p.Decks {
		decks = append(decks, d)
	}
	sort.Slice(decks, func(i, j int) bool { return decks[i].Name < decks[j].Name })
	return decks
}
