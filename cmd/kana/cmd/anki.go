package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/kana/internal/anki"
	"github.com/f3rmion/kana/internal/reading"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Work with Anki decks",
	Long:  `Commands for reading Anki .apkg files and adding romaji to them.`,
}

var ankiInspectCmd = &cobra.Command{
	Use:   "inspect <file.apkg>",
	Short: "Inspect an Anki deck",
	Long: `Inspect an Anki .apkg file to see its structure:
  - Decks
  - Note types (models) and their fields
  - The field detected as holding kana
  - Sample notes

Example:
  kana anki inspect vocab.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiInspect,
}

var ankiImportCmd = &cobra.Command{
	Use:   "import <file.apkg>",
	Short: "Convert an Anki deck into a word set",
	Long: `Read the kana notes of an Anki deck and write them as a JSONL word
set with romaji and answer-unit groups filled in.

The word set can be passed to --words or opened from the TUI.

With --readings, notes without a kana reading get one from a Japanese
morphological dictionary applied to the --kanji field.

Examples:
  kana anki import vocab.apkg > vocab.jsonl
  kana anki import vocab.apkg --field Reading --meaning English -o vocab.jsonl
  kana anki import kanji.apkg --kanji Expression --readings`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiImport,
}

var ankiAugmentCmd = &cobra.Command{
	Use:   "augment <file.apkg>",
	Short: "Add romaji fields to an Anki deck",
	Long: `Add Romaji and RomajiUnits fields to every note type with a kana
field and write the result as a new .apkg.

RomajiUnits lists each answer unit with the spellings a quiz accepts,
e.g. "き=ki って=tte".

Examples:
  kana anki augment vocab.apkg
  kana anki augment vocab.apkg --field Reading -o vocab-romaji.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiAugment,
}

var (
	ankiInspectLimit int

	ankiField   string
	ankiMeaning string
	ankiKanji   string
	ankiOutput  string

	ankiReadings bool
)

func init() {
	rootCmd.AddCommand(ankiCmd)
	ankiCmd.AddCommand(ankiInspectCmd)
	ankiCmd.AddCommand(ankiImportCmd)
	ankiCmd.AddCommand(ankiAugmentCmd)

	ankiInspectCmd.Flags().IntVarP(&ankiInspectLimit, "limit", "n", 5, "Number of sample notes to show")

	for _, c := range []*cobra.Command{ankiImportCmd, ankiAugmentCmd} {
		c.Flags().StringVarP(&ankiField, "field", "f", "", "Field name containing kana (auto-detect if not specified)")
		c.Flags().StringVarP(&ankiOutput, "output", "o", "", "Output file")
	}
	ankiImportCmd.Flags().StringVar(&ankiMeaning, "meaning", "", "Field name containing the meaning")
	ankiImportCmd.Flags().StringVar(&ankiKanji, "kanji", "", "Field name containing the kanji spelling")
	ankiImportCmd.Flags().BoolVar(&ankiReadings, "readings", false, "Derive missing kana readings from the kanji field")
}

func runAnkiInspect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := args[0]

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	fmt.Fprint(out, pkg.Summary())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Field Details:")
	for _, model := range pkg.SortedModels() {
		kanaField := pkg.DetectKanaField(model)
		fmt.Fprintf(out, "  %s:\n", model.Name)
		for _, field := range model.Fields {
			mark := ""
			if field.Name == kanaField {
				mark = "  <- kana"
			}
			fmt.Fprintf(out, "    [%d] %s%s\n", field.Ord, field.Name, mark)
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Sample Notes (first %d):\n", ankiInspectLimit)
	for i, note := range pkg.Notes {
		if i >= ankiInspectLimit {
			break
		}

		modelName := "unknown"
		var fieldNames []string
		if model := pkg.GetModel(note); model != nil {
			modelName = model.Name
			fieldNames = model.FieldNames()
		}

		fmt.Fprintf(out, "\n  Note %d (Model: %s):\n", note.ID, modelName)
		for j, value := range note.Fields {
			name := fmt.Sprintf("Field %d", j)
			if j < len(fieldNames) {
				name = fieldNames[j]
			}
			fmt.Fprintf(out, "    %s: %s\n", name, truncate(anki.StripHTML(value), 60))
		}
	}
	return nil
}

func runAnkiImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	table, err := state.checker.Loader().Table(ctx)
	if err != nil {
		return err
	}

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	opts := anki.ImportOptions{
		KanaField:    ankiField,
		MeaningField: ankiMeaning,
		KanjiField:   ankiKanji,
	}
	if ankiReadings {
		reader, err := reading.New()
		if err != nil {
			return err
		}
		opts.Readings = reader.Reading
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	set, err := pkg.ImportWords(name, opts)
	if err != nil {
		return err
	}
	set.Fill(table)

	var w io.Writer = cmd.OutOrStdout()
	if ankiOutput != "" {
		f, err := os.Create(ankiOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := set.Write(w); err != nil {
		return fmt.Errorf("writing word set: %w", err)
	}

	state.log.Info("deck imported", zap.String("deck", path), zap.Int("words", set.Len()))
	if ankiOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d words to %s\n", set.Len(), ankiOutput)
	}
	return nil
}

func runAnkiAugment(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	path := args[0]

	table, err := state.checker.Loader().Table(ctx)
	if err != nil {
		return err
	}

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	changed, err := pkg.Augment(table, ankiField)
	if err != nil {
		return fmt.Errorf("augmenting notes: %w", err)
	}
	if changed == 0 {
		return fmt.Errorf("no kana notes found in %s", path)
	}

	output := ankiOutput
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + ".romaji.apkg"
	}
	if err := pkg.SaveAs(output); err != nil {
		return fmt.Errorf("saving package: %w", err)
	}

	fmt.Fprintf(out, "Added romaji to %d notes: %s\n", changed, output)
	return nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
