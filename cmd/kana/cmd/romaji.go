package cmd

import (
	"fmt"
	"strings"

	"github.com/f3rmion/kana/internal/anki"
	"github.com/f3rmion/kana/internal/reading"
	"github.com/spf13/cobra"
)

var romajiCmd = &cobra.Command{
	Use:   "romaji <kana>...",
	Short: "Romanize kana text",
	Long: `Print the Hepburn romanization of each argument.

With --units every answer unit is listed with all the spellings a quiz
accepts for it. With --reading, text containing kanji is first read
into kana with a Japanese morphological dictionary.

Examples:
  kana romaji すし
  kana romaji --units きって ラーメン
  kana romaji --reading 東京`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRomaji,
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <kana>",
	Short: "Split kana text into answer units",
	Long: `Split kana into the units answers are graded by: single kana,
digraphs such as きゃ and sokuon groups such as っき.

Example:
  kana tokenize きょうっと`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

var (
	romajiUnits   bool
	romajiReading bool
)

func init() {
	rootCmd.AddCommand(romajiCmd)
	rootCmd.AddCommand(tokenizeCmd)

	romajiCmd.Flags().BoolVarP(&romajiUnits, "units", "u", false, "list answer units with accepted spellings")
	romajiCmd.Flags().BoolVarP(&romajiReading, "reading", "r", false, "read kanji into kana first")
}

func runRomaji(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	table, err := state.checker.Loader().Table(ctx)
	if err != nil {
		return err
	}

	var reader *reading.Reader
	if romajiReading {
		if reader, err = reading.New(); err != nil {
			return err
		}
	}

	for _, text := range args {
		if reader != nil && !reading.IsKana(text) {
			kanaText, ok := reader.Reading(text)
			if !ok {
				return fmt.Errorf("no reading found for %q", text)
			}
			fmt.Fprintf(out, "%s\t%s\n", text, kanaText)
			text = kanaText
		}
		fmt.Fprintf(out, "%s\t%s\n", text, table.ToRomaji(text))
		if romajiUnits {
			fmt.Fprintf(out, "  %s\n", anki.UnitBreakdown(table, text))
		}
	}
	return nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	units := state.checker.Tokenize(args[0])
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = string(u)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
	return nil
}
