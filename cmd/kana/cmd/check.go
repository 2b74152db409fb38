package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/tui/components"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <kana> <answer>",
	Short: "Grade a romaji answer",
	Long: `Compare a romaji answer against kana and show which units are wrong.

The exit status is 1 when the answer is not accepted, so check can be
used from scripts.

Examples:
  kana check すし sushi
  kana check きって kite
  kana check --json しんぶん shinbun`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

var (
	checkJSON    bool
	checkNoColor bool
)

// checkOutput is the --json document.
type checkOutput struct {
	Kana     string                    `json:"kana"`
	Answer   string                    `json:"answer"`
	Expected string                    `json:"expected"`
	Correct  bool                      `json:"correct"`
	Result   kana.ErrorDetectionResult `json:"result"`
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the result as JSON")
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "disable colours in the diff")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	text, answer := args[0], args[1]

	expected, err := state.checker.ToRomaji(ctx, text)
	if err != nil {
		return err
	}
	word := kana.JapaneseWord{Kana: text, Romaji: expected}
	correct, res, err := state.checker.Grade(ctx, answer, word)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if checkJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(checkOutput{
			Kana:     text,
			Answer:   answer,
			Expected: expected,
			Correct:  correct,
			Result:   res,
		}); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		styles := components.DefaultDiffStyles()
		if checkNoColor {
			styles = components.PlainDiffStyles()
		}
		fmt.Fprintln(out, components.RenderDiff(res, styles, true))
		fmt.Fprintln(out)
		if correct {
			fmt.Fprintln(out, "✓ correct")
		} else {
			fmt.Fprintf(out, "✗ %s\n", expected)
		}
		fmt.Fprintln(out, components.Summary(res))
	}

	if !correct {
		return ErrIncorrect
	}
	return nil
}
