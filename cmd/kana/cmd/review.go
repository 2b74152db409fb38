package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show the units you miss most often",
	Long: `List the answer units recorded as wrong across quiz sessions, most
missed first, together with recent session scores.

Use 'kana quiz --review' to drill them, or --clear to start over.`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

var (
	reviewClear bool
	reviewCount int
)

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().BoolVar(&reviewClear, "clear", false, "forget all recorded mistakes")
	reviewCmd.Flags().IntVarP(&reviewCount, "limit", "n", reviewLimit, "number of units to show")
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	st, err := openStore()
	if err != nil {
		return err
	}

	if reviewClear {
		if err := st.ClearMistakes(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Mistakes cleared.")
		return nil
	}

	units, err := st.ReviewUnits(ctx, reviewCount)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		fmt.Fprintln(out, "No mistakes recorded yet.")
	} else {
		table, err := state.checker.Loader().Table(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Most missed:")
		for _, uc := range units {
			fmt.Fprintf(out, "  %s\t%-6s\t%d\n", uc.Unit, table.ToRomaji(string(uc.Unit)), uc.Count)
		}
	}

	sessions, err := st.Sessions(ctx, 5)
	if err != nil {
		return err
	}
	if len(sessions) > 0 {
		fmt.Fprintln(out, "\nRecent sessions:")
		for _, s := range sessions {
			fmt.Fprintf(out, "  %s  %-8s  %d/%d  best streak %d\n",
				s.FinishedAt.Format("2006-01-02 15:04"), s.Mode, s.Correct, s.Answered, s.BestStreak)
		}
	}
	return nil
}
