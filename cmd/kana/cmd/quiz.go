package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/f3rmion/kana/internal/config"
	"github.com/f3rmion/kana/internal/kana"
	"github.com/f3rmion/kana/internal/session"
	"github.com/f3rmion/kana/internal/store"
	"github.com/f3rmion/kana/internal/tui/components"
	"github.com/f3rmion/kana/internal/words"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Run a quiz in the terminal without the TUI",
	Long: `Ask kana words one per line and grade the typed romaji.

Type :q or send EOF to stop. In session mode the quiz ends after
--length answers. The score and the missed units are saved to the
history database.

Examples:
  kana quiz
  kana quiz --words days,months --mode session --length 10
  kana quiz --review`,
	Args: cobra.NoArgs,
	RunE: runQuiz,
}

const reviewLimit = 20

var (
	quizReview bool
	quizSeed   int64
)

func init() {
	rootCmd.AddCommand(quizCmd)

	quizCmd.Flags().String("mode", "", "quiz mode: infinite or session")
	quizCmd.Flags().Int("length", 0, "answers per session in session mode")
	quizCmd.Flags().BoolVar(&quizReview, "review", false, "drill the units you miss most often")
	quizCmd.Flags().Int64Var(&quizSeed, "seed", 0, "shuffle seed (0 means random)")

	viper.BindPFlag("quiz.mode", quizCmd.Flags().Lookup("mode"))
	viper.BindPFlag("quiz.session_length", quizCmd.Flags().Lookup("length"))
}

func runQuiz(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	set, err := quizWords(ctx)
	if err != nil {
		return err
	}
	if set.Len() == 0 {
		return fmt.Errorf("no words match the configured scripts and groups in %s", set.Name)
	}

	mode := session.Infinite
	if state.cfg.Quiz.Mode == config.ModeSession {
		mode = session.Fixed
	}
	var opts []session.Option
	if quizSeed != 0 {
		opts = append(opts, session.WithRand(rand.New(rand.NewSource(quizSeed))))
	}
	sess := session.New(mode, state.cfg.Quiz.SessionLength, set.Words(), opts...)

	fmt.Fprintf(out, "Quiz: %s (%d words). Type :q to quit.\n", set.Name, set.Len())
	if err := askAll(ctx, sess, cmd.InOrStdin(), out); err != nil {
		return err
	}

	printResults(out, sess)
	saveResults(ctx, sess)
	return nil
}

// quizWords returns the review drill or the configured word sets,
// filtered by the quiz settings.
func quizWords(ctx context.Context) (*words.Set, error) {
	if quizReview {
		st, err := openStore()
		if err != nil {
			return nil, err
		}
		counts, err := st.ReviewUnits(ctx, reviewLimit)
		if err != nil {
			return nil, err
		}
		if len(counts) == 0 {
			return nil, errors.New("nothing to review yet")
		}
		table, err := state.checker.Loader().Table(ctx)
		if err != nil {
			return nil, err
		}
		units := make([]kana.Unit, len(counts))
		for i, c := range counts {
			units[i] = c.Unit
		}
		return words.ReviewDrills(table, units), nil
	}

	set, err := newLibrary().OpenAll(ctx, state.cfg.Data.Words)
	if err != nil {
		return nil, err
	}
	return set.Filter(words.FilterOptions{
		Scripts: state.cfg.Quiz.Scripts,
		Groups:  state.cfg.Quiz.Groups,
	}), nil
}

// askAll runs the question loop until the session ends, the input is
// exhausted or the learner types :q.
func askAll(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	styles := components.DefaultDiffStyles()

	for n := 1; ; n++ {
		word, ok := sess.Next()
		if !ok {
			return nil
		}

		prompt := word.Kana
		if word.Meaning != "" {
			prompt += " (" + word.Meaning + ")"
		}
		if sess.Mode == session.Fixed {
			fmt.Fprintf(out, "\n[%d/%d] %s\n", n, sess.Length, prompt)
		} else {
			fmt.Fprintf(out, "\n[%d] %s\n", n, prompt)
		}

		var answer string
		for answer == "" {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			answer = strings.TrimSpace(scanner.Text())
		}
		if answer == ":q" {
			return nil
		}

		correct, res, err := state.checker.Grade(ctx, answer, word)
		if err != nil {
			return err
		}
		sess.Record(correct, res)

		if correct {
			fmt.Fprintf(out, "✓ %s\n", word.Romaji)
			continue
		}
		fmt.Fprintf(out, "✗ %s\n", word.Romaji)
		fmt.Fprintln(out, components.RenderDiff(res, styles, true))
	}
}

func printResults(out io.Writer, sess *session.Session) {
	fmt.Fprintf(out, "\nAnswered %d, correct %d (%.0f%%), best streak %d\n",
		sess.Answered, sess.Correct, sess.Accuracy()*100, sess.BestStreak)

	tally := sess.Tally()
	if len(tally) == 0 {
		return
	}
	parts := make([]string, len(tally))
	for i, uc := range tally {
		parts[i] = fmt.Sprintf("%s×%d", uc.Unit, uc.Count)
	}
	fmt.Fprintf(out, "To review: %s\n", strings.Join(parts, " "))
}

// saveResults records the session and its mistakes. Failures are logged;
// the quiz itself already succeeded.
func saveResults(ctx context.Context, sess *session.Session) {
	if sess.Answered == 0 {
		return
	}
	st, err := openStore()
	if err != nil {
		state.log.Warn("history not saved", zap.Error(err))
		return
	}

	id, err := st.RecordSession(ctx, store.SessionSummary{
		Mode:       string(sess.Mode),
		StartedAt:  sess.StartedAt,
		Answered:   sess.Answered,
		Correct:    sess.Correct,
		BestStreak: sess.BestStreak,
	})
	if err != nil {
		state.log.Warn("recording session", zap.Error(err))
		return
	}
	if err := st.AddMistakes(ctx, sess.Mistakes()); err != nil {
		state.log.Warn("recording mistakes", zap.Error(err))
		return
	}
	state.log.Debug("session saved", zap.String("id", id))
}
