package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/f3rmion/kana/internal/config"
	"github.com/f3rmion/kana/internal/romaji"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cli runs commands against a private config directory.
type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	return &cli{t: t, dir: t.TempDir()}
}

func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(c.dir, "config.yaml"),
		"--store", filepath.Join(c.dir, "kana.db"),
		"--log-level", "error",
	}, args...))

	err := Execute()
	return out.String(), err
}

func (c *cli) writeWords(name, body string) string {
	c.t.Helper()
	path := filepath.Join(c.dir, name)
	require.NoError(c.t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestRomaji(t *testing.T) {
	out, err := newCLI(t).run("", "romaji", "--units", "きって", "ラーメン")
	require.NoError(t, err)

	assert.Contains(t, out, "きって\tkitte\n")
	assert.Contains(t, out, "き=ki って=tte")
	assert.Contains(t, out, "ラーメン\t")
}

func TestTokenize(t *testing.T) {
	out, err := newCLI(t).run("", "tokenize", "しゃしん")
	require.NoError(t, err)
	assert.Equal(t, "しゃ し ん\n", out)
}

func TestCheck(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "check", "--no-color", "すし", "susi")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ correct")

	out, err = c.run("", "check", "--no-color", "きって", "kite")
	assert.ErrorIs(t, err, ErrIncorrect)
	assert.Contains(t, out, "✗ kitte")
	assert.Contains(t, out, "units correct")
}

func TestCheck_SpokenParticle(t *testing.T) {
	out, err := newCLI(t).run("", "check", "--no-color", "こんにちは", "konnichiwa")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ correct")
	assert.Contains(t, out, "5/5 units correct")
}

func TestCheck_NApostrophe(t *testing.T) {
	c := newCLI(t)
	for _, tc := range []struct{ kana, answer string }{
		{"せんえん", "sen'en"},
		{"ほんや", "hon'ya"},
	} {
		out, err := c.run("", "check", "--no-color", tc.kana, tc.answer)
		require.NoError(t, err, tc.answer)
		assert.Contains(t, out, "✓ correct", tc.answer)
	}
}

func TestCheck_JSON(t *testing.T) {
	out, err := newCLI(t).run("", "check", "--json", "し", "shi")
	require.NoError(t, err)

	var got checkOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Correct)
	assert.Equal(t, "shi", got.Expected)
	assert.True(t, got.Result.IsFullyCorrect)
	require.Len(t, got.Result.Characters, 1)
	assert.Contains(t, got.Result.Characters[0].ValidRomaji, "si")
}

func TestDictionaryUnavailable(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "--dictionary", filepath.Join(c.dir, "missing.json"), "romaji", "す")
	assert.ErrorIs(t, err, romaji.ErrDataUnavailable)
}

func TestQuizAndReview(t *testing.T) {
	c := newCLI(t)
	path := c.writeWords("sushi.jsonl", `{"kana":"すし","meaning":"sushi"}`+"\n")

	out, err := c.run("susi\n\nsushu\n",
		"quiz", "--words", path, "--mode", "session", "--length", "2", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "[1/2] すし (sushi)")
	assert.Contains(t, out, "✓ sushi")
	assert.Contains(t, out, "✗ sushi")
	assert.Contains(t, out, "Answered 2, correct 1 (50%), best streak 1")
	assert.Contains(t, out, "To review: し×1")

	out, err = c.run("", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "し\tshi")
	assert.Contains(t, out, "1/2")

	out, err = c.run("shi\n", "quiz", "--review", "--mode", "session", "--length", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Quiz: review")
	assert.Contains(t, out, "✓ shi")

	out, err = c.run("", "review", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Mistakes cleared.")

	out, err = c.run("", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "No mistakes recorded yet.")

	_, err = c.run("", "quiz", "--review")
	assert.ErrorContains(t, err, "nothing to review")
}

func TestQuiz_StopsOnQuit(t *testing.T) {
	c := newCLI(t)
	path := c.writeWords("cat.jsonl", `{"kana":"ねこ","meaning":"cat"}`+"\n")

	out, err := c.run("neko\n:q\n", "quiz", "--words", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[2] ねこ")
	assert.Contains(t, out, "Answered 1, correct 1 (100%)")
}

func TestQuiz_NoMatchingWords(t *testing.T) {
	c := newCLI(t)
	path := c.writeWords("cat.jsonl", `{"kana":"ねこ"}`+"\n")

	cfg := config.Default()
	cfg.Quiz.Groups = []string{"digraphs"}
	require.NoError(t, config.Save(filepath.Join(c.dir, "config.yaml"), cfg))

	_, err := c.run("", "quiz", "--words", path)
	assert.ErrorContains(t, err, "no words match")
}

func TestInit(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created config.yaml")
	assert.DirExists(t, filepath.Join(c.dir, "decks"))

	cfg, err := config.Load(filepath.Join(c.dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = c.run("", "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = c.run("", "init", "--force")
	assert.NoError(t, err)
}

func TestInvalidOverride(t *testing.T) {
	_, err := newCLI(t).run("", "quiz", "--mode", "forever")
	assert.ErrorContains(t, err, "quiz.mode")
}

func TestSetup_LogDestination(t *testing.T) {
	resetFlags(rootCmd)
	t.Cleanup(func() {
		cfgFile = ""
		teardown()
	})

	tuiDir := t.TempDir()
	cfgFile = filepath.Join(tuiDir, "config.yaml")
	require.NoError(t, setup(rootCmd, nil))
	assert.FileExists(t, filepath.Join(tuiDir, "kana.log"), "the TUI keeps logs off the terminal")

	cliDir := t.TempDir()
	cfgFile = filepath.Join(cliDir, "config.yaml")
	require.NoError(t, setup(checkCmd, nil))
	assert.NoFileExists(t, filepath.Join(cliDir, "kana.log"))
}
