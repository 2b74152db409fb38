// Package cmd contains all CLI commands for kana.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/kana/internal/config"
	"github.com/f3rmion/kana/internal/library"
	"github.com/f3rmion/kana/internal/logger"
	"github.com/f3rmion/kana/internal/romaji"
	"github.com/f3rmion/kana/internal/store"
	"github.com/f3rmion/kana/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ErrIncorrect is returned by commands that grade an answer when the
// answer was wrong. main exits non-zero without printing it.
var ErrIncorrect = errors.New("answer incorrect")

var cfgFile string

// state is what setup builds for the command being run.
var state struct {
	cfg     *config.Config
	cfgPath string
	checker *romaji.Checker
	log     *zap.Logger
	store   *store.Store
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kana",
	Short: "Practice reading hiragana and katakana",
	Long: `kana quizzes you on reading Japanese kana and checks your romaji
answers unit by unit.

Answers are forgiving about spelling: shi/si, tsu/tu, ji/zi and the
other common romanizations are all accepted, and a wrong answer shows
exactly which kana you missed.

Running 'kana' without arguments launches the interactive TUI.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer teardown()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/kana/config.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("dictionary", "", "kana dictionary file, JSON or YAML (default is the built-in table)")
	flags.String("store", "", "history database (default is kana.db in the config directory)")
	flags.StringSlice("words", nil, "word sets: built-in names, .jsonl files or .apkg decks")

	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("data.dictionary", flags.Lookup("dictionary"))
	viper.BindPFlag("data.store", flags.Lookup("store"))
	viper.BindPFlag("data.words", flags.Lookup("words"))
}

// initConfig lets KANA_* environment variables override config keys,
// e.g. KANA_DATA_STORE for data.store.
func initConfig() {
	viper.SetEnvPrefix("KANA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// setup loads the config, starts the logger and builds the checker.
func setup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return fmt.Errorf("finding config: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	// Only the bare root command runs the TUI.
	if err := initLogger(cfg, filepath.Dir(path), !cmd.HasParent()); err != nil {
		return err
	}
	log := logger.L()

	var source romaji.Source
	if cfg.Data.Dictionary != "" {
		source = romaji.FileSource(cfg.Data.Dictionary)
	}

	state.cfg = cfg
	state.cfgPath = path
	state.log = log
	state.checker = romaji.NewChecker(romaji.NewLoader(source, romaji.WithLogger(log.Named("romaji"))))
	state.store = nil

	log.Debug("starting", zap.String("command", cmd.CommandPath()), zap.String("config", path))
	return nil
}

// applyOverrides copies flag and environment values onto cfg.
func applyOverrides(cfg *config.Config) {
	if viper.IsSet("log.level") {
		cfg.Log.Level = viper.GetString("log.level")
	}
	if viper.IsSet("data.dictionary") {
		cfg.Data.Dictionary = viper.GetString("data.dictionary")
	}
	if viper.IsSet("data.store") {
		cfg.Data.Store = viper.GetString("data.store")
	}
	if viper.IsSet("data.words") {
		cfg.Data.Words = viper.GetStringSlice("data.words")
	}
	if viper.IsSet("quiz.mode") {
		cfg.Quiz.Mode = viper.GetString("quiz.mode")
	}
	if viper.IsSet("quiz.session_length") {
		cfg.Quiz.SessionLength = viper.GetInt("quiz.session_length")
	}
}

// initLogger sends logs to stderr, or to a file when the TUI owns the
// terminal.
func initLogger(cfg *config.Config, configDir string, tuiMode bool) error {
	out := cfg.Log.File
	if out == "" && tuiMode {
		out = filepath.Join(configDir, "kana.log")
	}
	if out == "" {
		out = "stderr"
	}
	if out != "stderr" && out != "stdout" {
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return fmt.Errorf("creating log dir: %w", err)
		}
	}

	format := cfg.Log.Format
	if tuiMode {
		format = "json"
	}
	if err := logger.Init(cfg.Log.Level, format, out); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	return nil
}

// openStore opens the history database on first use.
func openStore() (*store.Store, error) {
	if state.store != nil {
		return state.store, nil
	}
	path, err := state.cfg.StorePath()
	if err != nil {
		return nil, fmt.Errorf("finding store: %w", err)
	}
	st, err := store.Open(path, state.log.Named("store"))
	if err != nil {
		return nil, err
	}
	state.store = st
	return st, nil
}

func newLibrary() *library.Library {
	st, err := openStore()
	if err != nil {
		state.log.Warn("word set cache disabled", zap.Error(err))
		st = nil
	}
	return library.New(state.checker, st, state.log.Named("library"))
}

// teardown runs after every command, including failed ones.
func teardown() {
	if state.store != nil {
		if err := state.store.Close(); err != nil {
			state.log.Warn("closing store", zap.Error(err))
		}
		state.store = nil
	}
	logger.Sync()
}

// runTUI launches the interactive application.
func runTUI(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		state.log.Warn("history disabled", zap.Error(err))
		st = nil
	}

	return tui.Run(tui.Options{
		Checker:    state.checker,
		Config:     state.cfg,
		ConfigPath: state.cfgPath,
		Store:      st,
		DeckDir:    filepath.Join(filepath.Dir(state.cfgPath), "decks"),
		Logger:     state.log.Named("tui"),
	})
}
