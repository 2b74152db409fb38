package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/kana/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize kana configuration",
	Long: `Write a config.yaml with the default settings and create the decks
directory the TUI file picker opens in.

Edit config.yaml to change the quiz mode, the scripts and groups asked,
and the word sets loaded at start-up.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := state.cfgPath
	dir := filepath.Dir(path)

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config file: %w", err)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dir, "decks"), 0755); err != nil {
		return fmt.Errorf("creating decks directory: %w", err)
	}

	fmt.Fprintf(out, "Initialized kana configuration in %s\n\n", dir)
	fmt.Fprintln(out, "  Created config.yaml")
	fmt.Fprintln(out, "  Created decks/")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Put .apkg or .jsonl word sets in decks/")
	fmt.Fprintln(out, "  2. Run 'kana check すし sushi' to try the checker")
	fmt.Fprintln(out, "  3. Run 'kana' to start the quiz")
	return nil
}
