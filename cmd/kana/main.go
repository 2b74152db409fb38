// Package main is the entry point for the kana CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/f3rmion/kana/cmd/kana/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrIncorrect) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
