// Package clipboard copies answers and readings to the system clipboard.
package clipboard

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("no clipboard tool found")

// candidates lists clipboard commands per OS in order of preference.
var candidates = map[string][][]string{
	"darwin":  {{"pbcopy"}},
	"windows": {{"cmd", "/c", "clip"}},
	"linux": {
		{"wl-copy"},
		{"xclip", "-selection", "clipboard"},
		{"xsel", "--clipboard", "--input"},
	},
}

// command returns the first candidate for goos that lookPath finds.
func command(goos string, lookPath func(string) (string, error)) []string {
	list, ok := candidates[goos]
	if !ok {
		list = candidates["linux"]
	}
	for _, c := range list {
		if _, err := lookPath(c[0]); err == nil {
			return c
		}
	}
	return nil
}

// Write copies text to the system clipboard.
func Write(text string) error {
	argv := command(runtime.GOOS, exec.LookPath)
	if argv == nil {
		return ErrUnavailable
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// Available reports whether Write can work on this system.
func Available() bool {
	return command(runtime.GOOS, exec.LookPath) != nil
}
