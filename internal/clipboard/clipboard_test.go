package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func installed(names ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range names {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name  string
		goos  string
		tools []string
		want  []string
	}{
		{"mac", "darwin", []string{"pbcopy"}, []string{"pbcopy"}},
		{"wayland_first", "linux", []string{"xclip", "wl-copy"}, []string{"wl-copy"}},
		{"xclip", "linux", []string{"xclip", "xsel"}, []string{"xclip", "-selection", "clipboard"}},
		{"xsel", "linux", []string{"xsel"}, []string{"xsel", "--clipboard", "--input"}},
		{"none", "linux", nil, nil},
		{"bsd_uses_x11_tools", "freebsd", []string{"xsel"}, []string{"xsel", "--clipboard", "--input"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, command(tt.goos, installed(tt.tools...)))
		})
	}
}
