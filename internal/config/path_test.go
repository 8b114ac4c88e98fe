package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DECKS", "/srv/decks")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"tilde alone", "~", home},
		{"tilde prefix", "~/decks.db", filepath.Join(home, "decks.db")},
		{"env var", "$DECKS/x.txt", "/srv/decks/x.txt"},
		{"plain", "/tmp/a", "/tmp/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDefaultsLiveUnderDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".local", "share", AppName, "decks.db"), DefaultDatabasePath())
	assert.Equal(t, filepath.Join(home, ".config", AppName), ConfigDir())
	assert.Contains(t, Values(), "resolver.threshold")
}
