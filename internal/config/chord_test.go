package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChord(t *testing.T) {
	tests := []struct {
		in   string
		want Chord
	}{
		{"alt+q", Chord{Modifiers: []Modifier{ModAlt}, Key: "q"}},
		{"Alt+W", Chord{Modifiers: []Modifier{ModAlt}, Key: "w"}},
		{" shift + ctrl + f12 ", Chord{Modifiers: []Modifier{ModCtrl, ModShift}, Key: "f12"}},
		{"super+alt+alt+down", Chord{Modifiers: []Modifier{ModAlt, ModSuper}, Key: "down"}},
		{"control+mod4+5", Chord{Modifiers: []Modifier{ModCtrl, ModSuper}, Key: "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChord(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChord_Errors(t *testing.T) {
	for _, in := range []string{"", "q", "alt+", "alt+qq", "hyper+q", "alt+f21", "alt+f0", "ctrl+f01"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseChord(in)
			require.Error(t, err)
			var ce *ChordError
			assert.True(t, errors.As(err, &ce))
		})
	}
}

func TestChordString(t *testing.T) {
	c, err := ParseChord("shift+ALT+ctrl+Space")
	require.NoError(t, err)
	assert.Equal(t, "ctrl+shift+alt+space", c.String())
}
