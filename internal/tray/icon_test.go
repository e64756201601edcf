package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pixelAt(p Pixmap, x, y int) []byte {
	i := (y*int(p.Width) + x) * 4
	return p.Data[i : i+4]
}

func TestPixmaps_Sizes(t *testing.T) {
	pixmaps := Pixmaps()
	require.Len(t, pixmaps, 3)

	for i, size := range []int32{64, 32, 22} {
		assert.Equal(t, size, pixmaps[i].Width)
		assert.Equal(t, size, pixmaps[i].Height)
		assert.Len(t, pixmaps[i].Data, int(size*size*4))
	}
}

func TestPixmaps_Drawing(t *testing.T) {
	p := Pixmaps()[0]
	black := []byte{0xff, 0x00, 0x00, 0x00}
	white := []byte{0xff, 0xff, 0xff, 0xff}

	tests := []struct {
		name string
		x, y int
		want []byte
	}{
		{"origin", 0, 0, black},
		{"far corner", 63, 63, black},
		{"square top-left", 16, 16, white},
		{"square bottom-right", 48, 48, white},
		{"square center", 32, 32, white},
		{"left of square", 15, 32, black},
		{"below square", 32, 49, black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pixelAt(p, tt.x, tt.y))
		})
	}
}

func TestPixmaps_ScaledKeepsShape(t *testing.T) {
	p := Pixmaps()[1]
	assert.Equal(t, []byte{0xff, 0x00, 0x00, 0x00}, pixelAt(p, 0, 0))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, pixelAt(p, 16, 16))
}
