package dimmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliderRect(t *testing.T) {
	r := SliderRect(1920, 1080, 300, 60, 100)
	assert.Equal(t, Rect{X: 810, Y: 920, Width: 300, Height: 60}, r)
}

func TestSliderRect_SmallScreen(t *testing.T) {
	r := SliderRect(200, 100, 300, 60, 100)
	assert.Equal(t, 0, r.X)
	assert.Equal(t, 0, r.Y)
}
