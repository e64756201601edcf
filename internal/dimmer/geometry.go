package dimmer

// Rect is a window rectangle in screen pixels.
type Rect struct {
	X, Y          int
	Width, Height int
}

// SliderRect places a popup of the given size centered horizontally and
// bottomMargin pixels above the bottom edge of a screen.
func SliderRect(screenWidth, screenHeight, width, height, bottomMargin int) Rect {
	x := screenWidth/2 - width/2
	y := screenHeight - height - bottomMargin
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Rect{X: x, Y: y, Width: width, Height: height}
}
