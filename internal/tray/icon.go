package tray

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

const (
	iconSize = 64
	// The white square spans pixels squareMin..squareMax inclusive.
	squareMin = 16
	squareMax = 48
)

// Pixmap is one entry of the StatusNotifierItem IconPixmap property:
// ARGB32 pixels in network byte order. D-Bus signature (iiay).
type Pixmap struct {
	Width  int32
	Height int32
	Data   []byte
}

// iconSizes are the pixmap sizes advertised, largest first.
var iconSizes = []int{iconSize, 32, 22}

// DrawIcon renders the tray icon: a white square on black.
func DrawIcon() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	square := image.Rect(squareMin, squareMin, squareMax+1, squareMax+1)
	draw.Draw(img, square, image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

// Pixmaps returns the icon at every advertised size.
func Pixmaps() []Pixmap {
	src := DrawIcon()
	pixmaps := make([]Pixmap, 0, len(iconSizes))
	for _, size := range iconSizes {
		img := src
		if size != iconSize {
			img = image.NewRGBA(image.Rect(0, 0, size, size))
			draw.ApproxBiLinear.Scale(img, img.Bounds(), src, src.Bounds(), draw.Src, nil)
		}
		pixmaps = append(pixmaps, toPixmap(img))
	}
	return pixmaps
}

func toPixmap(img *image.RGBA) Pixmap {
	b := img.Bounds()
	data := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			data = append(data, c.A, c.R, c.G, c.B)
		}
	}
	return Pixmap{Width: int32(b.Dx()), Height: int32(b.Dy()), Data: data}
}
