package webvfx

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Image is a rectangular RGBA pixel buffer, 4 bytes per pixel.
//
// It is the frame format exchanged between the embedding application and
// content backends: the application supplies an Image to Effects.Render
// and the selected backend paints into it on the owner thread.
type Image struct {
	width  int
	height int
	data   []uint8
}

// NewImage creates an image with the given dimensions. Dimensions are
// clamped to a minimum of 1x1.
func NewImage(width, height int) *Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Image{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the image.
func (im *Image) Width() int {
	return im.width
}

// Height returns the height of the image.
func (im *Image) Height() int {
	return im.height
}

// Stride returns the number of bytes per row.
func (im *Image) Stride() int {
	return im.width * 4
}

// Data returns the raw pixel data (RGBA format).
func (im *Image) Data() []uint8 {
	return im.data
}

// RGBA returns an *image.RGBA sharing this image's pixel memory.
// Drawing into the returned value draws into the Image.
func (im *Image) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    im.data,
		Stride: im.Stride(),
		Rect:   image.Rect(0, 0, im.width, im.height),
	}
}

// Fill sets every pixel to c.
func (im *Image) Fill(c color.RGBA) {
	for i := 0; i < len(im.data); i += 4 {
		im.data[i+0] = c.R
		im.data[i+1] = c.G
		im.data[i+2] = c.B
		im.data[i+3] = c.A
	}
}

// At returns the color of a single pixel. Out-of-bounds coordinates
// return transparent black.
func (im *Image) At(x, y int) color.RGBA {
	if x < 0 || x >= im.width || y < 0 || y >= im.height {
		return color.RGBA{}
	}
	i := (y*im.width + x) * 4
	return color.RGBA{
		R: im.data[i+0],
		G: im.data[i+1],
		B: im.data[i+2],
		A: im.data[i+3],
	}
}

// SavePNG writes the image to a PNG file.
func (im *Image) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, im.RGBA()); err != nil {
		return err
	}
	return f.Close()
}
