package ppu

import (
	"image"
	"image/color"
)

// Frame is one screen of ARGB pixels in row-major order.
type Frame [Width * Height]uint32

// At returns the ARGB value of a pixel.
func (f *Frame) At(x, y int) uint32 {
	return f[y*Width+x]
}

// RGBA converts the frame to an image.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for i, argb := range f {
		img.Pix[i*4+0] = uint8(argb >> 16)
		img.Pix[i*4+1] = uint8(argb >> 8)
		img.Pix[i*4+2] = uint8(argb)
		img.Pix[i*4+3] = uint8(argb >> 24)
	}
	return img
}

// Color returns the pixel as a color.RGBA.
func (f *Frame) Color(x, y int) color.RGBA {
	argb := f.At(x, y)
	return color.RGBA{R: uint8(argb >> 16), G: uint8(argb >> 8), B: uint8(argb), A: uint8(argb >> 24)}
}
