// Package pixel provides the RGBA pixel buffer passed between the capture,
// enhancement and document stages of an export.
//
// Buffer stores straight (non-premultiplied) RGBA bytes, 4 bytes per pixel,
// row-major with no padding. Every stage that produces a buffer allocates a
// fresh one; len(Data()) == Width()*Height()*4 holds for every buffer
// returned by this package.
package pixel

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("pixel: invalid dimensions")

	// ErrDataSize is returned when the data length does not equal width*height*4.
	ErrDataSize = errors.New("pixel: data length does not match dimensions")
)

// Buffer is a rectangular straight-alpha RGBA pixel buffer.
//
// Thread safety: Buffer is safe for concurrent reads. Writers must not share
// a buffer; disjoint rows may be written from different goroutines.
type Buffer struct {
	width  int
	height int
	data   []uint8
}

// New creates a zeroed (fully transparent) buffer.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Buffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}, nil
}

// FromData wraps data without copying. The caller must not modify data
// afterwards.
func FromData(width, height int, data []uint8) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(data) != width*height*4 {
		return nil, ErrDataSize
	}
	return &Buffer{width: width, height: height, data: data}, nil
}

// FromImage copies img into a new buffer.
func FromImage(img image.Image) (*Buffer, error) {
	b := img.Bounds()
	buf, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	dst := buf.NRGBA()
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return buf, nil
}

// Width returns the width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Data returns the raw RGBA bytes.
func (b *Buffer) Data() []uint8 {
	return b.data
}

// Validate reports whether the buffer still satisfies its shape invariant.
func (b *Buffer) Validate() error {
	if b == nil || b.width <= 0 || b.height <= 0 {
		return ErrInvalidDimensions
	}
	if len(b.data) != b.width*b.height*4 {
		return ErrDataSize
	}
	return nil
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	data := make([]uint8, len(b.data))
	copy(data, b.data)
	return &Buffer{width: b.width, height: b.height, data: data}
}

// SameShape reports whether o has the same dimensions as b.
func (b *Buffer) SameShape(o *Buffer) bool {
	return o != nil && b.width == o.width && b.height == o.height
}

// Offset returns the index of the first byte of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.width + x) * 4
}

// SetPixel sets a single pixel. Out-of-bounds coordinates are ignored.
func (b *Buffer) SetPixel(x, y int, c color.NRGBA) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := b.Offset(x, y)
	b.data[i+0] = c.R
	b.data[i+1] = c.G
	b.data[i+2] = c.B
	b.data[i+3] = c.A
}

// Pixel returns a single pixel, or transparent black when out of bounds.
func (b *Buffer) Pixel(x, y int) color.NRGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.NRGBA{}
	}
	i := b.Offset(x, y)
	return color.NRGBA{R: b.data[i+0], G: b.data[i+1], B: b.data[i+2], A: b.data[i+3]}
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.NRGBA) {
	for i := 0; i < len(b.data); i += 4 {
		b.data[i+0] = c.R
		b.data[i+1] = c.G
		b.data[i+2] = c.B
		b.data[i+3] = c.A
	}
}

// NRGBA returns an *image.NRGBA sharing the buffer's memory.
// Drawing into the returned image modifies the buffer.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.data,
		Stride: b.width * 4,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// At implements the image.Image interface.
func (b *Buffer) At(x, y int) color.Color {
	return b.Pixel(x, y)
}

// Bounds implements the image.Image interface.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}
