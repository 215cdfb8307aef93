// Package document assembles captured chart images into a paginated PDF.
//
// All geometry is in millimetres. Blocks are placed top to bottom; a block
// that does not fit below the cursor starts a new page, so no block is ever
// split across pages.
package document

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout is returned for a layout with no usable area.
var ErrInvalidLayout = errors.New("document: invalid layout")

// Paper sizes in millimetres.
const (
	A4Width      = 210.0
	A4Height     = 297.0
	LetterWidth  = 215.9
	LetterHeight = 279.4
)

// Layout describes the page geometry and the placement cursor.
type Layout struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64

	// CursorY is the top of the next block. It resets to Margin on every
	// new page.
	CursorY float64

	// BlockGap is the vertical space left after each block.
	BlockGap float64
}

// DefaultLayout returns an A4 portrait layout with 10 mm margins.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:  A4Width,
		PageHeight: A4Height,
		Margin:     10,
		CursorY:    10,
		BlockGap:   6,
	}
}

// Validate reports whether l leaves a positive content area.
func (l Layout) Validate() error {
	if l.PageWidth <= 0 || l.PageHeight <= 0 || l.Margin < 0 || l.BlockGap < 0 {
		return fmt.Errorf("%w: page %gx%g margin %g gap %g",
			ErrInvalidLayout, l.PageWidth, l.PageHeight, l.Margin, l.BlockGap)
	}
	if l.ContentWidth() <= 0 || l.Capacity() <= headerHeight {
		return fmt.Errorf("%w: margin %g leaves no content area", ErrInvalidLayout, l.Margin)
	}
	return nil
}

// ContentWidth is the width available to an image.
func (l Layout) ContentWidth() float64 {
	return l.PageWidth - 2*l.Margin
}

// Capacity is the tallest block a fresh page can hold inside both margins.
// Oversized blocks are scaled down to it.
func (l Layout) Capacity() float64 {
	return l.PageHeight - 2*l.Margin
}

// Fits reports whether a block of height h fits below the cursor.
func (l Layout) Fits(h float64) bool {
	return l.CursorY+h <= l.PageHeight
}

// breaks reports whether a block of height h must start a new page. A page
// with nothing on it never breaks.
func (l Layout) breaks(h float64) bool {
	return l.CursorY > l.Margin && !l.Fits(h)
}

// fit clamps h to the capacity of a fresh page.
func (l Layout) fit(h float64) (float64, bool) {
	if h > l.Capacity() {
		return l.Capacity(), true
	}
	return h, false
}

// Placement is where a block of a given height ends up.
type Placement struct {
	// Page is 1-based.
	Page   int
	Y      float64
	Height float64

	// Shrunk is set when the block was taller than a fresh page and was
	// scaled down to Capacity.
	Shrunk bool
}

// Plan places blocks of the given heights in order and returns one
// Placement per block. A new page starts exactly when the cursor plus the
// block height would pass the page height.
func Plan(heights []float64, layout Layout) []Placement {
	out := make([]Placement, 0, len(heights))
	page := 0
	for _, h := range heights {
		p := Placement{}
		p.Height, p.Shrunk = layout.fit(h)
		if page == 0 || layout.breaks(p.Height) {
			page++
			layout.CursorY = layout.Margin
		}
		p.Page, p.Y = page, layout.CursorY
		layout.CursorY += p.Height + layout.BlockGap
		out = append(out, p)
	}
	return out
}
