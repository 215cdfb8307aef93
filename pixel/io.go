package pixel

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
)

// ErrEmptyData is returned when decoding zero bytes.
var ErrEmptyData = errors.New("pixel: empty data")

// EncodePNG writes the buffer as a PNG stream.
func (b *Buffer) EncodePNG(w io.Writer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, b.NRGBA()); err != nil {
		return fmt.Errorf("pixel: encode png: %w", err)
	}
	return nil
}

// PNG returns the buffer encoded as PNG bytes.
func (b *Buffer) PNG() ([]byte, error) {
	var out bytes.Buffer
	if err := b.EncodePNG(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecodePNG reads a PNG stream into a new buffer.
func DecodePNG(data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("pixel: decode png: %w", err)
	}
	return FromImage(img)
}
