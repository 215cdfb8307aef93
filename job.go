package chartexport

import (
	"fmt"
	"io"
	"time"

	"github.com/gogpu/chartexport/surface"
)

// Mode selects the output of a job.
type Mode uint8

const (
	// ModeDocument produces one paginated PDF.
	ModeDocument Mode = iota
	// ModeSingleImage produces one PNG per chart.
	ModeSingleImage
)

func (m Mode) String() string {
	switch m {
	case ModeDocument:
		return "document"
	case ModeSingleImage:
		return "single-image"
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode parses "document" or "single-image".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "document", "":
		return ModeDocument, nil
	case "single-image":
		return ModeSingleImage, nil
	}
	return 0, fmt.Errorf("chartexport: unknown mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Chart is one chart of a job.
type Chart struct {
	Surface surface.ChartSurface
	Title   string
}

// Job is one export request. Charts are processed in order and appear in
// the output in the same order.
type Job struct {
	Charts []Chart
	Theme  surface.Theme
	Mode   Mode

	// Chrome lists global interactive elements hidden for the whole job.
	Chrome []surface.Chrome

	// Sink, if set, receives the document bytes in ModeDocument.
	Sink io.Writer
}

// Image is an enhanced chart in ModeSingleImage.
type Image struct {
	Index int
	Title string
	PNG   []byte
}

// Result is the outcome of a job.
type Result struct {
	JobID string
	Mode  Mode

	// ExportedAt is read from the clock once, when the job starts. Every
	// block timestamp and the PDF creation date use it, so it precedes the
	// time the document is finalized.
	ExportedAt time.Time

	// Document holds the PDF in ModeDocument. It is empty when no page was
	// produced.
	Document []byte
	Pages    int

	// Images holds one entry per successful chart in ModeSingleImage, in
	// input order.
	Images []Image

	// Skipped lists the charts that failed, in input order.
	Skipped []*ChartError
}
