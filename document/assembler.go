package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/chartexport/internal/logging"
	"github.com/gogpu/chartexport/pixel"
)

// TimestampLayout is the time format printed under each title.
const TimestampLayout = "2006-01-02 15:04:05 MST"

// DefaultMaxDPI is the resolution above which images are downsampled.
const DefaultMaxDPI = 300

// Text metrics of a block header, in millimetres.
const (
	titleSize     = 14
	titleLine     = 7
	timestampSize = 9
	timestampLine = 5
	headerGap     = 2
	headerHeight  = titleLine + timestampLine + headerGap
	stampSize     = timestampSize
)

const mmPerInch = 25.4

// ErrFinished is returned when blocks are added after Finish.
var ErrFinished = errors.New("document: already finished")

// Options configures an Assembler.
type Options struct {
	// MaxDPI caps the embedded image resolution. Zero means DefaultMaxDPI.
	MaxDPI float64

	// Locale selects the language of the page stamps.
	Locale language.Tag

	// Title and Created are written to the document metadata.
	Title   string
	Created time.Time
}

// Block describes a placed image block.
type Block struct {
	Page      int
	Title     string
	Timestamp string
	Y         float64
	Height    float64
	Shrunk    bool
}

// Assembler places image blocks on PDF pages.
//
// Assembler is not safe for concurrent use.
type Assembler struct {
	pdf       *fpdf.Fpdf
	layout    Layout
	opts      Options
	translate func(string) string
	blocks    []Block
	images    int
	finished  bool

	png func(*pixel.Buffer) ([]byte, error)
}

// New creates an assembler with no pages.
func New(layout Layout, opts Options) (*Assembler, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxDPI <= 0 {
		opts.MaxDPI = DefaultMaxDPI
	}
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetMargins(layout.Margin, layout.Margin, layout.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("chartexport", false)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if !opts.Created.IsZero() {
		pdf.SetCreationDate(opts.Created)
		pdf.SetModificationDate(opts.Created)
	}

	layout.CursorY = layout.Margin
	return &Assembler{
		pdf:       pdf,
		layout:    layout,
		opts:      opts,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		png:       (*pixel.Buffer).PNG,
	}, nil
}

// Layout returns the current layout, including the cursor.
func (a *Assembler) Layout() Layout {
	return a.layout
}

// Pages returns the number of pages started so far.
func (a *Assembler) Pages() int {
	return a.pdf.PageCount()
}

// Blocks returns the blocks placed so far.
func (a *Assembler) Blocks() []Block {
	return append([]Block(nil), a.blocks...)
}

// BeginPage starts a new page and resets the cursor to the top margin.
func (a *Assembler) BeginPage() error {
	if a.finished {
		return ErrFinished
	}
	a.pdf.AddPage()
	a.layout.CursorY = a.layout.Margin
	return a.pdf.Error()
}

// BlockHeight returns the height a block for an image of w x h pixels
// takes before any shrinking.
func (a *Assembler) BlockHeight(w, h int) float64 {
	return headerHeight + a.layout.ContentWidth()*float64(h)/float64(w)
}

// AddImageBlock places a title line, a timestamp line and buf scaled to the
// content width. The block moves to a new page if it does not fit below
// the cursor; a block taller than a whole page is scaled down to fit.
func (a *Assembler) AddImageBlock(buf *pixel.Buffer, title string, ts time.Time) error {
	if a.finished {
		return ErrFinished
	}
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("document: image %q: %w", title, err)
	}

	height := a.BlockHeight(buf.Width(), buf.Height())
	placed, shrunk := a.layout.fit(height)
	imgW := a.layout.ContentWidth()
	imgH := placed - headerHeight
	if shrunk {
		imgW = imgW * imgH / (height - headerHeight)
	}
	title = norm.NFKC.String(title)
	pdf := a.pdf

	// The image is encoded and registered before anything is drawn, so a
	// failure leaves neither a new page nor an orphan header behind.
	data, err := a.encode(buf, imgW)
	if err != nil {
		return fmt.Errorf("document: image %q: %w", title, err)
	}
	a.images++
	name := fmt.Sprintf("chart-%d", a.images)
	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(data))
	if err := pdf.Error(); err != nil {
		pdf.ClearError()
		return fmt.Errorf("document: image %q: %w", title, err)
	}

	if a.Pages() == 0 || a.layout.breaks(placed) {
		if err := a.BeginPage(); err != nil {
			return err
		}
	}
	stamp := ts.Format(TimestampLayout)
	y := a.layout.CursorY

	pdf.SetXY(a.layout.Margin, y)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(a.layout.ContentWidth(), titleLine, a.translate(title), "", 1, "L", false, 0, "")
	pdf.SetX(a.layout.Margin)
	pdf.SetFont("Helvetica", "", timestampSize)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(a.layout.ContentWidth(), timestampLine, stamp, "", 1, "L", false, 0, "")

	x := (a.layout.PageWidth - imgW) / 2
	pdf.ImageOptions(name, x, y+headerHeight, imgW, imgH, false, opt, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("document: image %q: %w", title, err)
	}

	a.blocks = append(a.blocks, Block{
		Page:      a.Pages(),
		Title:     title,
		Timestamp: stamp,
		Y:         y,
		Height:    placed,
		Shrunk:    shrunk,
	})
	a.layout.CursorY = y + placed + a.layout.BlockGap

	logging.Logger().Debug("document: block placed",
		"title", title,
		"page", a.Pages(),
		"y", y,
		"height", placed,
		"shrunk", shrunk)
	return nil
}

// encode returns buf as PNG, downsampled first when it would exceed the DPI
// cap at a printed width of widthMM.
func (a *Assembler) encode(buf *pixel.Buffer, widthMM float64) ([]byte, error) {
	maxPx := int(math.Round(widthMM / mmPerInch * a.opts.MaxDPI))
	if maxPx <= 0 || buf.Width() <= maxPx {
		return a.png(buf)
	}
	h := max(1, int(math.Round(float64(buf.Height())*float64(maxPx)/float64(buf.Width()))))
	resized, err := pixel.FromImage(transform.Resize(buf.NRGBA(), maxPx, h, transform.Linear))
	if err != nil {
		return nil, err
	}
	return a.png(resized)
}

// Finish stamps "Page i of N" on every page and writes the PDF to w. It
// returns the number of pages. A document with no blocks writes nothing.
func (a *Assembler) Finish(w io.Writer) (int, error) {
	if a.finished {
		return 0, ErrFinished
	}
	a.finished = true

	n := a.Pages()
	if n == 0 {
		return 0, nil
	}

	pdf := a.pdf
	pdf.SetFont("Helvetica", "", stampSize)
	pdf.SetTextColor(90, 90, 90)
	stampY := a.layout.PageHeight - a.layout.Margin/2 - timestampLine/2
	for i := 1; i <= n; i++ {
		pdf.SetPage(i)
		pdf.SetXY(0, stampY)
		pdf.CellFormat(a.layout.PageWidth, timestampLine,
			a.translate(PageStamp(a.opts.Locale, i, n)), "", 0, "C", false, 0, "")
	}
	pdf.SetPage(n)

	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("document: write: %w", err)
	}
	logging.Logger().Info("document: finished", "pages", n, "blocks", len(a.blocks))
	return n, nil
}
