package chartexport

import (
	"errors"
	"fmt"

	"github.com/gogpu/chartexport/capture"
	"github.com/gogpu/chartexport/surface"
)

// Job-level errors.
var (
	// ErrAllChartsFailed is returned when every chart of a job was skipped.
	// No document is produced.
	ErrAllChartsFailed = errors.New("chartexport: all charts failed")

	// ErrCancelled is returned when the job's context is cancelled. It also
	// wraps the context error.
	ErrCancelled = errors.New("chartexport: export cancelled")

	// ErrBusy is returned when Run is called while another job is running on
	// the same Exporter.
	ErrBusy = errors.New("chartexport: exporter busy")

	// ErrEmptyJob is returned for a job without charts.
	ErrEmptyJob = errors.New("chartexport: job has no charts")

	// ErrInvalidTransition reports an illegal state machine transition.
	ErrInvalidTransition = errors.New("chartexport: invalid state transition")
)

// Per-chart error kinds. A chart failing with one of these is skipped.
var (
	ErrSurfaceUnavailable = surface.ErrUnavailable
	ErrCaptureTimeout     = capture.ErrTimeout
	ErrCaptureFailed      = capture.ErrFailed
)

// ChartError describes why a chart was skipped.
type ChartError struct {
	// Index is the position of the chart in the job.
	Index int
	Title string

	// Stage is the state the chart was in when it failed.
	Stage State
	Err   error
}

func (e *ChartError) Error() string {
	return fmt.Sprintf("chartexport: chart %d (%q) failed while %s: %v", e.Index, e.Title, e.Stage, e.Err)
}

func (e *ChartError) Unwrap() error {
	return e.Err
}
