package chartexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/chartexport/capture"
	"github.com/gogpu/chartexport/document"
	"github.com/gogpu/chartexport/enhance"
	"github.com/gogpu/chartexport/internal/logging"
	"github.com/gogpu/chartexport/internal/parallel"
	"github.com/gogpu/chartexport/pixel"
	"github.com/gogpu/chartexport/style"
)

// Exporter runs export jobs, one at a time.
//
// Thread safety: Run may be called from any goroutine; a second concurrent
// call returns ErrBusy.
type Exporter struct {
	opts     options
	styles   *style.Manager
	capturer *capture.Capturer
	machine  machine
	running  atomic.Bool
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Exporter{
		opts:     o,
		styles:   style.NewManager(o.policy),
		capturer: capture.New(o.capture),
		machine:  machine{observer: o.observer},
	}
}

// State returns the current state of the exporter.
func (e *Exporter) State() State {
	return e.machine.current()
}

// Run executes job. Charts that fail are skipped and listed in
// Result.Skipped. Run returns ErrAllChartsFailed, together with a Result
// describing the skipped charts, when no chart succeeded, and ErrCancelled
// when ctx is cancelled. Every chart style and all global chrome are
// restored before Run returns.
func (e *Exporter) Run(ctx context.Context, job Job) (*Result, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.running.Store(false)

	if len(job.Charts) == 0 {
		return nil, ErrEmptyJob
	}

	pool := parallel.NewWorkerPool(e.opts.workers)
	defer pool.Close()

	id := uuid.NewString()
	r := &run{
		Exporter: e,
		job:      job,
		pipeline: enhance.NewPipeline(pool),
		snaps:    make([]*style.Snapshot, len(job.Charts)),
		log:      logging.Logger().With("job", id),
		result: &Result{
			JobID:      id,
			Mode:       job.Mode,
			ExportedAt: e.opts.clock(),
		},
	}
	return r.execute(ctx)
}

// run is the state of a single job.
type run struct {
	*Exporter

	job      Job
	pipeline *enhance.Pipeline
	doc      *document.Assembler
	snaps    []*style.Snapshot
	chrome   *style.ChromeSnapshot
	buffers  []placed
	log      *slog.Logger
	result   *Result
}

// placed is an enhanced chart waiting for single-image encoding.
type placed struct {
	index int
	title string
	buf   *pixel.Buffer
}

func (r *run) execute(ctx context.Context) (*Result, error) {
	start := time.Now()
	r.log.Info("export started",
		"charts", len(r.job.Charts),
		"theme", r.job.Theme.String(),
		"mode", r.job.Mode.String())

	if err := r.machine.enter(StatePreparing); err != nil {
		return nil, err
	}
	chrome, err := r.styles.HideChrome(r.job.Chrome)
	r.chrome = chrome
	if err != nil {
		r.log.Warn("hiding chrome", "err", err)
	}
	if ctx.Err() != nil {
		return r.abort(cancelled(ctx))
	}

	if r.job.Mode == ModeDocument {
		r.doc, err = document.New(r.opts.layout, document.Options{
			MaxDPI:  r.opts.maxDPI,
			Locale:  r.opts.locale,
			Title:   "Chart export",
			Created: r.result.ExportedAt,
		})
		if err != nil {
			return r.abort(err)
		}
	}

	for i, c := range r.job.Charts {
		if ctx.Err() != nil {
			return r.abort(cancelled(ctx))
		}
		err := r.chart(ctx, i, c)
		if err == nil {
			continue
		}
		var ce *ChartError
		if !errors.As(err, &ce) {
			return r.abort(err)
		}
		r.result.Skipped = append(r.result.Skipped, ce)
		r.log.Warn("chart skipped",
			"chart", i,
			"title", c.Title,
			"stage", ce.Stage.String(),
			"err", ce.Err)
	}

	if len(r.result.Skipped) == len(r.job.Charts) {
		errs := make([]error, len(r.result.Skipped))
		for i, ce := range r.result.Skipped {
			errs[i] = ce
		}
		return r.abort(fmt.Errorf("%w: %w", ErrAllChartsFailed, errors.Join(errs...)))
	}

	if ctx.Err() != nil {
		return r.abort(cancelled(ctx))
	}
	if err := r.machine.enter(StateFinalizing); err != nil {
		return r.abort(err)
	}
	if err := r.finalize(ctx); err != nil {
		return r.abort(err)
	}
	if err := r.styles.RestoreChrome(r.chrome); err != nil {
		r.log.Warn("restoring chrome", "err", err)
	}
	if err := r.machine.enter(StateDone); err != nil {
		return r.abort(err)
	}
	if err := r.machine.enter(StateIdle); err != nil {
		return nil, err
	}

	r.log.Info("export finished",
		"pages", r.result.Pages,
		"images", len(r.result.Images),
		"skipped", len(r.result.Skipped),
		"elapsed", time.Since(start))
	return r.result, nil
}

// chart runs the per-chart states for chart i. The chart's style is
// restored on every return path. A *ChartError means the chart is skipped;
// any other error ends the job.
func (r *run) chart(ctx context.Context, i int, c Chart) error {
	fail := func(stage State, err error) error {
		return &ChartError{Index: i, Title: c.Title, Stage: stage, Err: err}
	}
	log := r.log.With("chart", i, "title", c.Title)

	if err := r.machine.enter(StateStyling); err != nil {
		return err
	}
	if c.Surface == nil {
		return fail(StateStyling, ErrSurfaceUnavailable)
	}
	snap, err := r.styles.Apply(c.Surface, r.job.Theme)
	r.snaps[i] = snap
	defer func() {
		if err := r.styles.Restore(c.Surface, snap); err != nil {
			log.Warn("restoring chart style", "err", err)
		}
	}()
	if err != nil {
		return fail(StateStyling, err)
	}

	if err := r.machine.enter(StateCapturing); err != nil {
		return err
	}
	t := time.Now()
	ground := r.styles.Policy().Ground(r.job.Theme)
	buf, err := r.capturer.Capture(ctx, c.Surface, r.opts.scale, ground)
	if ctx.Err() != nil {
		return cancelled(ctx)
	}
	if err != nil {
		return fail(StateCapturing, err)
	}
	log.Debug("chart captured", "width", buf.Width(), "height", buf.Height(), "elapsed", time.Since(t))

	if err := r.machine.enter(StateAdjusting); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return cancelled(ctx)
	}
	out, err := r.pipeline.Run(buf, r.opts.adjustment(c.Surface.Kind(), r.job.Theme))
	if err != nil {
		return fail(StateAdjusting, err)
	}

	if ctx.Err() != nil {
		return cancelled(ctx)
	}
	if err := r.machine.enter(StatePlacing); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return cancelled(ctx)
	}
	if r.job.Mode == ModeSingleImage {
		r.buffers = append(r.buffers, placed{index: i, title: c.Title, buf: out})
		return nil
	}
	if err := r.doc.AddImageBlock(out, c.Title, r.result.ExportedAt); err != nil {
		return fail(StatePlacing, err)
	}
	return nil
}

// finalize produces the output for the job's mode.
func (r *run) finalize(ctx context.Context) error {
	if r.job.Mode == ModeSingleImage {
		return r.encodeImages(ctx)
	}

	var out bytes.Buffer
	pages, err := r.doc.Finish(&out)
	if err != nil {
		return err
	}
	r.result.Pages = pages
	r.result.Document = out.Bytes()

	if r.job.Sink != nil && out.Len() > 0 {
		if ctx.Err() != nil {
			return cancelled(ctx)
		}
		if _, err := r.job.Sink.Write(r.result.Document); err != nil {
			return fmt.Errorf("chartexport: write document: %w", err)
		}
		if ctx.Err() != nil {
			return cancelled(ctx)
		}
	}
	return nil
}

// encodeImages encodes the enhanced charts to PNG concurrently, keeping
// input order.
func (r *run) encodeImages(ctx context.Context) error {
	images := make([]Image, len(r.buffers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.workers)
	for k, p := range r.buffers {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			data, err := p.buf.PNG()
			if err != nil {
				return fmt.Errorf("chartexport: encode chart %d: %w", p.index, err)
			}
			images[k] = Image{Index: p.index, Title: p.title, PNG: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return cancelled(ctx)
		}
		return err
	}
	r.result.Images = images
	return nil
}

// abort restores every chart style recorded so far and the global chrome,
// returns the machine to Idle and reports cause. Snapshots already
// restored are skipped.
func (r *run) abort(cause error) (*Result, error) {
	if err := r.machine.enter(StateAborting); err != nil {
		r.log.Error("entering aborting state", "err", err)
	}
	for i, snap := range r.snaps {
		if snap == nil {
			continue
		}
		if err := r.styles.Restore(r.job.Charts[i].Surface, snap); err != nil {
			r.log.Warn("restoring chart style", "chart", i, "err", err)
		}
	}
	if err := r.styles.RestoreChrome(r.chrome); err != nil {
		r.log.Warn("restoring chrome", "err", err)
	}
	if err := r.machine.enter(StateIdle); err != nil {
		r.log.Error("entering idle state", "err", err)
	}

	if errors.Is(cause, ErrCancelled) {
		r.log.Info("export cancelled")
		return nil, cause
	}
	r.log.Warn("export aborted", "err", cause)
	if errors.Is(cause, ErrAllChartsFailed) {
		return r.result, cause
	}
	return nil, cause
}

func cancelled(ctx context.Context) error {
	return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
}
