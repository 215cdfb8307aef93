// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package capture rasterizes styled chart surfaces into pixel buffers.
//
// A capture first waits a fixed stabilization delay so that transition
// animations triggered by a restyle can settle, then polls the surface's
// readiness at a bounded rate, and finally renders it at the requested scale
// onto an opaque background.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"golang.org/x/time/rate"

	"github.com/gogpu/chartexport/internal/logging"
	"github.com/gogpu/chartexport/pixel"
	"github.com/gogpu/chartexport/surface"
)

// Capture errors.
var (
	// ErrTimeout is returned when the surface never reports ready within the
	// bounded wait.
	ErrTimeout = errors.New("capture: surface not ready")

	// ErrUnavailable is returned when the surface is detached before or
	// during the capture.
	ErrUnavailable = errors.New("capture: surface unavailable")

	// ErrFailed is returned when the raster engine fails or produces a
	// malformed buffer.
	ErrFailed = errors.New("capture: failed")
)

// Defaults.
const (
	// DefaultScale trades print sharpness against memory.
	DefaultScale = 3

	// DefaultStabilizationDelay lets chart transition animations settle.
	DefaultStabilizationDelay = 400 * time.Millisecond

	// DefaultReadyTimeout bounds the readiness wait.
	DefaultReadyTimeout = 5 * time.Second

	// DefaultPollInterval is the readiness polling period.
	DefaultPollInterval = 50 * time.Millisecond
)

// Options configure a Capturer. Zero fields take the defaults above, except
// StabilizationDelay, where zero means no delay.
type Options struct {
	StabilizationDelay time.Duration
	ReadyTimeout       time.Duration
	PollInterval       time.Duration
}

// DefaultOptions returns the production capture timings.
func DefaultOptions() Options {
	return Options{
		StabilizationDelay: DefaultStabilizationDelay,
		ReadyTimeout:       DefaultReadyTimeout,
		PollInterval:       DefaultPollInterval,
	}
}

// Capturer renders surfaces to pixel buffers.
//
// A Capturer holds no per-capture state and is safe for concurrent use.
type Capturer struct {
	opts Options
}

// New creates a Capturer.
func New(opts Options) *Capturer {
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = DefaultReadyTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.StabilizationDelay < 0 {
		opts.StabilizationDelay = 0
	}
	return &Capturer{opts: opts}
}

// Options returns the effective options.
func (c *Capturer) Options() Options {
	return c.opts
}

// Capture waits for s to stabilize and renders it at scale, composited onto
// background. A non-positive scale means DefaultScale and a transparent
// background means the DefaultBackground of the surface's theme.
//
// Context cancellation is reported as ctx.Err() and takes precedence over
// any result produced concurrently.
func (c *Capturer) Capture(ctx context.Context, s surface.ChartSurface, scale float64, background color.NRGBA) (*pixel.Buffer, error) {
	if scale <= 0 {
		scale = DefaultScale
	}
	if background.A == 0 {
		background = DefaultBackground(s.Theme())
	}
	start := time.Now()

	if err := sleep(ctx, c.opts.StabilizationDelay); err != nil {
		return nil, err
	}
	if err := c.waitReady(ctx, s); err != nil {
		return nil, err
	}

	buf, err := s.RenderToPixelBuffer(ctx, scale, background)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	switch {
	case err == nil:
	case errors.Is(err, surface.ErrUnavailable), errors.Is(err, surface.ErrCaptureUnavailable):
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrFailed, err)
	}
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailed, err)
	}

	out := Flatten(buf, background)
	logging.Logger().Debug("capture: rendered",
		"kind", s.Kind(), "width", out.Width(), "height", out.Height(),
		"scale", scale, "elapsed", time.Since(start))
	return out, nil
}

// waitReady polls s.IsReady at the configured rate until it reports true.
// A detached surface never becomes ready, so it is detected up front.
func (c *Capturer) waitReady(ctx context.Context, s surface.ChartSurface) error {
	if s.IsReady() {
		return nil
	}
	if _, err := s.StyleProperties(); errors.Is(err, surface.ErrUnavailable) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	wctx, cancel := context.WithTimeout(ctx, c.opts.ReadyTimeout)
	defer cancel()

	lim := rate.NewLimiter(rate.Every(c.opts.PollInterval), 1)
	_ = lim.Allow() // the first poll above used the burst
	for {
		if err := lim.Wait(wctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("%w after %v", ErrTimeout, c.opts.ReadyTimeout)
		}
		if s.IsReady() {
			return nil
		}
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
