package enhance

import (
	"fmt"
	"time"

	"github.com/gogpu/chartexport/internal/logging"
	"github.com/gogpu/chartexport/internal/parallel"
	"github.com/gogpu/chartexport/pixel"
)

// Pipeline runs the full adjustment sequence on a worker pool.
//
// A nil pool, or a zero Pipeline, processes every buffer on the calling
// goroutine.
type Pipeline struct {
	pool *parallel.WorkerPool
}

// NewPipeline creates a pipeline that splits per-pixel work across pool.
func NewPipeline(pool *parallel.WorkerPool) *Pipeline {
	return &Pipeline{pool: pool}
}

// Run applies, in order: the brightness/contrast remap, line reinforcement,
// the overlay self-blend, the offset sharpen and the tint. The layer order
// is fixed since each layer composites onto the previous result.
func (p *Pipeline) Run(src *pixel.Buffer, cfg Config) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}

	var pool *parallel.WorkerPool
	if p != nil {
		pool = p.pool
	}

	start := time.Now()
	layers := cfg.layers()

	out := adjust(pool, src, cfg)
	out = overlaySelf(pool, out, layers.OverlayAlpha)
	out = sharpenOffset(pool, out, layers.SharpenOffset, layers.SharpenAlpha)
	out = tint(pool, out, layers.Tint, layers.TintAlpha)

	logging.Logger().Debug("enhance: pipeline done",
		"width", out.Width(),
		"height", out.Height(),
		"theme", cfg.Theme.String(),
		"line", cfg.IsLineChart,
		"elapsed", time.Since(start))
	return out, nil
}
