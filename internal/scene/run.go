package scene

import (
	"context"
	"time"

	"github.com/san-kum/dropsim/internal/input"
	"github.com/san-kum/dropsim/internal/render"
)

// RunOptions drive a headless run on a manual clock.
type RunOptions struct {
	Frames        int
	FrameInterval time.Duration
	Clock         *input.ManualClock
	Trigger       input.Trigger
	// Renderer is optional; when set every frame is drawn.
	Renderer render.Renderer
}

// Run executes opts.Frames frames and returns one FrameStats per frame.
// It stops early on context cancellation or a fatal frame error and
// returns the frames completed so far.
func (s *Scene) Run(ctx context.Context, opts RunOptions) ([]FrameStats, error) {
	trace := make([]FrameStats, 0, opts.Frames)
	for i := 0; i < opts.Frames; i++ {
		select {
		case <-ctx.Done():
			return trace, ctx.Err()
		default:
		}

		st, err := s.Frame(FrameInput{
			Trigger: opts.Trigger.Active(),
			Now:     opts.Clock.Now(),
			Elapsed: opts.FrameInterval,
		})
		if err != nil {
			return trace, err
		}
		if opts.Renderer != nil {
			s.Draw(opts.Renderer)
		}
		trace = append(trace, st)
		opts.Clock.Advance(opts.FrameInterval)
	}
	return trace, nil
}
