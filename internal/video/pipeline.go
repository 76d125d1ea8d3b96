package video

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/overlog/overlog/internal/telemetry"
)

// FrameRenderer produces the overlay image for one resolved sample. It
// must be a pure function of its inputs and safe for concurrent use;
// *overlay.Renderer satisfies this.
type FrameRenderer interface {
	RenderFrame(sample *telemetry.Sample, frameNumber int) (*image.RGBA, error)
}

// MismatchPolicy decides what happens when the overlay clip runs out
// before the source video during a burn.
type MismatchPolicy string

const (
	// MismatchFreeze keeps compositing the last overlay frame.
	MismatchFreeze MismatchPolicy = "freeze"

	// MismatchBlank drops the overlay and passes source frames through.
	MismatchBlank MismatchPolicy = "blank"

	// MismatchTruncate ends the output at the last overlay frame.
	MismatchTruncate MismatchPolicy = "truncate"
)

// WithWorkers sets the number of concurrent frame renderers.
func WithWorkers(n int) func(*Pipeline) {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithBoundaryMode sets the resolver's out-of-range policy.
func WithBoundaryMode(mode telemetry.BoundaryMode) func(*Pipeline) {
	return func(p *Pipeline) {
		p.boundary = mode
	}
}

// WithMismatchPolicy sets the overlay/source length-mismatch policy for
// burns.
func WithMismatchPolicy(policy MismatchPolicy) func(*Pipeline) {
	return func(p *Pipeline) {
		p.mismatch = policy
	}
}

// Pipeline orchestrates the frame loops. An invocation owns its
// encoder/decoder handles exclusively and releases them on every exit
// path; separate invocations share no mutable state and may run
// concurrently.
type Pipeline struct {
	logger   *slog.Logger
	workers  int
	boundary telemetry.BoundaryMode
	mismatch MismatchPolicy
}

// New creates a pipeline. By default rendering uses one worker per CPU,
// out-of-range timestamps resolve to no sample (blank overlay frames),
// and burns freeze the last overlay frame when the overlay is short.
func New(logger *slog.Logger, options ...func(*Pipeline)) *Pipeline {
	p := Pipeline{
		logger:   logger,
		workers:  runtime.NumCPU(),
		boundary: telemetry.BoundaryNone,
		mismatch: MismatchFreeze,
	}
	for _, option := range options {
		option(&p)
	}
	return &p
}

type renderedFrame struct {
	img *image.RGBA
	err error
}

// RenderOverlay renders the standalone overlay clip: one frame per index
// in [0, floor(fps·duration)), each resolved against the series at
// t0 + i/fps and rendered with the given renderer. Rendering is pure per
// frame and runs on a bounded worker pool; frames are drained into the
// encoder by a single consumer in strictly increasing index order. The
// encoder is closed on every exit path.
func (p *Pipeline) RenderOverlay(ctx context.Context, series *telemetry.Series, renderer FrameRenderer, enc FrameWriter, fps, duration float64) (err error) {
	defer func() {
		if cErr := enc.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	if fps <= 0 {
		return fmt.Errorf("invalid fps %v", fps)
	}
	if duration <= 0 {
		return fmt.Errorf("invalid duration %v", duration)
	}

	frames := int(fps * duration)

	var start time.Time
	if series.Len() > 0 {
		start = series.Points[0].Timestamp
	}

	p.logger.Info("rendering overlay",
		slog.Int("frames", frames),
		slog.Float64("fps", fps),
		slog.Int("workers", p.workers))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Channel-of-channels sequencing: workers render out of order, the
	// consumer below drains strictly by frame index.
	pending := make(chan chan renderedFrame, p.workers)

	go func() {
		defer close(pending)

		sem := make(chan struct{}, p.workers)
		var wg sync.WaitGroup

		for i := 0; i < frames; i++ {
			slot := make(chan renderedFrame, 1)
			select {
			case pending <- slot:
			case <-ctx.Done():
				wg.Wait()
				return
			}

			sem <- struct{}{}
			wg.Add(1)
			go func(index int) {
				defer wg.Done()
				defer func() { <-sem }()

				t := start.Add(time.Duration(float64(index) / fps * float64(time.Second)))
				sample := series.At(t, p.boundary)
				img, renderErr := renderer.RenderFrame(sample, index)
				slot <- renderedFrame{img: img, err: renderErr}
			}(i)
		}
		wg.Wait()
	}()

	written := 0
	for slot := range pending {
		frame := <-slot
		if frame.err != nil {
			err = fmt.Errorf("rendering frame %d: %w", written, frame.err)
			break
		}
		if err = enc.WriteFrame(frame.img); err != nil {
			err = fmt.Errorf("encoding frame %d: %w", written, err)
			break
		}
		written++
	}
	if err != nil {
		cancel()
		for slot := range pending {
			<-slot
		}
		return err
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	p.logger.Info("overlay rendered", slog.Int("frames", written))
	return nil
}

// BurnOverlay composites a previously rendered overlay clip onto a
// source video. For the source frame at time ts the overlay frame at
// ts − offset is composited over it; before the offset, and on overlay
// exhaustion under the blank policy, source frames pass through
// unchanged. Audio passthrough is the encoder's concern. All three
// handles are released on every exit path.
func (p *Pipeline) BurnOverlay(ctx context.Context, source, ov FrameReader, enc FrameWriter, fps, offset float64) (err error) {
	defer func() {
		for _, cErr := range []error{enc.Close(), source.Close(), ov.Close()} {
			if cErr != nil && err == nil {
				err = cErr
			}
		}
	}()

	if fps <= 0 {
		return fmt.Errorf("invalid fps %v", fps)
	}

	var lastOverlay *image.RGBA
	overlayDone := false
	overlayRead := 0

	for index := 0; ; index++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		frame, readErr := source.ReadFrame()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("decoding source frame %d: %w", index, readErr)
		}

		ts := float64(index) / fps
		overlayTime := ts - offset

		var current *image.RGBA
		if overlayTime >= 0 {
			// Advance the overlay stream up to the frame covering
			// overlayTime. Handles negative offsets by skipping the
			// overlay's head on the first iterations.
			want := int(math.Floor(overlayTime*fps + 1e-9))
			for !overlayDone && overlayRead <= want {
				ovFrame, ovErr := ov.ReadFrame()
				if ovErr == io.EOF {
					overlayDone = true
					break
				}
				if ovErr != nil {
					return fmt.Errorf("decoding overlay frame %d: %w", overlayRead, ovErr)
				}
				lastOverlay = ovFrame
				overlayRead++
			}

			switch {
			case !overlayDone:
				current = lastOverlay
			case p.mismatch == MismatchFreeze:
				current = lastOverlay
			case p.mismatch == MismatchBlank:
				current = nil
			case p.mismatch == MismatchTruncate:
				p.logger.Info("overlay exhausted, truncating output",
					slog.Int("frames", index))
				return nil
			}
		}

		if current != nil {
			CompositeOver(frame, current)
		}
		if err = enc.WriteFrame(frame); err != nil {
			return fmt.Errorf("encoding frame %d: %w", index, err)
		}
	}

	return nil
}
