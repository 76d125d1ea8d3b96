// Package video drives the frame-synchronous rendering and compositing
// loops. The codec/container work itself is delegated to external
// ffmpeg/ffprobe processes behind the narrow FrameWriter/FrameReader
// contract; everything above that boundary deals only in RGBA frames.
package video

import (
	"image"
)

// Info describes a video file as reported by the prober. The pipeline
// treats these as read-only facts driving its frame count and timing.
type Info struct {
	Width    int
	Height   int
	FPS      float64
	Duration float64 // Seconds; zero when the container does not report it
	HasAudio bool
}

// FrameWriter is the encoder side of the codec boundary. Frames must be
// delivered in strictly increasing presentation order. Close flushes and
// finalizes the output; it must be called on every exit path.
type FrameWriter interface {
	WriteFrame(img *image.RGBA) error
	Close() error
}

// FrameReader is the decoder side of the codec boundary. ReadFrame
// returns io.EOF after the last frame.
type FrameReader interface {
	ReadFrame() (*image.RGBA, error)
	Close() error
}
