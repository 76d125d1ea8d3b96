package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// CheckFFmpeg verifies that the ffmpeg binary is present and runnable.
func CheckFFmpeg(ctx context.Context) error {
	if err := exec.CommandContext(ctx, "ffmpeg", "-version").Run(); err != nil {
		return fmt.Errorf("ffmpeg not available, install it and ensure it is in PATH: %w", err)
	}
	return nil
}

// Probe reads a video file's descriptor via ffprobe.
func Probe(ctx context.Context, path string) (*Info, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	).Output()
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", path, err)
	}
	return parseProbeOutput(out)
}

type probeDocument struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeOutput(data []byte) (*Info, error) {
	var doc probeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing probe output: %w", err)
	}

	var info Info
	var haveVideo bool
	for _, stream := range doc.Streams {
		switch stream.CodecType {
		case "video":
			if haveVideo {
				continue // First video stream wins
			}
			haveVideo = true
			info.Width = stream.Width
			info.Height = stream.Height
			info.FPS = parseRate(stream.RFrameRate)

		case "audio":
			info.HasAudio = true
		}
	}
	if !haveVideo {
		return nil, errors.New("no video stream found")
	}

	if doc.Format.Duration != "" {
		if d, err := strconv.ParseFloat(doc.Format.Duration, 64); err == nil {
			info.Duration = d
		}
	}
	return &info, nil
}

// parseRate parses an ffprobe rational frame rate such as "30000/1001".
// Unparseable input falls back to 30.
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if ok {
		n, errN := strconv.ParseFloat(num, 64)
		d, errD := strconv.ParseFloat(den, 64)
		if errN == nil && errD == nil && d != 0 {
			return n / d
		}
	} else if n, err := strconv.ParseFloat(s, 64); err == nil && n > 0 {
		return n
	}
	return 30
}

// Encoder feeds raw RGBA frames to an ffmpeg process over stdin. One
// encoder owns one process; it is not safe for concurrent use.
type Encoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	width  int
	height int
	closed bool
}

// NewOverlayEncoder opens an encoder producing a transparent-capable
// overlay clip: VP9 in WebM with a yuva420p pixel format, so the alpha
// channel survives encoding.
func NewOverlayEncoder(ctx context.Context, path string, width, height int, fps float64) (*Encoder, error) {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", formatRate(fps),
		"-i", "-",
		"-c:v", "libvpx-vp9",
		"-pix_fmt", "yuva420p",
		"-crf", "30",
		"-b:v", "0",
		path,
	}
	return newEncoder(ctx, args, width, height)
}

// NewBurnEncoder opens an encoder for the composite output: H.264 video
// from the raw frames on stdin, with the audio stream copied unmodified
// from the source file when it has one.
func NewBurnEncoder(ctx context.Context, path string, width, height int, fps float64, audioSource string, hasAudio bool) (*Encoder, error) {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", formatRate(fps),
		"-i", "-",
	}
	if hasAudio {
		args = append(args,
			"-i", audioSource,
			"-map", "0:v",
			"-map", "1:a",
			"-c:a", "copy",
		)
	}
	args = append(args,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-shortest",
		path,
	)
	return newEncoder(ctx, args, width, height)
}

func newEncoder(ctx context.Context, args []string, width, height int) (*Encoder, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening encoder stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting encoder: %w", err)
	}

	return &Encoder{
		cmd:    cmd,
		stdin:  stdin,
		stderr: &stderr,
		width:  width,
		height: height,
	}, nil
}

// WriteFrame sends one RGBA frame to the encoder. The frame geometry
// must match the encoder's.
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	if img.Bounds().Dx() != e.width || img.Bounds().Dy() != e.height {
		return fmt.Errorf("frame is %dx%d, encoder expects %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy(), e.width, e.height)
	}

	if err := writeRGBA(e.stdin, img); err != nil {
		return fmt.Errorf("writing frame: %w (%s)", err, stderrTail(e.stderr))
	}
	return nil
}

// Close signals end of input and waits for the encoder to flush and
// finalize the container. Safe to call once.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	closeErr := e.stdin.Close()
	waitErr := e.cmd.Wait()
	if waitErr != nil {
		return fmt.Errorf("encoder failed: %w (%s)", waitErr, stderrTail(e.stderr))
	}
	return closeErr
}

// Decoder reads raw RGBA frames from an ffmpeg process decoding a video
// file. One decoder owns one process; not safe for concurrent use.
type Decoder struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
	width  int
	height int
	closed bool
}

// NewDecoder opens a decoder emitting the file's frames as RGBA at the
// given geometry. A positive seek skips that many seconds of input
// before the first emitted frame.
func NewDecoder(ctx context.Context, path string, width, height int, seek float64) (*Decoder, error) {
	args := []string{"-v", "error"}
	if seek > 0 {
		args = append(args, "-ss", strconv.FormatFloat(seek, 'f', -1, 64))
	}
	args = append(args,
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-",
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening decoder stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting decoder: %w", err)
	}

	return &Decoder{
		cmd:    cmd,
		stdout: stdout,
		stderr: &stderr,
		width:  width,
		height: height,
	}, nil
}

// ReadFrame returns the next decoded frame, or io.EOF after the last. A
// truncated frame mid-stream is a decode failure, not a clean end.
func (d *Decoder) ReadFrame() (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))

	n, err := io.ReadFull(d.stdout, img.Pix)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("decoding frame after %d bytes: %w (%s)", n, err, stderrTail(d.stderr))
	}
	return img, nil
}

// Close releases the decoder process. Reading may be abandoned before
// end of stream.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	closeErr := d.stdout.Close()
	// The process is killed by the pipe closing mid-stream; that exit
	// status is expected and not an error.
	_ = d.cmd.Wait()
	return closeErr
}

// writeRGBA writes an image's pixels row by row, honoring the stride so
// sub-images encode correctly.
func writeRGBA(w io.Writer, img *image.RGBA) error {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	if img.Stride == 4*width && len(img.Pix) == 4*width*height {
		_, err := w.Write(img.Pix)
		return err
	}

	for y := 0; y < height; y++ {
		offset := y * img.Stride
		if _, err := w.Write(img.Pix[offset : offset+4*width]); err != nil {
			return err
		}
	}
	return nil
}

func formatRate(fps float64) string {
	return strconv.FormatFloat(fps, 'f', -1, 64)
}

func stderrTail(buf *bytes.Buffer) string {
	const tail = 512
	s := strings.TrimSpace(buf.String())
	if len(s) > tail {
		s = "..." + s[len(s)-tail:]
	}
	if s == "" {
		return "no encoder output"
	}
	return s
}
