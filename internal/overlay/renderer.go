package overlay

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/overlog/overlog/internal/geo"
	"github.com/overlog/overlog/internal/telemetry"
)

const (
	dpi = 72.0

	ringRadius = 100
	maxRingG   = 3.0 // g-force magnitude drawn at the ring's edge
	maxRPM     = 8000.0

	timestampFormat = "15:04:05"
)

var (
	colorText    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorMuted   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	colorFaint   = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	colorAlert   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	colorRing    = color.RGBA{R: 100, G: 100, B: 100, A: 255}
	colorVector  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	colorRPMBar  = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	colorRPMRail = color.RGBA{R: 80, G: 80, B: 80, A: 180}
)

// Renderer draws telemetry state onto transparent frames. The parsed
// font is an immutable dependency loaded at construction; RenderFrame
// itself holds no mutable state and is safe for concurrent use.
type Renderer struct {
	width  int
	height int
	style  Style
	font   *truetype.Font
}

// NewRenderer creates a renderer for the given frame geometry and style.
func NewRenderer(width, height int, style Style) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame geometry %dx%d", width, height)
	}
	if err := style.Validate(); err != nil {
		return nil, fmt.Errorf("invalid style: %w", err)
	}

	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	return &Renderer{
		width:  width,
		height: height,
		style:  style,
		font:   parsedFont,
	}, nil
}

// RenderFrame produces the overlay image for one resolved sample. The
// output always carries a usable alpha channel; pixels not drawn stay
// fully transparent. A nil sample yields the placeholder: an entirely
// transparent frame. Given the same sample, frame number and style the
// output is identical.
func (r *Renderer) RenderFrame(sample *telemetry.Sample, frameNumber int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	if sample == nil {
		return img, nil
	}

	// The freetype context is mutable, so each call builds its own from
	// the shared immutable font.
	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(r.font)
	ctx.SetFontSize(r.style.FontSize)
	ctx.SetHinting(font.HintingFull)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)

	face := truetype.NewFace(r.font, &truetype.Options{
		Size:    r.style.FontSize,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	line := int(ctx.PointToFixed(r.style.FontSize).Round())
	y := 2 * line

	if r.style.Speed && sample.Speed != nil {
		if err := r.drawText(ctx, r.formatSpeed(*sample.Speed), 50, y, colorText); err != nil {
			return nil, fmt.Errorf("drawing speed: %w", err)
		}
		y += 2 * line
	}

	if r.style.GForce && sample.HasGForce() {
		magnitude := geo.GForceMagnitude(*sample.GForceX, *sample.GForceY, *sample.GForceZ)
		c := colorText
		if magnitude > 2.0 {
			c = colorAlert
		}
		if err := r.drawText(ctx, fmt.Sprintf("G: %.2f", magnitude), 50, y, c); err != nil {
			return nil, fmt.Errorf("drawing g-force: %w", err)
		}
		y += 2 * line

		r.drawGForceRing(img, *sample.GForceX, *sample.GForceY, *sample.GForceZ)
	}

	if r.style.GPS && sample.HasPosition() {
		text := fmt.Sprintf("GPS: %.6f, %.6f", *sample.Latitude, *sample.Longitude)
		if err := r.drawText(ctx, text, 50, y, colorMuted); err != nil {
			return nil, fmt.Errorf("drawing gps: %w", err)
		}
		y += 2 * line
	}

	if r.style.Altitude && sample.Altitude != nil {
		if err := r.drawText(ctx, fmt.Sprintf("Alt: %.0fm", *sample.Altitude), 50, y, colorText); err != nil {
			return nil, fmt.Errorf("drawing altitude: %w", err)
		}
		y += 2 * line
	}

	if r.style.RPM && sample.RPM != nil {
		if err := r.drawRPMBar(img, ctx, *sample.RPM); err != nil {
			return nil, fmt.Errorf("drawing rpm: %w", err)
		}
	}

	if r.style.Timestamp {
		text := sample.Timestamp.UTC().Format(timestampFormat)
		width := font.MeasureString(face, text)
		x := r.width - width.Round() - 50
		if err := r.drawText(ctx, text, x, 2*line, colorFaint); err != nil {
			return nil, fmt.Errorf("drawing timestamp: %w", err)
		}
	}

	return img, nil
}

func (r *Renderer) formatSpeed(ms float64) string {
	if r.style.Units == UnitsMph {
		return fmt.Sprintf("%.0f mph", geo.MsToMph(ms))
	}
	return fmt.Sprintf("%.0f km/h", geo.MsToKmh(ms))
}

func (r *Renderer) drawText(ctx *freetype.Context, text string, x, y int, c color.RGBA) error {
	ctx.SetSrc(image.NewUniform(c))
	_, err := ctx.DrawString(text, freetype.Pt(x, y))
	return err
}

// drawGForceRing draws the reference ring in the frame center and the
// current lateral/longitudinal g vector scaled against maxRingG.
func (r *Renderer) drawGForceRing(img *image.RGBA, gx, gy, gz float64) {
	centerX := r.width / 2
	centerY := r.height / 2

	for angle := 0; angle < 360; angle++ {
		rad := geo.Radians(float64(angle))
		x := centerX + int(ringRadius*math.Cos(rad))
		y := centerY + int(ringRadius*math.Sin(rad))
		setPixel(img, x, y, colorRing)
	}

	magnitude := geo.GForceMagnitude(gx, gy, gz)
	if magnitude == 0 {
		return
	}
	scaled := geo.Clamp(magnitude/maxRingG, 0, 1)

	vectorX := centerX + int(ringRadius*scaled*gx/magnitude)
	vectorY := centerY + int(ringRadius*scaled*gy/magnitude)

	drawLine(img, centerX, centerY, vectorX, vectorY, colorVector)
	for dx := -2; dx <= 2; dx++ {
		for dy := -2; dy <= 2; dy++ {
			setPixel(img, vectorX+dx, vectorY+dy, colorVector)
		}
	}
}

// drawRPMBar draws a horizontal bar in the lower left scaled to maxRPM,
// with the numeric value above it.
func (r *Renderer) drawRPMBar(img *image.RGBA, ctx *freetype.Context, rpm float64) error {
	const barWidth, barHeight = 300, 18
	x0 := 50
	y0 := r.height - 60

	for x := x0; x < x0+barWidth; x++ {
		for y := y0; y < y0+barHeight; y++ {
			setPixel(img, x, y, colorRPMRail)
		}
	}

	filled := int(geo.Clamp(rpm/maxRPM, 0, 1) * barWidth)
	for x := x0; x < x0+filled; x++ {
		for y := y0; y < y0+barHeight; y++ {
			setPixel(img, x, y, colorRPMBar)
		}
	}

	return r.drawText(ctx, fmt.Sprintf("%.0f rpm", rpm), x0, y0-8, colorText)
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if x >= 0 && x < img.Bounds().Dx() && y >= 0 && y < img.Bounds().Dy() {
		img.SetRGBA(x, y, c)
	}
}

// drawLine rasterizes a line segment with Bresenham's algorithm.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	x, y := x1, y1
	for {
		setPixel(img, x, y, c)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
