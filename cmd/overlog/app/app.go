package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/overlog/overlog/internal/geo"
	"github.com/overlog/overlog/internal/ingest"
	"github.com/overlog/overlog/internal/overlay"
	"github.com/overlog/overlog/internal/store"
	"github.com/overlog/overlog/internal/telemetry"
	"github.com/overlog/overlog/internal/video"
)

// RunParse reads a telemetry file, normalizes it and writes the
// interchange JSON document to the output file or stdout. With a
// database path the parsed series is also persisted as a new session.
func RunParse(ctx context.Context, config *ParseConfig, logger *slog.Logger) error {
	series, err := parseFile(config.Input, config.Format)
	if err != nil {
		return err
	}

	logSummary(logger, series)

	if config.DBPath != "" {
		db := store.New(config.DBPath)
		defer db.Close()

		sessionID, err := db.Save(ctx, series)
		if err != nil {
			return fmt.Errorf("persisting session: %w", err)
		}

		logger.Info("session persisted",
			slog.String("db", config.DBPath),
			slog.Int64("session", sessionID))
	}

	var out io.Writer = os.Stdout
	if config.OutputFile != "" {
		f, err := os.Create(config.OutputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return ingest.EncodeJSON(out, series)
}

// RunRender renders the telemetry into a standalone transparent overlay
// video. The partial output file is removed when rendering fails.
func RunRender(ctx context.Context, config *RenderConfig, logger *slog.Logger) error {
	if err := video.CheckFFmpeg(ctx); err != nil {
		return err
	}

	series, err := loadSeries(ctx, config)
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("telemetry series is empty")
	}

	logSummary(logger, series)

	style, err := loadStyle(config)
	if err != nil {
		return err
	}

	renderer, err := overlay.NewRenderer(config.Width, config.Height, style)
	if err != nil {
		return err
	}

	duration := config.Duration
	if duration == 0 {
		summary := series.Summary()
		if summary.Duration > 0 {
			duration = summary.Duration
		} else {
			duration = 30
		}
	}

	enc, err := video.NewOverlayEncoder(ctx, config.OutputFile, config.Width, config.Height, config.FPS)
	if err != nil {
		return err
	}

	boundary := telemetry.BoundaryNone
	if config.Clamp {
		boundary = telemetry.BoundaryClamp
	}

	pipeline := video.New(logger,
		video.WithWorkers(config.Workers),
		video.WithBoundaryMode(boundary))

	if err = pipeline.RenderOverlay(ctx, series, renderer, enc, config.FPS, duration); err != nil {
		_ = os.Remove(config.OutputFile)
		return err
	}

	logger.Info("overlay written",
		slog.String("destination", config.OutputFile),
		slog.String("duration", geo.FormatDuration(duration)))
	return nil
}

// RunBurn composites a rendered overlay video onto a source video,
// passing the source audio through. The partial output file is removed
// when the burn fails.
func RunBurn(ctx context.Context, config *BurnConfig, logger *slog.Logger) error {
	if err := video.CheckFFmpeg(ctx); err != nil {
		return err
	}

	info, err := video.Probe(ctx, config.Source)
	if err != nil {
		return fmt.Errorf("probing source video: %w", err)
	}

	ovInfo, err := video.Probe(ctx, config.Overlay)
	if err != nil {
		return fmt.Errorf("probing overlay video: %w", err)
	}
	if ovInfo.Width != info.Width || ovInfo.Height != info.Height {
		return fmt.Errorf("overlay geometry %dx%d does not match source %dx%d",
			ovInfo.Width, ovInfo.Height, info.Width, info.Height)
	}

	logger.Info("burning overlay",
		slog.Group("source",
			slog.Int("width", info.Width),
			slog.Int("height", info.Height),
			slog.Float64("fps", info.FPS),
			slog.String("duration", geo.FormatDuration(info.Duration)),
			slog.Bool("audio", info.HasAudio)),
		slog.Float64("offset", config.Offset),
		slog.String("mismatch", string(config.Mismatch)))

	source, err := video.NewDecoder(ctx, config.Source, info.Width, info.Height, 0)
	if err != nil {
		return fmt.Errorf("opening source video: %w", err)
	}

	ov, err := video.NewDecoder(ctx, config.Overlay, info.Width, info.Height, 0)
	if err != nil {
		_ = source.Close()
		return fmt.Errorf("opening overlay video: %w", err)
	}

	enc, err := video.NewBurnEncoder(ctx, config.OutputFile, info.Width, info.Height, info.FPS, config.Source, info.HasAudio)
	if err != nil {
		_ = source.Close()
		_ = ov.Close()
		return err
	}

	pipeline := video.New(logger, video.WithMismatchPolicy(config.Mismatch))

	if err = pipeline.BurnOverlay(ctx, source, ov, enc, info.FPS, config.Offset); err != nil {
		_ = os.Remove(config.OutputFile)
		return err
	}

	logger.Info("video written", slog.String("destination", config.OutputFile))
	return nil
}

func parseFile(path string, format ingest.Format) (*telemetry.Series, error) {
	if format == "" {
		if format = ingest.DetectFormat(path); format == "" {
			return nil, fmt.Errorf("cannot detect telemetry format of %s", path)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading telemetry file: %w", err)
	}

	series, err := ingest.Parse(format, data)
	if err != nil {
		return nil, err
	}

	series.Source = path
	return series, nil
}

func loadSeries(ctx context.Context, config *RenderConfig) (*telemetry.Series, error) {
	if config.DBPath == "" {
		return parseFile(config.Input, config.Format)
	}

	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return nil, fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	db := store.New(config.DBPath)
	defer db.Close()

	return db.LoadSeries(ctx, config.SessionID)
}

func loadStyle(config *RenderConfig) (overlay.Style, error) {
	if config.StyleFile != "" {
		return overlay.LoadStyle(config.StyleFile)
	}
	return overlay.BuiltinStyle(config.StyleName)
}

func logSummary(logger *slog.Logger, series *telemetry.Series) {
	summary := series.Summary()

	attrs := []any{
		slog.String("source", series.Source),
		slog.String("format", series.Format),
		slog.Int("points", series.Len()),
		slog.String("duration", geo.FormatDuration(summary.Duration)),
	}
	if summary.Distance != nil {
		attrs = append(attrs, slog.String("distance", geo.FormatDistance(*summary.Distance)))
	}
	if summary.MaxSpeed != nil {
		attrs = append(attrs, slog.String("maxSpeed", geo.FormatSpeed(*summary.MaxSpeed)))
	}
	if summary.MaxGForce != nil {
		attrs = append(attrs, slog.String("maxGForce", fmt.Sprintf("%.2fg", *summary.MaxGForce)))
	}

	logger.Info("telemetry loaded", attrs...)
}
