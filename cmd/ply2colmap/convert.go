package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/recolude/ply2colmap/colmap"
	"github.com/recolude/ply2colmap/convert"
	"github.com/recolude/ply2colmap/utilites"
	"github.com/urfave/cli/v2"
)

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "convert a PLY point cloud to a COLMAP point list",
		ArgsUsage: "[input.ply]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "in",
				Usage: "path to the PLY file, defaults to the last converted file",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "path to the point list, defaults to points3D.txt next to the input",
			},
			&cli.BoolFlag{
				Name:  "no-backup",
				Usage: "don't copy the input to a timestamped backup first",
			},
			&cli.StringFlag{
				Name:  "preview",
				Usage: "also write a thinned binary PLY of the unique points to this path",
			},
			&cli.IntFlag{
				Name:  "preview-limit",
				Usage: "maximum number of points in the preview",
				Value: 100_000,
			},
			&cli.IntFlag{
				Name:  "progress-interval",
				Usage: "log progress every n vertices",
				Value: convert.DefaultProgressInterval,
			},
			&cli.StringFlag{
				Name:    "settings",
				Usage:   "path to the settings file",
				EnvVars: []string{"PLY2COLMAP_SETTINGS"},
			},
		},
		Action: runConvert,
	}
}

func runConvert(c *cli.Context) error {
	settingsPath := c.String("settings")
	if settingsPath == "" {
		p, err := utilites.DefaultSettingsPath()
		if err != nil {
			slog.Warn("settings disabled", "err", err)
		}
		settingsPath = p
	}
	var settings utilites.Settings
	if settingsPath != "" {
		s, err := utilites.LoadSettings(settingsPath)
		if err != nil {
			slog.Warn("ignoring unreadable settings", "path", settingsPath, "err", err)
		}
		settings = s
	}

	input := c.String("in")
	if input == "" {
		input = c.Args().First()
	}
	if input == "" {
		input = settings.LastInput
	}
	if input == "" {
		return errors.New("no input file given")
	}
	info, err := os.Stat(input)
	if err != nil {
		return err
	}
	if ext := strings.ToLower(filepath.Ext(input)); ext != ".ply" {
		slog.Warn("input does not have a .ply extension", "path", input)
	}

	output := c.String("out")
	if output == "" {
		output = filepath.Join(filepath.Dir(input), colmap.DefaultFileName)
	}

	if !c.Bool("no-backup") {
		backup, err := utilites.Backup(input, time.Now())
		if err != nil {
			return fmt.Errorf("backup: %w", err)
		}
		slog.Info("created backup", "path", backup, "size", humanize.Bytes(uint64(info.Size())))
	}

	opts := []convert.Option{
		convert.WithLogger(slog.Default()),
		convert.WithProgress(c.Int("progress-interval"), logProgress),
	}
	var preview *utilites.PreviewCloud
	if c.String("preview") != "" {
		preview = utilites.NewPreviewCloud(c.Int("preview-limit"))
		opts = append(opts, convert.WithPointFunc(preview.Add))
	}

	slog.Info("converting", "in", input, "out", output)
	summary, err := convert.File(input, output, opts...)
	if err != nil {
		return err
	}

	if preview != nil {
		if err := preview.Save(c.String("preview")); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		slog.Info("wrote preview", "path", c.String("preview"), "points", humanize.Comma(int64(preview.Len())))
	}

	if settingsPath != "" {
		abs, err := filepath.Abs(input)
		if err != nil {
			abs = input
		}
		settings.LastInput = abs
		if err := utilites.SaveSettings(settingsPath, settings); err != nil {
			slog.Warn("could not save settings", "path", settingsPath, "err", err)
		}
	}

	logSummary(summary, info.Size())
	return nil
}

func logProgress(p convert.Progress) {
	var pct float64
	if p.Total > 0 {
		pct = float64(p.Processed) / float64(p.Total) * 100
	}
	slog.Info("progress",
		"processed", humanize.Comma(int64(p.Processed)),
		"total", humanize.Comma(int64(p.Total)),
		"percent", fmt.Sprintf("%.1f", pct),
		"unique", humanize.Comma(int64(p.Unique)),
		"elapsed", p.Elapsed.Round(time.Second),
		"remaining", p.Remaining.Round(time.Second),
	)
}

func logSummary(s convert.Summary, inputSize int64) {
	var dupPct float64
	if s.Declared > 0 {
		dupPct = float64(s.Duplicates) / float64(s.Declared) * 100
	}
	attrs := []any{
		"format", s.Format,
		"compression", s.Compression,
		"color", s.HasColor,
		"declared", humanize.Comma(int64(s.Declared)),
		"unique", humanize.Comma(int64(s.Unique)),
		"duplicates", humanize.Comma(int64(s.Duplicates)),
		"duplicates_percent", fmt.Sprintf("%.1f", dupPct),
		"input_size", humanize.Bytes(uint64(inputSize)),
		"elapsed", s.Elapsed.Round(time.Millisecond),
	}
	if out, err := os.Stat(s.Output); err == nil {
		attrs = append(attrs, "output_size", humanize.Bytes(uint64(out.Size())))
	}
	slog.Info("conversion complete", attrs...)
}
