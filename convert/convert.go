// Package convert turns PLY point clouds into COLMAP point lists, dropping
// vertices that are duplicates at output precision.
package convert

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/recolude/ply2colmap/colmap"
	"github.com/recolude/ply2colmap/ply"
)

type options struct {
	progressInterval int
	progressFunc     func(Progress)
	pointFunc        func(colmap.Point)
	logger           *slog.Logger
	now              func() time.Time
}

// Option configures a conversion.
type Option func(*options)

// WithProgress reports progress every interval processed vertices. An
// interval <= 0 selects DefaultProgressInterval.
func WithProgress(interval int, fn func(Progress)) Option {
	return func(o *options) {
		o.progressInterval = interval
		o.progressFunc = fn
	}
}

// WithPointFunc registers an observer for every emitted point.
func WithPointFunc(fn func(colmap.Point)) Option {
	return func(o *options) {
		o.pointFunc = fn
	}
}

// WithLogger sets the logger used for debug output. Nil discards logs.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Summary describes a finished conversion.
type Summary struct {
	Input       string
	Output      string
	Format      ply.Format
	Compression Compression
	HasColor    bool

	Declared   int
	Unique     int
	Duplicates int
	Elapsed    time.Duration
}

// Convert reads one PLY stream from r and writes its unique points to w.
func Convert(r *bufio.Reader, w PointWriter, opts ...Option) (Summary, error) {
	o := newOptions(opts)

	header, err := ply.ParseHeader(r)
	if err != nil {
		return Summary{}, err
	}
	vertex := header.Vertex()
	fields, err := ply.LocateFields(vertex.Properties)
	if err != nil {
		return Summary{}, err
	}

	o.logger.Debug("parsed ply header",
		"format", header.Format,
		"vertices", vertex.Count,
		"properties", fields.Count,
		"stride", fields.Stride,
		"color", fields.HasColor,
		"data_offset", header.DataOffset,
	)
	if !fields.HasColor {
		o.logger.Debug("no color properties, using default gray")
	}

	engine := &Engine{
		ProgressInterval: o.progressInterval,
		ProgressFunc:     o.progressFunc,
		PointFunc:        o.pointFunc,
		now:              o.now,
	}
	res, err := engine.Run(ply.NewVertexReader(r, header, fields), vertex.Count, w)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Format:     header.Format,
		HasColor:   fields.HasColor,
		Declared:   vertex.Count,
		Unique:     res.Unique,
		Duplicates: vertex.Count - res.Unique,
		Elapsed:    res.Elapsed,
	}, nil
}

// File converts the PLY file at input into a point list at output. On error
// the output is left untouched.
func File(input, output string, opts ...Option) (Summary, error) {
	in, err := OpenInput(input)
	if err != nil {
		return Summary{}, err
	}
	defer in.Close()

	w, err := colmap.Create(output)
	if err != nil {
		return Summary{}, err
	}

	summary, err := Convert(in.Reader, w, opts...)
	if err != nil {
		w.Abort()
		return Summary{}, fmt.Errorf("convert %s: %w", input, err)
	}
	if err := w.Commit(); err != nil {
		return Summary{}, err
	}

	summary.Input = input
	summary.Output = output
	summary.Compression = in.Compression
	return summary, nil
}
