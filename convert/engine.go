package convert

import (
	"io"
	"time"

	"github.com/recolude/ply2colmap/colmap"
	"github.com/recolude/ply2colmap/ply"
)

// DefaultProgressInterval is the number of processed vertices between two
// progress reports.
const DefaultProgressInterval = 500_000

// Progress is reported while vertices are processed.
type Progress struct {
	Processed int
	Total     int
	Unique    int
	Elapsed   time.Duration
	Remaining time.Duration
}

// PointWriter receives the unique points in identifier order.
type PointWriter interface {
	WritePoint(p colmap.Point) error
}

// Engine drops duplicate vertices and assigns point identifiers.
type Engine struct {
	// ProgressInterval defaults to DefaultProgressInterval.
	ProgressInterval int
	ProgressFunc     func(Progress)

	// PointFunc observes every emitted point after it was written.
	PointFunc func(colmap.Point)

	now func() time.Time
}

// Result is the outcome of one Engine.Run.
type Result struct {
	Processed  int
	Unique     int
	Duplicates int
	Elapsed    time.Duration
}

// Run consumes vertices until the reader is exhausted, writing each vertex
// whose formatted record wasn't seen before.
func (e *Engine) Run(vertices ply.VertexReader, total int, w PointWriter) (Result, error) {
	interval := e.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	now := e.now
	if now == nil {
		now = time.Now
	}

	var (
		start = now()
		seen  = make(map[string]struct{})
		key   []byte
		res   Result
	)

	for {
		v, err := vertices.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, err
		}
		res.Processed++

		key = colmap.AppendKey(key[:0], v.Position, v.Color)
		if _, dup := seen[string(key)]; dup {
			res.Duplicates++
		} else {
			seen[string(key)] = struct{}{}
			res.Unique++
			p := colmap.Point{ID: uint64(res.Unique), Position: v.Position, Color: v.Color}
			if err := w.WritePoint(p); err != nil {
				return res, err
			}
			if e.PointFunc != nil {
				e.PointFunc(p)
			}
		}

		if e.ProgressFunc != nil && res.Processed%interval == 0 {
			e.ProgressFunc(progress(res, total, now().Sub(start)))
		}
	}

	res.Elapsed = now().Sub(start)
	return res, nil
}

func progress(res Result, total int, elapsed time.Duration) Progress {
	p := Progress{
		Processed: res.Processed,
		Total:     total,
		Unique:    res.Unique,
		Elapsed:   elapsed,
	}
	if res.Processed > 0 && total > res.Processed {
		perVertex := float64(elapsed) / float64(res.Processed)
		p.Remaining = time.Duration(perVertex * float64(total-res.Processed))
	}
	return p
}
