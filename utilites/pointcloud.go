package utilites

import (
	"bufio"
	"io"
	"os"

	"github.com/EliCDavis/polyform/formats/ply"
	"github.com/EliCDavis/polyform/modeling"
	"github.com/EliCDavis/vector/vector3"
	"github.com/recolude/ply2colmap/colmap"
)

// PreviewCloud keeps an evenly thinned subset of at most limit points so a
// converted cloud can be eyeballed in any PLY viewer. Whenever the subset is
// full every other point is dropped and the sampling step doubles.
type PreviewCloud struct {
	limit     int
	step      uint64
	positions []vector3.Float64
	colors    []vector3.Float64
}

// NewPreviewCloud returns an empty preview holding at most limit points.
func NewPreviewCloud(limit int) *PreviewCloud {
	if limit < 1 {
		limit = 1
	}
	return &PreviewCloud{
		limit:     limit,
		step:      1,
		positions: make([]vector3.Float64, 0, limit),
		colors:    make([]vector3.Float64, 0, limit),
	}
}

// Add offers a point to the preview.
func (p *PreviewCloud) Add(pt colmap.Point) {
	if (pt.ID-1)%p.step != 0 {
		return
	}
	if len(p.positions) == p.limit {
		p.thin()
		if (pt.ID-1)%p.step != 0 {
			return
		}
	}
	p.positions = append(p.positions, pt.Position)
	p.colors = append(p.colors, vector3.New(float64(pt.Color[0]), float64(pt.Color[1]), float64(pt.Color[2])).DivByConstant(255.))
}

func (p *PreviewCloud) thin() {
	n := 0
	for i := 0; i < len(p.positions); i += 2 {
		p.positions[n] = p.positions[i]
		p.colors[n] = p.colors[i]
		n++
	}
	p.positions = p.positions[:n]
	p.colors = p.colors[:n]
	p.step *= 2
}

// Len is the number of points currently kept.
func (p *PreviewCloud) Len() int {
	return len(p.positions)
}

// Mesh returns the kept points as a point cloud.
func (p *PreviewCloud) Mesh() modeling.Mesh {
	return modeling.NewPointCloud(
		map[string][]vector3.Vector[float64]{
			modeling.PositionAttribute: p.positions,
			modeling.ColorAttribute:    p.colors,
		},
		nil,
		nil,
		nil,
	)
}

// Write writes the preview as a binary PLY.
func (p *PreviewCloud) Write(w io.Writer) error {
	return ply.WriteBinary(w, p.Mesh())
}

// Save writes the preview to a PLY file at path.
func (p *PreviewCloud) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := p.Write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}
