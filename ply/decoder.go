package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/EliCDavis/vector/vector3"
)

// VertexReader yields the vertices of a PLY body one at a time. Next returns
// io.EOF once the declared vertex count has been produced. A reader makes a
// single forward pass and can't be rewound.
type VertexReader interface {
	Next() (Vertex, error)
	// Decoded is the number of vertices returned so far.
	Decoded() int
}

// NewVertexReader returns the decoder matching the header's format. r must
// be positioned at the start of the data section, i.e. where ParseHeader
// left it.
func NewVertexReader(r *bufio.Reader, h *Header, fields Fields) VertexReader {
	base := vertexReader{
		r:         r,
		fields:    fields,
		declared:  h.Vertex().Count,
		preceding: h.Preceding(),
	}
	if order := h.Format.ByteOrder(); order != nil {
		return &binaryReader{
			vertexReader: base,
			order:        order,
			buf:          make([]byte, fields.Stride),
		}
	}
	return &textReader{vertexReader: base}
}

type vertexReader struct {
	r         *bufio.Reader
	fields    Fields
	declared  int
	decoded   int
	preceding []Element
	skipped   bool
}

func (v *vertexReader) Decoded() int {
	return v.decoded
}

// truncated reports a body that ended before the declared data. A bare
// io.EOF is replaced so the error never reads as a normal end of vertices.
func (v *vertexReader) truncated(cause error) error {
	if cause == io.EOF {
		cause = io.ErrUnexpectedEOF
	}
	return &TruncatedDataError{Declared: v.declared, Decoded: v.decoded, cause: cause}
}

type textReader struct {
	vertexReader
}

func (t *textReader) Next() (Vertex, error) {
	if !t.skipped {
		t.skipped = true
		for _, e := range t.preceding {
			for i := 0; i < e.Count; i++ {
				if _, err := t.line(); err != nil {
					return Vertex{}, t.truncated(err)
				}
			}
		}
	}
	if t.decoded >= t.declared {
		return Vertex{}, io.EOF
	}

	tokens, err := t.line()
	if err != nil {
		return Vertex{}, t.truncated(err)
	}
	if len(tokens) < t.fields.Count {
		return Vertex{}, t.truncated(fmt.Errorf("line has %d values, %d properties declared", len(tokens), t.fields.Count))
	}

	var (
		pos [3]float64
		vtx = Vertex{Color: DefaultColor}
	)
	for i, f := range t.fields.Position {
		if pos[i], err = t.parse(tokens, f); err != nil {
			return Vertex{}, err
		}
	}
	vtx.Position = vector3.New(pos[0], pos[1], pos[2])
	if t.fields.HasColor {
		for i, f := range t.fields.Color {
			c, err := t.parse(tokens, f)
			if err != nil {
				return Vertex{}, err
			}
			vtx.Color[i] = colorChannel(c)
		}
	}

	t.decoded++
	return vtx, nil
}

// line returns the tokens of the next non blank line.
func (t *textReader) line() ([]string, error) {
	for {
		raw, err := t.r.ReadString('\n')
		if tokens := strings.Fields(raw); len(tokens) > 0 {
			return tokens, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
}

func (t *textReader) parse(tokens []string, f Field) (float64, error) {
	tok := tokens[f.Index]
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &DecodeError{Vertex: t.decoded, Property: t.fields.Name(f.Index), Token: tok, cause: err}
	}
	return v, nil
}

type binaryReader struct {
	vertexReader
	order binary.ByteOrder
	buf   []byte
}

func (b *binaryReader) Next() (Vertex, error) {
	if !b.skipped {
		b.skipped = true
		for _, e := range b.preceding {
			if err := b.skip(e); err != nil {
				return Vertex{}, b.truncated(err)
			}
		}
	}
	if b.decoded >= b.declared {
		return Vertex{}, io.EOF
	}

	if _, err := io.ReadFull(b.r, b.buf); err != nil {
		return Vertex{}, b.truncated(err)
	}

	vtx := Vertex{Color: DefaultColor}
	p := b.fields.Position
	vtx.Position = vector3.New(b.scalar(p[0]), b.scalar(p[1]), b.scalar(p[2]))
	if b.fields.HasColor {
		for i, f := range b.fields.Color {
			vtx.Color[i] = colorChannel(b.scalar(f))
		}
	}

	b.decoded++
	return vtx, nil
}

// skip discards every record of e. Records with list properties are walked
// property by property since their size is only known from the counts.
func (b *binaryReader) skip(e Element) error {
	if stride, ok := e.Stride(); ok {
		_, err := io.CopyN(io.Discard, b.r, int64(stride)*int64(e.Count))
		return err
	}
	var count [8]byte
	for i := 0; i < e.Count; i++ {
		for _, p := range e.Properties {
			if !p.IsList {
				if _, err := b.r.Discard(p.Type.Size()); err != nil {
					return err
				}
				continue
			}
			size := p.CountType.Size()
			if _, err := io.ReadFull(b.r, count[:size]); err != nil {
				return err
			}
			n := decodeScalar(count[:size], p.CountType, b.order)
			if n < 0 || p.CountType.IsFloat() {
				return fmt.Errorf("element %s record %d: invalid list count %v for %s", e.Name, i, n, p.Name)
			}
			if _, err := b.r.Discard(int(n) * p.ItemType.Size()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *binaryReader) scalar(f Field) float64 {
	return decodeScalar(b.buf[f.Offset:f.Offset+f.Type.Size()], f.Type, b.order)
}

func decodeScalar(data []byte, t ScalarType, order binary.ByteOrder) float64 {
	switch t {
	case Int8:
		return float64(int8(data[0]))
	case Uint8:
		return float64(data[0])
	case Int16:
		return float64(int16(order.Uint16(data)))
	case Uint16:
		return float64(order.Uint16(data))
	case Int32:
		return float64(int32(order.Uint32(data)))
	case Uint32:
		return float64(order.Uint32(data))
	case Int64:
		return float64(int64(order.Uint64(data)))
	case Uint64:
		return float64(order.Uint64(data))
	case Float32:
		return float64(math.Float32frombits(order.Uint32(data)))
	case Float64:
		return math.Float64frombits(order.Uint64(data))
	}
	return 0
}
