// Package testutil builds PLY fixtures for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ByteOrder is a byte order that can also append.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Property is a declared vertex property: a PLY type name and a name.
type Property struct {
	Type string
	Name string
}

// Cloud is an in-memory vertex table that can be encoded in every PLY
// format.
type Cloud struct {
	Properties []Property
	Rows       [][]float64

	// Count overrides the declared vertex count when non-zero.
	Count int
	// Comments are written as comment lines after the format line.
	Comments []string
}

// XYZRGB declares float positions and uchar colors named red/green/blue.
func XYZRGB(rows ...[]float64) Cloud {
	return Cloud{
		Properties: []Property{
			{"float", "x"}, {"float", "y"}, {"float", "z"},
			{"uchar", "red"}, {"uchar", "green"}, {"uchar", "blue"},
		},
		Rows: rows,
	}
}

// Header renders the header for the given format token.
func (c Cloud) Header(format string) []byte {
	var b strings.Builder
	b.WriteString("ply\n")
	fmt.Fprintf(&b, "format %s 1.0\n", format)
	for _, comment := range c.Comments {
		fmt.Fprintf(&b, "comment %s\n", comment)
	}
	count := c.Count
	if count == 0 {
		count = len(c.Rows)
	}
	fmt.Fprintf(&b, "element vertex %d\n", count)
	for _, p := range c.Properties {
		fmt.Fprintf(&b, "property %s %s\n", p.Type, p.Name)
	}
	b.WriteString("end_header\n")
	return []byte(b.String())
}

// ASCII encodes the cloud as a text PLY.
func (c Cloud) ASCII() []byte {
	buf := bytes.NewBuffer(c.Header("ascii"))
	for _, row := range c.Rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		buf.WriteString(strings.Join(fields, " "))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Binary encodes the cloud as a binary PLY in the given byte order.
func (c Cloud) Binary(order ByteOrder) []byte {
	format := "binary_little_endian"
	if order.String() == binary.BigEndian.String() {
		format = "binary_big_endian"
	}
	buf := bytes.NewBuffer(c.Header(format))
	for _, row := range c.Rows {
		buf.Write(c.Record(order, row))
	}
	return buf.Bytes()
}

// Record encodes a single binary vertex record.
func (c Cloud) Record(order ByteOrder, row []float64) []byte {
	var out []byte
	for i, p := range c.Properties {
		out = AppendScalar(out, order, p.Type, row[i])
	}
	return out
}

// AppendScalar appends v encoded as the PLY type name t.
func AppendScalar(dst []byte, order ByteOrder, t string, v float64) []byte {
	switch t {
	case "char", "int8":
		return append(dst, byte(int8(v)))
	case "uchar", "uint8":
		return append(dst, uint8(v))
	case "short", "int16":
		return order.AppendUint16(dst, uint16(int16(v)))
	case "ushort", "uint16":
		return order.AppendUint16(dst, uint16(v))
	case "int", "int32":
		return order.AppendUint32(dst, uint32(int32(v)))
	case "uint", "uint32":
		return order.AppendUint32(dst, uint32(v))
	case "int64":
		return order.AppendUint64(dst, uint64(int64(v)))
	case "uint64":
		return order.AppendUint64(dst, uint64(v))
	case "float", "float32":
		return order.AppendUint32(dst, math.Float32bits(float32(v)))
	case "double", "float64":
		return order.AppendUint64(dst, math.Float64bits(v))
	}
	panic("testutil: unknown ply type " + t)
}
