// Package colmap writes COLMAP sparse reconstruction point lists
// (points3D.txt).
package colmap

import (
	"fmt"
	"io"
	"strconv"

	"github.com/EliCDavis/vector/vector3"
)

// DefaultFileName is the point list's conventional name inside a
// sparse/0 folder.
const DefaultFileName = "points3D.txt"

// CoordinatePrecision is the number of decimals written for X, Y and Z.
// Points that are equal at this precision are the same point.
const CoordinatePrecision = 6

// Point is one record of the point list. Points converted from a cloud have
// no observations, so the error is always 0 and the track empty.
type Point struct {
	ID       uint64
	Position vector3.Float64
	Color    [3]uint8
}

// WriteHeader writes the three comment lines that open a points3D.txt.
func WriteHeader(w io.Writer, count int) error {
	_, err := fmt.Fprintf(w,
		"# 3D point list with one line of data per point:\n"+
			"#   POINT3D_ID, X, Y, Z, R, G, B, ERROR, TRACK[] as (IMAGE_ID, POINT2D_IDX)\n"+
			"# Number of points: %d, mean track length: 0.0\n",
		count,
	)
	return err
}

// AppendKey appends "X Y Z R G B" exactly as the values appear in a
// record.
func AppendKey(dst []byte, pos vector3.Float64, color [3]uint8) []byte {
	dst = strconv.AppendFloat(dst, pos.X(), 'f', CoordinatePrecision, 64)
	dst = append(dst, ' ')
	dst = strconv.AppendFloat(dst, pos.Y(), 'f', CoordinatePrecision, 64)
	dst = append(dst, ' ')
	dst = strconv.AppendFloat(dst, pos.Z(), 'f', CoordinatePrecision, 64)
	for _, c := range color {
		dst = append(dst, ' ')
		dst = strconv.AppendUint(dst, uint64(c), 10)
	}
	return dst
}

// AppendRecord appends the full record line of p including the newline.
func AppendRecord(dst []byte, p Point) []byte {
	dst = strconv.AppendUint(dst, p.ID, 10)
	dst = append(dst, ' ')
	dst = AppendKey(dst, p.Position, p.Color)
	return append(dst, " 0\n"...)
}
