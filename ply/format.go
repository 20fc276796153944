package ply

import (
	"encoding/binary"
)

// Format is the encoding of the data section following the header.
type Format int

const (
	ASCII Format = iota
	BinaryLittleEndian
	BinaryBigEndian
)

func (f Format) String() string {
	switch f {
	case ASCII:
		return "ascii"
	case BinaryLittleEndian:
		return "binary_little_endian"
	case BinaryBigEndian:
		return "binary_big_endian"
	}
	return "unknown"
}

// ByteOrder returns the byte order of a binary format, nil for ASCII.
func (f Format) ByteOrder() binary.ByteOrder {
	switch f {
	case BinaryLittleEndian:
		return binary.LittleEndian
	case BinaryBigEndian:
		return binary.BigEndian
	}
	return nil
}

func parseFormat(token string) (Format, bool) {
	switch token {
	case "ascii":
		return ASCII, true
	case "binary_little_endian":
		return BinaryLittleEndian, true
	case "binary_big_endian":
		return BinaryBigEndian, true
	}
	return 0, false
}

// ScalarType is a primitive property type.
type ScalarType int

const (
	Int8 ScalarType = iota + 1
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
)

var scalarTypeNames = map[string]ScalarType{
	"char":    Int8,
	"int8":    Int8,
	"uchar":   Uint8,
	"uint8":   Uint8,
	"short":   Int16,
	"int16":   Int16,
	"ushort":  Uint16,
	"uint16":  Uint16,
	"int":     Int32,
	"int32":   Int32,
	"uint":    Uint32,
	"uint32":  Uint32,
	"int64":   Int64,
	"uint64":  Uint64,
	"float":   Float32,
	"float32": Float32,
	"double":  Float64,
	"float64": Float64,
}

// ParseScalarType resolves a header type name, both the classic
// (uchar, float) and the sized (uint8, float32) spellings.
func ParseScalarType(name string) (ScalarType, bool) {
	t, ok := scalarTypeNames[name]
	return t, ok
}

// Size is the width of the type in bytes.
func (t ScalarType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	}
	return 0
}

// IsFloat reports whether the type is a floating point type.
func (t ScalarType) IsFloat() bool {
	return t == Float32 || t == Float64
}

func (t ScalarType) String() string {
	switch t {
	case Int8:
		return "char"
	case Uint8:
		return "uchar"
	case Int16:
		return "short"
	case Uint16:
		return "ushort"
	case Int32:
		return "int"
	case Uint32:
		return "uint"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Float32:
		return "float"
	case Float64:
		return "double"
	}
	return "unknown"
}
