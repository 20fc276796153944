package ply

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// VertexElement is the element name holding point records.
const VertexElement = "vertex"

// maxHeaderBytes bounds the header scan so a binary file without an
// end_header line fails fast.
const maxHeaderBytes = 1 << 20

// Property is one declared property of an element.
type Property struct {
	Name string
	Type ScalarType

	// List properties carry a count type and an item type instead of Type.
	IsList    bool
	CountType ScalarType
	ItemType  ScalarType
}

// Element is one "element" declaration and its properties in order.
type Element struct {
	Name       string
	Count      int
	Properties []Property
}

// Stride is the byte size of one record of the element. ok is false when
// the element has list properties and records are variable length.
func (e Element) Stride() (stride int, ok bool) {
	for _, p := range e.Properties {
		if p.IsList {
			return 0, false
		}
		stride += p.Type.Size()
	}
	return stride, true
}

// Header is the parsed PLY header.
type Header struct {
	Format   Format
	Version  string
	Comments []string
	ObjInfo  []string
	Elements []Element

	// DataOffset is the byte offset of the first byte following the
	// end_header line.
	DataOffset int64

	vertexIndex int
}

// Vertex returns the vertex element.
func (h *Header) Vertex() Element {
	return h.Elements[h.vertexIndex]
}

// Preceding returns the elements declared before the vertex element. Their
// records sit in front of the vertex data and must be skipped.
func (h *Header) Preceding() []Element {
	return h.Elements[:h.vertexIndex]
}

// ParseHeader consumes the header from r, leaving r positioned at the first
// byte of the data section.
func ParseHeader(r *bufio.Reader) (*Header, error) {
	h := &Header{vertexIndex: -1}

	var (
		lineNo    int
		hasFormat bool
		format    string
		current   = -1
	)

	readLine := func() ([]string, string, error) {
		raw, err := r.ReadString('\n')
		h.DataOffset += int64(len(raw))
		if h.DataOffset > maxHeaderBytes {
			return nil, "", &MalformedHeaderError{Reason: "end_header not found"}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, "", &MalformedHeaderError{Reason: "end_header not found", cause: err}
			}
			return nil, "", err
		}
		lineNo++
		line := strings.TrimRight(raw, "\r\n")
		return strings.Fields(line), line, nil
	}

	magic, _, err := readLine()
	if err != nil {
		return nil, err
	}
	if len(magic) != 1 || magic[0] != "ply" {
		return nil, &MalformedHeaderError{Line: 1, Reason: "missing ply magic"}
	}

L_HEADER:
	for {
		args, line, err := readLine()
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "format":
			if len(args) < 2 {
				return nil, &UnsupportedFormatError{}
			}
			hasFormat = true
			format = args[1]
			if len(args) > 2 {
				h.Version = args[2]
			}
		case "comment":
			h.Comments = append(h.Comments, strings.TrimSpace(strings.TrimPrefix(line, "comment")))
		case "obj_info":
			h.ObjInfo = append(h.ObjInfo, strings.TrimSpace(strings.TrimPrefix(line, "obj_info")))
		case "element":
			if len(args) != 3 {
				return nil, &MalformedHeaderError{Line: lineNo, Reason: "element needs a name and a count"}
			}
			count, err := strconv.Atoi(args[2])
			if err != nil || count < 0 {
				return nil, &MalformedHeaderError{Line: lineNo, Reason: fmt.Sprintf("invalid count %q for element %q", args[2], args[1]), cause: err}
			}
			h.Elements = append(h.Elements, Element{Name: args[1], Count: count})
			current = len(h.Elements) - 1
			if args[1] == VertexElement && h.vertexIndex < 0 {
				h.vertexIndex = current
			}
		case "property":
			if current < 0 {
				return nil, &MalformedHeaderError{Line: lineNo, Reason: "property declared before any element"}
			}
			prop, err := parseProperty(args[1:])
			if err != nil {
				return nil, &MalformedHeaderError{Line: lineNo, Reason: err.Error(), cause: err}
			}
			h.Elements[current].Properties = append(h.Elements[current].Properties, prop)
		case "end_header":
			break L_HEADER
		default:
			return nil, &MalformedHeaderError{Line: lineNo, Reason: fmt.Sprintf("unknown keyword %q", args[0])}
		}
	}

	if !hasFormat {
		return nil, &UnsupportedFormatError{}
	}
	f, ok := parseFormat(format)
	if !ok {
		return nil, &UnsupportedFormatError{Format: format}
	}
	h.Format = f

	if h.vertexIndex < 0 {
		return nil, &MalformedHeaderError{Reason: "no vertex element declared"}
	}
	for _, p := range h.Vertex().Properties {
		if p.IsList {
			return nil, &MalformedHeaderError{Reason: fmt.Sprintf("vertex property %q is a list", p.Name)}
		}
	}

	return h, nil
}

func parseProperty(args []string) (Property, error) {
	if len(args) >= 1 && args[0] == "list" {
		if len(args) != 4 {
			return Property{}, errors.New("list property needs count type, item type and name")
		}
		countType, ok := ParseScalarType(args[1])
		if !ok {
			return Property{}, fmt.Errorf("unknown list count type %q", args[1])
		}
		itemType, ok := ParseScalarType(args[2])
		if !ok {
			return Property{}, fmt.Errorf("unknown list item type %q", args[2])
		}
		return Property{Name: args[3], IsList: true, CountType: countType, ItemType: itemType}, nil
	}
	if len(args) != 2 {
		return Property{}, errors.New("property needs a type and a name")
	}
	t, ok := ParseScalarType(args[0])
	if !ok {
		return Property{}, fmt.Errorf("unknown property type %q", args[0])
	}
	return Property{Name: args[1], Type: t}, nil
}
