package ply

import (
	"strings"
)

// Field locates one property inside a vertex record.
type Field struct {
	Index  int
	Type   ScalarType
	Offset int
}

// Fields maps the vertex properties to position and color roles.
type Fields struct {
	Position [3]Field
	Color    [3]Field
	HasColor bool

	// Count is the number of declared properties, Stride their total byte
	// width. Both include properties no role is assigned to.
	Count  int
	Stride int

	names []string
}

// Name returns the declared name of the property at index i.
func (f Fields) Name(i int) string {
	return f.names[i]
}

var colorNameSets = [][3]string{
	{"red", "green", "blue"},
	{"r", "g", "b"},
}

// LocateFields resolves the position and color roles of a vertex property
// list. Names match case-insensitively. Color is optional.
func LocateFields(props []Property) (Fields, error) {
	fields := Fields{Count: len(props), names: make([]string, len(props))}

	offsets := make(map[string]Field, len(props))
	for i, p := range props {
		fields.names[i] = p.Name
		key := strings.ToLower(p.Name)
		if _, dup := offsets[key]; !dup {
			offsets[key] = Field{Index: i, Type: p.Type, Offset: fields.Stride}
		}
		fields.Stride += p.Type.Size()
	}

	for i, name := range [3]string{"x", "y", "z"} {
		f, ok := offsets[name]
		if !ok {
			return Fields{}, &MissingPositionFieldError{Field: name}
		}
		fields.Position[i] = f
	}

	for _, set := range colorNameSets {
		r, okR := offsets[set[0]]
		g, okG := offsets[set[1]]
		b, okB := offsets[set[2]]
		if okR && okG && okB {
			fields.Color = [3]Field{r, g, b}
			fields.HasColor = true
			break
		}
	}

	return fields, nil
}
