package colmap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/EliCDavis/vector/vector3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRecord(t *testing.T) {
	for name, tc := range map[string]struct {
		point    Point
		expected string
	}{
		"Simple": {
			point:    Point{ID: 1, Position: vector3.New(1., 2., 3.), Color: [3]uint8{255, 0, 128}},
			expected: "1 1.000000 2.000000 3.000000 255 0 128 0\n",
		},
		"Rounding": {
			point:    Point{ID: 42, Position: vector3.New(-0.0000004, 1.23456789, -98765.4321), Color: [3]uint8{1, 2, 3}},
			expected: "42 -0.000000 1.234568 -98765.432100 1 2 3 0\n",
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, string(AppendRecord(nil, tc.point)))
		})
	}
}

func TestAppendKeyPrecision(t *testing.T) {
	a := AppendKey(nil, vector3.New(1.0000001, 2., 3.), [3]uint8{1, 2, 3})
	b := AppendKey(nil, vector3.New(1.0000004, 2., 3.), [3]uint8{1, 2, 3})
	c := AppendKey(nil, vector3.New(1.000001, 2., 3.), [3]uint8{1, 2, 3})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, 3))
	assert.Equal(t,
		"# 3D point list with one line of data per point:\n"+
			"#   POINT3D_ID, X, Y, Z, R, G, B, ERROR, TRACK[] as (IMAGE_ID, POINT2D_IDX)\n"+
			"# Number of points: 3, mean track length: 0.0\n",
		buf.String(),
	)
}

func TestWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	w, err := Create(path)
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())

	require.NoError(t, w.WritePoint(Point{ID: 1, Position: vector3.New(0.5, 0.25, 0.125), Color: [3]uint8{10, 20, 30}}))
	require.NoError(t, w.WritePoint(Point{ID: 2, Position: vector3.New(-1., -2., -3.), Color: [3]uint8{128, 128, 128}}))
	assert.Equal(t, 2, w.Count())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "destination written before commit")

	require.NoError(t, w.Commit())
	require.NoError(t, w.Commit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"# 3D point list with one line of data per point:\n"+
			"#   POINT3D_ID, X, Y, Z, R, G, B, ERROR, TRACK[] as (IMAGE_ID, POINT2D_IDX)\n"+
			"# Number of points: 2, mean track length: 0.0\n"+
			"1 0.500000 0.250000 0.125000 10 20 30 0\n"+
			"2 -1.000000 -2.000000 -3.000000 128 128 128 0\n",
		string(data),
	)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "spool left behind")
	assert.Equal(t, DefaultFileName, entries[0].Name())
}

func TestWriterEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.txt")
	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Commit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Number of points: 0, mean track length: 0.0\n")
}

func TestWriterAbort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WritePoint(Point{ID: 1}))
	w.Abort()
	w.Abort()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCreateMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", DefaultFileName)
	_, err := Create(path)
	var target *OutputWriteError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, path, target.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
