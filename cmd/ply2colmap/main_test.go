package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/recolude/ply2colmap/colmap"
	"github.com/recolude/ply2colmap/testutil"
	"github.com/recolude/ply2colmap/utilites"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "dense.ply")
	cloud := testutil.XYZRGB(
		[]float64{1, 2, 3, 10, 20, 30},
		[]float64{1, 2, 3, 10, 20, 30},
		[]float64{4, 5, 6, 40, 50, 60},
	)
	require.NoError(t, os.WriteFile(input, cloud.Binary(binary.LittleEndian), 0o644))
	settings := filepath.Join(dir, "config", "settings.yaml")
	preview := filepath.Join(dir, "preview.ply")

	err := newApp().Run([]string{"ply2colmap", "convert", "--settings", settings, "--preview", preview, input})
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(dir, colmap.DefaultFileName))
	require.NoError(t, err)
	assert.Contains(t, string(out), "# Number of points: 2, mean track length: 0.0\n")
	assert.True(t, strings.HasSuffix(string(out), "2 4.000000 5.000000 6.000000 40 50 60 0\n"))

	backups, err := filepath.Glob(filepath.Join(dir, "dense_backup_*.ply"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	_, err = os.Stat(preview)
	assert.NoError(t, err)

	s, err := utilites.LoadSettings(settings)
	require.NoError(t, err)
	assert.Equal(t, input, s.LastInput)

	// Without an input the last converted file is used again.
	custom := filepath.Join(dir, "custom.txt")
	err = newApp().Run([]string{"ply2colmap", "--log-format", "json", "convert", "--settings", settings, "--no-backup", "--out", custom})
	require.NoError(t, err)
	again, err := os.ReadFile(custom)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestConvertCommandNoInput(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	err := newApp().Run([]string{"ply2colmap", "convert", "--settings", settings})
	assert.EqualError(t, err, "no input file given")
}

func TestConvertCommandBadLogFormat(t *testing.T) {
	err := newApp().Run([]string{"ply2colmap", "--log-format", "xml", "inspect", "x.ply"})
	assert.EqualError(t, err, `unknown log format "xml"`)
}

func TestInspectCommand(t *testing.T) {
	input := filepath.Join(t.TempDir(), "cloud.ply")
	cloud := testutil.Cloud{
		Properties: []testutil.Property{
			{Type: "double", Name: "x"}, {Type: "double", Name: "y"}, {Type: "double", Name: "z"}, {Type: "float", Name: "nx"},
		},
		Rows:     [][]float64{{1, 2, 3, 0}},
		Comments: []string{"made by hand"},
	}
	require.NoError(t, os.WriteFile(input, cloud.Binary(binary.BigEndian), 0o644))

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	require.NoError(t, app.Run([]string{"ply2colmap", "inspect", input}))

	out := buf.String()
	assert.Contains(t, out, "format:      binary_big_endian 1.0\n")
	assert.Contains(t, out, "comment:     made by hand\n")
	assert.Contains(t, out, "element vertex: 1\n")
	assert.Contains(t, out, "  float nx\n")
	assert.Contains(t, out, "position:    x y z\n")
	assert.Contains(t, out, "color:       none, defaults to [128 128 128]\n")
	assert.Contains(t, out, "stride:      28 bytes\n")
}
