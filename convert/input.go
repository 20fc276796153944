package convert

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the container an input PLY is wrapped in.
type Compression int

const (
	Uncompressed Compression = iota
	Gzip
	Zstd
	LZ4
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	}
	return "none"
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

const readBufferSize = 1 << 20

// Input is a sequential reader over a (possibly decompressed) PLY stream.
type Input struct {
	*bufio.Reader
	Compression Compression

	closers []io.Closer
}

// Close releases the decompressor and the underlying file.
func (in *Input) Close() error {
	var errs []error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenInput opens a PLY file for a single sequential pass.
func OpenInput(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	in, err := NewInput(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	in.closers = append([]io.Closer{f}, in.closers...)
	return in, nil
}

// NewInput sniffs r for a gzip, zstd or lz4 frame container and returns a buffered
// reader over the plain PLY bytes.
func NewInput(r io.Reader) (*Input, error) {
	br := bufio.NewReaderSize(r, readBufferSize)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &Input{
			Reader:      bufio.NewReaderSize(zr, readBufferSize),
			Compression: Gzip,
			closers:     []io.Closer{zr},
		}, nil
	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		rc := zr.IOReadCloser()
		return &Input{
			Reader:      bufio.NewReaderSize(rc, readBufferSize),
			Compression: Zstd,
			closers:     []io.Closer{rc},
		}, nil
	case bytes.HasPrefix(magic, lz4Magic):
		return &Input{
			Reader:      bufio.NewReaderSize(lz4.NewReader(br), readBufferSize),
			Compression: LZ4,
		}, nil
	}
	return &Input{Reader: br, Compression: Uncompressed}, nil
}
