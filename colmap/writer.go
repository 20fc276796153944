package colmap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// OutputWriteError is returned when the point list can't be written to its
// destination.
type OutputWriteError struct {
	Path  string
	Op    string
	cause error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("write %s: %s: %v", e.Path, e.Op, e.cause)
}

func (e *OutputWriteError) Unwrap() error { return e.cause }

// Writer streams points into a spool file next to the destination. The
// header needs the final count, so the destination is only assembled on
// Commit, from the header followed by the spooled records.
type Writer struct {
	path  string
	spool *os.File
	bw    *bufio.Writer
	buf   []byte
	count int
	done  bool
}

// Create prepares a writer for the point list at path. Nothing is written
// to path itself before Commit.
func Create(path string) (*Writer, error) {
	spool, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".spool-*")
	if err != nil {
		return nil, &OutputWriteError{Path: path, Op: "create spool", cause: err}
	}
	return &Writer{
		path:  path,
		spool: spool,
		bw:    bufio.NewWriterSize(spool, 1<<20),
		buf:   make([]byte, 0, 128),
	}, nil
}

// Path is the destination of the point list.
func (w *Writer) Path() string {
	return w.path
}

// Count is the number of points written so far.
func (w *Writer) Count() int {
	return w.count
}

// WritePoint appends one record.
func (w *Writer) WritePoint(p Point) error {
	w.buf = AppendRecord(w.buf[:0], p)
	if _, err := w.bw.Write(w.buf); err != nil {
		return &OutputWriteError{Path: w.path, Op: "write point", cause: err}
	}
	w.count++
	return nil
}

// Commit writes the header and the spooled records to the destination and
// removes the spool. The destination is replaced by rename, so it is never
// observed half written.
func (w *Writer) Commit() (err error) {
	if w.done {
		return nil
	}
	w.done = true
	defer w.removeSpool()

	fail := func(op string, cause error) error {
		return &OutputWriteError{Path: w.path, Op: op, cause: cause}
	}

	if err := w.bw.Flush(); err != nil {
		return fail("flush spool", err)
	}
	if _, err := w.spool.Seek(0, io.SeekStart); err != nil {
		return fail("rewind spool", err)
	}

	out, err := os.CreateTemp(filepath.Dir(w.path), "."+filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return fail("create", err)
	}
	tmp := out.Name()
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriterSize(out, 1<<20)
	if err := WriteHeader(bw, w.count); err != nil {
		out.Close()
		return fail("write header", err)
	}
	if _, err := io.Copy(bw, w.spool); err != nil {
		out.Close()
		return fail("copy points", err)
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return fail("flush", err)
	}
	if err := out.Close(); err != nil {
		return fail("close", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fail("chmod", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		return fail("rename", err)
	}
	return nil
}

// Abort discards everything written so far.
func (w *Writer) Abort() {
	if w.done {
		return
	}
	w.done = true
	w.removeSpool()
}

func (w *Writer) removeSpool() {
	w.spool.Close()
	os.Remove(w.spool.Name())
}
