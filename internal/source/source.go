// Package source reads bibliography files and opens output destinations.
// xz-compressed input is detected by its header; output is compressed when
// the destination path ends in ".xz".
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/citesort/core/errors"
	"github.com/FocuswithJustin/citesort/internal/validation"
)

// Input is the fully read content of an input file.
type Input struct {
	Path       string
	Data       []byte
	Compressed bool
}

// ReadFile opens path, reads it to the end (decompressing xz input) and
// closes it. A missing file is reported as *errors.NotFoundError.
func ReadFile(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("input file", path)
		}
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.NewIO("stat", path, err)
	}
	if info.IsDir() {
		return nil, &errors.NotFoundError{Resource: "input file", ID: path + " (is a directory)"}
	}

	br := bufio.NewReader(f)
	var reader io.Reader = br
	compressed := false

	header, _ := br.Peek(xz.HeaderLen)
	if name := otherCompression(header); name != "" {
		return nil, errors.NewUnsupported("compression", name+" input; only xz is read")
	}
	if xz.ValidHeader(header) {
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, errors.NewIO("decompress", path, err)
		}
		reader = xzr
		compressed = true
	}

	// One byte past the limit tells an oversized file from one exactly at it
	data, err := io.ReadAll(io.LimitReader(reader, validation.MaxFileSize+1))
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	if len(data) > validation.MaxFileSize {
		return nil, &errors.ValidationError{
			Field:   "input",
			Value:   path,
			Message: fmt.Sprintf("file exceeds %d bytes", validation.MaxFileSize),
		}
	}

	return &Input{Path: path, Data: data, Compressed: compressed}, nil
}

// Output is an open output destination.
type Output struct {
	Path string

	file *os.File
	xzw  *xz.Writer
	w    io.Writer
}

// Create opens path for writing, truncating it and creating missing parent
// directories. The caller must Close the output.
func Create(path string) (*Output, error) {
	if ext := strings.ToLower(filepath.Ext(path)); unsupportedSuffixes[ext] {
		return nil, errors.NewUnsupported("compression", ext+" output; only .xz is written")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.NewIO("create directory", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewIO("create", path, err)
	}

	out := &Output{Path: path, file: f, w: f}
	if IsCompressedPath(path) {
		xzw, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("compress", path, err)
		}
		out.xzw = xzw
		out.w = xzw
	}
	return out, nil
}

// Write implements io.Writer.
func (o *Output) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

// Compressed reports whether the output is xz-compressed.
func (o *Output) Compressed() bool {
	return o.xzw != nil
}

// Close flushes the xz stream, if any, and closes the file.
func (o *Output) Close() error {
	var errs []error
	if o.xzw != nil {
		if err := o.xzw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := o.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.NewIO("close", o.Path, errs[0])
	}
	return nil
}

// IsCompressedPath reports whether path names an xz file.
func IsCompressedPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xz")
}

// unsupportedSuffixes are compressed-file extensions that Create refuses
// rather than writing plain text under a misleading name.
var unsupportedSuffixes = map[string]bool{
	".gz":  true,
	".bz2": true,
	".zst": true,
	".lz4": true,
	".zip": true,
}

// otherCompression names the compression format of header when it is one
// that ReadFile does not decode.
func otherCompression(header []byte) string {
	switch {
	case bytes.HasPrefix(header, []byte{0x1f, 0x8b}):
		return "gzip"
	case len(header) >= 4 && bytes.HasPrefix(header, []byte("BZh")) && header[3] >= '1' && header[3] <= '9':
		return "bzip2"
	case bytes.HasPrefix(header, []byte{0x28, 0xb5, 0x2f, 0xfd}):
		return "zstd"
	default:
		return ""
	}
}
