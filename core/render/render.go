// Package render writes citations back out as text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/citesort/core/citation"
	"github.com/FocuswithJustin/citesort/core/sorting"
)

// FieldSeparator is the comma + two spaces left behind when an indented
// entry is loaded with its line breaks removed.
const FieldSeparator = ",  "

// DefaultIndent starts every continuation line of a rendered record.
const DefaultIndent = "\t"

// FormatRecord renders one record: the delimiter, then rest with every
// FieldSeparator replaced by a line break plus indent.
func FormatRecord(rest, indent string) string {
	return citation.RecordDelimiter + strings.ReplaceAll(rest, FieldSeparator, "\n"+indent)
}

// Writer renders headings and records to an io.Writer. The first write error
// sticks: later calls are no-ops that return it.
type Writer struct {
	w      io.Writer
	indent string
	n      int64
	err    error
}

// NewWriter returns a Writer that uses DefaultIndent when indent is empty.
func NewWriter(w io.Writer, indent string) *Writer {
	if indent == "" {
		indent = DefaultIndent
	}
	return &Writer{w: w, indent: indent}
}

// WriteHeading writes a heading line followed by a blank line.
func (w *Writer) WriteHeading(title string) error {
	return w.writeString(title + "\n\n")
}

// WriteBanner writes the heading for mode. Modes that do not sort have no
// banner and write nothing.
func (w *Writer) WriteBanner(mode sorting.Mode) error {
	banner := mode.Banner()
	if banner == "" {
		return w.err
	}
	return w.WriteHeading(banner)
}

// WritePass writes the order after one sort pass under its own heading.
func (w *Writer) WritePass(pass int, cmp sorting.Comparator, cs []*citation.Citation) error {
	if err := w.WriteHeading(fmt.Sprintf("Pass %d, sorting by %s: ------", pass, cmp.Name)); err != nil {
		return err
	}
	return w.WriteRecords(cs)
}

// WriteRecords writes every citation in order, each followed by a blank line.
func (w *Writer) WriteRecords(cs []*citation.Citation) error {
	for _, c := range cs {
		if err := w.writeString(FormatRecord(c.Rest, w.indent) + "\n\n"); err != nil {
			return err
		}
	}
	return w.err
}

// BytesWritten returns the number of bytes written so far.
func (w *Writer) BytesWritten() int64 {
	return w.n
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) writeString(s string) error {
	if w.err != nil {
		return w.err
	}
	n, err := io.WriteString(w.w, s)
	w.n += int64(n)
	if err != nil {
		w.err = err
	}
	return w.err
}
