package citation

import (
	"bufio"
	"io"
	"strings"
)

// RecordDelimiter starts every citation block.
const RecordDelimiter = "@"

// maxLineSize bounds a single input line.
const maxLineSize = 16 << 20

// Split cuts text at every RecordDelimiter and drops the preamble before the
// first one. Text without a delimiter yields no blocks.
func Split(text string) []string {
	parts := strings.Split(text, RecordDelimiter)
	return parts[1:]
}

// Load reads r to the end and joins its lines without their terminators.
// An indented entry such as
//
//	@article{key,
//	  year = {1999}}
//
// therefore loads as "@article{key,  year = {1999}}", which the renderer
// turns back into one field per line.
func Load(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var sb strings.Builder
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
