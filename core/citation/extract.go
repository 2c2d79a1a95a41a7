package citation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/citesort/core/errors"
)

// yearKey is the field name the year is read from. Matching is case-sensitive.
const yearKey = "year"

// Extractors report FormatErrors with Index 0; NewCitation stamps the block
// position.

// ExtractID returns the identifier of a block: the text between the first
// '{' and the first ',' after it, without surrounding whitespace.
func ExtractID(block string) (string, error) {
	open := strings.Index(block, "{")
	if open < 0 {
		return "", errors.NewFormat(0, "id", "missing '{' before identifier")
	}

	rest := block[open+1:]
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return "", errors.NewFormat(0, "id", "missing ',' after identifier")
	}

	id := strings.TrimSpace(rest[:comma])
	if id == "" {
		return "", errors.NewFormat(0, "id", "empty identifier")
	}
	return id, nil
}

// YearFromFields reads the year entry of scanned fields. found is false when
// the block has no year field.
func YearFromFields(fields map[string]string) (year int, found bool, err error) {
	raw, ok := fields[yearKey]
	if !ok {
		return 0, false, nil
	}
	year, err = parseYear(raw)
	if err != nil {
		return 0, false, err
	}
	return year, true, nil
}

// YearFromWindow locates the first "year" in block and parses the four
// characters at offsets [match+6, match+10). It expects the compact
// "year={YYYY}" or "year =YYYY" layouts; anything else is a FormatError.
func YearFromWindow(block string) (year int, found bool, err error) {
	idx := strings.Index(block, yearKey)
	if idx < 0 {
		return 0, false, nil
	}

	start, end := idx+6, idx+10
	if end > len(block) {
		return 0, false, errors.NewFormat(0, yearKey,
			fmt.Sprintf("value window [%d:%d] runs past end of record", start, end))
	}

	year, err = parseYear(block[start:end])
	if err != nil {
		return 0, false, err
	}
	return year, true, nil
}

func parseYear(raw string) (int, error) {
	v := strings.TrimSpace(raw)
	year, err := strconv.Atoi(v)
	if err != nil {
		fe := errors.NewFormat(0, yearKey, fmt.Sprintf("%q is not a number", raw))
		fe.Err = err
		return 0, fe
	}
	return year, nil
}
