package citation

import (
	"github.com/FocuswithJustin/citesort/core/errors"
)

// DefaultYear is assigned to records whose block has no year field.
const DefaultYear = 2021

// Citation is one parsed bibliography record.
type Citation struct {
	// ID is the citation key, e.g. "knuth1984".
	ID string `json:"id"`

	// Year is the publication year, or the default year when absent.
	Year int `json:"year"`

	// YearDefaulted is set when Year was not read from the block.
	YearDefaulted bool `json:"year_defaulted,omitempty"`

	// Rest is the raw block text, including the part ID and Year came from.
	Rest string `json:"rest"`

	// Fields holds every key = value pair found in the block.
	Fields map[string]string `json:"fields,omitempty"`

	// Index is the zero-based position of the block in the input.
	Index int `json:"index"`
}

// YearPolicy selects how the year is read from a block.
type YearPolicy int

const (
	// YearFields reads the "year" entry of the scanned key = value pairs.
	YearFields YearPolicy = iota
	// YearFixedWindow reads the 4 characters starting 6 bytes after the
	// first "year" in the block.
	YearFixedWindow
)

// String returns the policy name used in logs.
func (p YearPolicy) String() string {
	switch p {
	case YearFixedWindow:
		return "fixed-window"
	default:
		return "fields"
	}
}

// Options controls parsing.
type Options struct {
	// DefaultYear replaces the package default when non-zero.
	DefaultYear int
	// YearPolicy selects the year extraction strategy.
	YearPolicy YearPolicy
	// SkipMalformed records bad blocks in Result.Skipped instead of failing.
	SkipMalformed bool
}

func (o Options) defaultYear() int {
	if o.DefaultYear != 0 {
		return o.DefaultYear
	}
	return DefaultYear
}

// Skipped describes a block that was dropped under SkipMalformed.
type Skipped struct {
	Index int
	Err   error
}

// Result is the output of Parse.
type Result struct {
	Citations []*Citation
	Skipped   []Skipped
	// Blocks is the number of blocks the splitter produced.
	Blocks int
}

// Parse splits text into blocks and builds one Citation per block.
//
// A malformed block aborts parsing with a *errors.FormatError unless
// opts.SkipMalformed is set. Text without any '@' yields an empty result.
func Parse(text string, opts Options) (*Result, error) {
	blocks := Split(text)
	res := &Result{
		Citations: make([]*Citation, 0, len(blocks)),
		Blocks:    len(blocks),
	}

	for i, block := range blocks {
		c, err := NewCitation(i, block, opts)
		if err != nil {
			if !opts.SkipMalformed {
				return nil, err
			}
			res.Skipped = append(res.Skipped, Skipped{Index: i, Err: err})
			continue
		}
		res.Citations = append(res.Citations, c)
	}

	return res, nil
}

// NewCitation builds the Citation for the block at position index.
func NewCitation(index int, block string, opts Options) (*Citation, error) {
	id, err := ExtractID(block)
	if err != nil {
		return nil, withIndex(err, index)
	}

	fields, err := ScanFields(block)
	if err != nil {
		fe := errors.NewFormat(index, "", "cannot tokenize fields")
		fe.Err = err
		return nil, fe
	}

	c := &Citation{
		ID:     id,
		Rest:   block,
		Fields: fields,
		Index:  index,
	}

	var year int
	var found bool
	switch opts.YearPolicy {
	case YearFixedWindow:
		year, found, err = YearFromWindow(block)
	default:
		year, found, err = YearFromFields(fields)
	}
	if err != nil {
		return nil, withIndex(err, index)
	}
	if !found {
		year = opts.defaultYear()
		c.YearDefaulted = true
	}
	c.Year = year

	return c, nil
}

// withIndex stamps the block position onto a FormatError from the extractors.
func withIndex(err error, index int) error {
	var fe *errors.FormatError
	if errors.As(err, &fe) {
		fe.Index = index
		return fe
	}
	fe = errors.NewFormat(index, "", err.Error())
	fe.Err = err
	return fe
}
