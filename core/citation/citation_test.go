package citation

import (
	"testing"

	"github.com/FocuswithJustin/citesort/core/errors"
)

func TestParse(t *testing.T) {
	text := "@a{x1, year = {1999}, ...} @a{x2, ...} @a{x3, year = {1950}, ...}"

	res, err := Parse(text, Options{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.Blocks != 3 {
		t.Errorf("Blocks = %d, want 3", res.Blocks)
	}
	if len(res.Citations) != 3 {
		t.Fatalf("len(Citations) = %d, want 3", len(res.Citations))
	}

	want := []struct {
		id        string
		year      int
		defaulted bool
	}{
		{"x1", 1999, false},
		{"x2", DefaultYear, true},
		{"x3", 1950, false},
	}
	for i, w := range want {
		c := res.Citations[i]
		if c.ID != w.id || c.Year != w.year || c.YearDefaulted != w.defaulted {
			t.Errorf("Citations[%d] = {%q %d %v}, want {%q %d %v}",
				i, c.ID, c.Year, c.YearDefaulted, w.id, w.year, w.defaulted)
		}
		if c.Index != i {
			t.Errorf("Citations[%d].Index = %d", i, c.Index)
		}
	}

	if res.Citations[1].Rest != "a{x2, ...} " {
		t.Errorf("Rest = %q, want raw block", res.Citations[1].Rest)
	}
}

func TestParseDefaultYear(t *testing.T) {
	res, err := Parse("@misc{k,}", Options{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := res.Citations[0].Year; got != 2021 {
		t.Errorf("Year = %d, want 2021", got)
	}

	res, err = Parse("@misc{k,}", Options{DefaultYear: 1900})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := res.Citations[0].Year; got != 1900 {
		t.Errorf("Year = %d, want 1900", got)
	}
}

func TestParseEmpty(t *testing.T) {
	res, err := Parse("no records here", Options{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.Blocks != 0 || len(res.Citations) != 0 {
		t.Errorf("Parse() = %d blocks, %d citations; want 0, 0", res.Blocks, len(res.Citations))
	}
}

func TestParseMalformed(t *testing.T) {
	text := "@a{ok1, year = {2001}}@broken@a{bad, year = {20xx}}@a{ok2,}"

	t.Run("fatal by default", func(t *testing.T) {
		_, err := Parse(text, Options{})
		var fe *errors.FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("Parse() error = %v, want *FormatError", err)
		}
		if fe.Index != 1 || fe.Field != "id" {
			t.Errorf("FormatError = %+v, want Index=1 Field=id", fe)
		}
	})

	t.Run("skip malformed", func(t *testing.T) {
		res, err := Parse(text, Options{SkipMalformed: true})
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(res.Citations) != 2 {
			t.Fatalf("len(Citations) = %d, want 2", len(res.Citations))
		}
		if res.Citations[0].ID != "ok1" || res.Citations[1].ID != "ok2" {
			t.Errorf("kept %q, %q; want ok1, ok2", res.Citations[0].ID, res.Citations[1].ID)
		}
		if len(res.Skipped) != 2 {
			t.Fatalf("len(Skipped) = %d, want 2", len(res.Skipped))
		}
		if res.Skipped[0].Index != 1 || res.Skipped[1].Index != 2 {
			t.Errorf("Skipped indexes = %d, %d; want 1, 2", res.Skipped[0].Index, res.Skipped[1].Index)
		}
		var fe *errors.FormatError
		if !errors.As(res.Skipped[1].Err, &fe) || fe.Field != "year" || fe.Index != 2 {
			t.Errorf("Skipped[1].Err = %v, want year FormatError at index 2", res.Skipped[1].Err)
		}
	})
}

func TestParseFixedWindow(t *testing.T) {
	res, err := Parse("@a{k1,year={1999}}@a{k2,}", Options{YearPolicy: YearFixedWindow})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.Citations[0].Year != 1999 {
		t.Errorf("Year = %d, want 1999", res.Citations[0].Year)
	}
	if !res.Citations[1].YearDefaulted {
		t.Error("YearDefaulted = false for block without year")
	}

	_, err = Parse("@a{k1, year = {1999}}", Options{YearPolicy: YearFixedWindow})
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Parse(spaced year, fixed window) error = %v, want FormatError", err)
	}
}
