package sorting

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/citesort/core/errors"
)

// Mode selects which sort passes run.
type Mode string

const (
	// IDThenYear sorts by id, then stably by year: primarily by year, ties by id.
	IDThenYear Mode = "id-then-year"
	// YearThenID sorts by year, then stably by id: primarily by id, ties by year.
	YearThenID Mode = "year-then-id"
	// IDOnly sorts by id.
	IDOnly Mode = "id"
	// YearOnly sorts by year.
	YearOnly Mode = "year"
	// None performs no sorting and produces no formatted output.
	None Mode = "none"
)

// Modes lists every mode in the order the interactive prompt asks for them.
var Modes = []Mode{IDThenYear, YearThenID, IDOnly, YearOnly, None}

// ParseMode validates s and returns the matching mode. Matching ignores case
// and surrounding whitespace; "id-only" and "year-only" are accepted aliases.
func ParseMode(s string) (Mode, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "id-only":
		return IDOnly, nil
	case "year-only":
		return YearOnly, nil
	}
	for _, m := range Modes {
		if string(m) == v {
			return m, nil
		}
	}
	return "", &errors.ValidationError{
		Field:   "mode",
		Value:   s,
		Message: fmt.Sprintf("unknown sort mode %q (want one of %s)", s, modeNames()),
	}
}

func modeNames() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Passes returns the comparators to apply, in order.
func (m Mode) Passes() []Comparator {
	switch m {
	case IDThenYear:
		return []Comparator{ByID, ByYear}
	case YearThenID:
		return []Comparator{ByYear, ByID}
	case IDOnly:
		return []Comparator{ByID}
	case YearOnly:
		return []Comparator{ByYear}
	default:
		return nil
	}
}

// Sorts reports whether the mode reorders anything.
func (m Mode) Sorts() bool {
	return len(m.Passes()) > 0
}

// Banner is the heading written above the sorted records, e.g.
// "Sorting by Identifier, then Year: ------".
func (m Mode) Banner() string {
	passes := m.Passes()
	if len(passes) == 0 {
		return ""
	}
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.Name
	}
	return "Sorting by " + strings.Join(names, ", then ") + ": ------"
}

// ModeFromAnswers maps the answers of the yes/no cascade onto a mode. The
// first affirmative answer wins; all no means None.
func ModeFromAnswers(idThenYear, yearThenID, idOnly, yearOnly bool) Mode {
	switch {
	case idThenYear:
		return IDThenYear
	case yearThenID:
		return YearThenID
	case idOnly:
		return IDOnly
	case yearOnly:
		return YearOnly
	default:
		return None
	}
}
