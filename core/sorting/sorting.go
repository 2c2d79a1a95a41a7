// Package sorting orders citations with a stable insertion sort.
//
// Dual-key modes rely on stability: the first pass orders by one key, the
// second pass by the other, and ties in the second pass keep the order the
// first pass produced.
package sorting

import (
	"strings"

	"github.com/FocuswithJustin/citesort/core/citation"
)

// Comparator returns a negative number when a sorts before b, zero when they
// are equal under this key and a positive number otherwise.
type Comparator struct {
	Name    string
	Compare func(a, b *citation.Citation) int
}

// ByID orders citations by identifier, byte-wise.
var ByID = Comparator{
	Name: "Identifier",
	Compare: func(a, b *citation.Citation) int {
		return strings.Compare(a.ID, b.ID)
	},
}

// ByYear orders citations by year.
var ByYear = Comparator{
	Name: "Year",
	Compare: func(a, b *citation.Citation) int {
		switch {
		case a.Year < b.Year:
			return -1
		case a.Year > b.Year:
			return 1
		default:
			return 0
		}
	},
}

// InsertionSort sorts cs in place. Elements that compare equal keep their
// relative order. Worst case is O(n²), which is fine for bibliographies of a
// few hundred entries.
func InsertionSort(cs []*citation.Citation, cmp Comparator) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && cmp.Compare(cs[j], cs[j-1]) < 0; j-- {
			cs[j], cs[j-1] = cs[j-1], cs[j]
		}
	}
}

// IsSorted reports whether cs is in non-decreasing order under cmp.
func IsSorted(cs []*citation.Citation, cmp Comparator) bool {
	for i := 1; i < len(cs); i++ {
		if cmp.Compare(cs[i], cs[i-1]) < 0 {
			return false
		}
	}
	return true
}

// PassObserver is called after every sort pass with the 1-based pass number,
// the comparator that was applied and the current order.
type PassObserver func(pass int, cmp Comparator, cs []*citation.Citation)

// Apply runs the passes of mode over cs. observe may be nil. Mode None
// leaves cs untouched and never calls observe.
func Apply(cs []*citation.Citation, mode Mode, observe PassObserver) {
	for i, cmp := range mode.Passes() {
		InsertionSort(cs, cmp)
		if observe != nil {
			observe(i+1, cmp, cs)
		}
	}
}
