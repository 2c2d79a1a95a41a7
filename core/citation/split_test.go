package citation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no delimiter",
			text: "just a preamble, no records",
			want: []string{},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
		{
			name: "preamble and one record",
			text: "% comment\n@book{k1, year = {2000}}",
			want: []string{"book{k1, year = {2000}}"},
		},
		{
			name: "three records",
			text: "@a{x1,}@a{x2,}@a{x3,}",
			want: []string{"a{x1,}", "a{x2,}", "a{x3,}"},
		},
		{
			name: "at sign inside value starts a new record",
			text: "@misc{k1, email = {me@example.org}}",
			want: []string{"misc{k1, email = {me", "example.org}}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	input := "@article{knuth1984,\r\n  title = {Literate Programming},\n  year = {1984}\n}\n"

	got, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := "@article{knuth1984,  title = {Literate Programming},  year = {1984}}"
	if got != want {
		t.Errorf("Load() = %q, want %q", got, want)
	}
}

func TestLoadEmpty(t *testing.T) {
	got, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "" {
		t.Errorf("Load() = %q, want empty", got)
	}
}
