package validation

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError error
	}{
		{
			name:      "valid relative path",
			path:      "refs.bib",
			wantError: nil,
		},
		{
			name:      "valid absolute path",
			path:      "/tmp/refs.bib.xz",
			wantError: nil,
		},
		{
			name:      "empty path",
			path:      "",
			wantError: ErrEmptyPath,
		},
		{
			name:      "path with null byte",
			path:      "refs\x00.bib",
			wantError: ErrInvalidCharacter,
		},
		{
			name:      "path with control character",
			path:      "dir/refs\n.bib",
			wantError: ErrInvalidCharacter,
		},
		{
			name:      "very long path",
			path:      strings.Repeat("a/", 2048) + "refs.bib",
			wantError: ErrPathTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)

			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Errorf("ValidatePath() error = %v, want %v", err, tt.wantError)
				}
				return
			}

			if err != nil {
				t.Errorf("ValidatePath() unexpected error: %v", err)
			}
		})
	}
}

func TestValidateDistinctPaths(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "refs.bib")

	if err := ValidateDistinctPaths(in, filepath.Join(dir, "SortedCitations.txt")); err != nil {
		t.Errorf("distinct paths: unexpected error %v", err)
	}
	if err := ValidateDistinctPaths(in, filepath.Join(dir, "sub", "..", "refs.bib")); !errors.Is(err, ErrSamePath) {
		t.Errorf("same path: error = %v, want ErrSamePath", err)
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		wantErr bool
	}{
		{name: "bibtex", content: []byte("@article{k, year = {1999}}")},
		{name: "utf-8", content: []byte("@book{m, author = {Müller, Jürgen}}")},
		{name: "empty", content: nil},
		{name: "multibyte only prefix", content: []byte(strings.Repeat("文献目录", 60) + "\n@a{x1, year = {1999}}\n")},
		{name: "rune split at the sniffing cut", content: []byte("a" + strings.Repeat("文", 300))},
		{name: "null bytes", content: []byte{'@', 0x00, 0x01}, wantErr: true},
		{name: "control characters", content: []byte{0x01, 0x02, 0x03, 0x04, 0x05}, wantErr: true},
		{name: "binary after the sniffed prefix is ignored", content: append([]byte(strings.Repeat("a", 600)), 0x00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.content)
			if tt.wantErr != errors.Is(err, ErrNotText) {
				t.Errorf("ValidateText() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsLikelyText(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{
			name:    "plain ascii text",
			content: []byte("This is plain ASCII text."),
			want:    true,
		},
		{
			name:    "text with carriage returns",
			content: []byte("Windows\r\nLine\r\nEndings"),
			want:    true,
		},
		{
			name:    "binary with null bytes",
			content: []byte{0x00, 0x01, 0x02, 0x03},
			want:    false,
		},
		{
			name:    "empty buffer",
			content: []byte{},
			want:    false,
		},
		{
			name:    "cyrillic text",
			content: []byte("Библиография"),
			want:    true,
		},
		{
			name:    "mostly printable with few control chars - above threshold",
			content: append([]byte(strings.Repeat("a", 96)), []byte{0x01, 0x02, 0x03, 0x04}...),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isLikelyText(tt.content); got != tt.want {
				t.Errorf("isLikelyText() = %v, want %v", got, tt.want)
			}
		})
	}
}
