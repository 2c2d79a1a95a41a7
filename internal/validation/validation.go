// Package validation checks user-supplied paths and input content before the
// pipeline touches the filesystem.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits on user input (CWE-400).
const (
	// MaxFileSize is the maximum allowed input size after decompression (256 MB).
	MaxFileSize = 256 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrSamePath         = errors.New("output path is the input path")
	ErrNotText          = errors.New("content does not look like text")
)

// ValidatePath performs comprehensive path validation without requiring a base directory.
// It checks for dangerous patterns, length limits, and invalid characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	// Check length
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	// Check for null bytes
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}

	// Check for control characters
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// ValidateDistinctPaths rejects an output path that resolves to the input
// path, which would truncate the bibliography before it is read.
func ValidateDistinctPaths(input, output string) error {
	in, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("failed to resolve input path: %w", err)
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}
	if in == out {
		return fmt.Errorf("%w: %s", ErrSamePath, output)
	}
	return nil
}

// ValidateText returns ErrNotText when the first 512 bytes of data look
// binary. Empty data is accepted.
func ValidateText(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if !isLikelyText(head) {
		return ErrNotText
	}
	return nil
}

// isLikelyText checks if the buffer contains likely text content.
// Returns true if the buffer appears to be text (UTF-8, ASCII).
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}

	// Check for null bytes (strong indicator of binary content)
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	// Count printable characters vs control characters. Multibyte UTF-8
	// runes count as printable; bytes that do not decode (including a rune
	// split by the sniffing cut) are neutral.
	printable := 0
	control := 0
	for i := 0; i < len(buf); {
		r, size := utf8.DecodeRune(buf[i:])
		i += size
		switch {
		case r == utf8.RuneError && size == 1:
		case r == '\t' || r == '\n' || r == '\r':
			printable++
		case r < 0x20 || r == 0x7f:
			control++
		case r < utf8.RuneSelf || unicode.IsPrint(r) || unicode.IsSpace(r):
			printable++
		}
	}

	// If more than 95% is printable, consider it text
	if printable > 0 && float64(printable)/float64(printable+control) > 0.95 {
		return true
	}

	return false
}
