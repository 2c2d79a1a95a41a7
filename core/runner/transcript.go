// Package runner records what happened during one citesort run as a JSONL
// transcript.
package runner

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Injectable functions for testing.
var (
	osCreate    = os.Create
	jsonMarshal = json.Marshal
	fileWrite   = func(w io.Writer, data []byte) (int, error) { return w.Write(data) }
	writeString = func(w io.StringWriter, s string) (int, error) { return w.WriteString(s) }
)

// TranscriptEvent represents a single event in a transcript JSONL file.
type TranscriptEvent struct {
	Type       string                 `json:"t"`
	Seq        int                    `json:"seq"`
	RunID      string                 `json:"run_id,omitempty"`
	Key        string                 `json:"key,omitempty"`
	Record     int                    `json:"record,omitempty"`
	Pass       int                    `json:"pass,omitempty"`
	Mode       string                 `json:"mode,omitempty"`
	Path       string                 `json:"path,omitempty"`
	SHA256     string                 `json:"sha256,omitempty"`
	BLAKE3     string                 `json:"blake3,omitempty"`
	Bytes      int64                  `json:"bytes,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Known event types
const (
	EventRunStart      = "RUN_START"
	EventInputRead     = "INPUT_READ"
	EventRecordParsed  = "RECORD_PARSED"
	EventRecordSkipped = "RECORD_SKIPPED"
	EventSortPass      = "SORT_PASS"
	EventOutputWritten = "OUTPUT_WRITTEN"
	EventNotice        = "NOTICE"
	EventWarn          = "WARN"
	EventError         = "ERROR"
	EventRunEnd        = "RUN_END"
)

// ParseTranscript parses a transcript JSONL file and returns all events.
func ParseTranscript(path string) ([]TranscriptEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	var events []TranscriptEvent
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var event TranscriptEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			return nil, fmt.Errorf("failed to parse line %d: %w", lineNum, err)
		}

		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading transcript: %w", err)
	}

	return events, nil
}

// WriteTranscript writes a list of events to a transcript JSONL file.
func WriteTranscript(path string, events []TranscriptEvent) error {
	file, err := osCreate(path)
	if err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	defer file.Close()

	for _, event := range events {
		data, err := jsonMarshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		if _, err := fileWrite(file, data); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
		if _, err := writeString(file, "\n"); err != nil {
			return fmt.Errorf("failed to write newline: %w", err)
		}
	}

	return nil
}

// Transcript represents a parsed transcript with helper methods.
type Transcript struct {
	Events []TranscriptEvent
	Path   string
}

// LoadTranscript loads a transcript from a file.
func LoadTranscript(path string) (*Transcript, error) {
	events, err := ParseTranscript(path)
	if err != nil {
		return nil, err
	}
	return &Transcript{
		Events: events,
		Path:   path,
	}, nil
}

// ByType returns all events of the given type, in order.
func (t *Transcript) ByType(eventType string) []TranscriptEvent {
	var out []TranscriptEvent
	for _, event := range t.Events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

// Keys returns the citation keys of RECORD_PARSED events, in order.
func (t *Transcript) Keys() []string {
	var keys []string
	for _, event := range t.Events {
		if event.Type == EventRecordParsed {
			keys = append(keys, event.Key)
		}
	}
	return keys
}

// HasErrors returns true if the transcript contains any error events.
func (t *Transcript) HasErrors() bool {
	for _, event := range t.Events {
		if event.Type == EventError {
			return true
		}
	}
	return false
}

// EventCount returns the total number of events.
func (t *Transcript) EventCount() int {
	return len(t.Events)
}
