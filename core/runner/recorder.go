package runner

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// Recorder collects transcript events for one run. It stamps every event with
// the run ID and a sequence number. A nil *Recorder discards events, so
// callers do not need to check whether a transcript was requested.
type Recorder struct {
	runID  string
	events []TranscriptEvent
}

// NewRecorder starts a transcript with a fresh run ID.
func NewRecorder() *Recorder {
	return &Recorder{runID: uuid.New().String()}
}

// RunID returns the ID shared by every event of this run.
func (r *Recorder) RunID() string {
	if r == nil {
		return ""
	}
	return r.runID
}

// Record appends ev, filling in Seq and RunID.
func (r *Recorder) Record(ev TranscriptEvent) {
	if r == nil {
		return
	}
	ev.Seq = len(r.events) + 1
	ev.RunID = r.runID
	r.events = append(r.events, ev)
}

// Events returns the recorded events.
func (r *Recorder) Events() []TranscriptEvent {
	if r == nil {
		return nil
	}
	return r.events
}

// Save writes the recorded events to path.
func (r *Recorder) Save(path string) error {
	if r == nil {
		return nil
	}
	return WriteTranscript(path, r.events)
}

// Digest returns the hex SHA-256 and BLAKE3 hashes of data.
func Digest(data []byte) (sha256Hex, blake3Hex string) {
	s := sha256.Sum256(data)
	b := blake3.Sum256(data)
	return hex.EncodeToString(s[:]), hex.EncodeToString(b[:])
}

// Digester hashes everything written to it.
type Digester struct {
	sha hash.Hash
	b3  *blake3.Hasher
}

// NewDigester returns an empty Digester.
func NewDigester() *Digester {
	return &Digester{sha: sha256.New(), b3: blake3.New()}
}

// Write implements io.Writer. It never fails.
func (d *Digester) Write(p []byte) (int, error) {
	d.sha.Write(p)
	d.b3.Write(p)
	return len(p), nil
}

// Sums returns the hex SHA-256 and BLAKE3 hashes of the data written so far.
func (d *Digester) Sums() (sha256Hex, blake3Hex string) {
	return hex.EncodeToString(d.sha.Sum(nil)), hex.EncodeToString(d.b3.Sum(nil))
}
