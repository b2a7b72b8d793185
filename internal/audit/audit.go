// Package audit appends tamper-evident records of produced artifacts to a
// local JSON-lines trail. Recording is best-effort: a failed write is
// logged and never propagates to the caller.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Entry is one audit record.
type Entry struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
	Kind       string    `json:"kind"` // "explain", "appeal", ...
	Payload    any       `json:"payload"`
}

// Recorder appends entries to <dir>/audit.jsonl.
type Recorder struct {
	mu  sync.Mutex
	dir string
	log zerolog.Logger
}

// NewRecorder creates a recorder writing under dir.
func NewRecorder(dir string, log zerolog.Logger) *Recorder {
	return &Recorder{dir: dir, log: log}
}

// Record appends one entry. Errors are logged, not returned.
func (r *Recorder) Record(kind string, payload any) {
	entry := Entry{
		ID:         uuid.NewString(),
		RecordedAt: time.Now().UTC(),
		Kind:       kind,
		Payload:    payload,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		r.log.Warn().Err(err).Str("kind", kind).Msg("audit entry not serializable")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.log.Warn().Err(err).Msg("audit directory unavailable")
		return
	}
	path := filepath.Join(r.dir, "audit.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("audit trail unavailable")
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("audit write failed")
	}
}
