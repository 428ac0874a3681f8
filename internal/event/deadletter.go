package event

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// DeadLetterSchemaVersion tags every line in the dead-letter file
const DeadLetterSchemaVersion = "1.0"

// DeadLetterEntry is one event that exhausted its publish retries.
// Payload comes back from ReadDeadLetters as decoded JSON; use
// DecodePayload to get the typed value.
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// DeadLetterWriter appends entries as JSON lines
type DeadLetterWriter struct {
	mu  sync.Mutex
	out io.WriteCloser
	enc *json.Encoder
	now func() time.Time
}

// NewDeadLetterWriter opens path for appending, creating it if needed
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open dead letter file %s: %w", path, err)
	}
	return newDeadLetterWriter(f), nil
}

func newDeadLetterWriter(out io.WriteCloser) *DeadLetterWriter {
	return &DeadLetterWriter{out: out, enc: json.NewEncoder(out), now: time.Now}
}

// Write appends one entry
func (w *DeadLetterWriter) Write(evt Event, attempts int, lastError error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Event:         evt,
		Attempts:      attempts,
	}
	if lastError != nil {
		entry.LastError = lastError.Error()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	entry.Timestamp = w.now().UTC()

	logger.Warn("event_dead_lettered", "event_type", evt.Type, "attempts", attempts, "error", entry.LastError)
	return w.enc.Encode(entry)
}

func (w *DeadLetterWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Close()
}

// ReadDeadLetters parses a dead-letter stream. Lines that fail to parse
// are skipped and reported together in the returned error alongside the
// entries that did parse.
func ReadDeadLetters(r io.Reader) ([]DeadLetterEntry, error) {
	var (
		entries []DeadLetterEntry
		errs    []error
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), DeadLetterMaxLineBytes)
	for line := 1; sc.Scan(); line++ {
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var e DeadLetterEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, err)
	}
	return entries, errors.Join(errs...)
}
