package cleanup

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// Outcome records what happened to one batch item.
type Outcome string

const (
	OutcomeDeleted Outcome = "deleted"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Record is one immutable audit log entry: a single JSON object per line,
// machine-parseable and human-inspectable.
type Record struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	Timestamp time.Time `json:"timestamp"`
	Outcome   Outcome   `json:"outcome"`
	Category  string    `json:"category,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// AuditLog appends deletion records to a single file. The file is only
// ever opened in append mode and is never truncated or rewritten; each
// append holds an exclusive lock so concurrent executor instances cannot
// interleave partial lines.
type AuditLog struct {
	path string
}

// OpenAuditLog prepares the audit log at path, creating parent
// directories as needed.
func OpenAuditLog(path string) (*AuditLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("prepare audit log dir: %w", err)
	}
	return &AuditLog{path: path}, nil
}

// Path returns the audit log file location.
func (l *AuditLog) Path() string { return l.path }

// Append writes one record. A zero ID or timestamp is filled in here so
// callers cannot produce records without either.
func (l *AuditLog) Append(rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("lock audit log: %w", err)
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

// Records reads back every record in append order. Unparseable lines are
// skipped rather than failing the read; the log must stay useful even if a
// crash left a torn trailing line.
func (l *AuditLog) Records() ([]Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}
