// Package activity keeps the append-only CSV log of analyze actions.
package activity

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/HeyoWorld/saudi-speak-app/pkg/types"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	previewLimit    = 50
)

var header = []string{"timestamp", "user_id", "user_name", "action", "content_preview"}

// Logger appends activity records to a flat CSV file, creating it with a
// header when absent. Records are never mutated or deleted.
type Logger struct {
	path string
	mu   sync.Mutex
}

// NewLogger creates a logger writing to the given CSV path
func NewLogger(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &Logger{path: path}, nil
}

// Record appends one row for the given action. The content preview is
// truncated to the first 50 characters.
func (l *Logger) Record(userID, userName, action, content string) error {
	rec := types.ActivityRecord{
		Timestamp:      time.Now(),
		UserID:         userID,
		UserName:       userName,
		Action:         action,
		ContentPreview: Preview(content),
	}
	return l.Append(rec)
}

// Append writes a prepared record to the log
func (l *Logger) Append(rec types.ActivityRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	writeHeader := false
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		writeHeader = true
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open activity log: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := []string{
		rec.Timestamp.Format(timestampLayout),
		rec.UserID,
		rec.UserName,
		rec.Action,
		rec.ContentPreview,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.Flush()
	return w.Error()
}

// Preview truncates content to the first 50 characters. No ellipsis is
// appended; the stored preview is exactly the prefix.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewLimit])
}
