// Package notify defines the notification interface and implementations
// for report delivery.
package notify

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// ErrSendFailed is returned when a configured backend could not deliver a
// report.
var ErrSendFailed = errors.New("notification send failed")

const timeLayout = "2006-01-02 15:04:05"

// Report describes a written comparison report.
type Report struct {
	SearchTerm string
	Path       string
	CreatedAt  time.Time
}

// FileName returns the base name of the report file.
func (r *Report) FileName() string {
	return filepath.Base(r.Path)
}

// Subject returns the email subject line for the report.
func (r *Report) Subject() string {
	return fmt.Sprintf("価格調査結果 %s %s", r.SearchTerm, r.CreatedAt.Format(timeLayout))
}

// Body returns the plaintext message body for the report.
func (r *Report) Body() string {
	return fmt.Sprintf("価格調査結果CSVを添付します。\n\n型番: %s\nCSV: %s\n", r.SearchTerm, r.Path)
}

// Notifier defines the interface for delivering a comparison report.
type Notifier interface {
	Send(ctx context.Context, r *Report) error
}
