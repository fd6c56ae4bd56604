// Package progress provides progress reporting for plan execution.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives execution progress. Implementations must be safe for
// concurrent use; workers report completions from multiple goroutines.
type Reporter interface {
	// SetTotal announces the total number of operations in the plan
	SetTotal(totalOps int)

	// Complete marks one operation as finished
	Complete(path string)

	// Error reports a failed operation
	Error(path string, err error)

	// Finish flushes any pending output after the last batch
	Finish()
}

// NullReporter is a no-op reporter
type NullReporter struct{}

func (NullReporter) SetTotal(totalOps int)         {}
func (NullReporter) Complete(path string)          {}
func (NullReporter) Error(path string, err error)  {}
func (NullReporter) Finish()                       {}

// BarReporter renders a console progress bar over executed operations
type BarReporter struct {
	mu     sync.Mutex
	bar    *progressbar.ProgressBar
	writer io.Writer
}

// NewBarReporter creates a console bar reporter. A nil writer defaults
// to stderr, keeping the bar out of piped stdout.
func NewBarReporter(w io.Writer) *BarReporter {
	if w == nil {
		w = os.Stderr
	}
	return &BarReporter{writer: w}
}

// SetTotal creates the underlying bar sized to the plan
func (r *BarReporter) SetTotal(totalOps int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bar = progressbar.NewOptions(totalOps,
		progressbar.OptionSetWriter(r.writer),
		progressbar.OptionSetDescription("syncing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
}

// Complete advances the bar by one operation
func (r *BarReporter) Complete(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

// Error advances the bar as well; failed operations are still done
func (r *BarReporter) Error(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

// Finish completes and clears the bar
func (r *BarReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// FormatBytes formats bytes into a human-readable string
func FormatBytes(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
