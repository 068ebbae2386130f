package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// LogAdapter writes notifications to an io.Writer, one line per event.
// It is the fallback platform and the default for local runs.
type LogAdapter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewLogAdapter creates a LogAdapter writing to out.
func NewLogAdapter(out io.Writer) *LogAdapter {
	return &LogAdapter{out: out}
}

// Send writes the message as a single line.
func (a *LogAdapter) Send(_ context.Context, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := fmt.Fprintln(a.out, text); err != nil {
		return fmt.Errorf("notify: write log line: %w", err)
	}
	return nil
}

// Close is a no-op for the log adapter.
func (a *LogAdapter) Close() error { return nil }
