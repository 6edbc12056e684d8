package actions

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Reporter implements benchbot.Reporter for a workflow step. Each failure
// is emitted as an ::error:: workflow command so the runner annotates the
// job, and remembered so the process can exit non-zero.
type Reporter struct {
	mu       sync.Mutex
	w        io.Writer
	logger   *slog.Logger
	messages []string
}

// NewReporter creates a reporter writing workflow commands to w.
// If w is nil, os.Stdout is used; if logger is nil, slog.Default().
func NewReporter(w io.Writer, logger *slog.Logger) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{w: w, logger: logger}
}

// SetFailed records msg and marks the step failed.
func (r *Reporter) SetFailed(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, msg)
	if _, err := fmt.Fprintf(r.w, "::error::%s\n", escapeData(msg)); err != nil {
		r.logger.Warn("failed to write workflow command", "error", err)
	}
	r.logger.Error("step failed", "message", msg)
}

// Failed reports whether SetFailed was called.
func (r *Reporter) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages) > 0
}

// Messages returns the recorded failure messages.
func (r *Reporter) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// escapeData escapes a workflow command payload.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
