package actions

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
)

func TestReporter_SetFailed(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewReporter(&buf, logger)

	if r.Failed() {
		t.Fatal("new reporter should not be failed")
	}

	r.SetFailed("No artifact named 'benchmark-results' found.")
	r.SetFailed("line one\nline two 100%")

	if !r.Failed() {
		t.Error("Failed() = false after SetFailed")
	}
	want := "::error::No artifact named 'benchmark-results' found.\n" +
		"::error::line one%0Aline two 100%25\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if msgs := r.Messages(); len(msgs) != 2 || msgs[1] != "line one\nline two 100%" {
		t.Errorf("Messages() = %q", msgs)
	}
}
