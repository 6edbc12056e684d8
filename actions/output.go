package actions

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// SetOutputs appends step outputs to the GITHUB_OUTPUT file at path.
// Multi-line values use the heredoc form with a random delimiter.
// An empty path is a no-op, so local runs need no special casing.
func SetOutputs(path string, values map[string]string) error {
	path = strings.TrimSpace(path)
	if path == "" || len(values) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open step output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.TrimSpace(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := f.WriteString(formatOutput(key, values[key])); err != nil {
			return fmt.Errorf("write step output %q: %w", key, err)
		}
	}
	return nil
}

func formatOutput(key, value string) string {
	if !strings.ContainsAny(value, "\r\n") {
		return key + "=" + value + "\n"
	}
	delim := "ghadelimiter_" + uuid.NewString()
	for strings.Contains(value, delim) {
		delim = "ghadelimiter_" + uuid.NewString()
	}
	return key + "<<" + delim + "\n" + value + "\n" + delim + "\n"
}

// AppendSummary appends markdown to the job summary file at path.
// An empty path is a no-op.
func AppendSummary(path, markdown string) error {
	path = strings.TrimSpace(path)
	if path == "" || markdown == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open step summary file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	if _, err := f.WriteString(markdown); err != nil {
		return fmt.Errorf("write step summary: %w", err)
	}
	return nil
}
