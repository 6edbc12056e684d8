package benchbot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newRun(t *testing.T) RunContext {
	t.Helper()
	return RunContext{Owner: "testowner", Repo: "testrepo", RunID: 1001, Workspace: t.TempDir()}
}

func TestArtifactFetcher_Fetch(t *testing.T) {
	t.Run("writes payload verbatim", func(t *testing.T) {
		payload := []byte("PK\x03\x04\x00binary\x00zip\xff")
		var downloaded int64
		api := &MockArtifactAPI{
			ListRunArtifactsFunc: func(ctx context.Context, runID int64) ([]Artifact, error) {
				if runID != 1001 {
					t.Errorf("runID = %d, want 1001", runID)
				}
				return []Artifact{
					{ID: 1, Name: "coverage"},
					{ID: 2, Name: "benchmark-results"},
				}, nil
			},
			DownloadArtifactFunc: func(ctx context.Context, id int64) ([]byte, error) {
				downloaded = id
				return payload, nil
			},
		}
		rep := &RecordingReporter{}
		run := newRun(t)

		f := &ArtifactFetcher{API: api, Reporter: rep}
		res, err := f.Fetch(context.Background(), run)
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if rep.Failed() {
			t.Fatalf("unexpected failures: %v", rep.Messages)
		}
		if downloaded != 2 {
			t.Errorf("downloaded artifact %d, want 2", downloaded)
		}

		want := filepath.Join(run.Workspace, "benchmark-results.zip")
		if res.Path != want {
			t.Errorf("Path = %q, want %q", res.Path, want)
		}
		got, err := os.ReadFile(want)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if string(got) != string(payload) {
			t.Errorf("content = %q, want %q", got, payload)
		}
	})

	t.Run("overwrites existing archive", func(t *testing.T) {
		run := newRun(t)
		path := filepath.Join(run.Workspace, DefaultOutputFile)
		if err := os.WriteFile(path, []byte("stale archive with more bytes"), 0o644); err != nil {
			t.Fatal(err)
		}

		api := &MockArtifactAPI{
			ListRunArtifactsFunc: func(ctx context.Context, runID int64) ([]Artifact, error) {
				return []Artifact{{ID: 9, Name: DefaultArtifactName}}, nil
			},
			DownloadArtifactFunc: func(ctx context.Context, id int64) ([]byte, error) {
				return []byte("fresh"), nil
			},
		}
		f := &ArtifactFetcher{API: api, Reporter: &RecordingReporter{}}
		if _, err := f.Fetch(context.Background(), run); err != nil {
			t.Fatalf("Fetch: %v", err)
		}

		got, _ := os.ReadFile(path)
		if string(got) != "fresh" {
			t.Errorf("content = %q, want %q", got, "fresh")
		}
		entries, _ := os.ReadDir(run.Workspace)
		if len(entries) != 1 {
			t.Errorf("workspace has %d entries, want 1 (temp file left behind?)", len(entries))
		}
	})

	t.Run("first match wins", func(t *testing.T) {
		var downloaded int64
		api := &MockArtifactAPI{
			ListRunArtifactsFunc: func(ctx context.Context, runID int64) ([]Artifact, error) {
				return []Artifact{
					{ID: 5, Name: "benchmark-results"},
					{ID: 6, Name: "benchmark-results"},
				}, nil
			},
			DownloadArtifactFunc: func(ctx context.Context, id int64) ([]byte, error) {
				downloaded = id
				return []byte("x"), nil
			},
		}
		f := &ArtifactFetcher{API: api, Reporter: &RecordingReporter{}}
		if _, err := f.Fetch(context.Background(), newRun(t)); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if downloaded != 5 {
			t.Errorf("downloaded artifact %d, want 5", downloaded)
		}
	})
}

func TestArtifactFetcher_NotFound(t *testing.T) {
	lists := map[string][]Artifact{
		"empty":          {},
		"other names":    {{ID: 1, Name: "coverage"}, {ID: 2, Name: "logs"}},
		"case differs":   {{ID: 3, Name: "Benchmark-Results"}},
		"prefix only":    {{ID: 4, Name: "benchmark-results-old"}},
		"trailing space": {{ID: 5, Name: "benchmark-results "}},
	}

	for name, list := range lists {
		t.Run(name, func(t *testing.T) {
			api := &MockArtifactAPI{
				ListRunArtifactsFunc: func(ctx context.Context, runID int64) ([]Artifact, error) {
					return list, nil
				},
				DownloadArtifactFunc: func(ctx context.Context, id int64) ([]byte, error) {
					t.Error("DownloadArtifact should not be called")
					return nil, nil
				},
			}
			rep := &RecordingReporter{}
			run := newRun(t)

			f := &ArtifactFetcher{API: api, Reporter: rep}
			res, err := f.Fetch(context.Background(), run)
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if res != nil {
				t.Errorf("result = %+v, want nil", res)
			}
			if len(rep.Messages) != 1 || rep.Messages[0] != "No artifact named 'benchmark-results' found." {
				t.Errorf("messages = %q", rep.Messages)
			}
			if _, err := os.Stat(filepath.Join(run.Workspace, DefaultOutputFile)); !os.IsNotExist(err) {
				t.Errorf("output file exists, stat err = %v", err)
			}
		})
	}
}

func TestArtifactFetcher_RemoteErrors(t *testing.T) {
	boom := &RemoteError{Op: "list artifacts", StatusCode: 404, Err: errors.New("Not Found")}

	t.Run("list fails", func(t *testing.T) {
		api := &MockArtifactAPI{
			ListRunArtifactsFunc: func(ctx context.Context, runID int64) ([]Artifact, error) {
				return nil, boom
			},
		}
		rep := &RecordingReporter{}
		run := newRun(t)

		res, err := (&ArtifactFetcher{API: api, Reporter: rep}).Fetch(context.Background(), run)
		if err != nil || res != nil {
			t.Fatalf("Fetch = (%v, %v), want (nil, nil)", res, err)
		}
		if len(rep.Messages) != 1 {
			t.Fatalf("messages = %q, want one", rep.Messages)
		}
		if !strings.HasPrefix(rep.Messages[0], "Failed to download artifact: ") {
			t.Errorf("message = %q", rep.Messages[0])
		}
		if !strings.Contains(rep.Messages[0], "Not Found") {
			t.Errorf("message %q does not carry the underlying error", rep.Messages[0])
		}
	})

	t.Run("download fails", func(t *testing.T) {
		api := &MockArtifactAPI{
			ListRunArtifactsFunc: func(ctx context.Context, runID int64) ([]Artifact, error) {
				return []Artifact{{ID: 1, Name: DefaultArtifactName}}, nil
			},
			DownloadArtifactFunc: func(ctx context.Context, id int64) ([]byte, error) {
				return nil, errors.New("connection reset")
			},
		}
		rep := &RecordingReporter{}
		run := newRun(t)

		res, err := (&ArtifactFetcher{API: api, Reporter: rep}).Fetch(context.Background(), run)
		if err != nil || res != nil {
			t.Fatalf("Fetch = (%v, %v), want (nil, nil)", res, err)
		}
		if len(rep.Messages) != 1 || rep.Messages[0] != "Failed to download artifact: connection reset" {
			t.Errorf("messages = %q", rep.Messages)
		}
		if _, err := os.Stat(filepath.Join(run.Workspace, DefaultOutputFile)); !os.IsNotExist(err) {
			t.Errorf("output file exists, stat err = %v", err)
		}
	})
}

func TestArtifactFetcher_WriteFailureIsReturned(t *testing.T) {
	run := newRun(t)
	// A regular file where the workspace directory should be.
	blocker := filepath.Join(run.Workspace, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	run.Workspace = blocker

	api := &MockArtifactAPI{
		ListRunArtifactsFunc: func(ctx context.Context, runID int64) ([]Artifact, error) {
			return []Artifact{{ID: 1, Name: DefaultArtifactName}}, nil
		},
		DownloadArtifactFunc: func(ctx context.Context, id int64) ([]byte, error) {
			return []byte("zip"), nil
		},
	}
	rep := &RecordingReporter{}

	_, err := (&ArtifactFetcher{API: api, Reporter: rep}).Fetch(context.Background(), run)
	if !errors.Is(err, ErrIO) {
		t.Errorf("err = %v, want ErrIO", err)
	}
	if rep.Failed() {
		t.Errorf("write failure should not be reported, got %q", rep.Messages)
	}
}

func TestArtifactFetcher_CustomNames(t *testing.T) {
	api := &MockArtifactAPI{
		ListRunArtifactsFunc: func(ctx context.Context, runID int64) ([]Artifact, error) {
			return []Artifact{{ID: 3, Name: "perf"}}, nil
		},
		DownloadArtifactFunc: func(ctx context.Context, id int64) ([]byte, error) {
			return []byte("perf-zip"), nil
		},
	}
	run := newRun(t)

	f := &ArtifactFetcher{API: api, Reporter: &RecordingReporter{}, Name: "perf", OutputFile: "out/perf.zip"}
	res, err := f.Fetch(context.Background(), run)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Path != filepath.Join(run.Workspace, "out", "perf.zip") {
		t.Errorf("Path = %q", res.Path)
	}
	if res.Size != len("perf-zip") {
		t.Errorf("Size = %d", res.Size)
	}
}

func TestFindArtifact(t *testing.T) {
	list := []Artifact{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "b"}}

	if a, ok := FindArtifact(list, "b"); !ok || a.ID != 2 {
		t.Errorf("FindArtifact(b) = %+v, %v", a, ok)
	}
	if _, ok := FindArtifact(list, "c"); ok {
		t.Error("FindArtifact(c) should not match")
	}
	if _, ok := FindArtifact(nil, "a"); ok {
		t.Error("FindArtifact on nil list should not match")
	}
}
