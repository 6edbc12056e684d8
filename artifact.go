package benchbot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ArtifactFetcher downloads a named artifact of a workflow run into the
// job workspace.
type ArtifactFetcher struct {
	API      ArtifactAPI
	Reporter Reporter
	Logger   *slog.Logger

	Name       string // Artifact to fetch (default: DefaultArtifactName)
	OutputFile string // Path relative to the workspace (default: DefaultOutputFile)
}

// FetchResult describes a downloaded artifact.
type FetchResult struct {
	Artifact Artifact
	Path     string
	Size     int
}

// Fetch lists the run's artifacts, downloads the first one named f.Name
// and writes it to the workspace.
//
// A missing artifact and every API failure are reported through f.Reporter
// and Fetch returns (nil, nil). Only a failure to write the archive is
// returned as an error.
func (f *ArtifactFetcher) Fetch(ctx context.Context, run RunContext) (*FetchResult, error) {
	logger := f.logger()
	name := f.name()

	artifacts, err := f.API.ListRunArtifacts(ctx, run.RunID)
	if err != nil {
		f.Reporter.SetFailed(fmt.Sprintf("Failed to download artifact: %v", err))
		return nil, nil
	}

	match, ok := FindArtifact(artifacts, name)
	if !ok {
		logger.Debug("artifact not in run", "run_id", run.RunID, "artifacts", len(artifacts))
		f.Reporter.SetFailed(fmt.Sprintf("No artifact named '%s' found.", name))
		return nil, nil
	}

	data, err := f.API.DownloadArtifact(ctx, match.ID)
	if err != nil {
		f.Reporter.SetFailed(fmt.Sprintf("Failed to download artifact: %v", err))
		return nil, nil
	}

	path := filepath.Join(run.Workspace, f.outputFile())
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w: %w", path, ErrIO, err)
	}

	logger.Info("artifact downloaded",
		"artifact", match.Name, "artifact_id", match.ID, "run_id", run.RunID,
		"path", path, "bytes", len(data))

	return &FetchResult{Artifact: match, Path: path, Size: len(data)}, nil
}

// FindArtifact returns the first artifact whose name equals name exactly.
func FindArtifact(artifacts []Artifact, name string) (Artifact, bool) {
	for _, a := range artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}

func (f *ArtifactFetcher) name() string {
	if f.Name != "" {
		return f.Name
	}
	return DefaultArtifactName
}

func (f *ArtifactFetcher) outputFile() string {
	if f.OutputFile != "" {
		return f.OutputFile
	}
	return DefaultOutputFile
}

func (f *ArtifactFetcher) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

// writeFileAtomic writes data to a temp file next to path and renames it
// over path, so readers never observe a partial archive.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
