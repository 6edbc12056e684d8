package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/benchbot"
	"github.com/randalmurphal/benchbot/actions"
)

// newFetchArtifactCommand creates "fetch-artifact", which downloads the
// benchmark artifact of the triggering run into the workspace.
func newFetchArtifactCommand(opts *Options) *cobra.Command {
	var runID int64

	cmd := &cobra.Command{
		Use:   "fetch-artifact",
		Short: "Download the benchmark artifact of the triggering workflow run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			run, err := actions.NewRunContext(opts.env)
			if err != nil {
				return err
			}
			if runID > 0 {
				run.RunID = runID
			}
			if err := actions.RequireRunID(run); err != nil {
				return err
			}

			client, err := opts.newGitHubClient(run, logger)
			if err != nil {
				return err
			}

			reporter := actions.NewReporter(opts.stdout, logger)
			fetcher := &benchbot.ArtifactFetcher{
				API:        client,
				Reporter:   reporter,
				Logger:     logger,
				Name:       opts.settings.ArtifactName,
				OutputFile: opts.settings.OutputFile,
			}

			logger.Info("fetching artifact", "repo", run.Owner+"/"+run.Repo, "run_id", run.RunID, "name", opts.settings.ArtifactName)
			res, err := fetcher.Fetch(cmd.Context(), run)
			if err != nil {
				return err
			}
			if reporter.Failed() {
				return ErrStepFailed
			}

			logger.Info("artifact downloaded", "path", res.Path, "bytes", res.Size)
			if err := actions.SetOutputs(opts.env.OutputPath, map[string]string{
				"artifact-id":   strconv.FormatInt(res.Artifact.ID, 10),
				"artifact-path": res.Path,
				"artifact-size": strconv.Itoa(res.Size),
			}); err != nil {
				return fmt.Errorf("set outputs: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&runID, "run-id", 0, "Workflow run to read artifacts from (default: the triggering run)")
	cmd.Flags().String("name", "", "Artifact name (default: "+benchbot.DefaultArtifactName+")")
	cmd.Flags().String("output", "", "Output path relative to the workspace (default: "+benchbot.DefaultOutputFile+")")

	return cmd
}
