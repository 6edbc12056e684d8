package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/benchbot"
	"github.com/randalmurphal/benchbot/actions"
)

// newPostCommentCommand creates "post-comment", which creates or updates the
// benchmark comparison comment on the pull request named in pr_number.txt.
func newPostCommentCommand(opts *Options) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "post-comment",
		Short: "Create or update the benchmark comparison comment on a pull request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			run, err := actions.NewRunContext(opts.env)
			if err != nil {
				return err
			}

			client, err := opts.newGitHubClient(run, logger)
			if err != nil {
				return err
			}

			reporter := actions.NewReporter(opts.stdout, logger)
			publisher := &benchbot.CommentPublisher{
				API:            client,
				Reporter:       reporter,
				Logger:         logger,
				Dir:            dir,
				PRNumberFile:   opts.settings.PRNumberFile,
				ComparisonFile: opts.settings.ComparisonFile,
				Marker:         opts.settings.CommentMarker,
				Footer:         opts.settings.CommentFooter,
			}

			res, err := publisher.Publish(cmd.Context())
			if err != nil {
				return err
			}
			if reporter.Failed() {
				return ErrStepFailed
			}

			if err := actions.SetOutputs(opts.env.OutputPath, map[string]string{
				"comment-action": res.Action,
				"comment-id":     strconv.FormatInt(res.Comment.ID, 10),
				"comment-url":    res.Comment.HTMLURL,
				"pr-number":      strconv.Itoa(res.Number),
			}); err != nil {
				return fmt.Errorf("set outputs: %w", err)
			}
			if err := actions.AppendSummary(opts.env.SummaryPath, summaryLine(res)); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory holding the input files (default: current directory)")
	cmd.Flags().String("pr-number-file", "", "PR number file name (default: "+benchbot.DefaultPRNumberFile+")")
	cmd.Flags().String("comparison-file", "", "Comparison markdown file name (default: "+benchbot.DefaultComparisonFile+")")
	cmd.Flags().String("marker", "", "Text identifying the benchmark comment (default: \""+benchbot.DefaultMarker+"\")")
	cmd.Flags().String("footer", "", "Line appended to the comment body")

	return cmd
}

func summaryLine(res *benchbot.PublishResult) string {
	if res.Comment.HTMLURL == "" {
		return fmt.Sprintf("Benchmark comment %s on #%d.", res.Action, res.Number)
	}
	return fmt.Sprintf("Benchmark comment %s on #%d: %s", res.Action, res.Number, res.Comment.HTMLURL)
}
