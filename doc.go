// Package benchbot publishes benchmark results from GitHub Actions.
//
// It provides two independent steps, normally run in a workflow triggered by
// workflow_run after the benchmark workflow completes:
//
//   - ArtifactFetcher: downloads the "benchmark-results" artifact of the
//     triggering run into the job workspace
//   - CommentPublisher: reads pr_number.txt and comparison.md and keeps one
//     bot-authored comparison comment up to date on the pull request
//
// Subpackages:
//
//   - actions: runner environment, step outputs and failure reporting
//   - config: layered settings (flags, BENCHBOT_* env, .benchbot.yaml)
//
// # Quick Start
//
//	client, err := benchbot.NewGitHubClient(token, "owner", "repo")
//	if err != nil {
//	    return err
//	}
//	reporter := actions.NewReporter(os.Stdout, logger)
//
//	fetcher := &benchbot.ArtifactFetcher{API: client, Reporter: reporter}
//	res, err := fetcher.Fetch(ctx, run)
//
//	publisher := &benchbot.CommentPublisher{API: client, Reporter: reporter}
//	result, err := publisher.Publish(ctx)
//
// Expected failures (a missing artifact, a bad input file) are reported
// through the Reporter and the step returns (nil, nil). The benchbot binary
// in cmd/benchbot wires both steps to the runner environment.
package benchbot
