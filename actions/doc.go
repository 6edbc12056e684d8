// Package actions adapts benchbot to the GitHub Actions runner.
//
// It covers the pieces a workflow step gets from the runner:
//   - Env: the GITHUB_* variables, parsed with caarlos0/env
//   - NewRunContext: repository, triggering run and workspace
//   - Reporter: marks the step failed with an ::error:: workflow command
//   - SetOutputs / AppendSummary: step outputs and job summary files
//
// Example usage:
//
//	e, err := actions.ParseEnv()
//	if err != nil {
//	    return err
//	}
//	run, err := actions.NewRunContext(e)
//	if err != nil {
//	    return err
//	}
//	rep := actions.NewReporter(os.Stdout, logger)
package actions
