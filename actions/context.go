package actions

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v57/github"

	"github.com/randalmurphal/benchbot"
)

// EventWorkflowRun is the event that fires when another workflow completes.
const EventWorkflowRun = "workflow_run"

// Runner context errors
var (
	// ErrNoRepository indicates GITHUB_REPOSITORY is unset or malformed.
	ErrNoRepository = errors.New("repository not set")

	// ErrNoRunID indicates no workflow run could be determined.
	ErrNoRunID = errors.New("workflow run id not set")
)

// NewRunContext builds the run descriptor for a step.
//
// For workflow_run events the run is the one that triggered this workflow,
// read from the event payload; otherwise it is GITHUB_RUN_ID. A missing run
// leaves RunID at zero; callers that need it use RequireRunID.
func NewRunContext(e Env) (benchbot.RunContext, error) {
	owner, repo, err := SplitRepository(e.Repository)
	if err != nil {
		return benchbot.RunContext{}, err
	}

	runID, err := TriggeringRunID(e)
	if err != nil && !errors.Is(err, ErrNoRunID) {
		return benchbot.RunContext{}, err
	}

	workspace := e.Workspace
	if workspace == "" {
		if workspace, err = os.Getwd(); err != nil {
			return benchbot.RunContext{}, fmt.Errorf("resolve workspace: %w", err)
		}
	}

	return benchbot.RunContext{
		Owner:     owner,
		Repo:      repo,
		RunID:     runID,
		Workspace: workspace,
	}, nil
}

// RequireRunID returns an error wrapping ErrNoRunID when run has no run ID.
func RequireRunID(run benchbot.RunContext) error {
	if run.RunID <= 0 {
		return fmt.Errorf("%w: pass --run-id or run on a workflow_run event", ErrNoRunID)
	}
	return nil
}

// TriggeringRunID returns the run whose artifacts a step should read.
func TriggeringRunID(e Env) (int64, error) {
	if e.EventName == EventWorkflowRun && e.EventPath != "" {
		ev, err := ReadWorkflowRunEvent(e.EventPath)
		if err != nil {
			return 0, err
		}
		if id := ev.GetWorkflowRun().GetID(); id != 0 {
			return id, nil
		}
	}
	if e.RunID > 0 {
		return e.RunID, nil
	}
	return 0, ErrNoRunID
}

// ReadWorkflowRunEvent parses a workflow_run event payload file.
func ReadWorkflowRunEvent(path string) (*github.WorkflowRunEvent, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event payload: %w", err)
	}
	ev, err := github.ParseWebHook(EventWorkflowRun, payload)
	if err != nil {
		return nil, fmt.Errorf("parse event payload: %w", err)
	}
	wr, ok := ev.(*github.WorkflowRunEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected event payload type %T", ev)
	}
	return wr, nil
}

// SplitRepository splits an "owner/name" slug.
func SplitRepository(slug string) (owner, repo string, err error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", "", ErrNoRepository
	}
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", fmt.Errorf("%w: invalid repository slug %q, expected owner/repo", ErrNoRepository, slug)
	}
	return parts[0], parts[1], nil
}
