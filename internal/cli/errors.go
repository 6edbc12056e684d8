package cli

import (
	"errors"
	"strings"

	"github.com/randalmurphal/benchbot"
	"github.com/randalmurphal/benchbot/actions"
)

// CLIError wraps an error with user-friendly context and suggestions.
type CLIError struct {
	// Err is the underlying error
	Err error

	// Message is a user-friendly description of what went wrong
	Message string

	// Suggestion is an actionable hint for the user
	Suggestion string
}

func (e *CLIError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Err != nil {
		sb.WriteString("\n")
		sb.WriteString(e.Err.Error())
	}

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// FriendlyError wraps known failures in a CLIError with a suggestion.
// Other errors, and ErrStepFailed, are returned unchanged.
func FriendlyError(err error) error {
	if err == nil || errors.Is(err, ErrStepFailed) {
		return err
	}

	var ce *CLIError
	if errors.As(err, &ce) {
		return err
	}

	switch {
	case errors.Is(err, benchbot.ErrUnauthorized):
		return &CLIError{
			Err:        err,
			Message:    "GitHub rejected the token.",
			Suggestion: "Pass secrets.GITHUB_TOKEN to the step as GITHUB_TOKEN.",
		}
	case errors.Is(err, benchbot.ErrForbidden):
		return &CLIError{
			Err:        err,
			Message:    "The token is not allowed to perform this request.",
			Suggestion: "Grant the job \"actions: read\" and \"pull-requests: write\" permissions.",
		}
	case errors.Is(err, benchbot.ErrRateLimited):
		return &CLIError{
			Err:        err,
			Message:    "GitHub API rate limit exceeded.",
			Suggestion: "Re-run the job once the limit resets.",
		}
	case errors.Is(err, actions.ErrNoRunID):
		return &CLIError{
			Err:        err,
			Message:    "No workflow run to read artifacts from.",
			Suggestion: "Trigger the workflow on workflow_run or pass --run-id.",
		}
	case errors.Is(err, actions.ErrNoRepository):
		return &CLIError{
			Err:        err,
			Message:    "The repository is unknown.",
			Suggestion: "Set GITHUB_REPOSITORY to owner/repo.",
		}
	}
	return err
}
