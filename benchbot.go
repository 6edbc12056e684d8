package benchbot

import "context"

// Defaults used by the benchmark workflow.
const (
	// DefaultArtifactName is the artifact uploaded by the benchmark job.
	DefaultArtifactName = "benchmark-results"

	// DefaultOutputFile is written under the workspace root.
	DefaultOutputFile = "benchmark-results.zip"

	// DefaultPRNumberFile holds the pull request number.
	DefaultPRNumberFile = "pr_number.txt"

	// DefaultComparisonFile holds the rendered comparison markdown.
	DefaultComparisonFile = "comparison.md"

	// DefaultMarker identifies the benchmark comment among a PR's comments.
	DefaultMarker = "Benchmark Comparison"

	// DefaultFooter is appended to every published comment.
	DefaultFooter = "<sub>🤖 This comment will be automatically updated with the latest benchmark results.</sub>"
)

// AuthorType is the GitHub account type of a comment author.
type AuthorType string

const (
	AuthorBot  AuthorType = "Bot"
	AuthorUser AuthorType = "User"
)

// RunContext identifies the repository and workflow run a command acts on.
type RunContext struct {
	Owner     string // Repository owner
	Repo      string // Repository name
	RunID     int64  // Workflow run whose artifacts are fetched
	Workspace string // Job workspace root
}

// Artifact is a build artifact attached to a workflow run.
type Artifact struct {
	ID          int64
	Name        string
	SizeInBytes int64
	Expired     bool
}

// Comment is an issue or pull request comment.
type Comment struct {
	ID          int64
	AuthorType  AuthorType
	AuthorLogin string
	Body        string
	HTMLURL     string
}

// ArtifactAPI lists and downloads workflow run artifacts.
type ArtifactAPI interface {
	// ListRunArtifacts returns the artifacts of a run in API order.
	ListRunArtifacts(ctx context.Context, runID int64) ([]Artifact, error)

	// DownloadArtifact returns the zip archive of an artifact.
	DownloadArtifact(ctx context.Context, artifactID int64) ([]byte, error)
}

// CommentAPI reads and writes pull request comments.
type CommentAPI interface {
	// ListComments returns the comments of an issue or PR in API order.
	ListComments(ctx context.Context, number int) ([]Comment, error)

	// CreateComment adds a comment to an issue or PR.
	CreateComment(ctx context.Context, number int, body string) (*Comment, error)

	// UpdateComment replaces the body of an existing comment.
	UpdateComment(ctx context.Context, commentID int64, body string) (*Comment, error)
}

// Reporter receives fatal step failures. SetFailed marks the invocation
// as failed; it does not stop execution.
type Reporter interface {
	SetFailed(msg string)
}
