package benchbot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"
)

// maxPerPage is the largest page size the GitHub REST API accepts.
const maxPerPage = 100

// GitHubClient implements ArtifactAPI and CommentAPI for one repository.
type GitHubClient struct {
	client   *github.Client
	download *http.Client
	owner    string
	repo     string
	allPages bool
	logger   *slog.Logger
}

// GitHubOption configures a GitHubClient.
type GitHubOption func(*GitHubClient) error

// WithBaseURL points the client at a different API root, such as a
// GitHub Enterprise server ("https://ghe.example.com/api/v3").
func WithBaseURL(baseURL string) GitHubOption {
	return func(c *GitHubClient) error {
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("parse base URL: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base URL %q must be absolute", baseURL)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		c.client.BaseURL = u
		return nil
	}
}

// WithAllPages makes list calls walk every page instead of reading only
// the first one.
func WithAllPages() GitHubOption {
	return func(c *GitHubClient) error {
		c.allPages = true
		return nil
	}
}

// WithDownloadClient sets the HTTP client used to fetch artifact archives
// from their signed storage URL.
func WithDownloadClient(hc *http.Client) GitHubOption {
	return func(c *GitHubClient) error {
		if hc == nil {
			return errors.New("download client is nil")
		}
		c.download = hc
		return nil
	}
}

// WithLogger sets the logger used for warnings.
func WithLogger(logger *slog.Logger) GitHubOption {
	return func(c *GitHubClient) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// NewGitHubClient creates a client for owner/repo.
// token is the workflow's GITHUB_TOKEN or any token with actions:read and
// pull-requests:write on the repository.
func NewGitHubClient(token, owner, repo string, opts ...GitHubOption) (*GitHubClient, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	c := &GitHubClient{
		client:   github.NewClient(tc),
		download: cleanhttp.DefaultClient(),
		owner:    owner,
		repo:     repo,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ListRunArtifacts lists the artifacts of a workflow run.
func (c *GitHubClient) ListRunArtifacts(ctx context.Context, runID int64) ([]Artifact, error) {
	fetch := func(ctx context.Context, page int) ([]Artifact, int, error) {
		opts := &github.ListOptions{Page: page}
		if c.allPages {
			opts.PerPage = maxPerPage
		}
		list, resp, err := c.client.Actions.ListWorkflowRunArtifacts(ctx, c.owner, c.repo, runID, opts)
		if err != nil {
			return nil, 0, remoteError("list artifacts", resp, err)
		}
		result := make([]Artifact, 0, len(list.Artifacts))
		for _, a := range list.Artifacts {
			result = append(result, artifactFromGitHub(a))
		}
		return result, resp.NextPage, nil
	}
	return collect(ctx, c, "artifacts", fetch, slog.Int64("run_id", runID))
}

// DownloadArtifact downloads the zip archive of an artifact.
func (c *GitHubClient) DownloadArtifact(ctx context.Context, artifactID int64) ([]byte, error) {
	loc, resp, err := c.client.Actions.DownloadArtifact(ctx, c.owner, c.repo, artifactID, 1)
	if err != nil {
		return nil, remoteError("download artifact", resp, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.String(), nil)
	if err != nil {
		return nil, &RemoteError{Op: "download artifact", Err: err}
	}
	res, err := c.download.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: "download artifact", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &RemoteError{
			Op:         "download artifact",
			StatusCode: res.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", res.Status),
		}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &RemoteError{Op: "download artifact", Err: fmt.Errorf("read body: %w", err)}
	}
	return data, nil
}

// ListComments lists the comments of an issue or pull request.
func (c *GitHubClient) ListComments(ctx context.Context, number int) ([]Comment, error) {
	fetch := func(ctx context.Context, page int) ([]Comment, int, error) {
		opts := &github.IssueListCommentsOptions{
			ListOptions: github.ListOptions{Page: page},
		}
		if c.allPages {
			opts.PerPage = maxPerPage
		}
		comments, resp, err := c.client.Issues.ListComments(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, 0, remoteError("list comments", resp, err)
		}
		result := make([]Comment, 0, len(comments))
		for _, ic := range comments {
			result = append(result, commentFromGitHub(ic))
		}
		return result, resp.NextPage, nil
	}
	return collect(ctx, c, "comments", fetch, slog.Int("pr", number))
}

// CreateComment adds a comment to an issue or pull request.
func (c *GitHubClient) CreateComment(ctx context.Context, number int, body string) (*Comment, error) {
	ic, resp, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, number,
		&github.IssueComment{Body: github.String(body)})
	if err != nil {
		return nil, remoteError("create comment", resp, err)
	}
	comment := commentFromGitHub(ic)
	return &comment, nil
}

// UpdateComment replaces the body of a comment.
func (c *GitHubClient) UpdateComment(ctx context.Context, commentID int64, body string) (*Comment, error) {
	ic, resp, err := c.client.Issues.EditComment(ctx, c.owner, c.repo, commentID,
		&github.IssueComment{Body: github.String(body)})
	if err != nil {
		return nil, remoteError("update comment", resp, err)
	}
	comment := commentFromGitHub(ic)
	return &comment, nil
}

// collect reads the first page, or every page when allPages is set.
// A truncated single-page listing is logged, never silently dropped.
func collect[T any](ctx context.Context, c *GitHubClient, what string, fetch PageFetcher[T], attr slog.Attr) ([]T, error) {
	if c.allPages {
		return NewPageIterator(fetch).All(ctx)
	}

	items, next, err := fetch(ctx, 0)
	if err != nil {
		return nil, err
	}
	if next != 0 {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "results truncated to the first page",
			slog.String("list", what), slog.Int("count", len(items)), slog.Int("next_page", next), attr)
	}
	return items, nil
}

func remoteError(op string, resp *github.Response, err error) error {
	re := &RemoteError{Op: op, Err: err}
	if resp != nil && resp.Response != nil {
		re.StatusCode = resp.StatusCode
	}
	return re
}

func artifactFromGitHub(a *github.Artifact) Artifact {
	return Artifact{
		ID:          a.GetID(),
		Name:        a.GetName(),
		SizeInBytes: a.GetSizeInBytes(),
		Expired:     a.GetExpired(),
	}
}

func commentFromGitHub(ic *github.IssueComment) Comment {
	comment := Comment{
		ID:      ic.GetID(),
		Body:    ic.GetBody(),
		HTMLURL: ic.GetHTMLURL(),
	}
	if ic.User != nil {
		comment.AuthorType = AuthorType(ic.User.GetType())
		comment.AuthorLogin = ic.User.GetLogin()
	}
	return comment
}
