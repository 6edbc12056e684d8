package benchbot

import (
	"context"
	"fmt"
	"sync"
)

// MockArtifactAPI is a mock implementation of ArtifactAPI for testing.
type MockArtifactAPI struct {
	ListRunArtifactsFunc func(ctx context.Context, runID int64) ([]Artifact, error)
	DownloadArtifactFunc func(ctx context.Context, artifactID int64) ([]byte, error)
}

// ListRunArtifacts implements ArtifactAPI.
func (m *MockArtifactAPI) ListRunArtifacts(ctx context.Context, runID int64) ([]Artifact, error) {
	if m.ListRunArtifactsFunc != nil {
		return m.ListRunArtifactsFunc(ctx, runID)
	}
	return []Artifact{}, nil
}

// DownloadArtifact implements ArtifactAPI.
func (m *MockArtifactAPI) DownloadArtifact(ctx context.Context, artifactID int64) ([]byte, error) {
	if m.DownloadArtifactFunc != nil {
		return m.DownloadArtifactFunc(ctx, artifactID)
	}
	return nil, nil
}

// MockCommentAPI is a mock implementation of CommentAPI for testing.
type MockCommentAPI struct {
	ListCommentsFunc  func(ctx context.Context, number int) ([]Comment, error)
	CreateCommentFunc func(ctx context.Context, number int, body string) (*Comment, error)
	UpdateCommentFunc func(ctx context.Context, commentID int64, body string) (*Comment, error)
}

// ListComments implements CommentAPI.
func (m *MockCommentAPI) ListComments(ctx context.Context, number int) ([]Comment, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, number)
	}
	return []Comment{}, nil
}

// CreateComment implements CommentAPI.
func (m *MockCommentAPI) CreateComment(ctx context.Context, number int, body string) (*Comment, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, number, body)
	}
	return &Comment{ID: 1, AuthorType: AuthorBot, Body: body}, nil
}

// UpdateComment implements CommentAPI.
func (m *MockCommentAPI) UpdateComment(ctx context.Context, commentID int64, body string) (*Comment, error) {
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(ctx, commentID, body)
	}
	return &Comment{ID: commentID, AuthorType: AuthorBot, Body: body}, nil
}

// CommentStore is an in-memory CommentAPI. Comments it creates are
// authored by a bot account, like those of the workflow token.
type CommentStore struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int][]Comment
}

// NewCommentStore creates an empty store.
func NewCommentStore() *CommentStore {
	return &CommentStore{nextID: 1, comments: make(map[int][]Comment)}
}

// Seed appends an existing comment to a PR and returns it with its ID set.
func (s *CommentStore) Seed(number int, authorType AuthorType, body string) Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Comment{ID: s.nextID, AuthorType: authorType, Body: body}
	s.nextID++
	s.comments[number] = append(s.comments[number], c)
	return c
}

// ListComments implements CommentAPI.
func (s *CommentStore) ListComments(_ context.Context, number int) ([]Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Comment(nil), s.comments[number]...), nil
}

// CreateComment implements CommentAPI.
func (s *CommentStore) CreateComment(_ context.Context, number int, body string) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Comment{ID: s.nextID, AuthorType: AuthorBot, AuthorLogin: "github-actions[bot]", Body: body}
	s.nextID++
	s.comments[number] = append(s.comments[number], c)
	return &c, nil
}

// UpdateComment implements CommentAPI.
func (s *CommentStore) UpdateComment(_ context.Context, commentID int64, body string) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range s.comments {
		for i := range list {
			if list[i].ID == commentID {
				list[i].Body = body
				c := list[i]
				return &c, nil
			}
		}
	}
	return nil, &RemoteError{Op: "update comment", StatusCode: 404, Err: fmt.Errorf("comment %d not found", commentID)}
}

// RecordingReporter collects failures in memory.
type RecordingReporter struct {
	Messages []string
}

// SetFailed implements Reporter.
func (r *RecordingReporter) SetFailed(msg string) {
	r.Messages = append(r.Messages, msg)
}

// Failed reports whether any failure was recorded.
func (r *RecordingReporter) Failed() bool {
	return len(r.Messages) > 0
}
