package benchbot

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Comment actions reported in PublishResult.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// CommentPublisher maintains a single benchmark comment on a pull request.
type CommentPublisher struct {
	API      CommentAPI
	Reporter Reporter
	Logger   *slog.Logger

	Dir            string // Directory holding the input files (default: current directory)
	PRNumberFile   string // default: DefaultPRNumberFile
	ComparisonFile string // default: DefaultComparisonFile
	Marker         string // Body substring identifying the comment (default: DefaultMarker)
	Footer         string // Line appended to every body (default: DefaultFooter)
}

// Inputs are the validated contents of the input files.
type Inputs struct {
	Number     int
	Comparison string
}

// PublishResult describes the published comment.
type PublishResult struct {
	Number  int
	Action  string
	Comment *Comment
}

// Publish validates the input files, then updates the existing bot comment
// carrying the marker or creates a new one.
//
// Invalid inputs are reported through p.Reporter and Publish returns
// (nil, nil) without calling the API. API failures are not reported; they
// are returned to the caller.
func (p *CommentPublisher) Publish(ctx context.Context) (*PublishResult, error) {
	in, err := p.LoadInputs()
	if err != nil {
		var ie *InputError
		if errors.As(err, &ie) {
			p.Reporter.SetFailed(ie.Error())
			return nil, nil
		}
		return nil, err
	}

	logger := p.logger().With("pr", in.Number)

	comments, err := p.API.ListComments(ctx, in.Number)
	if err != nil {
		return nil, err
	}

	body := ComposeBody(in.Comparison, p.footer())

	if existing, ok := FindBotComment(comments, p.marker()); ok {
		updated, err := p.API.UpdateComment(ctx, existing.ID, body)
		if err != nil {
			return nil, err
		}
		logger.Info("benchmark comment updated", "comment_id", existing.ID)
		return &PublishResult{Number: in.Number, Action: ActionUpdated, Comment: updated}, nil
	}

	created, err := p.API.CreateComment(ctx, in.Number, body)
	if err != nil {
		return nil, err
	}
	logger.Info("benchmark comment created", "comment_id", created.ID)
	return &PublishResult{Number: in.Number, Action: ActionCreated, Comment: created}, nil
}

// LoadInputs reads and validates the PR number and comparison files, in
// that order, stopping at the first failure. Failures are *InputError.
func (p *CommentPublisher) LoadInputs() (*Inputs, error) {
	numberFile := p.prNumberFile()
	raw, err := readInput(filepath.Join(p.Dir, numberFile), numberFile)
	if err != nil {
		return nil, err
	}

	content := trimInput(raw)
	number, ok := ParsePRNumber(content)
	if !ok {
		return nil, &InputError{Kind: ErrInvalidInput, File: numberFile, Value: content}
	}

	comparisonFile := p.comparisonFile()
	comparison, err := readInput(filepath.Join(p.Dir, comparisonFile), comparisonFile)
	if err != nil {
		return nil, err
	}

	return &Inputs{Number: number, Comparison: comparison}, nil
}

// readInput distinguishes an absent file from one that cannot be read.
// Any stat failure counts as absent.
func readInput(path, name string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", &InputError{Kind: ErrMissingInput, File: name, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &InputError{Kind: ErrIO, File: name, Err: err}
	}
	return string(data), nil
}

func trimInput(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// ParsePRNumber parses a pull request number. It accepts an optional sign
// followed by decimal digits and ignores anything after the digits, so
// "42\n" and "42abc" both yield 42. The result must be positive and fit in
// an int.
func ParsePRNumber(s string) (int, bool) {
	s = trimInput(s)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		d := int(r - '0')
		if n > (math.MaxInt-d)/10 {
			return 0, false
		}
		n = n*10 + d
		digits++
	}

	if digits == 0 || neg || n <= 0 {
		return 0, false
	}
	return n, true
}

// FindBotComment returns the first comment authored by a bot account whose
// body contains marker.
func FindBotComment(comments []Comment, marker string) (Comment, bool) {
	for _, c := range comments {
		if c.AuthorType == AuthorBot && strings.Contains(c.Body, marker) {
			return c, true
		}
	}
	return Comment{}, false
}

// ComposeBody joins the comparison and the footer with a blank line.
func ComposeBody(comparison, footer string) string {
	return comparison + "\n\n" + footer
}

func (p *CommentPublisher) prNumberFile() string {
	if p.PRNumberFile != "" {
		return p.PRNumberFile
	}
	return DefaultPRNumberFile
}

func (p *CommentPublisher) comparisonFile() string {
	if p.ComparisonFile != "" {
		return p.ComparisonFile
	}
	return DefaultComparisonFile
}

func (p *CommentPublisher) marker() string {
	if p.Marker != "" {
		return p.Marker
	}
	return DefaultMarker
}

func (p *CommentPublisher) footer() string {
	if p.Footer != "" {
		return p.Footer
	}
	return DefaultFooter
}

func (p *CommentPublisher) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
