package automation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"smartdash/internal/domain/application"
	"smartdash/internal/domain/candidate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu sync.Mutex

	present     map[string]int
	navigateErr error
	clickErr    error

	clicked  []string
	filled   map[string]string
	uploaded map[string]string
}

func newFakeSession(present ...string) *fakeSession {
	s := &fakeSession{present: map[string]int{}, filled: map[string]string{}, uploaded: map[string]string{}}
	for _, p := range present {
		s.present[p] = 1
	}
	return s
}

func (s *fakeSession) Navigate(context.Context, string) error { return s.navigateErr }
func (s *fakeSession) WaitLoaded(context.Context) error       { return nil }

func (s *fakeSession) Count(_ context.Context, sel Selector) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.present[sel.Expr], nil
}

func (s *fakeSession) Click(_ context.Context, sel Selector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clickErr != nil {
		return s.clickErr
	}
	s.clicked = append(s.clicked, sel.Expr)
	return nil
}

func (s *fakeSession) Fill(_ context.Context, sel Selector, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filled[sel.Expr] = value
	return nil
}

func (s *fakeSession) Upload(_ context.Context, sel Selector, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded[sel.Expr] = path
	return nil
}

func newTestActor(s *fakeSession) *Actor {
	a := NewActor(time.Second, nil)
	a.open = func(ctx context.Context) (context.Context, session, context.CancelFunc) {
		return ctx, s, func() {}
	}
	a.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return a
}

func strPtr(s string) *string { return &s }

func testCandidate() candidate.Candidate {
	return candidate.Candidate{
		ID:             "c1",
		Name:           strPtr("Ada Lovelace"),
		Email:          strPtr("ada@example.com"),
		MobileNumber:   strPtr("+1 555 0100"),
		Skills:         []string{"Python", "Go"},
		ResumeFilePath: strPtr("/tmp/ada.pdf"),
	}
}

func TestActor_IndeedSubmitsAndFillsSummary(t *testing.T) {
	s := newFakeSession(indeedApplyNow.Expr, indeedSummary.Expr, `input[type="email"]`, `input[name*="name" i]`, `input[type="file"]`)
	out := newTestActor(s).Apply(context.Background(), testCandidate(), "https://www.indeed.com/viewjob?jk=1")

	assert.Equal(t, application.StatusSubmitted, out.Status)
	require.NotNil(t, out.SubmittedAt)
	assert.Equal(t, []string{indeedApplyNow.Expr}, s.clicked)
	assert.Equal(t, "Ada Lovelace", s.filled[`input[name*="name" i]`])
	assert.Equal(t, "ada@example.com", s.filled[`input[type="email"]`])
	assert.Equal(t, "Experienced professional with expertise in: Python, Go", s.filled[indeedSummary.Expr])
	assert.Equal(t, "/tmp/ada.pdf", s.uploaded[`input[type="file"]`])
}

func TestActor_SignInWallNeedsManualApplication(t *testing.T) {
	s := newFakeSession(signInText.Expr, indeedApplyNow.Expr)
	out := newTestActor(s).Apply(context.Background(), testCandidate(), "https://www.indeed.com/viewjob?jk=1")

	assert.Equal(t, application.StatusManualRequired, out.Status)
	assert.Equal(t, reasonManual, out.Reason)
	assert.Empty(t, s.clicked)
}

func TestActor_LinkedInWithoutEasyApply(t *testing.T) {
	s := newFakeSession()
	out := newTestActor(s).Apply(context.Background(), testCandidate(), "https://www.linkedin.com/jobs/view/1")
	assert.Equal(t, application.StatusManualRequired, out.Status)
}

func TestActor_GenericClicksFirstMatchingControl(t *testing.T) {
	submit := buttonWithText("button", "Submit").Expr
	s := newFakeSession(submit, `input[type="submit"]`, `input[type="tel"]`)
	out := newTestActor(s).Apply(context.Background(), testCandidate(), "https://careers.example.com/jobs/1")

	assert.Equal(t, application.StatusSubmitted, out.Status)
	assert.Equal(t, []string{submit}, s.clicked)
	assert.Equal(t, "+1 555 0100", s.filled[`input[type="tel"]`])
}

func TestActor_PageLoadFailure(t *testing.T) {
	s := newFakeSession()
	s.navigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
	out := newTestActor(s).Apply(context.Background(), testCandidate(), "https://nowhere.example/job")

	assert.Equal(t, application.StatusFailed, out.Status)
	assert.Contains(t, out.Reason, "Failed to load page")
}

func TestActor_TimeoutIsFailure(t *testing.T) {
	s := newFakeSession()
	s.navigateErr = context.DeadlineExceeded
	out := newTestActor(s).Apply(context.Background(), testCandidate(), "https://slow.example/job")

	assert.Equal(t, application.StatusFailed, out.Status)
	assert.Contains(t, out.Reason, "Timeout or captcha")
}

func TestActor_FlowErrorNeedsManualApplication(t *testing.T) {
	s := newFakeSession(linkedInEasy.Expr)
	s.clickErr = errors.New("node not visible")
	out := newTestActor(s).Apply(context.Background(), testCandidate(), "https://www.linkedin.com/jobs/view/1")
	assert.Equal(t, application.StatusManualRequired, out.Status)
}

func TestActor_InvalidURL(t *testing.T) {
	out := newTestActor(newFakeSession()).Apply(context.Background(), testCandidate(), "not a url")
	assert.Equal(t, application.StatusFailed, out.Status)
}
