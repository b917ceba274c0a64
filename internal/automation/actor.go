package automation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"smartdash/internal/domain/application"
	"smartdash/internal/domain/candidate"

	"github.com/chromedp/chromedp"
)

const (
	DefaultTimeout = 2 * time.Minute

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	reasonManual = "Could not complete automated application, manual application required"
)

// Outcome is the terminal result of one automated submission.
type Outcome struct {
	Status      application.Status
	Reason      string
	SubmittedAt *time.Time
}

type session interface {
	Page
	Navigate(ctx context.Context, rawURL string) error
}

type opener func(ctx context.Context) (context.Context, session, context.CancelFunc)

type Actor struct {
	timeout time.Duration
	logger  *log.Logger
	open    opener
	now     func() time.Time
}

func NewActor(timeout time.Duration, logger *log.Logger) *Actor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Actor{
		timeout: timeout,
		logger:  logger,
		open:    openChrome,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Apply opens jobURL in a fresh headless browser and runs the matching site
// flow. It never returns an error: every failure maps to an Outcome.
func (a *Actor) Apply(ctx context.Context, c candidate.Candidate, jobURL string) Outcome {
	u, err := url.Parse(jobURL)
	if err != nil || u.Host == "" {
		return Outcome{Status: application.StatusFailed, Reason: fmt.Sprintf("Invalid job URL: %s", jobURL)}
	}

	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	bctx, s, closeBrowser := a.open(runCtx)
	defer closeBrowser()

	if err := s.Navigate(bctx, jobURL); err != nil {
		if isTimeout(runCtx, err) {
			return timeoutOutcome(err)
		}
		return Outcome{Status: application.StatusFailed, Reason: fmt.Sprintf("Failed to load page: %v", err)}
	}

	site, run := flowFor(u.Host)
	ok, err := run(bctx, s, c, a.logger)
	if err != nil {
		if isTimeout(runCtx, err) {
			return timeoutOutcome(err)
		}
		if errors.Is(err, errSignInRequired) {
			logf(a.logger, "[Apply] %s sign-in required, skipping automated application", site)
		} else {
			logf(a.logger, "[Apply] error in %s application: %v", site, err)
		}
		return Outcome{Status: application.StatusManualRequired, Reason: reasonManual}
	}
	if !ok {
		return Outcome{Status: application.StatusManualRequired, Reason: reasonManual}
	}

	at := a.now()
	return Outcome{Status: application.StatusSubmitted, SubmittedAt: &at}
}

func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func timeoutOutcome(err error) Outcome {
	return Outcome{Status: application.StatusFailed, Reason: fmt.Sprintf("Timeout or captcha encountered: %v", err)}
}

type chromeSession struct {
	chromePage
}

func (chromeSession) Navigate(ctx context.Context, rawURL string) error {
	return chromedp.Run(ctx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func openChrome(ctx context.Context) (context.Context, session, context.CancelFunc) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-setuid-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(1920, 1080),
			chromedp.UserAgent(userAgent),
		)...,
	)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	return browserCtx, chromeSession{chromePage{settle: 1500 * time.Millisecond}}, func() {
		browserCancel()
		allocCancel()
	}
}
