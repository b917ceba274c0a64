package automation

import (
	"context"
	"errors"
	"log"
	"strings"

	"smartdash/internal/domain/candidate"
)

var errSignInRequired = errors.New("sign-in required")

var (
	nameFields = []Selector{
		css(`input[name*="name" i]`),
		css(`input[placeholder*="name" i]`),
		css(`input[aria-label*="name" i]`),
	}
	emailFields = []Selector{
		css(`input[type="email"]`),
		css(`input[name*="email" i]`),
		css(`input[placeholder*="email" i]`),
	}
	phoneFields = []Selector{
		css(`input[type="tel"]`),
		css(`input[name*="phone" i]`),
		css(`input[placeholder*="phone" i]`),
	}
	resumeFields = []Selector{
		css(`input[type="file"]`),
		css(`input[accept*=".pdf"]`),
		css(`input[accept*=".docx"]`),
	}

	signInText       = xpath(`//*[normalize-space(text())="Sign in"]`)
	indeedApplyNow   = buttonWithText("button", "Apply now")
	indeedSummary    = css(`textarea[name="jobSeekerSummary"]`)
	linkedInEasy     = buttonWithText("button", "Easy Apply")
	genericApplyBtns = []Selector{
		buttonWithText("button", "Apply"),
		buttonWithText("a", "Apply"),
		buttonWithText("button", "Submit"),
		css(`input[type="submit"]`),
	}
)

// flow drives one site. It reports whether the form was reached and filled.
type flow func(ctx context.Context, p Page, c candidate.Candidate, logger *log.Logger) (bool, error)

func flowFor(host string) (string, flow) {
	host = strings.ToLower(host)
	switch {
	case strings.Contains(host, "indeed.com"):
		return "indeed", indeedFlow
	case strings.Contains(host, "linkedin.com"):
		return "linkedin", linkedInFlow
	default:
		return "generic", genericFlow
	}
}

func indeedFlow(ctx context.Context, p Page, c candidate.Candidate, logger *log.Logger) (bool, error) {
	if exists(ctx, p, signInText) {
		return false, errSignInRequired
	}
	if !exists(ctx, p, indeedApplyNow) {
		return false, nil
	}
	if err := p.Click(ctx, indeedApplyNow); err != nil {
		return false, err
	}
	if err := p.WaitLoaded(ctx); err != nil {
		return false, err
	}
	fillCommonFields(ctx, p, c, logger)
	if exists(ctx, p, indeedSummary) {
		summary := "Experienced professional with expertise in: " + strings.Join(c.Skills, ", ")
		if err := p.Fill(ctx, indeedSummary, summary); err != nil {
			return false, err
		}
	}
	return true, nil
}

func linkedInFlow(ctx context.Context, p Page, c candidate.Candidate, logger *log.Logger) (bool, error) {
	if exists(ctx, p, signInText) {
		return false, errSignInRequired
	}
	if !exists(ctx, p, linkedInEasy) {
		return false, nil
	}
	if err := p.Click(ctx, linkedInEasy); err != nil {
		return false, err
	}
	if err := p.WaitLoaded(ctx); err != nil {
		return false, err
	}
	fillCommonFields(ctx, p, c, logger)
	return true, nil
}

func genericFlow(ctx context.Context, p Page, c candidate.Candidate, logger *log.Logger) (bool, error) {
	for _, sel := range genericApplyBtns {
		if !exists(ctx, p, sel) {
			continue
		}
		if err := p.Click(ctx, sel); err != nil {
			return false, err
		}
		if err := p.WaitLoaded(ctx); err != nil {
			return false, err
		}
		break
	}
	fillCommonFields(ctx, p, c, logger)
	return true, nil
}

// fillCommonFields fills the first matching input of each kind. Individual
// field failures are logged and skipped.
func fillCommonFields(ctx context.Context, p Page, c candidate.Candidate, logger *log.Logger) {
	fillFirst(ctx, p, nameFields, deref(c.Name), logger)
	fillFirst(ctx, p, emailFields, deref(c.Email), logger)
	fillFirst(ctx, p, phoneFields, deref(c.MobileNumber), logger)

	path := deref(c.ResumeFilePath)
	if path == "" {
		return
	}
	for _, sel := range resumeFields {
		if !exists(ctx, p, sel) {
			continue
		}
		if err := p.Upload(ctx, sel, path); err != nil {
			logf(logger, "[Apply] resume upload via %s failed: %v", sel.Expr, err)
			continue
		}
		return
	}
}

func fillFirst(ctx context.Context, p Page, sels []Selector, value string, logger *log.Logger) {
	if value == "" {
		return
	}
	for _, sel := range sels {
		if !exists(ctx, p, sel) {
			continue
		}
		if err := p.Fill(ctx, sel, value); err != nil {
			logf(logger, "[Apply] fill %s failed: %v", sel.Expr, err)
			continue
		}
		return
	}
}

func exists(ctx context.Context, p Page, sel Selector) bool {
	n, err := p.Count(ctx, sel)
	return err == nil && n > 0
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}
