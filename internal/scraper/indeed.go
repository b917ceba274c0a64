package scraper

import (
	"context"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"smartdash/internal/domain/job"

	"github.com/gocolly/colly/v2"
)

const (
	defaultIndeedBaseURL = "https://www.indeed.com"
	indeedMaxCards       = 10
)

type IndeedScraper struct {
	baseURL     string
	allowedHost string
	timeout     time.Duration
	logger      *log.Logger
}

func NewIndeedScraper(baseURL string, timeout time.Duration, logger *log.Logger) *IndeedScraper {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultIndeedBaseURL
	}
	return &IndeedScraper{
		baseURL:     baseURL,
		allowedHost: hostFromBaseURL(baseURL, "www.indeed.com"),
		timeout:     timeout,
		logger:      logger,
	}
}

func (s *IndeedScraper) Name() string { return SourceIndeed }

// Fetch scrapes the first result page sorted by date. Cards missing a title,
// company or link are skipped.
func (s *IndeedScraper) Fetch(ctx context.Context, skills []string, location string) ([]job.Job, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	q := url.Values{}
	q.Set("q", strings.Join(topSkills(skills), " "))
	q.Set("l", location)
	q.Set("sort", "date")
	searchURL := s.baseURL + "/jobs?" + q.Encode()

	c := newCollector(ctx, s.allowedHost, s.timeout)

	var (
		mu      sync.Mutex
		out     = make([]job.Job, 0, indeedMaxCards)
		cards   int
		skipped int
		reqErr  error
	)

	c.OnHTML("div.job_seen_beacon", func(e *colly.HTMLElement) {
		mu.Lock()
		defer mu.Unlock()
		if cards >= indeedMaxCards {
			return
		}
		cards++

		j, ok := parseIndeedCard(e)
		if !ok {
			skipped++
			return
		}
		out = append(out, j)
	})

	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if err := c.Visit(searchURL); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if cards == 0 && s.logger != nil {
		s.logger.Printf("[Scraper] indeed: no job cards found, page layout may have changed")
	}
	if skipped > 0 && s.logger != nil {
		s.logger.Printf("[Scraper] indeed: skipped %d malformed cards", skipped)
	}
	return out, nil
}

func parseIndeedCard(e *colly.HTMLElement) (job.Job, bool) {
	title := collapseSpace(e.ChildText("h2.jobTitle"))
	company := collapseSpace(e.ChildText("span.companyName"))
	href := strings.TrimSpace(e.ChildAttr("a", "href"))
	if title == "" || company == "" || href == "" {
		return job.Job{}, false
	}
	link := e.Request.AbsoluteURL(href)
	if link == "" {
		return job.Job{}, false
	}

	return job.Job{
		Title:       title,
		Company:     company,
		Location:    collapseSpace(e.ChildText("div.companyLocation")),
		URL:         link,
		Description: optionalText(e.ChildText("div.job-snippet")),
		Salary:      optionalText(e.ChildText("div.salary-snippet-container")),
		PostedDate:  optionalText(e.ChildText("span.date")),
		Source:      SourceIndeed,
	}, true
}
