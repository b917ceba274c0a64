package scraper

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"smartdash/internal/domain/job"

	"github.com/gocolly/colly/v2"
)

const defaultIndeedRSSURL = "https://rss.indeed.com/rss"

// IndeedRSSFeed queries the public feed once per skill and concatenates the
// entries.
type IndeedRSSFeed struct {
	feedURL     string
	allowedHost string
	timeout     time.Duration
}

func NewIndeedRSSFeed(feedURL string, timeout time.Duration) *IndeedRSSFeed {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		feedURL = defaultIndeedRSSURL
	}
	return &IndeedRSSFeed{
		feedURL:     feedURL,
		allowedHost: hostFromBaseURL(feedURL, "rss.indeed.com"),
		timeout:     timeout,
	}
}

func (f *IndeedRSSFeed) Name() string { return SourceIndeedRSS }

func (f *IndeedRSSFeed) Fetch(ctx context.Context, skills []string, location string) ([]job.Job, error) {
	out := make([]job.Job, 0)
	for _, kw := range topSkills(skills) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		jobs, err := f.fetchKeyword(ctx, kw, location)
		if err != nil {
			return nil, err
		}
		out = append(out, jobs...)
	}
	return out, nil
}

func (f *IndeedRSSFeed) fetchKeyword(ctx context.Context, keyword, location string) ([]job.Job, error) {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("l", location)
	q.Set("radius", "50")
	sep := "?"
	if strings.Contains(f.feedURL, "?") {
		sep = "&"
	}
	feedURL := f.feedURL + sep + q.Encode()

	c := newCollector(ctx, f.allowedHost, f.timeout)

	var (
		mu     sync.Mutex
		out    = make([]job.Job, 0)
		reqErr error
	)

	c.OnXML("//item", func(e *colly.XMLElement) {
		link := strings.TrimSpace(e.ChildText("link"))
		title := collapseSpace(e.ChildText("title"))
		if title == "" {
			return
		}
		company := pickNonEmpty(e.ChildText("author"), e.ChildText("source"))

		mu.Lock()
		out = append(out, job.Job{
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         pickNonEmpty(link, e.ChildText("guid")),
			Description: optionalText(plainText(e.ChildText("description"))),
			PostedDate:  optionalText(e.ChildText("pubDate")),
			Source:      SourceIndeedRSS,
		})
		mu.Unlock()
	})

	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if err := c.Visit(feedURL); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	return out, nil
}
