package scraper

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func httpHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      desktopUserAgent,
		"Accept-Language": "en-US,en;q=0.9",
	}
}

func hostFromBaseURL(base, fallback string) string {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || u.Host == "" {
		return fallback
	}
	if h, _, err := net.SplitHostPort(u.Host); err == nil {
		return h
	}
	return u.Host
}

// newCollector returns a collector bound to host that aborts requests once
// ctx is done.
func newCollector(ctx context.Context, host string, timeout time.Duration) *colly.Collector {
	c := colly.NewCollector(colly.AllowedDomains(host))
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})
	return c
}

// plainText strips markup from feed and API descriptions.
func plainText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "<") {
		return collapseSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpace(s)
	}
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func optionalText(s string) *string {
	s = collapseSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func pickNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return strings.TrimSpace(b)
}
