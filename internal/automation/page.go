package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Selector is a CSS query, or an XPath expression when XPath is set.
type Selector struct {
	Expr  string
	XPath bool
}

func css(expr string) Selector   { return Selector{Expr: expr} }
func xpath(expr string) Selector { return Selector{Expr: expr, XPath: true} }

// buttonWithText matches a <tag> whose visible text contains text.
func buttonWithText(tag, text string) Selector {
	return xpath(fmt.Sprintf(`//%s[contains(normalize-space(.), %q)]`, tag, text))
}

// Page is the slice of browser control the application flows need.
type Page interface {
	Count(ctx context.Context, sel Selector) (int, error)
	Click(ctx context.Context, sel Selector) error
	Fill(ctx context.Context, sel Selector, value string) error
	Upload(ctx context.Context, sel Selector, path string) error
	WaitLoaded(ctx context.Context) error
}

type chromePage struct {
	settle time.Duration
}

func (p chromePage) Count(ctx context.Context, sel Selector) (int, error) {
	expr, _ := json.Marshal(sel.Expr)
	var js string
	if sel.XPath {
		js = fmt.Sprintf(`document.evaluate(%s, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null).snapshotLength`, expr)
	} else {
		js = fmt.Sprintf(`document.querySelectorAll(%s).length`, expr)
	}
	var n int
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &n)); err != nil {
		return 0, err
	}
	return n, nil
}

func (p chromePage) Click(ctx context.Context, sel Selector) error {
	return chromedp.Run(ctx, chromedp.Click(sel.Expr, queryOpt(sel), chromedp.NodeVisible))
}

func (p chromePage) Fill(ctx context.Context, sel Selector, value string) error {
	return chromedp.Run(ctx, chromedp.SetValue(sel.Expr, value, queryOpt(sel)))
}

func (p chromePage) Upload(ctx context.Context, sel Selector, path string) error {
	return chromedp.Run(ctx, chromedp.SetUploadFiles(sel.Expr, []string{path}, queryOpt(sel)))
}

func (p chromePage) WaitLoaded(ctx context.Context) error {
	return chromedp.Run(ctx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(p.settle),
	)
}

func queryOpt(sel Selector) chromedp.QueryOption {
	if sel.XPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}
