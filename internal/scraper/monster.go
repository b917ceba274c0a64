package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smartdash/internal/domain/job"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const defaultMonsterAPIURL = "https://api.monster.com/jobs"

type MonsterClient struct {
	client *resty.Client
	apiURL string
}

func NewMonsterClient(apiURL, key string, timeout time.Duration) *MonsterClient {
	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		apiURL = defaultMonsterAPIURL
	}
	c := resty.New().
		SetAuthToken(key).
		SetHeader("User-Agent", desktopUserAgent)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &MonsterClient{client: c, apiURL: apiURL}
}

func (m *MonsterClient) Name() string { return SourceMonster }

func (m *MonsterClient) Fetch(ctx context.Context, skills []string, location string) ([]job.Job, error) {
	resp, err := m.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        strings.Join(topSkills(skills), ","),
			"location": location,
			"limit":    "10",
		}).
		Get(m.apiURL)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("monster: status %d", resp.StatusCode())
	}

	body := resp.String()
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("monster: invalid json response")
	}

	items := gjson.Get(body, "jobs").Array()
	out := make([]job.Job, 0, len(items))
	for _, it := range items {
		title := collapseSpace(it.Get("title").String())
		if title == "" {
			continue
		}
		out = append(out, job.Job{
			Title:       title,
			Company:     collapseSpace(it.Get("company.name").String()),
			Location:    pickNonEmpty(it.Get("location").String(), location),
			URL:         pickNonEmpty(it.Get("url").String(), it.Get("applyUrl").String()),
			Description: optionalText(plainText(it.Get("description").String())),
			Salary:      optionalText(it.Get("salary").String()),
			PostedDate:  optionalText(it.Get("postedDate").String()),
			Source:      SourceMonster,
		})
	}
	return out, nil
}
