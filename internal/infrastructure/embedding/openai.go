package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const DefaultOpenAIModel = "text-embedding-3-small"

var ErrEmptyEmbedding = errors.New("empty embedding")

type OpenAI struct {
	client *resty.Client
	model  string
}

func NewOpenAI(baseURL, apiKey, model string, timeout time.Duration) *OpenAI {
	if strings.TrimSpace(model) == "" {
		model = DefaultOpenAIModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &OpenAI{client: c, model: model}
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model": o.model,
			"input": text,
		}).
		Post("/embeddings")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		msg := gjson.Get(resp.String(), "error.message").String()
		return nil, fmt.Errorf("openai embeddings: status %d: %s", resp.StatusCode(), msg)
	}

	raw := gjson.Get(resp.String(), "data.0.embedding").Array()
	if len(raw) == 0 {
		return nil, ErrEmptyEmbedding
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = v.Float()
	}
	return out, nil
}
