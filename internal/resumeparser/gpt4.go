package resumeparser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const gpt4SystemPrompt = `You are a resume parsing expert. Extract the following information from the resume text:
- Full Name
- Email Address
- Phone Number
- Skills (as a list)
- Work Experience (as a list of objects with company, title, dates, and description)
- Education (as a list of objects with institution, degree, dates)

Format the output as a JSON object with these keys: name, email, mobile_number, skills, experience, education`

// GPT4Parser asks a chat completion model for a JSON extraction of the
// resume text.
type GPT4Parser struct {
	client  *resty.Client
	model   string
	extract TextExtractor
}

func NewGPT4Parser(baseURL, apiKey, model string, timeout time.Duration, extract TextExtractor) (*GPT4Parser, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}
	if strings.TrimSpace(model) == "" {
		model = "gpt-4-turbo-preview"
	}
	if extract == nil {
		extract = ExtractText
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &GPT4Parser{client: c, model: model, extract: extract}, nil
}

func (p *GPT4Parser) Parse(ctx context.Context, path string) (Fields, error) {
	text, err := p.extract(path)
	if err != nil {
		return Fields{}, err
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model": p.model,
			"messages": []map[string]string{
				{"role": "system", "content": gpt4SystemPrompt},
				{"role": "user", "content": text},
			},
			"response_format": map[string]string{"type": "json_object"},
		}).
		Post("/chat/completions")
	if err != nil {
		return Fields{}, err
	}
	if resp.IsError() {
		return Fields{}, fmt.Errorf("chat completion: status %d: %s", resp.StatusCode(), gjson.Get(resp.String(), "error.message").String())
	}

	content := gjson.Get(resp.String(), "choices.0.message.content").String()
	if content == "" {
		return Fields{}, fmt.Errorf("no response from LLM")
	}
	if !gjson.Valid(content) {
		return Fields{}, fmt.Errorf("LLM returned invalid JSON")
	}
	return fieldsFromCompletion(content), nil
}

// fieldsFromCompletion tolerates missing keys; absent lists become empty.
func fieldsFromCompletion(content string) Fields {
	doc := gjson.Parse(content)

	f := Fields{
		Name:         optional(doc.Get("name").String()),
		Email:        optional(doc.Get("email").String()),
		MobileNumber: optional(doc.Get("mobile_number").String()),
		Skills:       []string{},
	}

	for _, s := range doc.Get("skills").Array() {
		f.Skills = append(f.Skills, s.String())
	}
	f.Skills = dedupe(f.Skills)

	for _, e := range doc.Get("experience").Array() {
		if c := e.Get("company").String(); c != "" {
			f.CompanyNames = append(f.CompanyNames, c)
		}
		if t := e.Get("title").String(); t != "" {
			f.Designation = append(f.Designation, t)
		}
	}
	for _, e := range doc.Get("education").Array() {
		if i := e.Get("institution").String(); i != "" {
			f.CollegeName = append(f.CollegeName, i)
		}
		if d := e.Get("degree").String(); d != "" {
			f.Degree = append(f.Degree, d)
		}
	}
	f.CompanyNames = dedupe(f.CompanyNames)
	f.Designation = dedupe(f.Designation)
	f.CollegeName = dedupe(f.CollegeName)
	f.Degree = dedupe(f.Degree)
	return f
}
