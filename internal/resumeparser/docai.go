package resumeparser

import (
	"context"
	"fmt"
	"os"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

type DocAIConfig struct {
	ProjectID   string
	Location    string
	ProcessorID string
}

func (c DocAIConfig) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

type documentProcessor interface {
	Process(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error)
	Close() error
}

type processorClient struct {
	c *documentai.DocumentProcessorClient
}

func (p processorClient) Process(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
	return p.c.ProcessDocument(ctx, req)
}

func (p processorClient) Close() error {
	return p.c.Close()
}

// DocAIParser sends the raw file to a Document AI processor and maps the
// entities it returns.
type DocAIParser struct {
	cfg       DocAIConfig
	processor documentProcessor
}

func NewDocAIParser(ctx context.Context, cfg DocAIConfig) (*DocAIParser, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" || strings.TrimSpace(cfg.ProcessorID) == "" {
		return nil, fmt.Errorf("missing required Google Cloud configuration")
	}
	if strings.TrimSpace(cfg.Location) == "" {
		cfg.Location = "us"
	}
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)
	c, err := documentai.NewDocumentProcessorClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}
	return &DocAIParser{cfg: cfg, processor: processorClient{c: c}}, nil
}

func (p *DocAIParser) Close() error {
	if p == nil || p.processor == nil {
		return nil
	}
	return p.processor.Close()
}

func (p *DocAIParser) Parse(ctx context.Context, path string) (Fields, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Fields{}, err
	}

	resp, err := p.processor.Process(ctx, &documentaipb.ProcessRequest{
		Name: p.cfg.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeTypeFor(path),
			},
		},
	})
	if err != nil {
		return Fields{}, err
	}
	return fieldsFromEntities(resp.GetDocument().GetEntities()), nil
}

func fieldsFromEntities(entities []*documentaipb.Document_Entity) Fields {
	var f Fields
	for _, e := range entities {
		text := strings.TrimSpace(e.GetMentionText())
		if text == "" {
			continue
		}
		switch e.GetType() {
		case "person_name":
			f.Name = optional(text)
		case "email_address":
			f.Email = optional(text)
		case "phone_number":
			f.MobileNumber = optional(text)
		case "skill":
			f.Skills = append(f.Skills, text)
		case "degree":
			f.Degree = append(f.Degree, text)
		case "institution", "school":
			f.CollegeName = append(f.CollegeName, text)
		case "company", "employer":
			f.CompanyNames = append(f.CompanyNames, text)
		case "job_title":
			f.Designation = append(f.Designation, text)
		}
	}
	f.Skills = dedupe(f.Skills)
	if f.Skills == nil {
		f.Skills = []string{}
	}
	return f
}
