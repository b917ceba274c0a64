package resumeparser

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind names a resume parsing backend. The string values are the ones stored
// in settings and accepted by the API.
type Kind string

const (
	KindPyResparser Kind = "pyresparser"
	KindDocAI       Kind = "docai"
	KindGPT4        Kind = "gpt-4"

	DefaultKind = KindPyResparser
)

var (
	ErrUnknownKind      = errors.New("unknown parser")
	ErrParserNotWired   = errors.New("parser not configured")
	ErrUnsupportedInput = errors.New("unsupported file format")
)

func Kinds() []Kind {
	return []Kind{KindPyResparser, KindDocAI, KindGPT4}
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Fields is what every backend extracts from a resume.
type Fields struct {
	Name            *string
	Email           *string
	MobileNumber    *string
	Skills          []string
	CollegeName     []string
	Degree          []string
	Designation     []string
	CompanyNames    []string
	TotalExperience *float64
}

type Parser interface {
	Parse(ctx context.Context, path string) (Fields, error)
}

type Registry struct {
	parsers map[Kind]Parser
}

func NewRegistry() *Registry {
	return &Registry{parsers: make(map[Kind]Parser)}
}

func (r *Registry) Register(kind Kind, p Parser) {
	if p == nil {
		return
	}
	r.parsers[kind] = p
}

func (r *Registry) Get(kind Kind) (Parser, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	p, ok := r.parsers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrParserNotWired, kind)
	}
	return p, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
