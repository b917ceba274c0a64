package resumeparser

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed skills.yaml
var defaultVocabulary []byte

// Vocabulary is the term list the keyword parser matches against.
type Vocabulary struct {
	Skills              []string `yaml:"skills"`
	Designations        []string `yaml:"designations"`
	Degrees             []string `yaml:"degrees"`
	InstitutionKeywords []string `yaml:"institution_keywords"`
}

// LoadVocabulary reads path, or the built-in list when path is empty.
func LoadVocabulary(path string) (*Vocabulary, error) {
	b := defaultVocabulary
	if p := strings.TrimSpace(path); p != "" {
		var err error
		b, err = os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read skills file: %w", err)
		}
	}
	var v Vocabulary
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode skills file: %w", err)
	}
	if len(v.Skills) == 0 {
		return nil, fmt.Errorf("skills file has no skills")
	}
	return &v, nil
}

type term struct {
	label string
	re    *regexp.Regexp
}

// compileTerms builds whole-word matchers. Terms of two letters or fewer are
// case sensitive so "Go" does not match "go".
func compileTerms(labels []string) []term {
	out := make([]term, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		flags := "(?i)"
		if len(l) <= 2 {
			flags = ""
		}
		re := regexp.MustCompile(flags + `(?:^|[^\pL\pN+#])(` + regexp.QuoteMeta(l) + `)(?:$|[^\pL\pN+#])`)
		out = append(out, term{label: l, re: re})
	}
	return out
}
