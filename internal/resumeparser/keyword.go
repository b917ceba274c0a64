package resumeparser

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

var (
	emailRe      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe      = regexp.MustCompile(`\+?\(?\d[\d\s().\-]{7,}\d`)
	experienceRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\+?\s*(?:years?|yrs?)(?:\s+of)?\s+(?:professional\s+|industry\s+|work\s+)?experience`)
)

const minPhoneDigits = 10

// KeywordParser extracts fields locally with pattern and vocabulary matching.
// It needs no network access and is the default backend.
type KeywordParser struct {
	extract      TextExtractor
	skills       []term
	designations []term
	degrees      []term
	institutions []string
}

func NewKeywordParser(v *Vocabulary, extract TextExtractor) *KeywordParser {
	if extract == nil {
		extract = ExtractText
	}
	return &KeywordParser{
		extract:      extract,
		skills:       compileTerms(v.Skills),
		designations: compileTerms(v.Designations),
		degrees:      compileTerms(v.Degrees),
		institutions: v.InstitutionKeywords,
	}
}

func (p *KeywordParser) Parse(ctx context.Context, path string) (Fields, error) {
	if err := ctx.Err(); err != nil {
		return Fields{}, err
	}
	text, err := p.extract(path)
	if err != nil {
		return Fields{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Fields{}, fmt.Errorf("no text extracted from %s", path)
	}
	return p.ParseText(text), nil
}

func (p *KeywordParser) ParseText(text string) Fields {
	return Fields{
		Name:            optional(guessName(text)),
		Email:           optional(emailRe.FindString(text)),
		MobileNumber:    optional(findPhone(text)),
		Skills:          matchTerms(p.skills, text),
		CollegeName:     p.findInstitutions(text),
		Degree:          matchTerms(p.degrees, text),
		Designation:     matchTerms(p.designations, text),
		TotalExperience: findExperience(text),
	}
}

// matchTerms returns labels in order of first appearance.
func matchTerms(terms []term, text string) []string {
	type hit struct {
		label string
		pos   int
	}
	hits := make([]hit, 0)
	for _, t := range terms {
		loc := t.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		hits = append(hits, hit{label: t.label, pos: loc[2]})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.label)
	}
	return dedupe(out)
}

// guessName takes the first short line near the top made only of
// capitalized words.
func guessName(text string) string {
	lines := strings.Split(text, "\n")
	checked := 0
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		checked++
		if checked > 5 {
			break
		}
		if looksLikeName(line) {
			return line
		}
	}
	return ""
}

func looksLikeName(line string) bool {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	lower := strings.ToLower(line)
	if strings.Contains(lower, "resume") || strings.Contains(lower, "curriculum") {
		return false
	}
	for _, w := range words {
		r := []rune(w)
		if !unicode.IsUpper(r[0]) {
			return false
		}
		for _, c := range r {
			if !unicode.IsLetter(c) && c != '.' && c != '-' && c != '\'' {
				return false
			}
		}
	}
	return true
}

func findPhone(text string) string {
	for _, m := range phoneRe.FindAllString(text, -1) {
		digits := 0
		for _, c := range m {
			if c >= '0' && c <= '9' {
				digits++
			}
		}
		if digits >= minPhoneDigits {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func findExperience(text string) *float64 {
	var best float64
	found := false
	for _, m := range experienceRe.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	if !found {
		return nil
	}
	return &best
}

func (p *KeywordParser) findInstitutions(text string) []string {
	out := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" || len(line) > 120 {
			continue
		}
		for _, kw := range p.institutions {
			if strings.Contains(line, kw) {
				out = append(out, line)
				break
			}
		}
	}
	return dedupe(out)
}
