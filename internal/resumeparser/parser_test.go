package resumeparser

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Ada Lovelace
ada.lovelace@example.com | +1 (555) 010-0199

Senior Software Engineer with 7 years of experience building APIs in Python and Go.
Skills: FastAPI, Docker, Kubernetes, PostgreSQL, Redis, machine learning

Education
Master of Science, Computer Science
University of London
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("spacy")
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = ParseKind("GPT-4")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRegistry(t *testing.T) {
	v, err := LoadVocabulary("")
	require.NoError(t, err)

	r := NewRegistry()
	r.Register(KindPyResparser, NewKeywordParser(v, nil))

	p, err := r.Get(KindPyResparser)
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = r.Get(KindDocAI)
	assert.ErrorIs(t, err, ErrParserNotWired)

	_, err = r.Get(Kind("other"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestKeywordParser_ExtractsFields(t *testing.T) {
	v, err := LoadVocabulary("")
	require.NoError(t, err)
	p := NewKeywordParser(v, nil)

	f, err := p.Parse(context.Background(), writeTemp(t, "ada.txt", sampleResume))
	require.NoError(t, err)

	require.NotNil(t, f.Name)
	assert.Equal(t, "Ada Lovelace", *f.Name)
	require.NotNil(t, f.Email)
	assert.Equal(t, "ada.lovelace@example.com", *f.Email)
	require.NotNil(t, f.MobileNumber)
	assert.Equal(t, "+1 (555) 010-0199", *f.MobileNumber)

	assert.Equal(t, []string{"Python", "Go", "FastAPI", "Docker", "Kubernetes", "PostgreSQL", "Redis", "Machine Learning"}, f.Skills)
	assert.Contains(t, f.Designation, "Senior Software Engineer")
	assert.Contains(t, f.Degree, "Master of Science")
	assert.Equal(t, []string{"University of London"}, f.CollegeName)
	require.NotNil(t, f.TotalExperience)
	assert.Equal(t, 7.0, *f.TotalExperience)
}

func TestKeywordParser_ShortTermsAreCaseSensitive(t *testing.T) {
	v := &Vocabulary{Skills: []string{"Go", "Rust"}}
	f := NewKeywordParser(v, nil).ParseText("ready to go with rust")
	assert.Equal(t, []string{"Rust"}, f.Skills)
	assert.Nil(t, f.Name)
}

func TestKeywordParser_Errors(t *testing.T) {
	v, err := LoadVocabulary("")
	require.NoError(t, err)

	_, err = NewKeywordParser(v, nil).Parse(context.Background(), writeTemp(t, "cv.xyz", "x"))
	assert.ErrorIs(t, err, ErrUnsupportedInput)

	_, err = NewKeywordParser(v, nil).Parse(context.Background(), writeTemp(t, "empty.txt", "  \n"))
	assert.Error(t, err)
}

func TestLoadVocabulary_FromFile(t *testing.T) {
	p := writeTemp(t, "skills.yaml", "skills:\n  - Elixir\n  - Erlang\n")
	v, err := LoadVocabulary(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"Elixir", "Erlang"}, v.Skills)

	_, err = LoadVocabulary(writeTemp(t, "bad.yaml", "designations: [x]\n"))
	assert.Error(t, err)

	_, err = LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGPT4Parser_Parse(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		content, _ := json.Marshal(map[string]any{
			"name":   "Ada Lovelace",
			"email":  "ada@example.com",
			"skills": []string{"Python", "python", "Go"},
			"experience": []map[string]string{
				{"company": "Analytical Engines", "title": "Engineer"},
			},
			"education": []map[string]string{
				{"institution": "University of London", "degree": "MSc"},
			},
		})
		resp, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": string(content)}}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(resp)
	}))
	defer srv.Close()

	p, err := NewGPT4Parser(srv.URL, "sk", "", time.Second, func(string) (string, error) { return "resume text", nil })
	require.NoError(t, err)

	f, err := p.Parse(context.Background(), "cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4-turbo-preview", body["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])

	require.NotNil(t, f.Name)
	assert.Equal(t, "Ada Lovelace", *f.Name)
	assert.Nil(t, f.MobileNumber)
	assert.Equal(t, []string{"Python", "Go"}, f.Skills)
	assert.Equal(t, []string{"Analytical Engines"}, f.CompanyNames)
	assert.Equal(t, []string{"Engineer"}, f.Designation)
	assert.Equal(t, []string{"University of London"}, f.CollegeName)
	assert.Equal(t, []string{"MSc"}, f.Degree)
}

func TestGPT4Parser_Failures(t *testing.T) {
	_, err := NewGPT4Parser("http://x", "", "", 0, nil)
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"not json"}}]}`))
	}))
	defer srv.Close()

	p, err := NewGPT4Parser(srv.URL, "sk", "", time.Second, func(string) (string, error) { return "x", nil })
	require.NoError(t, err)
	_, err = p.Parse(context.Background(), "cv.pdf")
	assert.ErrorContains(t, err, "invalid JSON")

	p.extract = func(string) (string, error) { return "", errors.New("corrupt pdf") }
	_, err = p.Parse(context.Background(), "cv.pdf")
	assert.ErrorContains(t, err, "corrupt pdf")
}

type fakeProcessor struct {
	req  *documentaipb.ProcessRequest
	resp *documentaipb.ProcessResponse
	err  error
}

func (f *fakeProcessor) Process(_ context.Context, req *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
	f.req = req
	return f.resp, f.err
}

func (f *fakeProcessor) Close() error { return nil }

func TestDocAIParser_MapsEntities(t *testing.T) {
	fp := &fakeProcessor{resp: &documentaipb.ProcessResponse{Document: &documentaipb.Document{
		Entities: []*documentaipb.Document_Entity{
			{Type: "person_name", MentionText: "Ada Lovelace"},
			{Type: "email_address", MentionText: "ada@example.com"},
			{Type: "phone_number", MentionText: "+1 555 0100"},
			{Type: "skill", MentionText: "Python"},
			{Type: "skill", MentionText: "Go"},
			{Type: "signature", MentionText: "ignored"},
		},
	}}}
	p := &DocAIParser{cfg: DocAIConfig{ProjectID: "proj", Location: "eu", ProcessorID: "abc"}, processor: fp}

	f, err := p.Parse(context.Background(), writeTemp(t, "cv.pdf", "%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "projects/proj/locations/eu/processors/abc", fp.req.GetName())
	assert.Equal(t, "application/pdf", fp.req.GetRawDocument().GetMimeType())

	require.NotNil(t, f.Name)
	assert.Equal(t, "Ada Lovelace", *f.Name)
	assert.Equal(t, "+1 555 0100", *f.MobileNumber)
	assert.Equal(t, []string{"Python", "Go"}, f.Skills)
}

func TestNewDocAIParser_RequiresConfig(t *testing.T) {
	_, err := NewDocAIParser(context.Background(), DocAIConfig{ProjectID: "p"})
	assert.ErrorContains(t, err, "missing required Google Cloud configuration")
}
