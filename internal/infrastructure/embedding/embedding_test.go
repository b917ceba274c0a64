package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAI_Embed(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.5,-0.25,1]}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL, "sk-test", "", time.Second)
	v, err := c.Embed(context.Background(), "Python FastAPI")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.25, 1}, v)
	assert.Equal(t, DefaultOpenAIModel, gotBody["model"])
	assert.Equal(t, "Python FastAPI", gotBody["input"])
}

func TestOpenAI_EmbedErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI(srv.URL, "k", "m", time.Second).Embed(context.Background(), "x")
	assert.ErrorContains(t, err, "rate limited")

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer empty.Close()

	_, err = NewOpenAI(empty.URL, "k", "m", time.Second).Embed(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyEmbedding)
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), " ", "")
	assert.Error(t, err)
}

func TestToFloat64(t *testing.T) {
	assert.Equal(t, []float64{0.5, -2}, toFloat64([]float32{0.5, -2}))
}
