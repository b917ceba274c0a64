package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobSearchCacheKey(t *testing.T) {
	cases := []struct {
		name     string
		skills   []string
		location string
		want     string
	}{
		{"sorted lowercase", []string{"Python", "FastAPI", "Docker"}, "Remote", "job_search:docker-fastapi-python:remote"},
		{"only first three", []string{"Python", "Go", "Rust", "Java"}, "Remote", "job_search:go-python-rust:remote"},
		{"case insensitive", []string{"go", "python", "rust", "XYZ"}, "Remote", "job_search:go-python-rust:remote"},
		{"location spaces", []string{"Go"}, "New York", "job_search:go:new-york"},
		{"no skills", nil, "Remote", "job_search::remote"},
		{"whitespace kept verbatim", []string{" Python", "Go "}, " Remote ", "job_search: python-go :-remote-"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, JobSearchCacheKey(tc.skills, tc.location))
		})
	}
}
