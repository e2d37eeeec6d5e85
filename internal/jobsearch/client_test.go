package jobsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponse = `{
  "totalCount": 2,
  "result": [
    {
      "title": "Senior Go Engineer",
      "company": "Acme",
      "city": "Austin",
      "state": "TX",
      "occupation": "Software Engineer",
      "skills": ["Go", "Kubernetes", "Postgres", "Terraform", "AWS", "Docker"],
      "workPlace": ["remote"],
      "jsonLD": {
        "url": "https://example.test/jobs/1",
        "description": "<p>Build <b>backend</b> services.</p>",
        "jobLocation": {"address": {"addressLocality": "Austin", "addressRegion": "TX", "addressCountry": "United States"}},
        "baseSalary": {"value": {"minValue": 150000, "maxValue": 190000, "unitText": "YEAR"}}
      }
    },
    {
      "title": "",
      "company": "",
      "jsonLD": {}
    }
  ]
}`

func TestSearchMapsListings(t *testing.T) {
	var gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("title")
		gotKey = r.Header.Get("x-rapidapi-key")
		w.Write([]byte(searchResponse))
	}))
	defer srv.Close()

	c := &Client{APIKey: "k-123", BaseURL: srv.URL}
	listings, err := c.Search(context.Background(), "go engineer", 10)

	require.NoError(t, err)
	assert.Equal(t, "go engineer", gotQuery)
	assert.Equal(t, "k-123", gotKey)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "Senior Go Engineer", first.Title)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, "Austin, TX", first.Location)
	assert.Equal(t, "$150000 - $190000/year", first.Salary)
	assert.Equal(t, "https://example.test/jobs/1", first.ApplyURL)
	assert.Contains(t, first.Description, "Key Skills: Go, Kubernetes, Postgres, Terraform, AWS")
	assert.Contains(t, first.Description, "(+1 more skills)")
	assert.Contains(t, first.Description, "Build backend services.")
	assert.NotContains(t, first.Description, "<p>")

	second := listings[1]
	assert.Equal(t, "Unknown Position", second.Title)
	assert.Equal(t, "Unknown Company", second.Company)
	assert.Equal(t, "Not specified", second.Salary)
}

func TestSearchHonorsMax(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchResponse))
	}))
	defer srv.Close()

	c := &Client{APIKey: "k", BaseURL: srv.URL}
	listings, err := c.Search(context.Background(), "go engineer", 1)

	require.NoError(t, err)
	assert.Len(t, listings, 1)
}

func TestSearchRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := &Client{APIKey: "k", BaseURL: srv.URL}
	_, err := c.Search(context.Background(), "go engineer", 5)

	assert.ErrorContains(t, err, "rate limit")
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &Client{APIKey: "k", BaseURL: srv.URL}
	_, err := c.Search(context.Background(), "go engineer", 5)

	assert.ErrorContains(t, err, "502")
}
