// Package jobsearch fetches job listings from the postings API and derives
// market intelligence from them.
package jobsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/jobhunt-orchestrator/internal/models"
)

const defaultBaseURL = "https://daily-international-job-postings.p.rapidapi.com/api/v2/jobs/search"

// Client queries the daily international job postings API.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// apiJob mirrors the interesting parts of a postings API record.
type apiJob struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Occupation   string   `json:"occupation"`
	Industry     string   `json:"industry"`
	ContractType []string `json:"contractType"`
	WorkType     []string `json:"workType"`
	WorkPlace    []string `json:"workPlace"`
	Timezone     string   `json:"timezone"`
	Skills       []string `json:"skills"`
	MinSalary    float64  `json:"minSalary"`
	JSONLD       struct {
		URL            string `json:"url"`
		Description    string `json:"description"`
		JobBenefits    string `json:"jobBenefits"`
		EmploymentType string `json:"employmentType"`
		JobLocation    struct {
			Address struct {
				Locality string `json:"addressLocality"`
				Region   string `json:"addressRegion"`
				Country  string `json:"addressCountry"`
			} `json:"address"`
		} `json:"jobLocation"`
		BaseSalary struct {
			Value struct {
				MinValue float64 `json:"minValue"`
				MaxValue float64 `json:"maxValue"`
				UnitText string  `json:"unitText"`
			} `json:"value"`
		} `json:"baseSalary"`
	} `json:"jsonLD"`
}

// Search fetches up to max listings for a role. A 429 is reported as a rate
// limit error so the task can surface it verbatim.
func (c *Client) Search(ctx context.Context, role string, max int) ([]models.JobListing, error) {
	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	q := url.Values{}
	q.Set("format", "json")
	q.Set("countryCode", "us")
	q.Set("hasSalary", "true")
	q.Set("title", role)
	q.Set("page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-rapidapi-key", c.APIKey)
	req.Header.Set("x-rapidapi-host", "daily-international-job-postings.p.rapidapi.com")

	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	res, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("job search request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limit exceeded - job search API quota reached")
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("job search API error (%d)", res.StatusCode)
	}

	var payload struct {
		Result []apiJob `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode job search response: %w", err)
	}

	now := time.Now()
	out := make([]models.JobListing, 0, max)
	for _, j := range payload.Result {
		if len(out) >= max {
			break
		}
		out = append(out, models.JobListing{
			Title:       orDefault(j.Title, "Unknown Position"),
			Company:     orDefault(j.Company, "Unknown Company"),
			Location:    extractLocation(j),
			Description: buildDescription(j),
			Salary:      extractSalary(j),
			ApplyURL:    j.JSONLD.URL,
			Source:      "daily job postings",
			DateFound:   now,
		})
	}
	return out, nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func extractLocation(j apiJob) string {
	addr := j.JSONLD.JobLocation.Address
	var parts []string
	if addr.Locality != "" {
		parts = append(parts, addr.Locality)
	}
	if addr.Region != "" {
		parts = append(parts, addr.Region)
	}
	if addr.Country != "" && addr.Country != "United States" {
		parts = append(parts, addr.Country)
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	if j.City != "" && j.State != "" {
		return j.City + ", " + j.State
	}
	if j.City != "" {
		return j.City
	}
	for _, wp := range j.WorkPlace {
		if strings.EqualFold(wp, "remote") {
			return "Remote"
		}
	}
	return "Not specified"
}

func extractSalary(j apiJob) string {
	v := j.JSONLD.BaseSalary.Value
	if v.MinValue > 0 {
		unit := "/year"
		if strings.EqualFold(v.UnitText, "hour") {
			unit = "/hr"
		}
		if v.MaxValue > v.MinValue {
			return fmt.Sprintf("$%d - $%d%s", int(v.MinValue), int(v.MaxValue), unit)
		}
		return fmt.Sprintf("$%d%s", int(v.MinValue), unit)
	}
	if j.MinSalary > 0 {
		if j.MinSalary < 200 { // likely hourly
			return fmt.Sprintf("$%.2f/hr", j.MinSalary)
		}
		return fmt.Sprintf("$%d/year", int(j.MinSalary))
	}
	return "Not specified"
}

func buildDescription(j apiJob) string {
	var parts []string
	add := func(label, v string) {
		if v != "" && v != "N/A" {
			parts = append(parts, label+": "+v)
		}
	}
	add("Role", j.Occupation)
	add("Industry", j.Industry)
	add("Contract Type", joinReal(j.ContractType))
	add("Work Type", joinReal(j.WorkType))
	add("Workplace", joinReal(j.WorkPlace))
	add("Timezone", j.Timezone)
	if len(j.Skills) > 0 {
		limit := j.Skills
		if len(limit) > 5 {
			limit = limit[:5]
		}
		parts = append(parts, "Key Skills: "+strings.Join(limit, ", "))
		if len(j.Skills) > 5 {
			parts = append(parts, fmt.Sprintf("(+%d more skills)", len(j.Skills)-5))
		}
	}
	add("Benefits", j.JSONLD.JobBenefits)
	add("Employment", j.JSONLD.EmploymentType)
	if d := HTMLToText(j.JSONLD.Description); d != "" {
		if len(d) > 300 {
			d = d[:300] + "..."
		}
		parts = append(parts, "Description: "+d)
	}
	if len(parts) == 0 {
		return "No description available"
	}
	return strings.Join(parts, " | ")
}

func joinReal(vs []string) string {
	var kept []string
	for _, v := range vs {
		if v != "" && v != "N/A" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ", ")
}
