package jobsearch

import (
	"regexp"
	"sort"
	"strings"

	"github.com/example/jobhunt-orchestrator/internal/models"
)

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "with": {}, "you": {},
	"will": {}, "have": {}, "this": {}, "that": {}, "from": {}, "they": {},
	"been": {}, "their": {}, "said": {}, "each": {}, "which": {}, "she": {},
	"has": {}, "had": {},
}

var wordRe = regexp.MustCompile(`\b\w+\b`)

// BuildMarketData aggregates listings into the market report the researcher
// task stores: company/location frequency, in-demand keywords, and derived
// insight ratios. mode records whether the research was resume-driven.
func BuildMarketData(role string, listings []models.JobListing, mode string) *models.MarketData {
	companies := map[string]int{}
	locations := map[string]int{}
	wordFreq := map[string]int{}
	remote := 0
	withSalary := 0

	for _, job := range listings {
		companies[job.Company]++
		locations[job.Location]++
		if strings.Contains(strings.ToLower(job.Location), "remote") {
			remote++
		}
		if job.Salary != "Not specified" && job.Salary != "" {
			withSalary++
		}
		for _, w := range wordRe.FindAllString(strings.ToLower(job.Description), -1) {
			if len(w) <= 3 {
				continue
			}
			if _, skip := stopwords[w]; skip {
				continue
			}
			wordFreq[w]++
		}
	}

	topKeywords := topN(wordFreq, 15)
	keywords := make([]string, 0, len(topKeywords))
	for _, kw := range topKeywords {
		keywords = append(keywords, kw.Name)
	}

	n := len(listings)
	insights := models.MarketInsights{
		DemandLevel:      demandLevel(n),
		CompetitionLevel: "Medium",
	}
	if n > 0 {
		insights.RemotePercentage = round1(float64(remote) / float64(n) * 100)
		insights.SalaryTransparency = round1(float64(withSalary) / float64(n) * 100)
		if float64(len(companies)) < float64(n)*0.7 {
			insights.CompetitionLevel = "High"
		}
	}
	topCompanies := topN(companies, 8)
	if len(topCompanies) > 0 {
		insights.TopHiringCompany = topCompanies[0].Name
	}

	return &models.MarketData{
		RoleResearched:   role,
		TotalJobsFound:   n,
		TopCompanies:     topCompanies,
		PopularLocations: topN(locations, 8),
		InDemandKeywords: keywords,
		Insights:         insights,
		AnalysisMode:     mode,
	}
}

func demandLevel(n int) string {
	switch {
	case n > 10:
		return "High"
	case n > 5:
		return "Medium"
	default:
		return "Low"
	}
}

func topN(freq map[string]int, n int) []models.NameCount {
	out := make([]models.NameCount, 0, len(freq))
	for name, count := range freq {
		out = append(out, models.NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
