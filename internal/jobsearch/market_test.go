package jobsearch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jobhunt-orchestrator/internal/models"
)

func TestBuildMarketDataAggregates(t *testing.T) {
	listings := []models.JobListing{
		{Company: "Acme", Location: "Remote", Salary: "$100000/year",
			Description: "golang golang kubernetes experience"},
		{Company: "Acme", Location: "Austin, TX", Salary: "Not specified",
			Description: "golang postgres experience"},
		{Company: "Globex", Location: "Remote", Salary: "$90/hr",
			Description: "kubernetes terraform"},
		{Company: "Initech", Location: "New York, NY", Salary: "",
			Description: "golang"},
	}

	m := BuildMarketData("backend engineer", listings, "resume_based")

	assert.Equal(t, "backend engineer", m.RoleResearched)
	assert.Equal(t, 4, m.TotalJobsFound)
	assert.Equal(t, "resume_based", m.AnalysisMode)

	require.NotEmpty(t, m.TopCompanies)
	assert.Equal(t, models.NameCount{Name: "Acme", Count: 2}, m.TopCompanies[0])
	assert.Equal(t, "Acme", m.Insights.TopHiringCompany)

	require.NotEmpty(t, m.PopularLocations)
	assert.Equal(t, models.NameCount{Name: "Remote", Count: 2}, m.PopularLocations[0])

	// golang appears most, and short or stopword tokens never rank.
	require.NotEmpty(t, m.InDemandKeywords)
	assert.Equal(t, "golang", m.InDemandKeywords[0])
	assert.NotContains(t, m.InDemandKeywords, "the")

	assert.Equal(t, "Low", m.Insights.DemandLevel)
	assert.InDelta(t, 50.0, m.Insights.RemotePercentage, 0.001)
	assert.InDelta(t, 50.0, m.Insights.SalaryTransparency, 0.001)
}

func TestBuildMarketDataDemandLevels(t *testing.T) {
	mk := func(n int) []models.JobListing {
		out := make([]models.JobListing, n)
		for i := range out {
			out[i] = models.JobListing{Company: fmt.Sprintf("c%d", i), Location: "x"}
		}
		return out
	}

	assert.Equal(t, "Low", BuildMarketData("r", mk(3), "autonomous").Insights.DemandLevel)
	assert.Equal(t, "Medium", BuildMarketData("r", mk(8), "autonomous").Insights.DemandLevel)
	assert.Equal(t, "High", BuildMarketData("r", mk(12), "autonomous").Insights.DemandLevel)
}

func TestBuildMarketDataCompetitionLevel(t *testing.T) {
	// Few distinct companies posting many roles reads as high competition.
	concentrated := make([]models.JobListing, 10)
	for i := range concentrated {
		concentrated[i] = models.JobListing{Company: "Acme", Location: "x"}
	}
	assert.Equal(t, "High", BuildMarketData("r", concentrated, "autonomous").Insights.CompetitionLevel)

	spread := make([]models.JobListing, 10)
	for i := range spread {
		spread[i] = models.JobListing{Company: fmt.Sprintf("c%d", i), Location: "x"}
	}
	assert.Equal(t, "Medium", BuildMarketData("r", spread, "autonomous").Insights.CompetitionLevel)
}

func TestBuildMarketDataEmpty(t *testing.T) {
	m := BuildMarketData("r", nil, "autonomous")

	assert.Equal(t, 0, m.TotalJobsFound)
	assert.Equal(t, "Low", m.Insights.DemandLevel)
	assert.Zero(t, m.Insights.RemotePercentage)
}

func TestHTMLToText(t *testing.T) {
	in := `<div><p>Build <b>great</b> things.</p><script>alert(1)</script><li>Go</li><li>SQL</li></div>`

	got := HTMLToText(in)

	assert.Contains(t, got, "Build great things.")
	assert.Contains(t, got, "Go")
	assert.NotContains(t, got, "alert")
}

func TestHTMLToTextPlainInput(t *testing.T) {
	assert.Equal(t, "plain text", HTMLToText("  plain \t text  "))
	assert.Equal(t, "", HTMLToText("   "))
}
