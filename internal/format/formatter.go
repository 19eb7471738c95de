// Package format renders analysis results into the response text and
// chart descriptors returned to callers. It never computes statistics;
// everything here is presentation.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/lifelens/lifelens-insights/internal/loader"
	"github.com/lifelens/lifelens-insights/internal/models"
)

// NoDataResponse is the fixed reply when the requested window holds no
// records. It short-circuits before any statistics run.
const NoDataResponse = "I couldn't find any data for that period. Try logging a few entries first, or widen the date range."

// ErrorResponse is the generic reply for unexpected failures; internals
// never leak to the caller.
const ErrorResponse = "Analysis Error: something went wrong while analyzing your data. Please try again."

const (
	maxShownInsights        = 5
	maxShownCorrelations    = 3
	maxShownRecommendations = 3
	strongCorrelation       = 0.7
)

var chartPalette = []string{"#4F8EF7", "#34C77B", "#F7B731", "#EB5757", "#9B59B6", "#16A5A5", "#F78FB3"}

// General renders the cross-domain result: summary, the loudest
// insights, correlations with a strength label, and recommendations.
func General(result *models.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(result.Summary)

	shown := 0
	for _, insight := range result.Insights {
		if insight.Severity == models.SeverityInfo {
			continue
		}
		if shown == 0 {
			b.WriteString("\n\nKey findings:")
		}
		b.WriteString(fmt.Sprintf("\n%s %s: %s", severityMarker(insight.Severity), insight.Title, insight.Description))
		shown++
		if shown == maxShownInsights {
			break
		}
	}

	for i, corr := range result.Correlations {
		if i == 0 {
			b.WriteString("\n\nCross-domain connections:")
		}
		b.WriteString(fmt.Sprintf("\n- %s (%s correlation, r=%.2f)", corr.Description, strengthLabel(corr.Coefficient), corr.Coefficient))
		if i+1 == maxShownCorrelations {
			break
		}
	}

	for i, rec := range result.Recommendations {
		if i == 0 {
			b.WriteString("\n\nSuggestions:")
		}
		b.WriteString("\n- " + rec)
		if i+1 == maxShownRecommendations {
			break
		}
	}

	return b.String()
}

// Spending renders the financial analyzer's result.
func Spending(analysis *models.SpendingAnalysis) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("You spent $%.2f over the %s.", analysis.TotalSpent, analysis.Period))

	if len(analysis.ByCategory) > 0 {
		b.WriteString("\n\nBy category:")
		for _, cat := range analysis.ByCategory {
			b.WriteString(fmt.Sprintf("\n- %s: $%.2f (%.1f%%)", cat.Category, cat.Total, cat.Percent))
		}
	}

	for i, insight := range analysis.Insights {
		if i == 0 {
			b.WriteString("\n")
		}
		b.WriteString("\n" + insight)
	}
	return b.String()
}

// Health renders the health analyzer's result.
func Health(analysis *models.HealthAnalysis) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Here's your health snapshot for the %s.", analysis.Period))

	if len(analysis.Metrics) > 0 {
		b.WriteString("\n")
		for _, row := range analysis.Metrics {
			b.WriteString(fmt.Sprintf("\n- %s: %.1f (%s", row.Metric, row.Current, row.Trend))
			if row.Trend != models.TrendStable {
				b.WriteString(fmt.Sprintf(", %+.1f%%", row.Change))
			}
			b.WriteString(")")
		}
	}

	for i, insight := range analysis.Insights {
		if i == 0 {
			b.WriteString("\n")
		}
		b.WriteString("\n" + insight)
	}
	return b.String()
}

// GeneralVisualization charts entry counts per domain.
func GeneralVisualization(series []loader.DomainSeries) *models.Visualization {
	if len(series) == 0 {
		return nil
	}
	data := make([]models.NameValue, 0, len(series))
	for _, s := range series {
		data = append(data, models.NameValue{Name: s.Domain, Value: float64(len(s.Records))})
	}
	return &models.Visualization{
		Type:   "bar",
		Title:  "Entries by domain",
		XAxis:  "domain",
		YAxis:  "entries",
		Data:   data,
		Config: models.VisualizationConfig{Height: 300, Colors: chartPalette},
	}
}

// SpendingVisualization charts category totals as a pie.
func SpendingVisualization(analysis *models.SpendingAnalysis) *models.Visualization {
	if analysis == nil || len(analysis.ByCategory) == 0 {
		return nil
	}
	data := make([]models.NameValue, 0, len(analysis.ByCategory))
	for _, cat := range analysis.ByCategory {
		data = append(data, models.NameValue{Name: cat.Category, Value: cat.Total})
	}
	return &models.Visualization{
		Type:   "pie",
		Title:  "Spending by category",
		Data:   data,
		Config: models.VisualizationConfig{Height: 300, Colors: chartPalette},
	}
}

// HealthVisualization charts the current value of each tracked metric.
func HealthVisualization(analysis *models.HealthAnalysis) *models.Visualization {
	if analysis == nil || len(analysis.Metrics) == 0 {
		return nil
	}
	data := make([]models.NameValue, 0, len(analysis.Metrics))
	for _, row := range analysis.Metrics {
		data = append(data, models.NameValue{Name: row.Metric, Value: row.Current})
	}
	return &models.Visualization{
		Type:   "bar",
		Title:  "Health metrics",
		XAxis:  "metric",
		YAxis:  "value",
		Data:   data,
		Config: models.VisualizationConfig{Height: 300, Colors: chartPalette},
	}
}

func severityMarker(severity models.Severity) string {
	switch severity {
	case models.SeverityWarning:
		return "[!]"
	case models.SeveritySuccess:
		return "[+]"
	case models.SeverityCritical:
		return "[!!]"
	default:
		return "[i]"
	}
}

func strengthLabel(r float64) string {
	if math.Abs(r) > strongCorrelation {
		return "strong"
	}
	return "moderate"
}
