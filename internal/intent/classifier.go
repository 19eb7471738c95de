// Package intent maps a free-text question to an analysis type and
// lookback window via keyword matching. Explicit request fields always
// win over classification.
package intent

import (
	"strings"

	"github.com/lifelens/lifelens-insights/internal/models"
)

var financialKeywords = []string{
	"spend", "spent", "money", "budget", "expense", "cost", "financ",
	"purchase", "bought", "paid", "bill",
}

var healthKeywords = []string{
	"health", "weight", "sleep", "workout", "exercise", "calorie",
	"fitness", "nutrition", "steps", "heart", "diet",
}

var correlationKeywords = []string{
	"correlat", "relationship", "connection", "connected", "related",
	"affect", "impact", "influence",
}

var trendKeywords = []string{
	"trend", "progress", "over time", "improving", "getting better",
	"getting worse", "changing",
}

// ClassifyType selects an analysis variant from the lowercased message.
// Financial and health language outranks generic correlation and trend
// language.
func ClassifyType(message string) models.AnalysisType {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, financialKeywords):
		return models.AnalysisFinancial
	case containsAny(lower, healthKeywords):
		return models.AnalysisHealth
	case containsAny(lower, correlationKeywords):
		return models.AnalysisCorrelations
	case containsAny(lower, trendKeywords):
		return models.AnalysisTrends
	default:
		return models.AnalysisGeneral
	}
}

// ClassifyRange selects a lookback window; month when nothing matches.
func ClassifyRange(message string) models.DateRange {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, []string{"today", "this week", "past week", "last week", "past 7 days"}):
		return models.RangeWeek
	case containsAny(lower, []string{"quarter", "3 months", "three months", "90 days"}):
		return models.RangeQuarter
	case containsAny(lower, []string{"this year", "past year", "last year", "12 months", "twelve months"}):
		return models.RangeYear
	case containsAny(lower, []string{"all time", "alltime", "everything", "ever", "since the beginning"}):
		return models.RangeAll
	default:
		return models.RangeMonth
	}
}

// Resolve fills in any request fields left empty by the caller.
func Resolve(req models.AnalysisRequest) (models.AnalysisType, models.DateRange) {
	analysisType := req.Type
	if !models.ValidAnalysisType(analysisType) {
		analysisType = ClassifyType(req.Message)
	}
	dateRange := req.Range
	if !models.ValidDateRange(dateRange) {
		dateRange = ClassifyRange(req.Message)
	}
	return analysisType, dateRange
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
