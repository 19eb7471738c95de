package models

// AnalysisType selects which analyzer handles a request.
type AnalysisType string

const (
	AnalysisGeneral      AnalysisType = "general"
	AnalysisFinancial    AnalysisType = "financial"
	AnalysisHealth       AnalysisType = "health"
	AnalysisCorrelations AnalysisType = "correlations"
	AnalysisTrends       AnalysisType = "trends"
)

// DateRange is a symbolic lookback window.
type DateRange string

const (
	RangeWeek    DateRange = "week"
	RangeMonth   DateRange = "month"
	RangeQuarter DateRange = "quarter"
	RangeYear    DateRange = "year"
	RangeAll     DateRange = "all"
)

// ValidAnalysisType reports whether t is a known analysis type.
func ValidAnalysisType(t AnalysisType) bool {
	switch t {
	case AnalysisGeneral, AnalysisFinancial, AnalysisHealth, AnalysisCorrelations, AnalysisTrends:
		return true
	}
	return false
}

// ValidDateRange reports whether r is a known date range.
func ValidDateRange(r DateRange) bool {
	switch r {
	case RangeWeek, RangeMonth, RangeQuarter, RangeYear, RangeAll:
		return true
	}
	return false
}

// AnalysisRequest is one performAnalysis invocation. Type and Range are
// optional; when empty they are inferred from Message by the intent
// classifier.
type AnalysisRequest struct {
	UserID  string       `json:"user_id"`
	Message string       `json:"message"`
	Type    AnalysisType `json:"analysis_type,omitempty"`
	Range   DateRange    `json:"date_range,omitempty"`
}

// AnalysisResponse is the envelope returned to the caller. Data is nil
// when no records were found or the analysis failed.
type AnalysisResponse struct {
	AnalysisID    string         `json:"analysis_id"`
	AnalysisType  AnalysisType   `json:"analysisType"`
	Response      string         `json:"response"`
	Data          any            `json:"data"`
	Visualization *Visualization `json:"visualization"`
}
