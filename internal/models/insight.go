package models

// InsightType enumerates the kinds of claims the engine can make.
type InsightType string

const (
	InsightPattern     InsightType = "pattern"
	InsightCorrelation InsightType = "correlation"
	InsightAnomaly     InsightType = "anomaly"
	InsightTrend       InsightType = "trend"
	InsightAchievement InsightType = "achievement"
)

// Severity captures how loudly an insight should be surfaced.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeveritySuccess  Severity = "success"
	SeverityCritical Severity = "critical"
)

// TrendDirection labels the movement of a metric between window halves.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// Insight is a single typed claim backed by a computed statistic or by
// narrative enrichment.
type Insight struct {
	Type        InsightType `json:"type"`
	Severity    Severity    `json:"severity"`
	Domain      string      `json:"domain"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DataPoints  int         `json:"dataPoints,omitempty"`
	Confidence  int         `json:"confidence,omitempty"`
	Suggestion  string      `json:"suggestion,omitempty"`
}

// Correlation records a linear association between two metrics, possibly
// from different domains. Coefficient is rounded to two decimals.
type Correlation struct {
	Domain1     string  `json:"domain1"`
	Domain2     string  `json:"domain2"`
	Metric1     string  `json:"metric1"`
	Metric2     string  `json:"metric2"`
	Coefficient float64 `json:"correlation"`
	Description string  `json:"description"`
}

// Trend records directional change in a metric's average value between
// the first and second half of the analyzed window.
type Trend struct {
	Domain        string         `json:"domain"`
	Metric        string         `json:"metric"`
	Direction     TrendDirection `json:"direction"`
	ChangePercent float64        `json:"changePercent"`
	Period        string         `json:"period"`
}

// AnalysisResult is the terminal artifact of one analysis run. It is
// assembled once per request and never mutated afterwards.
type AnalysisResult struct {
	Summary         string         `json:"summary"`
	Insights        []Insight      `json:"insights"`
	Correlations    []Correlation  `json:"correlations"`
	Trends          []Trend        `json:"trends"`
	Recommendations []string       `json:"recommendations"`
	Visualization   *Visualization `json:"visualization,omitempty"`
}

// NameValue is one visualization datum.
type NameValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// VisualizationConfig carries rendering hints for the caller.
type VisualizationConfig struct {
	Height int      `json:"height"`
	Colors []string `json:"colors"`
}

// Visualization is an inert chart descriptor; rendering is entirely the
// caller's responsibility.
type Visualization struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	XAxis  string              `json:"xAxis,omitempty"`
	YAxis  string              `json:"yAxis,omitempty"`
	Data   []NameValue         `json:"data"`
	Config VisualizationConfig `json:"config"`
}
