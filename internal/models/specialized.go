package models

// CategorySpend is one spending bucket with its share of the total.
type CategorySpend struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Percent  float64 `json:"percent"`
}

// SpendingAnalysis is the spending analyzer's result shape.
type SpendingAnalysis struct {
	Period     string             `json:"period"`
	TotalSpent float64            `json:"totalSpent"`
	ByCategory []CategorySpend    `json:"byCategory"`
	ByDay      map[string]float64 `json:"byDay"`
	Insights   []string           `json:"insights"`
}

// HealthMetricRow is one tracked health metric with its trend.
type HealthMetricRow struct {
	Metric  string         `json:"metric"`
	Current float64        `json:"current"`
	Trend   TrendDirection `json:"trend"`
	Change  float64        `json:"change"`
}

// HealthAnalysis is the health analyzer's result shape.
type HealthAnalysis struct {
	Period   string            `json:"period"`
	Metrics  []HealthMetricRow `json:"metrics"`
	Insights []string          `json:"insights"`
}
