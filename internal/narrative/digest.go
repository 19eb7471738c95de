package narrative

import (
	"encoding/json"
	"sort"

	"github.com/lifelens/lifelens-insights/internal/loader"
	"github.com/lifelens/lifelens-insights/internal/models"
)

// digestInsightLimit caps how many computed insights travel to the
// generative service; the strongest claims go first.
const digestInsightLimit = 5

type metricDigest struct {
	Count   int       `json:"count"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Average float64   `json:"average"`
	Recent  []float64 `json:"recent"`
}

type domainDigest struct {
	Domain  string                  `json:"domain"`
	Entries int                     `json:"entries"`
	Metrics map[string]metricDigest `json:"metrics"`
}

type digest struct {
	Question     string               `json:"question"`
	Domains      []domainDigest       `json:"domains"`
	Trends       []models.Trend       `json:"trends"`
	Correlations []models.Correlation `json:"correlations"`
	Insights     []models.Insight     `json:"insights"`
}

// BuildDigest compacts the loaded series and computed statistics into
// the JSON payload sent to the generative service. It deliberately ships
// aggregates and the last few values per metric rather than raw records.
func BuildDigest(question string, series []loader.DomainSeries, insights []models.Insight, correlations []models.Correlation, trends []models.Trend) (string, error) {
	d := digest{
		Question:     question,
		Domains:      make([]domainDigest, 0, len(series)),
		Trends:       trends,
		Correlations: correlations,
		Insights:     topInsights(insights, digestInsightLimit),
	}

	for _, s := range series {
		dd := domainDigest{
			Domain:  s.Domain,
			Entries: len(s.Records),
			Metrics: make(map[string]metricDigest, len(s.Metrics)),
		}
		for name, values := range s.Metrics {
			if len(values) == 0 {
				continue
			}
			dd.Metrics[name] = summarize(values)
		}
		d.Domains = append(d.Domains, dd)
	}

	payload, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func summarize(values []float64) metricDigest {
	min, max, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	recent := values
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	return metricDigest{
		Count:   len(values),
		Min:     min,
		Max:     max,
		Average: sum / float64(len(values)),
		Recent:  append([]float64(nil), recent...),
	}
}

func topInsights(insights []models.Insight, limit int) []models.Insight {
	sorted := append([]models.Insight(nil), insights...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
