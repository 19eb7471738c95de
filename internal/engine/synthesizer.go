package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/lifelens/lifelens-insights/internal/loader"
	"github.com/lifelens/lifelens-insights/internal/models"
	"github.com/lifelens/lifelens-insights/internal/stats"
)

const (
	// minTrendPoints is the shortest metric series a trend insight is
	// derived from.
	minTrendPoints = 3
	// minCorrelationPoints is the shortest series admitted to the
	// cross-domain correlation pass.
	minCorrelationPoints = 5
	// correlationCutoff filters weak associations.
	correlationCutoff = 0.5
)

// Synthesizer runs the statistics kernel across every metric and metric
// pair, producing a uniform list of typed insights.
type Synthesizer struct{}

// NewSynthesizer constructs a Synthesizer.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize derives trend and anomaly insights per domain metric, then
// correlation insights for every metric pair across every domain pair.
// Period labels the analyzed window in Trend records.
func (s *Synthesizer) Synthesize(series []loader.DomainSeries, period string) ([]models.Insight, []models.Correlation, []models.Trend) {
	insights := make([]models.Insight, 0)
	correlations := make([]models.Correlation, 0)
	trends := make([]models.Trend, 0)

	for _, domain := range series {
		for _, metric := range sortedMetrics(domain) {
			values := domain.Metrics[metric]
			if len(values) < minTrendPoints {
				continue
			}

			direction, change := stats.Trend(values)
			if direction != models.TrendStable {
				insights = append(insights, trendInsight(domain.Domain, metric, direction, change, len(values)))
				trends = append(trends, models.Trend{
					Domain:        domain.Domain,
					Metric:        metric,
					Direction:     direction,
					ChangePercent: change,
					Period:        period,
				})
			}

			if anomalies := stats.Anomalies(values); len(anomalies) > 0 {
				insights = append(insights, anomalyInsight(domain.Domain, metric, len(anomalies), len(values)))
			}
		}
	}

	// Quadratic fan-out over domain and metric pairs; bounded by the
	// small number of domains a single user has in one window.
	for i := 0; i < len(series); i++ {
		for j := i + 1; j < len(series); j++ {
			a, b := series[i], series[j]
			for _, metricA := range sortedMetrics(a) {
				valuesA := a.Metrics[metricA]
				if len(valuesA) < minCorrelationPoints {
					continue
				}
				for _, metricB := range sortedMetrics(b) {
					valuesB := b.Metrics[metricB]
					if len(valuesB) < minCorrelationPoints {
						continue
					}

					r := stats.Correlation(valuesA, valuesB)
					if math.Abs(r) <= correlationCutoff {
						continue
					}

					rounded := stats.Round2(r)
					points := len(valuesA)
					if len(valuesB) < points {
						points = len(valuesB)
					}
					description := correlationDescription(a.Domain, metricA, b.Domain, metricB, r)

					correlations = append(correlations, models.Correlation{
						Domain1:     a.Domain,
						Domain2:     b.Domain,
						Metric1:     metricA,
						Metric2:     metricB,
						Coefficient: rounded,
						Description: description,
					})
					insights = append(insights, models.Insight{
						Type:        models.InsightCorrelation,
						Severity:    models.SeverityInfo,
						Domain:      a.Domain + " & " + b.Domain,
						Title:       fmt.Sprintf("%s and %s move together", metricA, metricB),
						Description: description,
						DataPoints:  points,
						Confidence:  int(math.Round(math.Abs(r) * 100)),
					})
				}
			}
		}
	}

	return insights, correlations, trends
}

func sortedMetrics(series loader.DomainSeries) []string {
	names := make([]string, 0, len(series.Metrics))
	for name := range series.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func trendInsight(domain, metric string, direction models.TrendDirection, change float64, points int) models.Insight {
	severity := models.SeveritySuccess
	if direction == models.TrendDown {
		severity = models.SeverityWarning
	}
	verb := "up"
	if direction == models.TrendDown {
		verb = "down"
	}
	return models.Insight{
		Type:        models.InsightTrend,
		Severity:    severity,
		Domain:      domain,
		Title:       fmt.Sprintf("%s trending %s in %s", metric, verb, domain),
		Description: fmt.Sprintf("Average %s moved %.1f%% between the first and second half of the period.", metric, change),
		DataPoints:  points,
	}
}

func anomalyInsight(domain, metric string, anomalies, points int) models.Insight {
	noun := "entries"
	if anomalies == 1 {
		noun = "entry"
	}
	return models.Insight{
		Type:        models.InsightAnomaly,
		Severity:    models.SeverityWarning,
		Domain:      domain,
		Title:       fmt.Sprintf("Unusual %s values in %s", metric, domain),
		Description: fmt.Sprintf("%d %s deviate two or more standard deviations from your usual %s.", anomalies, noun, metric),
		DataPoints:  points,
	}
}

func correlationDescription(domainA, metricA, domainB, metricB string, r float64) string {
	relation := "higher"
	if r < 0 {
		relation = "lower"
	}
	return fmt.Sprintf("Higher %s (%s) coincides with %s %s (%s).", metricA, domainA, relation, metricB, domainB)
}
