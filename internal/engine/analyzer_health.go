package engine

import (
	"context"
	"fmt"

	"github.com/lifelens/lifelens-insights/internal/loader"
	"github.com/lifelens/lifelens-insights/internal/models"
	"github.com/lifelens/lifelens-insights/internal/stats"
)

const (
	healthDomain    = "health"
	fitnessDomain   = "fitness"
	nutritionDomain = "nutrition"
)

// AnalyzeHealth summarizes the health, fitness, and nutrition domains
// into metric rows with their trend. No narrative enrichment.
func (p *Pipeline) AnalyzeHealth(ctx context.Context, userID string, rng models.DateRange) (*models.HealthAnalysis, error) {
	series := p.loader.Load(ctx, userID, rng)

	byDomain := make(map[string]loader.DomainSeries, 3)
	total := 0
	for _, s := range series {
		switch s.Domain {
		case healthDomain, fitnessDomain, nutritionDomain:
			byDomain[s.Domain] = s
			total += len(s.Records)
		}
	}
	if total == 0 {
		return nil, ErrNoData
	}

	analysis := &models.HealthAnalysis{Period: PeriodLabel(rng)}

	if weights := byDomain[healthDomain].Metrics["weight"]; len(weights) > 0 {
		direction, change := stats.Trend(weights)
		analysis.Metrics = append(analysis.Metrics, models.HealthMetricRow{
			Metric:  "weight",
			Current: weights[len(weights)-1],
			Trend:   direction,
			Change:  change,
		})
		analysis.Insights = append(analysis.Insights, weightInsight(direction, change))
	}

	if workouts := len(byDomain[fitnessDomain].Records); workouts > 0 {
		analysis.Metrics = append(analysis.Metrics, models.HealthMetricRow{
			Metric:  "workouts",
			Current: float64(workouts),
			Trend:   models.TrendStable,
		})
		noun := "workouts"
		if workouts == 1 {
			noun = "workout"
		}
		analysis.Insights = append(analysis.Insights, fmt.Sprintf("You logged %d %s over the %s.", workouts, noun, analysis.Period))
	}

	if calories := byDomain[nutritionDomain].Metrics["calories"]; len(calories) > 0 {
		direction, change := stats.Trend(calories)
		avg := averageOf(calories)
		analysis.Metrics = append(analysis.Metrics, models.HealthMetricRow{
			Metric:  "calories",
			Current: stats.Round2(avg),
			Trend:   direction,
			Change:  change,
		})
		analysis.Insights = append(analysis.Insights, fmt.Sprintf("You averaged %.0f calories per entry.", avg))
	}

	if len(analysis.Metrics) == 0 {
		return nil, ErrNoData
	}
	return analysis, nil
}

func weightInsight(direction models.TrendDirection, change float64) string {
	switch direction {
	case models.TrendDown:
		return fmt.Sprintf("Your weight is down %.1f%% over the period.", -change)
	case models.TrendUp:
		return fmt.Sprintf("Your weight is up %.1f%% over the period.", change)
	default:
		return "Your weight has held steady over the period."
	}
}

func averageOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
