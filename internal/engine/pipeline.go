// Package engine orchestrates the analysis pipeline: load domain
// records, run the statistics kernel, synthesize insights, optionally
// enrich with the narrative service, and attach recommendations.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lifelens/lifelens-insights/internal/loader"
	"github.com/lifelens/lifelens-insights/internal/metrics"
	"github.com/lifelens/lifelens-insights/internal/models"
	"github.com/lifelens/lifelens-insights/internal/narrative"
)

// ErrNoData signals that the requested window holds no records; callers
// render the fixed "no data" response instead of a result.
var ErrNoData = errors.New("no records in the requested range")

// Pipeline wires the loader, synthesizer, enricher, and rule engine into
// one analysis run per request.
type Pipeline struct {
	logger   *slog.Logger
	loader   *loader.Loader
	synth    *Synthesizer
	enricher *narrative.Enricher
	rules    *RuleEngine
}

// NewPipeline constructs a Pipeline. The enricher and rule engine may be
// nil; both degrade to deterministic output.
func NewPipeline(logger *slog.Logger, l *loader.Loader, enricher *narrative.Enricher, rules *RuleEngine) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		logger:   logger,
		loader:   l,
		synth:    NewSynthesizer(),
		enricher: enricher,
		rules:    rules,
	}
}

// AnalyzeGeneral runs the full cross-domain pass. The returned series
// back the caller's visualization; the result itself is complete.
func (p *Pipeline) AnalyzeGeneral(ctx context.Context, userID, message string, rng models.DateRange) (*models.AnalysisResult, []loader.DomainSeries, error) {
	series := p.loader.Load(ctx, userID, rng)
	if loader.TotalRecords(series) == 0 {
		return nil, nil, ErrNoData
	}

	period := PeriodLabel(rng)
	insights, correlations, trends := p.synth.Synthesize(series, string(rng))

	result := &models.AnalysisResult{
		Summary:      defaultSummary(series, insights, correlations, trends, period),
		Insights:     insights,
		Correlations: correlations,
		Trends:       trends,
	}

	recommendations := p.rules.Recommend(insights, trends)

	if p.enricher.Enabled() {
		enrichment, err := p.enricher.Enrich(ctx, message, series, insights, correlations, trends)
		if err != nil {
			p.logger.Warn("narrative enrichment failed, using deterministic template",
				slog.String("user_id", userID), slog.Any("error", err))
			metrics.ObserveEnrichment(metrics.OutcomeFallback)
		} else {
			metrics.ObserveEnrichment(metrics.OutcomeSuccess)
			if enrichment.Summary != "" {
				result.Summary = enrichment.Summary
			}
			result.Insights = append(result.Insights, enrichment.Insights...)
			recommendations = appendUnique(recommendations, enrichment.Recommendations...)
		}
	}

	result.Recommendations = appendUnique(recommendations, defaultRecommendations(insights, trends)...)
	return result, series, nil
}

// PeriodLabel renders a date range for human-readable output.
func PeriodLabel(rng models.DateRange) string {
	switch rng {
	case models.RangeWeek:
		return "past week"
	case models.RangeQuarter:
		return "past quarter"
	case models.RangeYear:
		return "past year"
	case models.RangeAll:
		return "all time"
	default:
		return "past month"
	}
}

func defaultSummary(series []loader.DomainSeries, insights []models.Insight, correlations []models.Correlation, trends []models.Trend, period string) string {
	return fmt.Sprintf("Analyzed %d entries across %d life domains over the %s: %d insights, %d cross-domain correlations, %d trends.",
		loader.TotalRecords(series), len(series), period, len(insights), len(correlations), len(trends))
}

// defaultRecommendations derives a deterministic recommendation list
// from the computed statistics; used whenever enrichment is absent and
// merged after rule and enrichment output otherwise.
func defaultRecommendations(insights []models.Insight, trends []models.Trend) []string {
	recs := make([]string, 0, 3)
	for _, trend := range trends {
		if trend.Direction == models.TrendDown {
			recs = append(recs, fmt.Sprintf("Keep an eye on %s in %s; it dropped %.1f%% this period.", trend.Metric, trend.Domain, -trend.ChangePercent))
			break
		}
	}
	for _, insight := range insights {
		if insight.Type == models.InsightAnomaly {
			recs = append(recs, fmt.Sprintf("Review the unusual %s entries; confirm they are real events.", insight.Domain))
			break
		}
	}
	recs = append(recs, "Log entries consistently across domains to sharpen cross-domain analysis.")
	return recs
}
