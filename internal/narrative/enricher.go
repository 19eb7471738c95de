// Package narrative optionally layers a generative-text summary and
// extra insights on top of the computed statistics. Every failure mode
// degrades to the caller's deterministic template; enrichment can never
// fail an analysis.
package narrative

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lifelens/lifelens-insights/internal/loader"
	"github.com/lifelens/lifelens-insights/internal/models"
)

const systemInstruction = "You are a personal life-data analyst. Respond with valid JSON only: " +
	`a single object {"summary": string, "additionalInsights": [{"type": string, "severity": string, "domain": string, "title": string, "description": string, "suggestion": string}], "recommendations": [string]}. ` +
	"No prose outside the JSON object."

// Enrichment is the parsed, normalized reply of the generative service.
type Enrichment struct {
	Summary         string
	Insights        []models.Insight
	Recommendations []string
}

// Enricher drives one optional generative call per analysis.
type Enricher struct {
	logger *slog.Logger
	gen    Generator
}

// NewEnricher constructs an Enricher. A nil generator produces a
// disabled enricher that issues no outbound calls.
func NewEnricher(logger *slog.Logger, gen Generator) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{logger: logger, gen: gen}
}

// Enabled reports whether a generative service is configured.
func (e *Enricher) Enabled() bool {
	return e != nil && e.gen != nil
}

type reply struct {
	Summary            string `json:"summary"`
	AdditionalInsights []struct {
		Type        string `json:"type"`
		Severity    string `json:"severity"`
		Domain      string `json:"domain"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Suggestion  string `json:"suggestion"`
	} `json:"additionalInsights"`
	Recommendations []string `json:"recommendations"`
}

// Enrich sends a compact digest plus the user's question and parses the
// constrained JSON reply. The error path is the caller's cue to fall
// back to the deterministic template; no retry is attempted.
func (e *Enricher) Enrich(ctx context.Context, question string, series []loader.DomainSeries, insights []models.Insight, correlations []models.Correlation, trends []models.Trend) (*Enrichment, error) {
	if !e.Enabled() {
		return nil, fmt.Errorf("narrative enrichment not configured")
	}

	payload, err := BuildDigest(question, series, insights, correlations, trends)
	if err != nil {
		return nil, fmt.Errorf("build digest: %w", err)
	}

	raw, err := e.gen.Generate(ctx, systemInstruction, payload)
	if err != nil {
		return nil, fmt.Errorf("generate narrative: %w", err)
	}

	var parsed reply
	if err := ParseConstrainedJSON(raw, &parsed); err != nil {
		return nil, err
	}

	enrichment := &Enrichment{
		Summary:         parsed.Summary,
		Recommendations: parsed.Recommendations,
	}
	for _, item := range parsed.AdditionalInsights {
		enrichment.Insights = append(enrichment.Insights, normalizeInsight(item.Type, item.Severity, item.Domain, item.Title, item.Description, item.Suggestion))
	}
	return enrichment, nil
}

// normalizeInsight applies safe defaults so a sloppy reply still yields
// well-formed insights.
func normalizeInsight(typ, severity, domain, title, description, suggestion string) models.Insight {
	insight := models.Insight{
		Type:        models.InsightType(typ),
		Severity:    models.Severity(severity),
		Domain:      domain,
		Title:       title,
		Description: description,
		Suggestion:  suggestion,
	}
	switch insight.Type {
	case models.InsightPattern, models.InsightCorrelation, models.InsightAnomaly, models.InsightTrend, models.InsightAchievement:
	default:
		insight.Type = models.InsightPattern
	}
	switch insight.Severity {
	case models.SeverityInfo, models.SeverityWarning, models.SeveritySuccess, models.SeverityCritical:
	default:
		insight.Severity = models.SeverityInfo
	}
	if insight.Domain == "" {
		insight.Domain = "general"
	}
	return insight
}
