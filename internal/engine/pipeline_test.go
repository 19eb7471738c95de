package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lifelens/lifelens-insights/internal/loader"
	"github.com/lifelens/lifelens-insights/internal/models"
	"github.com/lifelens/lifelens-insights/internal/narrative"
	"github.com/lifelens/lifelens-insights/internal/repo"
)

type stubSource struct {
	records []repo.DomainRecord
	err     error
}

func (s *stubSource) FetchDomainRecords(context.Context, string, time.Time) ([]repo.DomainRecord, error) {
	return s.records, s.err
}

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) Generate(context.Context, string, string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func healthRecord(day int, weight float64) repo.DomainRecord {
	return repo.DomainRecord{
		Domain:    "health",
		CreatedAt: time.Now().AddDate(0, 0, -day),
		Attributes: map[string]repo.Value{
			"weight": repo.NumberValue(weight),
		},
	}
}

func testPipeline(source *stubSource, gen narrative.Generator, rules *RuleEngine) *Pipeline {
	var enricher *narrative.Enricher
	if gen != nil {
		enricher = narrative.NewEnricher(nil, gen)
	}
	return NewPipeline(nil, loader.New(nil, source), enricher, rules)
}

func TestAnalyzeGeneralNoData(t *testing.T) {
	p := testPipeline(&stubSource{}, nil, nil)

	_, _, err := p.AnalyzeGeneral(context.Background(), "user-1", "how am I doing", models.RangeMonth)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestAnalyzeGeneralStoreFailureIsNoData(t *testing.T) {
	p := testPipeline(&stubSource{err: fmt.Errorf("store down")}, nil, nil)

	_, _, err := p.AnalyzeGeneral(context.Background(), "user-1", "how am I doing", models.RangeMonth)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData on store failure, got %v", err)
	}
}

func TestAnalyzeGeneralDeterministicWithoutEnricher(t *testing.T) {
	source := &stubSource{records: []repo.DomainRecord{
		healthRecord(4, 100), healthRecord(3, 100), healthRecord(2, 120), healthRecord(1, 120),
	}}
	p := testPipeline(source, nil, nil)

	result, series, err := p.AnalyzeGeneral(context.Background(), "user-1", "how am I doing", models.RangeMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 1 || series[0].Domain != "health" {
		t.Fatalf("unexpected series: %+v", series)
	}
	if !strings.Contains(result.Summary, "4 entries across 1 life domains") {
		t.Fatalf("unexpected summary: %q", result.Summary)
	}
	if len(result.Trends) != 1 || result.Trends[0].Direction != models.TrendUp {
		t.Fatalf("expected one up trend, got %+v", result.Trends)
	}
	if len(result.Recommendations) == 0 {
		t.Fatalf("expected deterministic recommendations")
	}
}

func TestAnalyzeGeneralMergesEnrichment(t *testing.T) {
	source := &stubSource{records: []repo.DomainRecord{
		healthRecord(4, 100), healthRecord(3, 100), healthRecord(2, 120), healthRecord(1, 120),
	}}
	gen := &stubGenerator{reply: `{"summary":"You are improving.","additionalInsights":[{"title":"Momentum","description":"Keep going"}],"recommendations":["Stay the course"]}`}
	p := testPipeline(source, gen, nil)

	result, _, err := p.AnalyzeGeneral(context.Background(), "user-1", "how am I doing", models.RangeMonth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("expected exactly one generative call, got %d", gen.calls)
	}
	if result.Summary != "You are improving." {
		t.Fatalf("expected enriched summary, got %q", result.Summary)
	}

	var extra *models.Insight
	for i := range result.Insights {
		if result.Insights[i].Title == "Momentum" {
			extra = &result.Insights[i]
		}
	}
	if extra == nil {
		t.Fatalf("expected enrichment insight to be merged")
	}
	if extra.Type != models.InsightPattern || extra.Severity != models.SeverityInfo || extra.Domain != "general" {
		t.Fatalf("expected normalized defaults, got %+v", extra)
	}
	if result.Recommendations[0] != "Stay the course" {
		t.Fatalf("expected enrichment recommendation first, got %v", result.Recommendations)
	}
}

func TestAnalyzeGeneralFallsBackOnEnrichmentError(t *testing.T) {
	source := &stubSource{records: []repo.DomainRecord{
		healthRecord(4, 100), healthRecord(3, 100), healthRecord(2, 120), healthRecord(1, 120),
	}}
	gen := &stubGenerator{err: fmt.Errorf("service unavailable")}
	p := testPipeline(source, gen, nil)

	result, _, err := p.AnalyzeGeneral(context.Background(), "user-1", "how am I doing", models.RangeMonth)
	if err != nil {
		t.Fatalf("enrichment failure must not fail the analysis: %v", err)
	}
	if !strings.Contains(result.Summary, "Analyzed 4 entries") {
		t.Fatalf("expected deterministic summary, got %q", result.Summary)
	}
}

func TestAnalyzeGeneralFallsBackOnMalformedReply(t *testing.T) {
	source := &stubSource{records: []repo.DomainRecord{
		healthRecord(4, 100), healthRecord(3, 100), healthRecord(2, 120), healthRecord(1, 120),
	}}
	gen := &stubGenerator{reply: "sorry, I cannot help with that"}
	p := testPipeline(source, gen, nil)

	result, _, err := p.AnalyzeGeneral(context.Background(), "user-1", "how am I doing", models.RangeMonth)
	if err != nil {
		t.Fatalf("malformed reply must not fail the analysis: %v", err)
	}
	if !strings.Contains(result.Summary, "Analyzed 4 entries") {
		t.Fatalf("expected deterministic summary, got %q", result.Summary)
	}
}

func TestAnalyzeGeneralDisabledEnricherMakesNoCalls(t *testing.T) {
	source := &stubSource{records: []repo.DomainRecord{
		healthRecord(2, 100), healthRecord(1, 101),
	}}
	gen := &stubGenerator{reply: "{}"}
	// Enricher built with a nil generator: must never reach gen.
	p := NewPipeline(nil, loader.New(nil, source), narrative.NewEnricher(nil, nil), nil)

	if _, _, err := p.AnalyzeGeneral(context.Background(), "user-1", "hi", models.RangeMonth); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("expected zero generative calls, got %d", gen.calls)
	}
}

func TestPeriodLabel(t *testing.T) {
	if got := PeriodLabel(models.RangeAll); got != "all time" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := PeriodLabel(models.DateRange("bogus")); got != "past month" {
		t.Fatalf("unexpected default label: %q", got)
	}
}
