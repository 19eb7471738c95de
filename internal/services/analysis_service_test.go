package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/lifelens/lifelens-insights/internal/engine"
	"github.com/lifelens/lifelens-insights/internal/format"
	"github.com/lifelens/lifelens-insights/internal/loader"
	"github.com/lifelens/lifelens-insights/internal/models"
	"github.com/lifelens/lifelens-insights/internal/repo"
)

type fakePipeline struct {
	generalResult *models.AnalysisResult
	generalSeries []loader.DomainSeries
	generalErr    error
	spending      *models.SpendingAnalysis
	spendingErr   error
	health        *models.HealthAnalysis
	healthErr     error

	generalCalls  int
	spendingCalls int
	healthCalls   int
	lastRange     models.DateRange
}

func (f *fakePipeline) AnalyzeGeneral(_ context.Context, _, _ string, rng models.DateRange) (*models.AnalysisResult, []loader.DomainSeries, error) {
	f.generalCalls++
	f.lastRange = rng
	return f.generalResult, f.generalSeries, f.generalErr
}

func (f *fakePipeline) AnalyzeSpending(_ context.Context, _ string, rng models.DateRange) (*models.SpendingAnalysis, error) {
	f.spendingCalls++
	f.lastRange = rng
	return f.spending, f.spendingErr
}

func (f *fakePipeline) AnalyzeHealth(_ context.Context, _ string, rng models.DateRange) (*models.HealthAnalysis, error) {
	f.healthCalls++
	f.lastRange = rng
	return f.health, f.healthErr
}

func generalResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Summary: "All good.",
		Trends: []models.Trend{
			{Domain: "health", Metric: "weight", Direction: models.TrendDown, ChangePercent: -5.5, Period: "month"},
		},
	}
}

func TestPerformGeneral(t *testing.T) {
	pipeline := &fakePipeline{
		generalResult: generalResult(),
		generalSeries: []loader.DomainSeries{{Domain: "health", Records: make([]repo.DomainRecord, 2)}},
	}
	svc := NewAnalysisService(nil, pipeline)

	resp := svc.Perform(context.Background(), models.AnalysisRequest{UserID: "u1", Message: "how am I doing"})

	if resp.AnalysisID == "" {
		t.Fatalf("expected an analysis id")
	}
	if resp.AnalysisType != models.AnalysisGeneral {
		t.Fatalf("expected general, got %s", resp.AnalysisType)
	}
	if !strings.Contains(resp.Response, "All good.") {
		t.Fatalf("unexpected response: %q", resp.Response)
	}
	if resp.Visualization == nil || resp.Visualization.Type != "bar" {
		t.Fatalf("expected bar visualization, got %+v", resp.Visualization)
	}
	if pipeline.generalCalls != 1 || pipeline.spendingCalls != 0 || pipeline.healthCalls != 0 {
		t.Fatalf("unexpected dispatch: %+v", pipeline)
	}
}

func TestPerformRoutesByIntent(t *testing.T) {
	pipeline := &fakePipeline{
		spending: &models.SpendingAnalysis{Period: "past week", TotalSpent: 12},
	}
	svc := NewAnalysisService(nil, pipeline)

	resp := svc.Perform(context.Background(), models.AnalysisRequest{UserID: "u1", Message: "how much did I spend this week"})

	if resp.AnalysisType != models.AnalysisFinancial {
		t.Fatalf("expected financial, got %s", resp.AnalysisType)
	}
	if pipeline.spendingCalls != 1 {
		t.Fatalf("expected spending dispatch, got %+v", pipeline)
	}
	if pipeline.lastRange != models.RangeWeek {
		t.Fatalf("expected week range, got %s", pipeline.lastRange)
	}
}

func TestPerformExplicitTypeWins(t *testing.T) {
	pipeline := &fakePipeline{health: &models.HealthAnalysis{Period: "past month"}}
	svc := NewAnalysisService(nil, pipeline)

	resp := svc.Perform(context.Background(), models.AnalysisRequest{
		UserID:  "u1",
		Message: "how much did I spend",
		Type:    models.AnalysisHealth,
	})

	if resp.AnalysisType != models.AnalysisHealth {
		t.Fatalf("expected health, got %s", resp.AnalysisType)
	}
	if pipeline.healthCalls != 1 || pipeline.spendingCalls != 0 {
		t.Fatalf("unexpected dispatch: %+v", pipeline)
	}
}

func TestPerformNoData(t *testing.T) {
	pipeline := &fakePipeline{generalErr: engine.ErrNoData}
	svc := NewAnalysisService(nil, pipeline)

	resp := svc.Perform(context.Background(), models.AnalysisRequest{UserID: "u1", Message: "hello"})

	if resp.Response != format.NoDataResponse {
		t.Fatalf("expected no-data response, got %q", resp.Response)
	}
	if resp.Data != nil || resp.Visualization != nil {
		t.Fatalf("no-data response must carry nil data and visualization")
	}
}

func TestPerformUnexpectedErrorIsGeneric(t *testing.T) {
	pipeline := &fakePipeline{generalErr: fmt.Errorf("store exploded: secret details")}
	svc := NewAnalysisService(nil, pipeline)

	resp := svc.Perform(context.Background(), models.AnalysisRequest{UserID: "u1", Message: "hello"})

	if resp.Response != format.ErrorResponse {
		t.Fatalf("expected generic error response, got %q", resp.Response)
	}
	if strings.Contains(resp.Response, "secret") {
		t.Fatalf("internal error must not leak")
	}
	if resp.Data != nil || resp.Visualization != nil {
		t.Fatalf("error response must carry nil data and visualization")
	}
}

func TestPerformDataIsIdempotent(t *testing.T) {
	pipeline := &fakePipeline{
		generalResult: generalResult(),
		generalSeries: []loader.DomainSeries{{Domain: "health", Records: make([]repo.DomainRecord, 2)}},
	}
	svc := NewAnalysisService(nil, pipeline)
	req := models.AnalysisRequest{UserID: "u1", Message: "how am I doing"}

	first := svc.Perform(context.Background(), req)
	second := svc.Perform(context.Background(), req)

	if first.AnalysisID == second.AnalysisID {
		t.Fatalf("each run gets its own analysis id")
	}

	firstData, err := json.Marshal(first.Data)
	if err != nil {
		t.Fatalf("marshal first: %v", err)
	}
	secondData, err := json.Marshal(second.Data)
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}
	if string(firstData) != string(secondData) {
		t.Fatalf("data must be byte-identical across identical runs:\n%s\n%s", firstData, secondData)
	}
}
