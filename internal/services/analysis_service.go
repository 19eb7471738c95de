// Package services exposes the analysis facade the HTTP layer calls.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lifelens/lifelens-insights/internal/engine"
	"github.com/lifelens/lifelens-insights/internal/format"
	"github.com/lifelens/lifelens-insights/internal/intent"
	"github.com/lifelens/lifelens-insights/internal/loader"
	"github.com/lifelens/lifelens-insights/internal/metrics"
	"github.com/lifelens/lifelens-insights/internal/models"
	"github.com/lifelens/lifelens-insights/internal/utils"
)

// AnalysisPipeline is the slice of the engine the service depends on.
type AnalysisPipeline interface {
	AnalyzeGeneral(ctx context.Context, userID, message string, rng models.DateRange) (*models.AnalysisResult, []loader.DomainSeries, error)
	AnalyzeSpending(ctx context.Context, userID string, rng models.DateRange) (*models.SpendingAnalysis, error)
	AnalyzeHealth(ctx context.Context, userID string, rng models.DateRange) (*models.HealthAnalysis, error)
}

// AnalysisService resolves intent, drives the pipeline, and renders the
// response envelope. Failures never surface as errors to the transport:
// every outcome is a well-formed AnalysisResponse.
type AnalysisService struct {
	logger    *slog.Logger
	pipeline  AnalysisPipeline
	latencies *utils.LatencyTracker
}

// NewAnalysisService constructs the analysis facade.
func NewAnalysisService(logger *slog.Logger, pipeline AnalysisPipeline) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		logger:    logger,
		pipeline:  pipeline,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// Perform runs one analysis end to end. The analysis ID lives only in
// the envelope and the logs; identical inputs produce identical data.
func (s *AnalysisService) Perform(ctx context.Context, req models.AnalysisRequest) models.AnalysisResponse {
	analysisID := uuid.NewString()
	analysisType, dateRange := intent.Resolve(req)

	s.logger.Debug("analysis started",
		slog.String("analysis_id", analysisID),
		slog.String("user_id", req.UserID),
		slog.String("type", string(analysisType)),
		slog.String("range", string(dateRange)))

	start := time.Now()
	resp, err := s.dispatch(ctx, req, analysisType, dateRange)
	duration := time.Since(start)
	resp.AnalysisID = analysisID
	resp.AnalysisType = analysisType

	switch {
	case errors.Is(err, engine.ErrNoData):
		metrics.ObserveAnalysis(duration, metrics.OutcomeNoData)
		return models.AnalysisResponse{
			AnalysisID:   analysisID,
			AnalysisType: analysisType,
			Response:     format.NoDataResponse,
		}
	case err != nil:
		metrics.ObserveAnalysis(duration, metrics.OutcomeError)
		s.logger.Error("analysis failed",
			slog.String("analysis_id", analysisID),
			slog.String("user_id", req.UserID),
			slog.Any("error", err))
		return models.AnalysisResponse{
			AnalysisID:   analysisID,
			AnalysisType: analysisType,
			Response:     format.ErrorResponse,
		}
	}

	s.latencies.Observe(duration)
	metrics.ObserveAnalysis(duration, metrics.OutcomeSuccess)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Info("analysis latency", slog.Duration("p95", s.latencies.Percentile(95)), slog.Int("samples", count))
	}
	return resp
}

func (s *AnalysisService) dispatch(ctx context.Context, req models.AnalysisRequest, analysisType models.AnalysisType, dateRange models.DateRange) (models.AnalysisResponse, error) {
	switch analysisType {
	case models.AnalysisFinancial:
		analysis, err := s.pipeline.AnalyzeSpending(ctx, req.UserID, dateRange)
		if err != nil {
			return models.AnalysisResponse{}, err
		}
		return models.AnalysisResponse{
			Response:      format.Spending(analysis),
			Data:          analysis,
			Visualization: format.SpendingVisualization(analysis),
		}, nil

	case models.AnalysisHealth:
		analysis, err := s.pipeline.AnalyzeHealth(ctx, req.UserID, dateRange)
		if err != nil {
			return models.AnalysisResponse{}, err
		}
		return models.AnalysisResponse{
			Response:      format.Health(analysis),
			Data:          analysis,
			Visualization: format.HealthVisualization(analysis),
		}, nil

	default:
		// correlations and trends requests share the general pass; the
		// result already carries both lists.
		result, series, err := s.pipeline.AnalyzeGeneral(ctx, req.UserID, req.Message, dateRange)
		if err != nil {
			return models.AnalysisResponse{}, err
		}
		return models.AnalysisResponse{
			Response:      format.General(result),
			Data:          result,
			Visualization: format.GeneralVisualization(series),
		}, nil
	}
}

// LatencyP95 returns the current p95 analysis latency.
func (s *AnalysisService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}
