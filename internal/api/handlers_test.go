package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lifelens/lifelens-insights/internal/models"
)

type stubService struct {
	resp  models.AnalysisResponse
	calls int
	last  models.AnalysisRequest
}

func (s *stubService) Perform(_ context.Context, req models.AnalysisRequest) models.AnalysisResponse {
	s.calls++
	s.last = req
	return s.resp
}

func newTestRouter(service *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandlers(nil, service).Register(router)
	return router
}

func TestAnalyzeHandler(t *testing.T) {
	service := &stubService{resp: models.AnalysisResponse{
		AnalysisID:   "id-1",
		AnalysisType: models.AnalysisGeneral,
		Response:     "looks fine",
	}}
	router := newTestRouter(service)

	body := `{"user_id":"u1","message":"how am I doing","date_range":"week"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if service.calls != 1 {
		t.Fatalf("expected one service call, got %d", service.calls)
	}
	if service.last.UserID != "u1" || service.last.Range != models.RangeWeek {
		t.Fatalf("unexpected request passed through: %+v", service.last)
	}

	var resp models.AnalysisResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AnalysisID != "id-1" || resp.Response != "looks fine" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAnalyzeHandlerValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"message":"hi"}`},
		{"missing message", `{"user_id":"u1"}`},
		{"bad analysis_type", `{"user_id":"u1","message":"hi","analysis_type":"astrology"}`},
		{"bad date_range", `{"user_id":"u1","message":"hi","date_range":"fortnight"}`},
		{"malformed json", `{"user_id":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubService{}
			router := newTestRouter(service)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if service.calls != 0 {
				t.Fatalf("service must not be called on invalid input")
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
