package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lifelens/lifelens-insights/internal/models"
)

const testRulePack = `
rules:
  - id: spending-up
    match:
      domain: financial
      title_contains: ["trending up"]
    recommendations:
      - "Set a weekly spending cap."
  - id: any-warning
    match:
      severity: warning
    recommendations:
      - "Review flagged entries."
  - id: unrelated
    match:
      domain: astrology
    recommendations:
      - "Should never fire."
`

func writeRulePack(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(testRulePack), 0o600); err != nil {
		t.Fatalf("write rule pack: %v", err)
	}
	return path
}

func TestNewRuleEngineMissingPathIsNil(t *testing.T) {
	e, err := NewRuleEngine("", nil)
	if err != nil || e != nil {
		t.Fatalf("expected nil engine for empty path, got %v/%v", e, err)
	}

	e, err = NewRuleEngine(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if err != nil || e != nil {
		t.Fatalf("expected nil engine for missing file, got %v/%v", e, err)
	}
}

func TestRuleEngineMatchesDomainAndTitle(t *testing.T) {
	e, err := NewRuleEngine(writeRulePack(t), nil)
	if err != nil {
		t.Fatalf("load rule pack: %v", err)
	}

	insights := []models.Insight{
		{
			Type:     models.InsightTrend,
			Severity: models.SeveritySuccess,
			Domain:   "financial",
			Title:    "amount trending up in financial",
		},
	}

	recs := e.Recommend(insights, nil)
	if len(recs) != 1 || recs[0] != "Set a weekly spending cap." {
		t.Fatalf("unexpected recommendations: %v", recs)
	}
}

func TestRuleEngineMatchesSeverity(t *testing.T) {
	e, err := NewRuleEngine(writeRulePack(t), nil)
	if err != nil {
		t.Fatalf("load rule pack: %v", err)
	}

	insights := []models.Insight{
		{Type: models.InsightAnomaly, Severity: models.SeverityWarning, Domain: "nutrition", Title: "Unusual calories values in nutrition"},
	}

	recs := e.Recommend(insights, nil)
	if len(recs) != 1 || recs[0] != "Review flagged entries." {
		t.Fatalf("unexpected recommendations: %v", recs)
	}
}

func TestRuleEngineNilIsSafe(t *testing.T) {
	var e *RuleEngine
	if recs := e.Recommend([]models.Insight{{Title: "anything"}}, nil); recs != nil {
		t.Fatalf("expected nil from nil engine, got %v", recs)
	}
}

func TestAppendUniqueDeduplicates(t *testing.T) {
	recs := appendUnique([]string{"a"}, "b", "a", "", "b", "c")
	if len(recs) != 3 || recs[0] != "a" || recs[1] != "b" || recs[2] != "c" {
		t.Fatalf("unexpected result: %v", recs)
	}
}
