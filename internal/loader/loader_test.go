package loader

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lifelens/lifelens-insights/internal/models"
	"github.com/lifelens/lifelens-insights/internal/repo"
)

type stubSource struct {
	records []repo.DomainRecord
	err     error
	calls   int
	since   time.Time
}

func (s *stubSource) FetchDomainRecords(_ context.Context, _ string, since time.Time) ([]repo.DomainRecord, error) {
	s.calls++
	s.since = since
	return s.records, s.err
}

func record(domain string, attrs map[string]repo.Value) repo.DomainRecord {
	return repo.DomainRecord{Domain: domain, CreatedAt: time.Now(), Attributes: attrs}
}

func TestRangeStart(t *testing.T) {
	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		rng  models.DateRange
		want time.Time
	}{
		{models.RangeWeek, now.AddDate(0, 0, -7)},
		{models.RangeMonth, now.AddDate(0, 0, -30)},
		{models.RangeQuarter, now.AddDate(0, 0, -90)},
		{models.RangeYear, now.AddDate(-1, 0, 0)},
		{models.RangeAll, time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{models.DateRange("bogus"), now.AddDate(0, 0, -30)},
	}
	for _, tc := range cases {
		if got := RangeStart(tc.rng, now); !got.Equal(tc.want) {
			t.Fatalf("range %q: expected %v, got %v", tc.rng, tc.want, got)
		}
	}
}

func TestGroupExtractsNumericAttributes(t *testing.T) {
	records := []repo.DomainRecord{
		record("health", map[string]repo.Value{"weight": repo.NumberValue(82), "mood": repo.TextValue("fine")}),
		record("financial", map[string]repo.Value{"amount": repo.NumberValue(-40)}),
		record("health", map[string]repo.Value{"weight": repo.NumberValue(81.5)}),
	}

	series := Group(records)
	if len(series) != 2 {
		t.Fatalf("expected 2 domains, got %d", len(series))
	}
	// Sorted domain order.
	if series[0].Domain != "financial" || series[1].Domain != "health" {
		t.Fatalf("unexpected domain order: %s, %s", series[0].Domain, series[1].Domain)
	}

	health := series[1]
	if len(health.Records) != 2 {
		t.Fatalf("expected 2 health records, got %d", len(health.Records))
	}
	weights := health.Metrics["weight"]
	if len(weights) != 2 || weights[0] != 82 || weights[1] != 81.5 {
		t.Fatalf("unexpected weight series: %v", weights)
	}
	if _, ok := health.Metrics["mood"]; ok {
		t.Fatalf("text attribute must not become a metric")
	}
}

func TestGroupSkipsRecordsMissingMetric(t *testing.T) {
	records := []repo.DomainRecord{
		record("health", map[string]repo.Value{"weight": repo.NumberValue(82), "sleep_hours": repo.NumberValue(7)}),
		record("health", map[string]repo.Value{"sleep_hours": repo.NumberValue(6)}),
	}

	series := Group(records)
	if len(series[0].Metrics["weight"]) != 1 {
		t.Fatalf("expected weight series length 1, got %d", len(series[0].Metrics["weight"]))
	}
	if len(series[0].Metrics["sleep_hours"]) != 2 {
		t.Fatalf("expected sleep series length 2, got %d", len(series[0].Metrics["sleep_hours"]))
	}
}

func TestLoadDegradesOnStoreError(t *testing.T) {
	source := &stubSource{err: fmt.Errorf("store down")}
	l := New(nil, source)

	series := l.Load(context.Background(), "user-1", models.RangeMonth)
	if len(series) != 0 {
		t.Fatalf("expected empty result on store error, got %d series", len(series))
	}
	if source.calls != 1 {
		t.Fatalf("expected one fetch attempt, got %d", source.calls)
	}
}

func TestLoadPassesRangeStart(t *testing.T) {
	source := &stubSource{}
	l := New(nil, source)

	l.Load(context.Background(), "user-1", models.RangeAll)
	want := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !source.since.Equal(want) {
		t.Fatalf("expected all-time start %v, got %v", want, source.since)
	}
}

func TestTotalRecords(t *testing.T) {
	series := []DomainSeries{
		{Domain: "a", Records: make([]repo.DomainRecord, 3)},
		{Domain: "b", Records: make([]repo.DomainRecord, 2)},
	}
	if total := TotalRecords(series); total != 5 {
		t.Fatalf("expected 5, got %d", total)
	}
	if total := TotalRecords(nil); total != 0 {
		t.Fatalf("expected 0 for nil series, got %d", total)
	}
}
