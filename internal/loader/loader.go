// Package loader turns raw domain records into per-domain metric series.
package loader

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/lifelens/lifelens-insights/internal/models"
	"github.com/lifelens/lifelens-insights/internal/repo"
)

// allTimeStart anchors the "all" range; the store holds nothing older.
var allTimeStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// DomainSeries groups one domain's records with the numeric series
// extracted from their attribute bags. Metric series are aligned by
// record order: records missing a numeric value for an attribute are
// skipped, so two series in the same domain may have different lengths
// and indices no longer line up with calendar time.
type DomainSeries struct {
	Domain  string
	Records []repo.DomainRecord
	Metrics map[string][]float64
}

// RecordSource is the slice of the record store the loader depends on.
type RecordSource interface {
	FetchDomainRecords(ctx context.Context, userID string, since time.Time) ([]repo.DomainRecord, error)
}

// Loader fetches a user's records for a window and derives DomainSeries.
type Loader struct {
	logger *slog.Logger
	source RecordSource
}

// New constructs a Loader.
func New(logger *slog.Logger, source RecordSource) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, source: source}
}

// RangeStart resolves a symbolic date range to its start instant.
func RangeStart(r models.DateRange, now time.Time) time.Time {
	switch r {
	case models.RangeWeek:
		return now.AddDate(0, 0, -7)
	case models.RangeQuarter:
		return now.AddDate(0, 0, -90)
	case models.RangeYear:
		return now.AddDate(-1, 0, 0)
	case models.RangeAll:
		return allTimeStart
	default:
		return now.AddDate(0, 0, -30)
	}
}

// Load returns one DomainSeries per domain that has at least one record
// in range, in sorted domain order. A store failure degrades to an empty
// result rather than an error; the analysis then reports "no data".
func (l *Loader) Load(ctx context.Context, userID string, dateRange models.DateRange) []DomainSeries {
	if l.source == nil {
		return nil
	}

	since := RangeStart(dateRange, time.Now().UTC())
	records, err := l.source.FetchDomainRecords(ctx, userID, since)
	if err != nil {
		l.logger.Warn("record fetch failed, degrading to empty result",
			slog.String("user_id", userID), slog.Any("error", err))
		return nil
	}

	return Group(records)
}

// Group builds DomainSeries from records, preserving record order within
// each domain and extracting every numeric attribute into its metric
// series.
func Group(records []repo.DomainRecord) []DomainSeries {
	byDomain := make(map[string]*DomainSeries)
	order := make([]string, 0)

	for _, rec := range records {
		series, ok := byDomain[rec.Domain]
		if !ok {
			series = &DomainSeries{Domain: rec.Domain, Metrics: make(map[string][]float64)}
			byDomain[rec.Domain] = series
			order = append(order, rec.Domain)
		}
		series.Records = append(series.Records, rec)
		for name, value := range rec.Attributes {
			if value.Kind != repo.ValueNumber {
				continue
			}
			series.Metrics[name] = append(series.Metrics[name], value.Num)
		}
	}

	sort.Strings(order)
	out := make([]DomainSeries, 0, len(order))
	for _, domain := range order {
		out = append(out, *byDomain[domain])
	}
	return out
}

// TotalRecords counts records across all series; zero means the no-data
// short circuit applies.
func TotalRecords(series []DomainSeries) int {
	total := 0
	for _, s := range series {
		total += len(s.Records)
	}
	return total
}
