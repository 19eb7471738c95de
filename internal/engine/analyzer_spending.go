package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lifelens/lifelens-insights/internal/models"
	"github.com/lifelens/lifelens-insights/internal/repo"
)

const financialDomain = "financial"

// uncategorized buckets records whose attribute bag names no category.
const uncategorized = "uncategorized"

// AnalyzeSpending aggregates the financial domain into category and
// weekday buckets. Money runs through decimal arithmetic; floats only
// appear in the published shape. No narrative enrichment.
func (p *Pipeline) AnalyzeSpending(ctx context.Context, userID string, rng models.DateRange) (*models.SpendingAnalysis, error) {
	series := p.loader.Load(ctx, userID, rng)

	var records []repo.DomainRecord
	for _, s := range series {
		if s.Domain == financialDomain {
			records = s.Records
			break
		}
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	byCategory := make(map[string]decimal.Decimal)
	byDay := make(map[string]decimal.Decimal)
	total := decimal.Zero

	for _, rec := range records {
		amount, ok := rec.Attributes["amount"]
		if !ok || amount.Kind != repo.ValueNumber {
			continue
		}
		spend := decimal.NewFromFloat(amount.Num).Abs()

		category := spendingCategory(rec)
		byCategory[category] = byCategory[category].Add(spend)
		day := rec.CreatedAt.Weekday().String()
		byDay[day] = byDay[day].Add(spend)
		total = total.Add(spend)
	}

	analysis := &models.SpendingAnalysis{
		Period:     PeriodLabel(rng),
		TotalSpent: total.InexactFloat64(),
		ByCategory: categoryBreakdown(byCategory, total),
		ByDay:      make(map[string]float64, len(byDay)),
	}
	for day, spend := range byDay {
		analysis.ByDay[day] = spend.InexactFloat64()
	}
	analysis.Insights = spendingInsights(analysis.ByCategory, byDay, total)
	return analysis, nil
}

func spendingCategory(rec repo.DomainRecord) string {
	if v, ok := rec.Attributes["category"]; ok && v.Kind == repo.ValueText && v.Str != "" {
		return v.Str
	}
	if v, ok := rec.Attributes["type"]; ok && v.Kind == repo.ValueText && v.Str != "" {
		return v.Str
	}
	return uncategorized
}

// categoryBreakdown publishes per-category totals sorted by spend
// descending, category name ascending on ties.
func categoryBreakdown(byCategory map[string]decimal.Decimal, total decimal.Decimal) []models.CategorySpend {
	out := make([]models.CategorySpend, 0, len(byCategory))
	hundred := decimal.NewFromInt(100)
	for category, spend := range byCategory {
		percent := 0.0
		if total.IsPositive() {
			percent, _ = spend.Mul(hundred).Div(total).Round(1).Float64()
		}
		out = append(out, models.CategorySpend{
			Category: category,
			Total:    spend.InexactFloat64(),
			Percent:  percent,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func spendingInsights(byCategory []models.CategorySpend, byDay map[string]decimal.Decimal, total decimal.Decimal) []string {
	insights := make([]string, 0, 2)
	if len(byCategory) > 0 && total.IsPositive() {
		top := byCategory[0]
		insights = append(insights, fmt.Sprintf("Your top spending category is %s at $%.2f (%.1f%% of total).", top.Category, top.Total, top.Percent))
	}
	if day, spend, ok := topWeekday(byDay); ok {
		insights = append(insights, fmt.Sprintf("You spend the most on %ss ($%.2f).", day, spend.InexactFloat64()))
	}
	return insights
}

// topWeekday walks the calendar week in fixed order so ties resolve
// deterministically.
func topWeekday(byDay map[string]decimal.Decimal) (string, decimal.Decimal, bool) {
	best := ""
	bestSpend := decimal.Zero
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		spend, ok := byDay[wd.String()]
		if !ok {
			continue
		}
		if best == "" || spend.GreaterThan(bestSpend) {
			best = wd.String()
			bestSpend = spend
		}
	}
	if best == "" {
		return "", decimal.Zero, false
	}
	return best, bestSpend, true
}
