package engine

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lifelens/lifelens-insights/internal/models"
)

// RuleEngine contributes rule-based recommendations when the narrative
// enricher is unavailable or silent.
type RuleEngine struct {
	rules  []Rule
	logger *slog.Logger
}

// Rule represents a single recommendation rule.
type Rule struct {
	ID              string    `yaml:"id"`
	Match           RuleMatch `yaml:"match"`
	Recommendations []string  `yaml:"recommendations"`
}

// RuleMatch defines optional attributes for rule matching. Empty fields
// match everything.
type RuleMatch struct {
	Domain        string   `yaml:"domain"`
	Severity      string   `yaml:"severity"`
	TitleContains []string `yaml:"title_contains"`
}

// RuleConfigFile is the YAML root structure.
type RuleConfigFile struct {
	Rules []Rule `yaml:"rules"`
}

// NewRuleEngine loads rules from the provided path. If path is empty or
// the file does not exist, returns a nil engine; callers fall back to
// the default recommendations.
func NewRuleEngine(path string, logger *slog.Logger) (*RuleEngine, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var cfg RuleConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleEngine{rules: cfg.Rules, logger: logger}, nil
}

// Recommend produces rule-based recommendations from the computed
// insights and trends.
func (e *RuleEngine) Recommend(insights []models.Insight, trends []models.Trend) []string {
	if e == nil {
		return nil
	}

	matched := make([]string, 0)
	for _, rule := range e.rules {
		if rule.Match.Domain != "" && !domainMatches(rule.Match.Domain, insights, trends) {
			continue
		}
		if rule.Match.Severity != "" && !severityMatches(rule.Match.Severity, insights) {
			continue
		}
		if len(rule.Match.TitleContains) > 0 && !titlesContain(rule.Match.TitleContains, insights) {
			continue
		}
		matched = appendUnique(matched, rule.Recommendations...)
	}
	return matched
}

func domainMatches(domain string, insights []models.Insight, trends []models.Trend) bool {
	for _, insight := range insights {
		if strings.Contains(strings.ToLower(insight.Domain), strings.ToLower(domain)) {
			return true
		}
	}
	for _, trend := range trends {
		if strings.EqualFold(domain, trend.Domain) {
			return true
		}
	}
	return false
}

func severityMatches(severity string, insights []models.Insight) bool {
	for _, insight := range insights {
		if strings.EqualFold(severity, string(insight.Severity)) {
			return true
		}
	}
	return false
}

func titlesContain(keywords []string, insights []models.Insight) bool {
	for _, insight := range insights {
		title := strings.ToLower(insight.Title)
		for _, kw := range keywords {
			if kw != "" && strings.Contains(title, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}

func appendUnique(existing []string, additions ...string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		seen[rec] = struct{}{}
	}
	for _, item := range additions {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		existing = append(existing, item)
		seen[item] = struct{}{}
	}
	return existing
}
