package advisor

import (
	"github.com/mlaurent/horizon-backend/internal/usecase/aggregate"
)

// Health score deductions per triggered alert.
const (
	baseScore       = 100
	highDeduction   = 15
	mediumDeduction = 8
	minScore        = 0
	maxScore        = 100
)

// Alert is one triggered advisory rule with its diagnosis and remedy.
type Alert struct {
	Code        string       `json:"code"`
	Category    string       `json:"category"`
	Priority    Priority     `json:"priority"`
	Title       string       `json:"title"`
	Detail      string       `json:"detail"`
	Action      string       `json:"action"`
	Suggestions []Instrument `json:"suggestions,omitempty"`
}

// Advice is the advisory read model: a bounded health score plus the
// triggered alerts in rule-table order.
type Advice struct {
	Score  int     `json:"score"` // always within [0,100]
	Alerts []Alert `json:"alerts"`
}

// Evaluate runs every rule of the table against the aggregate and derives
// the health score.
// Logic:
//   - each rule is an independent threshold check; several can fire at once
//   - score starts at 100 and loses 15 per high alert, 8 per medium alert
//   - the score is clamped to [0,100], never negative, never above 100
func Evaluate(p aggregate.Portfolio) Advice {
	alerts := make([]Alert, 0)
	score := baseScore

	for _, rule := range Rules {
		triggered, detail := rule.Predicate(p)
		if !triggered {
			continue
		}

		alerts = append(alerts, Alert{
			Code:        rule.Code,
			Category:    rule.Category,
			Priority:    rule.Priority,
			Title:       rule.Title,
			Detail:      detail,
			Action:      rule.Action,
			Suggestions: rule.Suggestions,
		})

		switch rule.Priority {
		case PriorityHigh:
			score -= highDeduction
		case PriorityMedium:
			score -= mediumDeduction
		}
	}

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}

	return Advice{Score: score, Alerts: alerts}
}
