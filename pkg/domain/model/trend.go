package model

import "github.com/secmon-lab/phantom/pkg/domain/types"

// Trend is one topic from a trend source. Ordering across sources is
// best-effort relevance only.
type Trend struct {
	Topic    string
	Category types.TrendCategory
	Score    int
	Source   string
	URL      string
}

// Normalize clamps the category to the closed set
func (t Trend) Normalize() Trend {
	t.Category = t.Category.Normalize()
	return t
}
