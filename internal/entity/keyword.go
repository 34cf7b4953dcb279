package entity

import "time"

type Competition string

const (
	CompetitionLow        Competition = "Low"
	CompetitionMedium     Competition = "Medium"
	CompetitionMediumHigh Competition = "Medium-High"
	CompetitionHigh       Competition = "High"
)

type Intent string

const (
	IntentHighIntent     Intent = "High-intent"
	IntentServiceSeeking Intent = "Service-seeking"
	IntentLocalQualified Intent = "Local-qualified"
	IntentBrandProduct   Intent = "Brand/product"
	IntentAwareness      Intent = "Broad/awareness"
)

type KeywordResult struct {
	Keyword          string      `json:"keyword"`
	Volume           int64       `json:"volume"`
	CompetitionIndex float64     `json:"competition_index"`
	Competition      Competition `json:"competition"`
	CPC              float64     `json:"cpc"`
	Intent           Intent      `json:"intent"`
}

// KeywordData is the research snapshot attached to a proposal.
type KeywordData struct {
	Industry     Industry        `json:"industry"`
	City         string          `json:"city"`
	Service      string          `json:"service,omitempty"`
	Seeds        []string        `json:"seeds"`
	Keywords     []KeywordResult `json:"keywords"`
	TotalVolume  int64           `json:"total_volume"`
	ResearchedAt time.Time       `json:"researched_at"`
}
