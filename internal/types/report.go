package types

import "time"

// AIReportSection is one titled block of the written analysis
type AIReportSection struct {
	Icon    string   `json:"icon"`
	Title   string   `json:"title"`
	Body    string   `json:"body,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

// AIReport is the six-section analysis produced per "generate insights" action
type AIReport struct {
	Sections    []AIReportSection `json:"sections"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Model       string            `json:"model,omitempty"`
	Fallback    bool              `json:"fallback,omitempty"` // static report, not model output
}

// Section titles in the fixed order every report uses
const (
	SectionPerformanceSummary    = "Performance Summary"
	SectionTrendAlignment        = "Trend Alignment"
	SectionPostingOptimization   = "Posting Optimization"
	SectionContentInsights       = "Content Insights"
	SectionTrendingOpportunities = "Trending Opportunities"
	SectionRecommendations       = "Recommendations"
)

// SectionTitles lists the report titles in order.
var SectionTitles = []string{
	SectionPerformanceSummary,
	SectionTrendAlignment,
	SectionPostingOptimization,
	SectionContentInsights,
	SectionTrendingOpportunities,
	SectionRecommendations,
}
