package types

// ContentStrategy is one named approach to content marketing.
// StrategyNumber is taken verbatim from the source text and may repeat or skip.
type ContentStrategy struct {
	StrategyNumber   int             `json:"strategy_number" yaml:"strategy_number"`
	Name             string          `json:"name" yaml:"name"`
	Tagline          string          `json:"tagline" yaml:"tagline"`
	CoreApproach     string          `json:"core_approach" yaml:"core_approach"`
	ContentPillars   []ContentPillar `json:"content_pillars" yaml:"content_pillars"`
	PostingFrequency string          `json:"posting_frequency" yaml:"posting_frequency"`
	ContentMix       string          `json:"content_mix" yaml:"content_mix"`
	Top5Ideas        []string        `json:"top_5_ideas" yaml:"top_5_ideas"`
	Effort           string          `json:"effort" yaml:"effort"`
	ExpectedResults  string          `json:"expected_results" yaml:"expected_results"`
	Pros             []string        `json:"pros" yaml:"pros"`
	Cons             []string        `json:"cons" yaml:"cons"`
}

// NewContentStrategy returns a strategy with empty, non-nil collections.
func NewContentStrategy(number int) ContentStrategy {
	return ContentStrategy{
		StrategyNumber: number,
		ContentPillars: []ContentPillar{},
		Top5Ideas:      []string{},
		Pros:           []string{},
		Cons:           []string{},
	}
}

// Recommendation is the closing section of a strategies document naming the
// preferred strategy.
type Recommendation struct {
	RecommendedStrategy int      `json:"recommended_strategy" yaml:"recommended_strategy"`
	Reasoning           string   `json:"reasoning" yaml:"reasoning"`
	Week1Actions        []string `json:"week_1_actions" yaml:"week_1_actions"`
}
