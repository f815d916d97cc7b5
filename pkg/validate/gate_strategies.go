package validate

import (
	"time"

	"github.com/coolbeans/contentplan/pkg/types"
)

// StrategyGate validates the strategy list and the recommendation that
// closes it.
type StrategyGate struct{}

// NewStrategyGate creates a new strategy gate.
func NewStrategyGate() *StrategyGate {
	return &StrategyGate{}
}

// Name returns "strategies".
func (strategyGate *StrategyGate) Name() string { return GateStrategies }

// Thresholds returns the default thresholds for strategy metrics.
func (strategyGate *StrategyGate) Thresholds() map[string]float64 {
	return map[string]float64{
		"strategy_count":        1.0,
		"distinct_numbers":      1.0,
		"strategy_completeness": 0.60,
		"recommendation_valid":  1.0,
	}
}

// strategyParts reports which parts of a strategy were recovered.
func strategyParts(strategy types.ContentStrategy) []bool {
	return []bool{
		strategy.Name != "",
		strategy.CoreApproach != "",
		len(strategy.ContentPillars) > 0,
		len(strategy.Top5Ideas) > 0,
		len(strategy.Pros) > 0,
		len(strategy.Cons) > 0,
	}
}

// Run scores the strategy count, number uniqueness, per-strategy
// completeness and, when present, whether the recommendation names a parsed
// strategy.
func (strategyGate *StrategyGate) Run(ctx *ValidationContext) *GateResult {
	startTime := time.Now()
	gateResult := newGateResult(strategyGate.Name())

	strategyCount := len(ctx.Strategies)
	wantStrategies := expectedStrategies(ctx.Config)
	gateResult.Metrics["strategy_count"] = ratio(strategyCount, wantStrategies)
	if strategyCount > wantStrategies {
		gateResult.warn("strategy_count", "document has %d strategies, expected %d", strategyCount, wantStrategies)
	}

	if strategyCount == 0 {
		gateResult.Metrics["distinct_numbers"] = 0.0
		gateResult.Metrics["strategy_completeness"] = 0.0
		return finish(gateResult, ctx, strategyGate, startTime)
	}

	seenNumbers := make(map[int]bool)
	completenessTotal := 0.0
	for _, strategy := range ctx.Strategies {
		if seenNumbers[strategy.StrategyNumber] {
			gateResult.warn("distinct_numbers", "strategy %d appears more than once", strategy.StrategyNumber)
		}
		seenNumbers[strategy.StrategyNumber] = true

		parts := strategyParts(strategy)
		presentParts := 0
		for _, present := range parts {
			if present {
				presentParts++
			}
		}
		completenessTotal += float64(presentParts) / float64(len(parts))
	}
	gateResult.Metrics["distinct_numbers"] = ratio(len(seenNumbers), strategyCount)
	gateResult.Metrics["strategy_completeness"] = completenessTotal / float64(strategyCount)

	if ctx.Recommendation == nil {
		gateResult.warn("recommendation_valid", "document has no recommendation section")
	} else if seenNumbers[ctx.Recommendation.RecommendedStrategy] {
		gateResult.Metrics["recommendation_valid"] = 1.0
	} else {
		gateResult.Metrics["recommendation_valid"] = 0.0
	}

	return finish(gateResult, ctx, strategyGate, startTime)
}
