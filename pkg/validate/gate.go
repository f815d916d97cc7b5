// Package validate runs conformance gates over parsed content plans.
//
// Gates never modify the records they inspect. Each gate scores a handful of
// metrics between 0 and 1 and compares them against thresholds; the pipeline
// collects the results into a GateReport.
package validate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/coolbeans/contentplan/pkg/extract"
	"github.com/coolbeans/contentplan/pkg/types"
)

// Gate names.
const (
	GatePieces     = "pieces"
	GateFields     = "fields"
	GateIDs        = "ids"
	GateStrategies = "strategies"
)

// ValidationGate is one checkpoint over a parsed content plan.
type ValidationGate interface {
	// Name returns the unique identifier for this gate (e.g., "pieces").
	Name() string

	// Run executes the gate's validation logic against the provided context.
	Run(ctx *ValidationContext) *GateResult

	// Thresholds returns the default thresholds for this gate's metrics.
	// Keys are metric names, values are minimum acceptable scores (0.0-1.0).
	Thresholds() map[string]float64
}

// ValidationContext carries the records available to the gates. Any field
// may be nil; gates score missing records as zero.
type ValidationContext struct {
	// Calendar is the assembled calendar.
	Calendar *types.CalendarResult

	// Extraction holds the tier and skipped blocks of the piece parse.
	Extraction *extract.PieceExtraction

	// Strategies is the parsed strategy list.
	Strategies []types.ContentStrategy

	// Recommendation is the parsed recommendation section, if any.
	Recommendation *types.Recommendation

	// Config holds user-provided thresholds and behavior flags.
	Config *ValidationConfig
}

// ValidationConfig holds user-configurable settings for gate execution.
type ValidationConfig struct {
	// Thresholds overrides per-gate metric thresholds.
	// Key format: "GateName.MetricName" (e.g., "pieces.piece_coverage").
	Thresholds map[string]float64

	// SkipGates lists gate names to skip entirely (e.g., ["strategies"]).
	SkipGates []string

	// StrictMode causes the pipeline to halt on gate failure.
	StrictMode bool

	// FailOnWarn causes the pipeline to halt on any warning.
	FailOnWarn bool

	// ExpectedPieces is the number of content pieces a full calendar holds.
	ExpectedPieces int

	// ExpectedStrategies is the number of strategies a full document holds.
	ExpectedStrategies int
}

// Default plan sizes.
const (
	DefaultExpectedPieces     = 20
	DefaultExpectedStrategies = 5
)

// DefaultValidationConfig returns a config with no overrides and default behavior.
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		Thresholds:         make(map[string]float64),
		SkipGates:          make([]string, 0),
		ExpectedPieces:     DefaultExpectedPieces,
		ExpectedStrategies: DefaultExpectedStrategies,
	}
}

// GateResult captures the outcome of a single gate execution.
type GateResult struct {
	Gate       string             `json:"gate"`
	Passed     bool               `json:"passed"`
	Score      float64            `json:"score"`
	Metrics    map[string]float64 `json:"metrics"`
	Warnings   []GateWarning      `json:"warnings,omitempty"`
	Errors     []GateError        `json:"errors,omitempty"`
	Duration   time.Duration      `json:"duration"`
	Skipped    bool               `json:"skipped,omitempty"`
	SkipReason string             `json:"skip_reason,omitempty"`
}

// GateWarning represents a non-fatal issue detected by a gate.
type GateWarning struct {
	Metric  string  `json:"metric"`
	Message string  `json:"message"`
	Value   float64 `json:"value,omitempty"`
}

// GateError represents a fatal issue detected by a gate.
type GateError struct {
	Metric  string  `json:"metric"`
	Message string  `json:"message"`
	Value   float64 `json:"value,omitempty"`
}

// MetricNames returns the result's metric names in sorted order.
func (gateResult *GateResult) MetricNames() []string {
	metricNames := make([]string, 0, len(gateResult.Metrics))
	for metricName := range gateResult.Metrics {
		metricNames = append(metricNames, metricName)
	}
	sort.Strings(metricNames)
	return metricNames
}

func newGateResult(gateName string) *GateResult {
	return &GateResult{
		Gate:     gateName,
		Metrics:  make(map[string]float64),
		Warnings: make([]GateWarning, 0),
		Errors:   make([]GateError, 0),
	}
}

func (gateResult *GateResult) warn(metricName, format string, args ...interface{}) {
	gateResult.Warnings = append(gateResult.Warnings, GateWarning{
		Metric:  metricName,
		Message: fmt.Sprintf(format, args...),
	})
}

// GateReport aggregates results from all gates in a pipeline run.
type GateReport struct {
	Results      []*GateResult `json:"results"`
	OverallPass  bool          `json:"overall_pass"`
	TotalScore   float64       `json:"total_score"`
	GatesPassed  int           `json:"gates_passed"`
	GatesFailed  int           `json:"gates_failed"`
	GatesSkipped int           `json:"gates_skipped"`
	Duration     time.Duration `json:"duration"`
	HaltedAt     string        `json:"halted_at,omitempty"`
}

// Result returns the result of the named gate, or nil.
func (gateReport *GateReport) Result(gateName string) *GateResult {
	for _, gateResult := range gateReport.Results {
		if gateResult.Gate == gateName {
			return gateResult
		}
	}
	return nil
}

// WarningCount returns the number of warnings across all gates.
func (gateReport *GateReport) WarningCount() int {
	warningCount := 0
	for _, gateResult := range gateReport.Results {
		warningCount += len(gateResult.Warnings)
	}
	return warningCount
}

// GatePipeline executes validation gates in sequence and collects results.
type GatePipeline struct {
	gates  []ValidationGate
	config *ValidationConfig
}

// NewGatePipeline creates a pipeline with the given configuration.
func NewGatePipeline(config *ValidationConfig) *GatePipeline {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &GatePipeline{
		gates:  make([]ValidationGate, 0),
		config: config,
	}
}

// RegisterGate adds a gate to the pipeline. Gates execute in registration order.
func (gatePipeline *GatePipeline) RegisterGate(gate ValidationGate) {
	gatePipeline.gates = append(gatePipeline.gates, gate)
}

// RegisterDefaultGates registers the four standard gates.
func (gatePipeline *GatePipeline) RegisterDefaultGates() {
	gatePipeline.RegisterGate(NewPieceGate())
	gatePipeline.RegisterGate(NewFieldGate())
	gatePipeline.RegisterGate(NewIDGate())
	gatePipeline.RegisterGate(NewStrategyGate())
}

// Run executes all registered gates in order against the provided context.
// If StrictMode is set in config, the pipeline halts on the first gate failure.
// If FailOnWarn is set, the pipeline halts on any warning.
// Gates listed in SkipGates are skipped with a recorded skip result.
func (gatePipeline *GatePipeline) Run(ctx *ValidationContext) *GateReport {
	pipelineStartTime := time.Now()

	if ctx == nil {
		ctx = &ValidationContext{}
	}
	if ctx.Config == nil {
		ctx.Config = gatePipeline.config
	}

	gateReport := &GateReport{
		Results:     make([]*GateResult, 0, len(gatePipeline.gates)),
		OverallPass: true,
	}

	for _, gate := range gatePipeline.gates {
		if gatePipeline.isGateSkipped(gate.Name()) {
			skipResult := &GateResult{
				Gate:       gate.Name(),
				Skipped:    true,
				SkipReason: "skipped by configuration",
				Metrics:    make(map[string]float64),
			}
			gateReport.Results = append(gateReport.Results, skipResult)
			gateReport.GatesSkipped++
			continue
		}

		gateResult := gate.Run(ctx)
		gateReport.Results = append(gateReport.Results, gateResult)

		if gateResult.Passed {
			gateReport.GatesPassed++
		} else {
			gateReport.GatesFailed++
			gateReport.OverallPass = false

			if gatePipeline.config.StrictMode {
				gateReport.HaltedAt = gate.Name()
				break
			}
		}

		if gatePipeline.config.FailOnWarn && len(gateResult.Warnings) > 0 {
			gateReport.OverallPass = false
			gateReport.HaltedAt = gate.Name()
			break
		}
	}

	// Calculate total score from non-skipped gates.
	scoredGateCount := 0
	totalScore := 0.0
	for _, gateResult := range gateReport.Results {
		if !gateResult.Skipped {
			totalScore += gateResult.Score
			scoredGateCount++
		}
	}
	if scoredGateCount > 0 {
		gateReport.TotalScore = totalScore / float64(scoredGateCount)
	}

	gateReport.Duration = time.Since(pipelineStartTime)
	return gateReport
}

// RunGate executes a single named gate.
// Returns nil if the gate is not found.
func (gatePipeline *GatePipeline) RunGate(gateName string, ctx *ValidationContext) *GateResult {
	if gatePipeline.isGateSkipped(gateName) {
		return &GateResult{
			Gate:       gateName,
			Skipped:    true,
			SkipReason: "skipped by configuration",
			Metrics:    make(map[string]float64),
		}
	}

	if ctx.Config == nil {
		ctx.Config = gatePipeline.config
	}
	for _, gate := range gatePipeline.gates {
		if gate.Name() == gateName {
			return gate.Run(ctx)
		}
	}

	return nil
}

// Validate runs the default gates with config over ctx.
func Validate(ctx *ValidationContext, config *ValidationConfig) *GateReport {
	gatePipeline := NewGatePipeline(config)
	gatePipeline.RegisterDefaultGates()
	return gatePipeline.Run(ctx)
}

// isGateSkipped checks if a gate should be skipped per configuration.
func (gatePipeline *GatePipeline) isGateSkipped(gateName string) bool {
	for _, skipName := range gatePipeline.config.SkipGates {
		if strings.EqualFold(skipName, gateName) {
			return true
		}
	}
	return false
}

// effectiveThreshold returns the threshold for a metric, checking config overrides
// first, then falling back to the gate's default thresholds.
func effectiveThreshold(config *ValidationConfig, gate ValidationGate, metricName string) float64 {
	if config != nil && config.Thresholds != nil {
		configKey := gate.Name() + "." + metricName
		if threshold, exists := config.Thresholds[configKey]; exists {
			return threshold
		}
	}
	defaults := gate.Thresholds()
	if threshold, exists := defaults[metricName]; exists {
		return threshold
	}
	return 0.80
}

// evaluateMetrics computes the gate score and appends errors for metrics
// below threshold and warnings for imperfect metrics within 10% of it.
func evaluateMetrics(gateResult *GateResult, config *ValidationConfig, gate ValidationGate) {
	metricCount := len(gateResult.Metrics)
	if metricCount == 0 {
		gateResult.Score = 1.0
		gateResult.Passed = true
		return
	}

	totalScore := 0.0
	allPassed := true

	for _, metricName := range gateResult.MetricNames() {
		metricValue := gateResult.Metrics[metricName]
		threshold := effectiveThreshold(config, gate, metricName)
		totalScore += metricValue

		if metricValue < threshold {
			allPassed = false
			gateResult.Errors = append(gateResult.Errors, GateError{
				Metric:  metricName,
				Message: fmt.Sprintf("%s (%.1f%%) below threshold (%.1f%%)", metricName, metricValue*100, threshold*100),
				Value:   metricValue,
			})
		} else if metricValue < 1.0 && metricValue < threshold*1.1 {
			gateResult.Warnings = append(gateResult.Warnings, GateWarning{
				Metric:  metricName,
				Message: fmt.Sprintf("%s (%.1f%%) close to threshold (%.1f%%)", metricName, metricValue*100, threshold*100),
				Value:   metricValue,
			})
		}
	}

	gateResult.Score = totalScore / float64(metricCount)
	gateResult.Passed = allPassed
}

func finish(gateResult *GateResult, ctx *ValidationContext, gate ValidationGate, startTime time.Time) *GateResult {
	evaluateMetrics(gateResult, ctx.Config, gate)
	gateResult.Duration = time.Since(startTime)
	return gateResult
}

func ratio(part, whole int) float64 {
	if whole <= 0 {
		return 0.0
	}
	if part >= whole {
		return 1.0
	}
	return float64(part) / float64(whole)
}

func expectedPieces(config *ValidationConfig) int {
	if config == nil || config.ExpectedPieces <= 0 {
		return DefaultExpectedPieces
	}
	return config.ExpectedPieces
}

func expectedStrategies(config *ValidationConfig) int {
	if config == nil || config.ExpectedStrategies <= 0 {
		return DefaultExpectedStrategies
	}
	return config.ExpectedStrategies
}
