package validate

import (
	"reflect"
	"time"

	"github.com/coolbeans/contentplan/pkg/types"
)

// FieldGate validates how much of each content piece the parser recovered.
type FieldGate struct{}

// NewFieldGate creates a new field completeness gate.
func NewFieldGate() *FieldGate {
	return &FieldGate{}
}

// Name returns "fields".
func (fieldGate *FieldGate) Name() string { return GateFields }

// Thresholds returns the default thresholds for field metrics.
func (fieldGate *FieldGate) Thresholds() map[string]float64 {
	return map[string]float64{
		"field_completeness": 0.50,
		"title_coverage":     0.50,
	}
}

// pieceFields returns the descriptive fields counted for completeness.
func pieceFields(piece types.ContentPiece) []string {
	return []string{
		piece.SuggestedDate,
		piece.Channel,
		piece.Format,
		piece.Pillar,
		piece.KeyMessage,
		piece.Description,
		piece.CallToAction,
	}
}

// Run scores the average fraction of filled descriptive fields and the
// fraction of pieces carrying a real title. A missing executive summary and
// fallback pillars are reported as warnings.
func (fieldGate *FieldGate) Run(ctx *ValidationContext) *GateResult {
	startTime := time.Now()
	gateResult := newGateResult(fieldGate.Name())

	if ctx.Calendar == nil || len(ctx.Calendar.ContentPieces) == 0 {
		gateResult.Metrics["field_completeness"] = 0.0
		gateResult.Metrics["title_coverage"] = 0.0
		return finish(gateResult, ctx, fieldGate, startTime)
	}

	calendar := ctx.Calendar
	completenessTotal := 0.0
	titledPieces := 0
	for _, piece := range calendar.ContentPieces {
		fields := pieceFields(piece)
		filledFields := 0
		for _, value := range fields {
			if value != "" {
				filledFields++
			}
		}
		completenessTotal += float64(filledFields) / float64(len(fields))

		if piece.Title != "" && piece.Title != types.DefaultTitle(piece.ContentID) {
			titledPieces++
		}
	}

	pieceCount := len(calendar.ContentPieces)
	gateResult.Metrics["field_completeness"] = completenessTotal / float64(pieceCount)
	gateResult.Metrics["title_coverage"] = ratio(titledPieces, pieceCount)

	if calendar.ExecutiveSummary == "" {
		gateResult.warn("executive_summary", "calendar has no executive summary")
	}
	if reflect.DeepEqual(calendar.Pillars.Entries(), types.DefaultPillars().Entries()) {
		gateResult.warn("pillars", "calendar defines no pillars; default pillars in use")
	}

	return finish(gateResult, ctx, fieldGate, startTime)
}
