package validate

import (
	"time"

	"github.com/coolbeans/contentplan/pkg/extract"
)

// PieceGate validates that the calendar holds the expected number of pieces
// and that they came from structured blocks.
type PieceGate struct{}

// NewPieceGate creates a new piece coverage gate.
func NewPieceGate() *PieceGate {
	return &PieceGate{}
}

// Name returns "pieces".
func (pieceGate *PieceGate) Name() string { return GatePieces }

// Thresholds returns the default thresholds for piece metrics.
func (pieceGate *PieceGate) Thresholds() map[string]float64 {
	return map[string]float64{
		"piece_coverage":  0.75,
		"structured_tier": 0.50,
	}
}

// Run scores piece coverage against the expected count. When the
// extraction is available it also scores the tier that produced the pieces
// and reports every skipped block as a warning.
func (pieceGate *PieceGate) Run(ctx *ValidationContext) *GateResult {
	startTime := time.Now()
	gateResult := newGateResult(pieceGate.Name())

	if ctx.Calendar == nil {
		gateResult.Metrics["piece_coverage"] = 0.0
		return finish(gateResult, ctx, pieceGate, startTime)
	}

	pieceCount := len(ctx.Calendar.ContentPieces)
	wantPieces := expectedPieces(ctx.Config)
	gateResult.Metrics["piece_coverage"] = ratio(pieceCount, wantPieces)
	if pieceCount > wantPieces {
		gateResult.warn("piece_coverage", "calendar has %d pieces, expected %d", pieceCount, wantPieces)
	}

	if ctx.Extraction != nil {
		switch ctx.Extraction.Tier {
		case extract.TierStructured:
			gateResult.Metrics["structured_tier"] = 1.0
		case extract.TierNumberedList:
			gateResult.Metrics["structured_tier"] = 0.5
			gateResult.warn("structured_tier", "pieces recovered from a numbered list; only titles are available")
		default:
			gateResult.Metrics["structured_tier"] = 0.0
		}

		for _, skip := range ctx.Extraction.Skipped {
			gateResult.warn("piece_coverage", "skipped block: %s", skip.String())
		}
	}

	return finish(gateResult, ctx, pieceGate, startTime)
}
