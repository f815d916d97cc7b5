package validate

import (
	"time"
)

// IDGate validates content ids, effort and engagement levels, and the
// quick-win references into the piece list. Duplicate and out-of-range ids
// are reported as warnings; the parser keeps them as written.
type IDGate struct{}

// NewIDGate creates a new identity gate.
func NewIDGate() *IDGate {
	return &IDGate{}
}

// Name returns "ids".
func (idGate *IDGate) Name() string { return GateIDs }

// Thresholds returns the default thresholds for identity metrics.
// unique_ids is informational: duplicates only warn.
func (idGate *IDGate) Thresholds() map[string]float64 {
	return map[string]float64{
		"unique_ids":     0.0,
		"level_validity": 1.0,
		"quick_win_refs": 0.80,
	}
}

// Run scores id uniqueness, level validity and quick-win resolution.
func (idGate *IDGate) Run(ctx *ValidationContext) *GateResult {
	startTime := time.Now()
	gateResult := newGateResult(idGate.Name())

	if ctx.Calendar == nil || len(ctx.Calendar.ContentPieces) == 0 {
		return finish(gateResult, ctx, idGate, startTime)
	}

	calendar := ctx.Calendar
	wantPieces := expectedPieces(ctx.Config)

	idCounts := make(map[int]int)
	var idOrder []int
	validLevels := 0
	for _, piece := range calendar.ContentPieces {
		if idCounts[piece.ContentID] == 0 {
			idOrder = append(idOrder, piece.ContentID)
		}
		idCounts[piece.ContentID]++

		if piece.EffortLevel.IsValid() && piece.EngagementPotential.IsValid() {
			validLevels++
		} else {
			gateResult.warn("level_validity", "content #%d has levels %q/%q",
				piece.ContentID, piece.EffortLevel, piece.EngagementPotential)
		}
	}

	for _, contentID := range idOrder {
		if idCounts[contentID] > 1 {
			gateResult.warn("unique_ids", "content #%d appears %d times", contentID, idCounts[contentID])
		}
		if contentID > wantPieces {
			gateResult.warn("unique_ids", "content #%d is beyond the expected %d pieces", contentID, wantPieces)
		}
	}

	pieceCount := len(calendar.ContentPieces)
	gateResult.Metrics["unique_ids"] = ratio(len(idOrder), pieceCount)
	gateResult.Metrics["level_validity"] = ratio(validLevels, pieceCount)

	quickWinIDs := calendar.QuickWinIDs()
	if len(quickWinIDs) > 0 {
		resolvedRefs := 0
		for _, contentID := range quickWinIDs {
			if idCounts[contentID] > 0 {
				resolvedRefs++
			} else {
				gateResult.warn("quick_win_refs", "quick win references missing content #%d", contentID)
			}
		}
		gateResult.Metrics["quick_win_refs"] = ratio(resolvedRefs, len(quickWinIDs))
	}

	return finish(gateResult, ctx, idGate, startTime)
}
