// Package backfill pads short content plans with placeholder records so that
// downstream documents always have a full calendar and strategy set.
//
// Backfill is a caller-side step: the parser never invents records.
package backfill

import (
	"fmt"

	"github.com/coolbeans/contentplan/pkg/types"
)

// Options controls placeholder generation.
type Options struct {
	// MinPieces is the number of content pieces to pad up to.
	MinPieces int
	// MinStrategies is the number of strategies to pad up to.
	MinStrategies int
	// Channel is the channel given to placeholder pieces.
	Channel string
	// Month names the calendar month used in placeholder dates.
	Month string
	// Year is appended to placeholder dates when positive.
	Year int
	// Brand is mentioned in placeholder strategy taglines.
	Brand string
}

// DefaultOptions returns the padding used for a standard 20 piece, 5
// strategy plan.
func DefaultOptions() Options {
	return Options{
		MinPieces:     20,
		MinStrategies: 5,
		Channel:       "LinkedIn",
		Month:         "January",
	}
}

// Report counts the placeholders added by a backfill.
type Report struct {
	PiecesAdded     int `json:"pieces_added"`
	StrategiesAdded int `json:"strategies_added"`
}

// Any reports whether anything was added.
func (r Report) Any() bool {
	return r.PiecesAdded > 0 || r.StrategiesAdded > 0
}

// missingIDs returns up to need ids from 1..limit not present in taken,
// in ascending order.
func missingIDs(taken map[int]bool, limit, need int) []int {
	ids := make([]int, 0, need)
	for id := 1; id <= limit && len(ids) < need; id++ {
		if !taken[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// Pieces returns pieces padded with placeholders up to opts.MinPieces and
// the number added. Existing pieces keep their order; placeholders take the
// lowest unused ids and are appended.
func Pieces(pieces []types.ContentPiece, opts Options) ([]types.ContentPiece, int) {
	if len(pieces) >= opts.MinPieces {
		return pieces, 0
	}

	taken := make(map[int]bool, len(pieces))
	for _, piece := range pieces {
		taken[piece.ContentID] = true
	}

	padded := make([]types.ContentPiece, len(pieces), opts.MinPieces)
	copy(padded, pieces)
	for _, id := range missingIDs(taken, opts.MinPieces, opts.MinPieces-len(pieces)) {
		padded = append(padded, placeholderPiece(id, opts))
	}
	return padded, len(padded) - len(pieces)
}

func placeholderPiece(id int, opts Options) types.ContentPiece {
	piece := types.NewContentPiece(id, fmt.Sprintf("Content Piece %d", id))
	piece.SuggestedDate = placeholderDate(id, opts)
	piece.Channel = opts.Channel
	piece.Format = "Text Post"
	piece.Pillar = "Pillar 1"
	piece.Description = "Content description"
	piece.KeyMessage = "Key message"
	piece.CallToAction = "Take action"
	piece.EffortExplanation = "Standard effort"
	piece.EngagementReasoning = "Standard engagement"
	piece.ExecutionNotes = "Execution notes"
	return piece
}

func placeholderDate(id int, opts Options) string {
	if opts.Month == "" {
		return ""
	}
	if opts.Year > 0 {
		return fmt.Sprintf("%s %d, %d", opts.Month, id, opts.Year)
	}
	return fmt.Sprintf("%s %d", opts.Month, id)
}

// Strategies returns strategies padded with placeholders up to
// opts.MinStrategies and the number added. Placeholders take the lowest
// unused strategy numbers and are appended.
func Strategies(strategies []types.ContentStrategy, opts Options) ([]types.ContentStrategy, int) {
	if len(strategies) >= opts.MinStrategies {
		return strategies, 0
	}

	taken := make(map[int]bool, len(strategies))
	for _, strategy := range strategies {
		taken[strategy.StrategyNumber] = true
	}

	padded := make([]types.ContentStrategy, len(strategies), opts.MinStrategies)
	copy(padded, strategies)
	for _, number := range missingIDs(taken, opts.MinStrategies, opts.MinStrategies-len(strategies)) {
		padded = append(padded, placeholderStrategy(number, opts))
	}
	return padded, len(padded) - len(strategies)
}

func placeholderStrategy(number int, opts Options) types.ContentStrategy {
	strategy := types.NewContentStrategy(number)
	strategy.Name = fmt.Sprintf("Strategy %d", number)
	if opts.Brand != "" {
		strategy.Tagline = fmt.Sprintf("Strategy %d approach for %s", number, opts.Brand)
	} else {
		strategy.Tagline = fmt.Sprintf("Strategy %d approach", number)
	}
	strategy.CoreApproach = "Strategic content approach tailored to your brand"
	strategy.ContentPillars = []types.ContentPillar{
		{Name: "Pillar 1", Description: "First content pillar"},
		{Name: "Pillar 2", Description: "Second content pillar"},
		{Name: "Pillar 3", Description: "Third content pillar"},
	}
	for i := 1; i <= 5; i++ {
		strategy.Top5Ideas = append(strategy.Top5Ideas, fmt.Sprintf("Content idea %d", i))
	}
	strategy.Pros = []string{"Effective approach", "Scalable"}
	strategy.Cons = []string{"Requires consistency"}
	return strategy
}

// Plan pads the calendar pieces in place and returns the padded strategies
// together with a report of what was added. calendar may be nil.
func Plan(calendar *types.CalendarResult, strategies []types.ContentStrategy, opts Options) ([]types.ContentStrategy, Report) {
	var report Report
	if calendar != nil {
		calendar.ContentPieces, report.PiecesAdded = Pieces(calendar.ContentPieces, opts)
	}
	strategies, report.StrategiesAdded = Strategies(strategies, opts)
	return strategies, report
}
