// Package analysis finds wasted motion in move sequences.
package analysis

import (
	"strings"

	"github.com/SeamusWaldron/cubeanim/internal/registry"
)

// Cancellation represents an immediate move cancellation (e.g., R followed by R').
type Cancellation struct {
	Index1 int    `json:"index1"`
	Index2 int    `json:"index2"`
	Move1  string `json:"move1"`
	Move2  string `json:"move2"`
}

// MergeOpportunity represents adjacent same-layer moves that could be merged.
type MergeOpportunity struct {
	Index1     int    `json:"index1"`
	Index2     int    `json:"index2"`
	Move1      string `json:"move1"`
	Move2      string `json:"move2"`
	MergedMove string `json:"merged_move"`
}

// BackAndForthPattern represents alternating moves (e.g., R U R U R U).
type BackAndForthPattern struct {
	StartIndex int      `json:"start_index"`
	EndIndex   int      `json:"end_index"`
	Pattern    []string `json:"pattern"`
	Count      int      `json:"count"`
}

// RepetitionReport contains all repetition analysis results.
type RepetitionReport struct {
	ImmediateCancellations []Cancellation        `json:"immediate_cancellations"`
	MergeOpportunities     []MergeOpportunity    `json:"merge_opportunities"`
	BackAndForthPatterns   []BackAndForthPattern `json:"back_and_forth_patterns"`
	TotalWastedMoves       int                   `json:"total_wasted_moves"`
}

// layer returns the clockwise code of the layer an instance turns.
func layer(inst registry.Instance) string {
	return strings.TrimSuffix(inst.Code(), "'")
}

// quarterTurns returns the clockwise quarter turns an instance makes, mod 4.
func quarterTurns(inst registry.Instance) int {
	n := inst.Repetitions % 4
	if strings.HasSuffix(inst.Code(), "'") {
		n = 4 - n
	}
	return n % 4
}

// merge combines two instances of the same layer. ok is false when they
// cancel out.
func merge(a, b registry.Instance) (merged registry.Instance, ok bool) {
	switch (quarterTurns(a) + quarterTurns(b)) % 4 {
	case 1:
		return registry.MustLookup(layer(a), 1), true
	case 2:
		return registry.MustLookup(layer(a), 2), true
	case 3:
		return registry.MustLookup(layer(a)+"'", 1), true
	}
	return registry.Instance{}, false
}

// AnalyzeRepetitions analyzes a move sequence for repetitions and wasted motion.
func AnalyzeRepetitions(moves []registry.Instance) *RepetitionReport {
	report := &RepetitionReport{
		ImmediateCancellations: []Cancellation{},
		MergeOpportunities:     []MergeOpportunity{},
		BackAndForthPatterns:   []BackAndForthPattern{},
	}

	for i := 0; i+1 < len(moves); i++ {
		m1, m2 := moves[i], moves[i+1]
		if layer(m1) != layer(m2) {
			continue
		}

		merged, ok := merge(m1, m2)
		if !ok {
			report.ImmediateCancellations = append(report.ImmediateCancellations, Cancellation{
				Index1: i,
				Index2: i + 1,
				Move1:  m1.Notation(),
				Move2:  m2.Notation(),
			})
			report.TotalWastedMoves += 2
			continue
		}

		report.MergeOpportunities = append(report.MergeOpportunities, MergeOpportunity{
			Index1:     i,
			Index2:     i + 1,
			Move1:      m1.Notation(),
			Move2:      m2.Notation(),
			MergedMove: merged.Notation(),
		})
		report.TotalWastedMoves++
	}

	report.BackAndForthPatterns = findBackAndForth(moves)
	return report
}

// findBackAndForth finds alternating move patterns like R U R U R U.
func findBackAndForth(moves []registry.Instance) []BackAndForthPattern {
	patterns := []BackAndForthPattern{}

	i := 0
	for i+3 < len(moves) {
		a, b := moves[i], moves[i+1]

		count := 1
		j := i + 2
		for j+1 < len(moves) && moves[j].Notation() == a.Notation() && moves[j+1].Notation() == b.Notation() {
			count++
			j += 2
		}

		// At least 3 repetitions to be noteworthy
		if count >= 3 {
			patterns = append(patterns, BackAndForthPattern{
				StartIndex: i,
				EndIndex:   i + count*2 - 1,
				Pattern:    []string{a.Notation(), b.Notation()},
				Count:      count,
			})
			i = j
		} else {
			i++
		}
	}

	return patterns
}

// OptimizeMoves returns the sequence with cancellations and merges applied
// until no adjacent pair turns the same layer.
func OptimizeMoves(moves []registry.Instance) []registry.Instance {
	result := make([]registry.Instance, 0, len(moves))

	for _, move := range moves {
		if n := len(result); n > 0 && layer(result[n-1]) == layer(move) {
			if merged, ok := merge(result[n-1], move); ok {
				result[n-1] = merged
			} else {
				result = result[:n-1]
			}
			continue
		}
		if quarterTurns(move) == 0 {
			continue
		}
		result = append(result, move)
	}

	return result
}

// CalculateEfficiency calculates the efficiency ratio (optimized/original).
func CalculateEfficiency(original, optimized []registry.Instance) float64 {
	if len(original) == 0 {
		return 1.0
	}
	return float64(len(optimized)) / float64(len(original))
}
