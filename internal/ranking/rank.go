// Package ranking orders candidates by a weighted composite of their match
// scores. Ranking is presentation-only: batch order, not rank, drives slot
// allocation.
package ranking

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ybekenov/hire-funnel/internal/candidate"
)

// ErrInvalidWeight is returned when a ranking weight is negative.
var ErrInvalidWeight = errors.New("ranking weights must be non-negative")

// Weights holds the per-field multipliers. They are not required to sum to 1.
type Weights struct {
	Skills     float64
	Experience float64
	Overall    float64
}

// DefaultWeights favors skills match over experience and overall fit.
var DefaultWeights = Weights{Skills: 0.4, Experience: 0.3, Overall: 0.3}

// Ranked pairs an assessment with its weighted composite score.
type Ranked struct {
	Assessment    *candidate.Assessment
	WeightedScore float64
}

// Rank computes weighted scores and returns the assessments in descending
// score order. The sort is stable: ties keep their input order.
func Rank(assessments []*candidate.Assessment, weights Weights) ([]Ranked, error) {
	if weights.Skills < 0 || weights.Experience < 0 || weights.Overall < 0 {
		return nil, fmt.Errorf("%w: got skills=%v experience=%v overall=%v",
			ErrInvalidWeight, weights.Skills, weights.Experience, weights.Overall)
	}

	ranked := make([]Ranked, 0, len(assessments))
	for _, a := range assessments {
		score := weights.Skills*float64(a.SkillsMatch) +
			weights.Experience*float64(a.ExperienceMatch) +
			weights.Overall*float64(a.OverallScore)
		ranked = append(ranked, Ranked{Assessment: a, WeightedScore: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].WeightedScore > ranked[j].WeightedScore
	})

	return ranked, nil
}
