package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybekenov/hire-funnel/internal/candidate"
)

func TestRankOrdersByWeightedScore(t *testing.T) {
	low := &candidate.Assessment{ID: "low", SkillsMatch: 30, ExperienceMatch: 40, OverallScore: 35}
	high := &candidate.Assessment{ID: "high", SkillsMatch: 90, ExperienceMatch: 80, OverallScore: 85}

	ranked, err := Rank([]*candidate.Assessment{low, high}, DefaultWeights)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "high", ranked[0].Assessment.ID)
	assert.Equal(t, "low", ranked[1].Assessment.ID)
	assert.InDelta(t, 0.4*90+0.3*80+0.3*85, ranked[0].WeightedScore, 1e-9)
}

func TestRankIsStableOnTies(t *testing.T) {
	first := &candidate.Assessment{ID: "first", SkillsMatch: 50, ExperienceMatch: 50, OverallScore: 50}
	second := &candidate.Assessment{ID: "second", SkillsMatch: 50, ExperienceMatch: 50, OverallScore: 50}
	third := &candidate.Assessment{ID: "third", SkillsMatch: 50, ExperienceMatch: 50, OverallScore: 50}

	ranked, err := Rank([]*candidate.Assessment{first, second, third}, DefaultWeights)
	require.NoError(t, err)

	assert.Equal(t, "first", ranked[0].Assessment.ID)
	assert.Equal(t, "second", ranked[1].Assessment.ID)
	assert.Equal(t, "third", ranked[2].Assessment.ID)
}

func TestRankRejectsNegativeWeights(t *testing.T) {
	_, err := Rank(nil, Weights{Skills: -0.1, Experience: 0.3, Overall: 0.3})
	require.ErrorIs(t, err, ErrInvalidWeight)
}

func TestRankWeightsNeedNotSumToOne(t *testing.T) {
	a := &candidate.Assessment{ID: "a", SkillsMatch: 100}
	ranked, err := Rank([]*candidate.Assessment{a}, Weights{Skills: 2})
	require.NoError(t, err)
	assert.InDelta(t, 200.0, ranked[0].WeightedScore, 1e-9)
}
