package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybekenov/hire-funnel/internal/candidate"
)

func newGatedEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultThresholds, PolicyRecommendationGated)
	require.NoError(t, err)
	return engine
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(Thresholds{Approve: 120, Consider: 40}, "")
	assert.Error(t, err)

	_, err = NewEngine(Thresholds{Approve: 50, Consider: -1}, "")
	assert.Error(t, err)

	_, err = NewEngine(Thresholds{Approve: 40, Consider: 50}, "")
	assert.Error(t, err)

	_, err = NewEngine(DefaultThresholds, Policy("whatever"))
	assert.Error(t, err)

	engine, err := NewEngine(DefaultThresholds, "")
	require.NoError(t, err)
	assert.Equal(t, PolicyRecommendationGated, engine.Policy())
}

func TestDecideApprovesAboveThreshold(t *testing.T) {
	engine := newGatedEngine(t)

	for _, rec := range []candidate.Recommendation{candidate.StrongHire, candidate.PotentialHire} {
		for _, score := range []int{50, 72, 100} {
			d := engine.Decide(&candidate.Assessment{OverallScore: score, Recommendation: rec})
			assert.Equal(t, StatusApproved, d.Status, "score %d rec %s", score, rec)
			assert.True(t, d.NeedsInterview)
			assert.NotEmpty(t, d.Reason)
		}
	}
}

func TestDecidePendingNearThreshold(t *testing.T) {
	engine := newGatedEngine(t)

	d := engine.Decide(&candidate.Assessment{OverallScore: 45, Recommendation: candidate.PotentialHire})
	assert.Equal(t, StatusPending, d.Status)
	assert.False(t, d.NeedsInterview)
	assert.Contains(t, d.Reason, "Manual review")
}

func TestDecideRejects(t *testing.T) {
	engine := newGatedEngine(t)

	// Below the consider threshold.
	d := engine.Decide(&candidate.Assessment{OverallScore: 20, Recommendation: candidate.PotentialHire})
	assert.Equal(t, StatusRejected, d.Status)
	assert.False(t, d.NeedsInterview)

	// Explicit Reject recommendation wins regardless of score band.
	d = engine.Decide(&candidate.Assessment{OverallScore: 45, Recommendation: candidate.Reject})
	assert.Equal(t, StatusRejected, d.Status)

	// High score but a non-hiring recommendation does not auto-approve.
	d = engine.Decide(&candidate.Assessment{OverallScore: 80, Recommendation: candidate.ConsiderOtherRole})
	assert.Equal(t, StatusRejected, d.Status)
}

func TestScoreOnlyPolicyNeverRejects(t *testing.T) {
	engine, err := NewEngine(DefaultThresholds, PolicyScoreOnly)
	require.NoError(t, err)

	d := engine.Decide(&candidate.Assessment{OverallScore: 72, Recommendation: candidate.Reject})
	assert.Equal(t, StatusApproved, d.Status)
	assert.True(t, d.NeedsInterview)

	d = engine.Decide(&candidate.Assessment{OverallScore: 10, Recommendation: candidate.Reject})
	assert.Equal(t, StatusPending, d.Status)
	assert.False(t, d.NeedsInterview)
}

func TestOverrideLatch(t *testing.T) {
	engine := newGatedEngine(t)
	a := &candidate.Assessment{OverallScore: 20, Recommendation: candidate.Reject}

	d := engine.Decide(a)
	require.Equal(t, StatusRejected, d.Status)

	forced := Override(StatusApproved, "Manually approved after phone screen")
	assert.Equal(t, StatusApproved, forced.Status)
	assert.True(t, forced.NeedsInterview)
	assert.True(t, forced.Overridden)

	// A later automatic re-decision must not revert the override.
	again := engine.Redecide(a, forced)
	assert.Equal(t, forced, again)

	// Without an override, re-deciding is just deciding.
	assert.Equal(t, d, engine.Redecide(a, d))
}
