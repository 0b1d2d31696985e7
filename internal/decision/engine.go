package decision

import (
	"fmt"

	"github.com/ybekenov/hire-funnel/internal/candidate"
)

// Status is the lifecycle state of a candidate in the funnel.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Policy selects how automatic decisions are made.
type Policy string

const (
	// PolicyRecommendationGated approves only when both the score clears the
	// threshold and the analysis recommendation supports hiring. Low scores or
	// an explicit Reject recommendation auto-reject.
	PolicyRecommendationGated Policy = "recommendation-gated"

	// PolicyScoreOnly approves on score alone and never auto-rejects;
	// rejection stays a manual action.
	PolicyScoreOnly Policy = "score-only"
)

// Thresholds configures the score cutoffs, both in [0,100] with
// Consider <= Approve.
type Thresholds struct {
	Approve  int
	Consider int
}

// DefaultThresholds matches the observed production configuration.
var DefaultThresholds = Thresholds{Approve: 50, Consider: 40}

// Decision is the verdict for one assessment plus its rationale.
type Decision struct {
	Status         Status
	Reason         string
	NeedsInterview bool

	// Overridden marks a human-issued status change. An overridden decision
	// is never replaced by a later automatic re-decision.
	Overridden bool
}

// Engine derives decisions from assessments under a fixed threshold
// configuration. It is a pure function of its inputs.
type Engine struct {
	thresholds Thresholds
	policy     Policy
}

// NewEngine validates the configuration and returns a decision engine.
func NewEngine(t Thresholds, policy Policy) (*Engine, error) {
	if t.Approve < 0 || t.Approve > 100 {
		return nil, fmt.Errorf("approve threshold %d is out of range [0,100]", t.Approve)
	}
	if t.Consider < 0 || t.Consider > 100 {
		return nil, fmt.Errorf("consider threshold %d is out of range [0,100]", t.Consider)
	}
	if t.Consider > t.Approve {
		return nil, fmt.Errorf("consider threshold %d exceeds approve threshold %d", t.Consider, t.Approve)
	}

	switch policy {
	case "":
		policy = PolicyRecommendationGated
	case PolicyRecommendationGated, PolicyScoreOnly:
	default:
		return nil, fmt.Errorf("unknown decision policy: %s", policy)
	}

	return &Engine{thresholds: t, policy: policy}, nil
}

// Thresholds returns the configured cutoffs.
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// Policy returns the configured auto-approval policy.
func (e *Engine) Policy() Policy { return e.policy }

// Decide derives a decision for the assessment. First matching rule wins.
func (e *Engine) Decide(a *candidate.Assessment) Decision {
	if e.policy == PolicyScoreOnly {
		return e.decideScoreOnly(a)
	}
	return e.decideGated(a)
}

// Redecide re-runs the automatic decision but keeps a manual override intact.
func (e *Engine) Redecide(a *candidate.Assessment, prev Decision) Decision {
	if prev.Overridden {
		return prev
	}
	return e.Decide(a)
}

// Override applies a human-issued status change. It is accepted
// unconditionally and latches the decision against automatic re-derivation.
func Override(status Status, reason string) Decision {
	return Decision{
		Status:         status,
		Reason:         reason,
		NeedsInterview: status == StatusApproved,
		Overridden:     true,
	}
}

func (e *Engine) decideGated(a *candidate.Assessment) Decision {
	score := a.OverallScore

	if score >= e.thresholds.Approve && a.Recommendation.Approvable() {
		return Decision{
			Status:         StatusApproved,
			NeedsInterview: true,
			Reason: fmt.Sprintf("Automatically approved with score of %d%% (threshold %d%%). Candidate has sufficient qualifications for the role.",
				score, e.thresholds.Approve),
		}
	}

	if score >= e.thresholds.Consider && score < e.thresholds.Approve && a.Recommendation != candidate.Reject {
		return Decision{
			Status: StatusPending,
			Reason: fmt.Sprintf("Score of %d%% is close to threshold. Manual review recommended.", score),
		}
	}

	reason := fmt.Sprintf("Score of %d%% is below threshold.", score)
	if a.Recommendation == candidate.Reject {
		reason = fmt.Sprintf("Score of %d%% is below threshold or recommendation is %q.", score, a.Recommendation)
	}
	return Decision{Status: StatusRejected, Reason: reason}
}

func (e *Engine) decideScoreOnly(a *candidate.Assessment) Decision {
	score := a.OverallScore

	if score >= e.thresholds.Approve {
		return Decision{
			Status:         StatusApproved,
			NeedsInterview: true,
			Reason:         fmt.Sprintf("Auto-approved: Score %d%% meets threshold (%d%%).", score, e.thresholds.Approve),
		}
	}

	return Decision{
		Status: StatusPending,
		Reason: fmt.Sprintf("Manual review needed: Score %d%% below threshold (%d%%).", score, e.thresholds.Approve),
	}
}
