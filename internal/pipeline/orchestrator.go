// Package pipeline composes the funnel: decide, allocate an interview slot,
// dispatch the notification, record the outcome. Failures of one candidate
// never abort the rest of the batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ybekenov/hire-funnel/internal/ai"
	"github.com/ybekenov/hire-funnel/internal/candidate"
	"github.com/ybekenov/hire-funnel/internal/decision"
	"github.com/ybekenov/hire-funnel/internal/notify"
	"github.com/ybekenov/hire-funnel/internal/scheduling"
)

// Outcome is the per-candidate result of a pipeline run.
type Outcome struct {
	CandidateID  string
	Decision     decision.Decision
	Reservation  *scheduling.Reservation
	Notification *notify.Result

	// Note explains a skipped reservation or notification (invalid email,
	// duplicate email, no slots). Empty on the happy path.
	Note string
}

// EmailRecord tracks one candidate-facing email, keyed by address. Duplicate
// candidate emails collapse to a single record.
type EmailRecord struct {
	CandidateID string
	Email       string
	Subject     string
	Body        string
	Sent        bool
	SlotID      int
	SentAt      time.Time
}

// Summary aggregates decision counts for a run.
type Summary struct {
	Approved int
	Pending  int
	Rejected int
}

// Config carries the orchestrator's fixed inputs.
type Config struct {
	JobDescription string
	Interview      ai.InterviewDetails // Date is filled per reservation
	FromName       string
	// RejectionEmails enables drafting and sending rejection emails for
	// rejected candidates that have a usable address.
	RejectionEmails bool
}

// Orchestrator owns the run state: decisions, reservations (via the pool)
// and the email log. State is retained across batches so re-processing the
// same assessment is idempotent.
type Orchestrator struct {
	engine      *decision.Engine
	pool        *scheduling.Pool
	recommender ai.SlotRecommender
	mail        ai.MailWriter
	notifier    notify.Notifier
	logger      *zap.Logger
	cfg         Config

	mu         sync.Mutex
	decisions  map[string]decision.Decision
	outcomes   map[string]Outcome
	emails     map[string]*EmailRecord
	emailOrder []string
}

// New creates an orchestrator. All collaborators are required except the
// recommender, which may be nil (allocation then always takes the earliest
// available slot).
func New(engine *decision.Engine, pool *scheduling.Pool, recommender ai.SlotRecommender, mail ai.MailWriter, notifier notify.Notifier, log *zap.Logger, cfg Config) (*Orchestrator, error) {
	if engine == nil {
		return nil, errors.New("decision engine is required")
	}
	if pool == nil {
		return nil, errors.New("slot pool is required")
	}
	if mail == nil {
		return nil, errors.New("mail writer is required")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Orchestrator{
		engine:      engine,
		pool:        pool,
		recommender: recommender,
		mail:        mail,
		notifier:    notifier,
		logger:      log,
		cfg:         cfg,
		decisions:   make(map[string]decision.Decision),
		outcomes:    make(map[string]Outcome),
		emails:      make(map[string]*EmailRecord),
	}, nil
}

// ProcessBatch runs the funnel over the assessments in input order and
// returns one outcome per assessment, in the same order. Batches are
// serialized against each other and against manual overrides.
func (o *Orchestrator) ProcessBatch(ctx context.Context, assessments []*candidate.Assessment) []Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()

	outcomes := make([]Outcome, 0, len(assessments))
	for _, a := range assessments {
		outcomes = append(outcomes, o.processLocked(ctx, a))
	}
	return outcomes
}

// Override applies a human-issued status change for the candidate. The
// forced decision is latched: later automatic re-decisions never revert it.
// Approving schedules an interview and dispatches the invitation; rejecting
// sends a rejection email when enabled.
func (o *Orchestrator) Override(ctx context.Context, a *candidate.Assessment, status decision.Status, reason string) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()

	d := decision.Override(status, reason)
	o.decisions[a.ID] = d

	out := Outcome{CandidateID: a.ID, Decision: d}
	switch {
	case d.NeedsInterview:
		o.scheduleAndNotifyLocked(ctx, a, &out)
	case status == decision.StatusRejected:
		o.maybeSendRejectionLocked(ctx, a, reason, &out)
	}

	o.outcomes[a.ID] = out
	return out
}

// Outcome returns the recorded outcome for a candidate, if any.
func (o *Orchestrator) Outcome(candidateID string) (Outcome, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out, ok := o.outcomes[candidateID]
	return out, ok
}

// EmailRecords returns the email log in first-touch order.
func (o *Orchestrator) EmailRecords() []EmailRecord {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]EmailRecord, 0, len(o.emailOrder))
	for _, email := range o.emailOrder {
		out = append(out, *o.emails[email])
	}
	return out
}

// Summarize counts decisions by status.
func (o *Orchestrator) Summarize() Summary {
	o.mu.Lock()
	defer o.mu.Unlock()

	var s Summary
	for _, d := range o.decisions {
		switch d.Status {
		case decision.StatusApproved:
			s.Approved++
		case decision.StatusPending:
			s.Pending++
		case decision.StatusRejected:
			s.Rejected++
		}
	}
	return s
}

func (o *Orchestrator) processLocked(ctx context.Context, a *candidate.Assessment) Outcome {
	// Re-processing the same assessment replays the recorded outcome rather
	// than allocating again.
	if prev, ok := o.outcomes[a.ID]; ok {
		o.logger.Debug("candidate already processed",
			zap.String("candidate_id", a.ID),
		)
		return prev
	}

	d := o.engine.Redecide(a, o.decisions[a.ID])
	o.decisions[a.ID] = d

	o.logger.Info("decision made",
		zap.String("candidate_id", a.ID),
		zap.String("candidate", a.Name),
		zap.String("status", string(d.Status)),
		zap.Int("overall_score", a.OverallScore),
		zap.Bool("needs_interview", d.NeedsInterview),
	)

	out := Outcome{CandidateID: a.ID, Decision: d}
	switch {
	case d.NeedsInterview:
		o.scheduleAndNotifyLocked(ctx, a, &out)
	case d.Status == decision.StatusRejected:
		o.maybeSendRejectionLocked(ctx, a, d.Reason, &out)
	}

	o.outcomes[a.ID] = out
	return out
}

func (o *Orchestrator) scheduleAndNotifyLocked(ctx context.Context, a *candidate.Assessment, out *Outcome) {
	if !a.HasValidEmail() {
		out.Note = "invalid email address"
		o.logger.Warn("skipping interview scheduling",
			zap.String("candidate_id", a.ID),
			zap.String("reason", out.Note),
		)
		return
	}

	if record, ok := o.emails[a.Email]; ok && record.CandidateID != a.ID {
		out.Note = fmt.Sprintf("duplicate email address %s", a.Email)
		o.logger.Warn("skipping interview scheduling",
			zap.String("candidate_id", a.ID),
			zap.String("reason", out.Note),
		)
		return
	}

	// A candidate holding a slot from an earlier batch keeps it.
	if res, ok := o.pool.ReservationFor(a.ID); ok {
		out.Reservation = &res
		return
	}

	slot, err := o.pool.RecommendAndReserve(ctx, a.ID, o.recommendFunc(a))
	if err != nil {
		if errors.Is(err, scheduling.ErrNoSlotsAvailable) {
			out.Note = "no interview slots available"
			o.recordEmailLocked(a, &EmailRecord{Sent: false})
			o.logger.Warn("no slots left for approved candidate",
				zap.String("candidate_id", a.ID),
			)
			return
		}
		out.Note = err.Error()
		return
	}

	res, _ := o.pool.ReservationFor(a.ID)
	out.Reservation = &res

	o.logger.Info("interview slot reserved",
		zap.String("candidate_id", a.ID),
		zap.Int("slot_id", slot.ID),
		zap.String("date", slot.Date),
		zap.String("time", slot.Time),
	)

	details := o.cfg.Interview
	details.Date = fmt.Sprintf("%s at %s", slot.Date, slot.Time)

	email, err := o.mail.InterviewInvitation(ctx, a, o.cfg.JobDescription, details)
	if err != nil {
		// The reservation stands; a failed draft is recorded and recovered
		// manually.
		result := notify.Result{Success: false, Message: err.Error()}
		out.Notification = &result
		o.recordEmailLocked(a, &EmailRecord{Sent: false, SlotID: slot.ID})
		o.logger.Warn("email drafting failed",
			zap.String("candidate_id", a.ID),
			zap.Error(err),
		)
		return
	}

	result := o.notifier.Send(ctx, notify.Message{
		To:       a.Email,
		Subject:  email.Subject,
		Body:     email.Body,
		FromName: o.cfg.FromName,
	})
	out.Notification = &result

	record := &EmailRecord{
		Subject: email.Subject,
		Body:    email.Body,
		Sent:    result.Success,
		SlotID:  slot.ID,
	}
	if result.Success {
		record.SentAt = time.Now()
	}
	o.recordEmailLocked(a, record)
}

func (o *Orchestrator) maybeSendRejectionLocked(ctx context.Context, a *candidate.Assessment, reason string, out *Outcome) {
	if !o.cfg.RejectionEmails || !a.HasValidEmail() {
		return
	}
	if record, ok := o.emails[a.Email]; ok && record.CandidateID != a.ID {
		out.Note = fmt.Sprintf("duplicate email address %s", a.Email)
		return
	}

	email, err := o.mail.Rejection(ctx, a, o.cfg.JobDescription, reason)
	if err != nil {
		result := notify.Result{Success: false, Message: err.Error()}
		out.Notification = &result
		o.recordEmailLocked(a, &EmailRecord{Sent: false})
		return
	}

	result := o.notifier.Send(ctx, notify.Message{
		To:       a.Email,
		Subject:  email.Subject,
		Body:     email.Body,
		FromName: o.cfg.FromName,
	})
	out.Notification = &result

	record := &EmailRecord{
		Subject: email.Subject,
		Body:    email.Body,
		Sent:    result.Success,
	}
	if result.Success {
		record.SentAt = time.Now()
	}
	o.recordEmailLocked(a, record)
}

func (o *Orchestrator) recordEmailLocked(a *candidate.Assessment, record *EmailRecord) {
	record.CandidateID = a.ID
	record.Email = a.Email

	if _, ok := o.emails[a.Email]; !ok {
		o.emailOrder = append(o.emailOrder, a.Email)
	}
	o.emails[a.Email] = record
}

func (o *Orchestrator) recommendFunc(a *candidate.Assessment) scheduling.RecommendFunc {
	if o.recommender == nil {
		return nil
	}
	return func(ctx context.Context, available []scheduling.Slot) (int, error) {
		rec, err := o.recommender.Recommend(ctx, a, available)
		if err != nil {
			o.logger.Warn("slot recommendation failed; falling back to earliest slot",
				zap.String("candidate_id", a.ID),
				zap.Error(err),
			)
			return 0, err
		}
		return rec.SlotID, nil
	}
}
