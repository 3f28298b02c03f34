package recorder

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/phishing-trainer/internal/domain"
	"github.com/ignite/phishing-trainer/internal/pkg/distlock"
	"github.com/ignite/phishing-trainer/internal/pkg/logger"
	"github.com/ignite/phishing-trainer/internal/storage"
	"github.com/ignite/phishing-trainer/internal/tracking"
)

// Service records clicks and quiz completions against campaign targets.
type Service struct {
	store  storage.Store
	signer *tracking.Signer
	locks  distlock.Locker

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a recorder backed by the given store, signer, and
// per-campaign locker.
func NewService(store storage.Store, signer *tracking.Signer, locks distlock.Locker) *Service {
	return &Service{store: store, signer: signer, locks: locks, now: time.Now}
}

// ClickInput carries one inbound tracking request.
type ClickInput struct {
	CampaignID  string
	RecipientID string
	Signature   string
	IP          string
	UserAgent   string
}

// ClickResult reports the outcome of a recorded click.
type ClickResult struct {
	// FirstClick is true only for the click that moved the target to
	// clicked; hosts use it to show the one-time lesson page.
	FirstClick bool
	Status     domain.TargetStatus
	Event      domain.Event
}

// RecordClick validates and records a tracking-link visit.
//
// Every valid, signed click appends a ClickEvent, including repeats; the
// target's status and click_ts move only on the first accepted click
// (queued|sent -> clicked). The snapshot is persisted before success is
// returned, so a persistence failure means the click was not recorded.
func (s *Service) RecordClick(ctx context.Context, in ClickInput) (*ClickResult, error) {
	if !s.signer.Verify(in.CampaignID, in.RecipientID, in.Signature) {
		logger.Warn("tracking signature rejected",
			"campaign_id", in.CampaignID, "recipient_id", in.RecipientID)
		return nil, ErrInvalidSignature
	}

	release, err := s.locks.Acquire(ctx, in.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("locking campaign %s: %w", in.CampaignID, err)
	}
	defer release()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	c := snap[in.CampaignID]
	if c == nil {
		return nil, ErrUnknownTarget
	}
	t := c.Target(in.RecipientID)
	if t == nil {
		return nil, ErrUnknownTarget
	}

	ts := s.now().UTC()
	event := domain.NewClickEvent(in.CampaignID, in.RecipientID, in.IP, in.UserAgent, ts)
	c.AppendEvent(event)

	first := t.Status.CanTransitionTo(domain.TargetClicked)
	if first {
		t.Status = domain.TargetClicked
		epoch := ts.Unix()
		t.ClickTS = &epoch
	}
	c.Touch()

	if err := s.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("persisting click: %w", err)
	}

	logger.Info("click recorded",
		"campaign_id", in.CampaignID, "recipient_id", in.RecipientID,
		"first_click", fmt.Sprintf("%t", first))
	return &ClickResult{FirstClick: first, Status: t.Status, Event: event}, nil
}

// QuizInput carries one quiz submission.
type QuizInput struct {
	CampaignID  string
	RecipientID string
	Score       int
	// MaxScore is supplied by the quiz service for this quiz instance;
	// the recorder never derives it from mutable external state.
	MaxScore int
	Answers  map[string]string
}

// QuizResult reports the outcome of a recorded quiz completion.
type QuizResult struct {
	Status domain.TargetStatus
	Event  domain.Event
}

// RecordQuiz records an awareness-quiz completion.
//
// The target must be in clicked state: completion before a click signals
// replay abuse or inconsistency and is rejected, as is re-completion.
func (s *Service) RecordQuiz(ctx context.Context, in QuizInput) (*QuizResult, error) {
	if in.MaxScore <= 0 || in.Score < 0 || in.Score > in.MaxScore {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidScore, in.Score, in.MaxScore)
	}

	release, err := s.locks.Acquire(ctx, in.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("locking campaign %s: %w", in.CampaignID, err)
	}
	defer release()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	c := snap[in.CampaignID]
	if c == nil {
		return nil, ErrUnknownTarget
	}
	t := c.Target(in.RecipientID)
	if t == nil {
		return nil, ErrUnknownTarget
	}

	if !t.Status.CanTransitionTo(domain.TargetCompletedQuiz) {
		logger.Warn("quiz completion rejected",
			"campaign_id", in.CampaignID, "recipient_id", in.RecipientID,
			"status", string(t.Status))
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, t.Status)
	}

	ts := s.now().UTC()
	event := domain.NewQuizEvent(in.CampaignID, in.RecipientID, in.Score, in.Answers, ts)
	c.AppendEvent(event)

	t.Status = domain.TargetCompletedQuiz
	score := in.Score
	t.QuizScore = &score
	c.Touch()

	if err := s.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("persisting quiz completion: %w", err)
	}

	logger.Info("quiz completion recorded",
		"campaign_id", in.CampaignID, "recipient_id", in.RecipientID,
		"score", fmt.Sprintf("%d/%d", in.Score, in.MaxScore))
	return &QuizResult{Status: t.Status, Event: event}, nil
}
