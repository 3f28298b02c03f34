package campaign

import (
	"context"

	"github.com/ignite/phishing-trainer/internal/domain"
)

// Metrics are derived rates over a campaign's target list. They are
// always recomputed from current target state and never stored, so a
// partially-applied update can't leave a stale persisted rate behind.
type Metrics struct {
	ClickRate          float64 `json:"click_rate"`
	QuizCompletionRate float64 `json:"quiz_completion_rate"`
	AvgQuizScore       float64 `json:"avg_quiz_score"`
}

// Statistics bundles the derived metrics with raw counts for reporting.
type Statistics struct {
	TotalTargets int                         `json:"total_targets"`
	StatusCounts map[domain.TargetStatus]int `json:"status_counts"`
	Metrics
}

// ComputeMetrics derives rates from a target list.
//
//	click_rate           = clicked-or-later / sent-or-later
//	quiz_completion_rate = completed-quiz   / clicked-or-later
//	avg_quiz_score       = mean quiz_score over completed-quiz targets
//
// Each rate is 0 when its denominator is 0.
func ComputeMetrics(targets []*domain.Target) Metrics {
	var sent, clicked, completed, scoreSum int
	for _, t := range targets {
		if t.Status.SentOrLater() {
			sent++
		}
		if t.Status.ClickedOrLater() {
			clicked++
		}
		if t.Status == domain.TargetCompletedQuiz {
			completed++
			if t.QuizScore != nil {
				scoreSum += *t.QuizScore
			}
		}
	}

	var m Metrics
	if sent > 0 {
		m.ClickRate = float64(clicked) / float64(sent)
	}
	if clicked > 0 {
		m.QuizCompletionRate = float64(completed) / float64(clicked)
	}
	if completed > 0 {
		m.AvgQuizScore = float64(scoreSum) / float64(completed)
	}
	return m
}

// Statistics computes the full reporting view for one campaign.
func (s *Service) Statistics(ctx context.Context, id string) (*Statistics, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	counts := map[domain.TargetStatus]int{
		domain.TargetQueued:        0,
		domain.TargetSent:          0,
		domain.TargetBounced:       0,
		domain.TargetClicked:       0,
		domain.TargetCompletedQuiz: 0,
		domain.TargetFailed:        0,
	}
	for _, t := range c.Targets {
		counts[t.Status]++
	}

	return &Statistics{
		TotalTargets: len(c.Targets),
		StatusCounts: counts,
		Metrics:      ComputeMetrics(c.Targets),
	}, nil
}
