package campaign

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ignite/phishing-trainer/internal/domain"
	"github.com/ignite/phishing-trainer/internal/pkg/distlock"
	"github.com/ignite/phishing-trainer/internal/pkg/logger"
	"github.com/ignite/phishing-trainer/internal/storage"
	"github.com/ignite/phishing-trainer/internal/tracking"
)

// Service implements campaign lifecycle business logic on top of the
// snapshot store. All mutating methods run under the per-campaign lock.
type Service struct {
	store storage.Store
	links *tracking.LinkGenerator
	locks distlock.Locker
}

// NewService creates a campaign service.
func NewService(store storage.Store, links *tracking.LinkGenerator, locks distlock.Locker) *Service {
	return &Service{store: store, links: links, locks: locks}
}

// CreateInput holds the fields for creating a new campaign.
type CreateInput struct {
	Name     string              `json:"name"`
	Company  domain.CompanyInfo  `json:"company_info"`
	Scenario domain.ScenarioInfo `json:"scenario_info"`
	Targets  []string            `json:"targets"`
	// UTMParams are appended to every issued tracking link.
	UTMParams map[string]string `json:"utm_params,omitempty"`
}

// Create validates input, builds the target list, issues one signed
// tracking URL per target, and persists the new draft campaign.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Campaign, error) {
	if len(in.Targets) == 0 {
		return nil, ErrNoTargets
	}
	c, err := domain.NewCampaign(in.Name, in.Company, in.Scenario, in.Targets)
	if err != nil {
		return nil, err
	}
	for _, t := range c.Targets {
		url, err := s.links.Generate(c.ID, t.ID, in.UTMParams)
		if err != nil {
			return nil, fmt.Errorf("issuing tracking link for %s: %w", t.ID, err)
		}
		t.TrackURL = url
	}

	release, err := s.locks.Acquire(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	snap[c.ID] = c
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("persisting campaign: %w", err)
	}

	logger.Info("campaign created", "campaign_id", c.ID, "name", c.Name,
		"targets", fmt.Sprintf("%d", len(c.Targets)))
	return c, nil
}

// Get returns a single campaign.
func (s *Service) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	c := snap[id]
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// List returns all campaigns ordered by creation time, newest first.
func (s *Service) List(ctx context.Context) ([]*domain.Campaign, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	out := make([]*domain.Campaign, 0, len(snap))
	for _, c := range snap {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateStatus sets the campaign-level status. This is informational
// bookkeeping for the hosting layer; target transitions are untouched.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown campaign status %q", status)
	}
	return s.mutate(ctx, id, func(c *domain.Campaign) error {
		c.Status = status
		return nil
	})
}

// Rename changes a campaign's display name.
func (s *Service) Rename(ctx context.Context, id, name string) error {
	if name == "" {
		return fmt.Errorf("campaign name is required")
	}
	return s.mutate(ctx, id, func(c *domain.Campaign) error {
		c.Name = name
		return nil
	})
}

// Delete removes a campaign and all its targets and events.
func (s *Service) Delete(ctx context.Context, id string) error {
	release, err := s.locks.Acquire(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	if snap[id] == nil {
		return ErrNotFound
	}
	delete(snap, id)
	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("persisting delete: %w", err)
	}
	logger.Info("campaign deleted", "campaign_id", id)
	return nil
}

// Clone copies an existing campaign into a new draft: fresh campaign and
// target ids, all targets back to queued, fresh tracking links, empty
// event log.
func (s *Service) Clone(ctx context.Context, id, newName string) (*domain.Campaign, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if newName == "" {
		newName = src.Name + " (Clone)"
	}

	emails := make([]string, 0, len(src.Targets))
	for _, t := range src.Targets {
		emails = append(emails, t.Email)
	}
	clone, err := domain.NewCampaign(newName, src.Company, src.Scenario, emails)
	if err != nil {
		return nil, err
	}
	clone.Email = src.Email
	for _, t := range clone.Targets {
		url, err := s.links.Generate(clone.ID, t.ID, nil)
		if err != nil {
			return nil, fmt.Errorf("issuing tracking link for %s: %w", t.ID, err)
		}
		t.TrackURL = url
	}

	release, err := s.locks.Acquire(ctx, clone.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	snap[clone.ID] = clone
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("persisting clone: %w", err)
	}
	logger.Info("campaign cloned", "campaign_id", id, "clone_id", clone.ID)
	return clone, nil
}

// MarkSent records that the sending collaborator delivered the email for
// a target: queued -> sent, send_ts set once, provider message id kept.
func (s *Service) MarkSent(ctx context.Context, campaignID, recipientID, messageID string) error {
	return s.mutateTarget(ctx, campaignID, recipientID, func(t *domain.Target) error {
		if !t.Status.CanTransitionTo(domain.TargetSent) {
			return fmt.Errorf("%w: %s -> sent", ErrInvalidTransition, t.Status)
		}
		t.Status = domain.TargetSent
		if t.SendTS == nil {
			ts := time.Now().UTC().Unix()
			t.SendTS = &ts
		}
		t.MessageID = messageID
		return nil
	})
}

// MarkBounced records a bounce reported by the sending collaborator.
func (s *Service) MarkBounced(ctx context.Context, campaignID, recipientID, reason string) error {
	return s.mutateTarget(ctx, campaignID, recipientID, func(t *domain.Target) error {
		if !t.Status.CanTransitionTo(domain.TargetBounced) {
			return fmt.Errorf("%w: %s -> bounced", ErrInvalidTransition, t.Status)
		}
		t.Status = domain.TargetBounced
		t.Error = reason
		return nil
	})
}

// MarkFailed records a send failure reported by the sending collaborator.
func (s *Service) MarkFailed(ctx context.Context, campaignID, recipientID, reason string) error {
	return s.mutateTarget(ctx, campaignID, recipientID, func(t *domain.Target) error {
		if !t.Status.CanTransitionTo(domain.TargetFailed) {
			return fmt.Errorf("%w: %s -> failed", ErrInvalidTransition, t.Status)
		}
		t.Status = domain.TargetFailed
		t.Error = reason
		return nil
	})
}

// mutate runs fn against one campaign under the per-campaign lock and
// persists on success.
func (s *Service) mutate(ctx context.Context, id string, fn func(*domain.Campaign) error) error {
	release, err := s.locks.Acquire(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	c := snap[id]
	if c == nil {
		return ErrNotFound
	}
	if err := fn(c); err != nil {
		return err
	}
	c.Touch()
	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("persisting campaign: %w", err)
	}
	return nil
}

func (s *Service) mutateTarget(ctx context.Context, campaignID, recipientID string, fn func(*domain.Target) error) error {
	return s.mutate(ctx, campaignID, func(c *domain.Campaign) error {
		t := c.Target(recipientID)
		if t == nil {
			return ErrTargetNotFound
		}
		return fn(t)
	})
}
