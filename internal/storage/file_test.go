package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ignite/phishing-trainer/internal/domain"
)

func TestFileStoreLoadMissing(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "campaigns.json"))
	require.NoError(t, err)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Empty(t, snap)
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "data", "campaigns.json"))
	require.NoError(t, err)

	c, err := domain.NewCampaign("Drill", domain.CompanyInfo{Name: "Acme"},
		domain.ScenarioInfo{Type: "invoice", Difficulty: 3},
		[]string{"a@example.com"})
	require.NoError(t, err)
	c.Targets[0].Status = domain.TargetClicked

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, Snapshot{c.ID: c}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	loaded := got[c.ID]
	require.NotNil(t, loaded)
	require.Equal(t, c.Name, loaded.Name)
	require.Equal(t, domain.TargetClicked, loaded.Targets[0].Status)
}

func TestFileStoreReplaceAll(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "campaigns.json"))
	require.NoError(t, err)
	ctx := context.Background()

	a, _ := domain.NewCampaign("A", domain.CompanyInfo{Name: "X"}, domain.ScenarioInfo{Type: "invoice"}, nil)
	b, _ := domain.NewCampaign("B", domain.CompanyInfo{Name: "X"}, domain.ScenarioInfo{Type: "invoice"}, nil)

	require.NoError(t, s.Save(ctx, Snapshot{a.ID: a}))
	require.NoError(t, s.Save(ctx, Snapshot{b.ID: b}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Contains(t, got, b.ID)
}

func TestFileStoreEventLogOrderPreserved(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "campaigns.json"))
	require.NoError(t, err)
	ctx := context.Background()

	c, _ := domain.NewCampaign("A", domain.CompanyInfo{Name: "X"}, domain.ScenarioInfo{Type: "invoice"},
		[]string{"a@example.com"})
	rid := c.Targets[0].ID
	for i := 0; i < 3; i++ {
		c.AppendEvent(domain.NewClickEvent(c.ID, rid, "10.0.0.1", "ua", c.CreatedAt))
	}

	require.NoError(t, s.Save(ctx, Snapshot{c.ID: c}))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got[c.ID].Events, 3)
	for i, e := range got[c.ID].Events {
		require.Equal(t, c.Events[i].ID, e.ID, "event order changed at %d", i)
	}
}
