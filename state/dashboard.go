package state

import (
	"context"

	"github.com/trezcool/portal/core/dashboard"
)

type SnapshotAPI interface {
	Snapshot(ctx context.Context) (dashboard.Snapshot, error)
}

// Dashboard keeps the last portal snapshot; its Overview is rebuilt only when a new snapshot arrives.
type Dashboard struct {
	base
	api  SnapshotAPI
	snap *dashboard.Snapshot
	memo dashboard.Memo
}

func NewDashboard(api SnapshotAPI) *Dashboard {
	return &Dashboard{
		base: newBase("Erro inesperado ao carregar o painel."),
		api:  api,
	}
}

func (d *Dashboard) fetch(ctx context.Context) error {
	snap, err := d.api.Snapshot(ctx)
	if err != nil {
		return err
	}
	d.update(func() { d.snap = &snap })
	return nil
}

func (d *Dashboard) Load(ctx context.Context) error {
	return d.load(func() error { return d.fetch(ctx) })
}

func (d *Dashboard) Refresh(ctx context.Context) error {
	return d.refresh(func() error { return d.fetch(ctx) })
}

// Overview is empty until a snapshot has been loaded.
func (d *Dashboard) Overview() dashboard.Overview {
	d.mu.RLock()
	snap := d.snap
	d.mu.RUnlock()
	return d.memo.Overview(snap)
}
