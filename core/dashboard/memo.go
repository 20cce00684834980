package dashboard

import "sync"

// Memo caches the Overview of the last snapshot it was given, keyed by the snapshot's identity.
type Memo struct {
	mu   sync.Mutex
	snap *Snapshot
	view Overview
}

// Overview returns the overview of snap, rebuilding it only when snap is a different snapshot.
func (m *Memo) Overview(snap *Snapshot) Overview {
	if snap == nil {
		return Build(Snapshot{})
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap != snap {
		m.view = Build(*snap)
		m.snap = snap
	}
	return m.view
}
