package config

import "sync/atomic"

// ChatTunables publishes the live chat tuning values. The config watcher
// swaps the snapshot while request goroutines read it, so access goes
// through an atomic pointer rather than shared struct fields.
type ChatTunables struct {
	v atomic.Pointer[ChatConfig]
}

func NewChatTunables(c ChatConfig) *ChatTunables {
	t := &ChatTunables{}
	t.v.Store(&c)
	return t
}

// Snapshot returns the current values. Callers take one snapshot per
// request so a mid-request reload cannot mix old and new values.
func (t *ChatTunables) Snapshot() ChatConfig {
	return *t.v.Load()
}

// Update replaces the published snapshot.
func (t *ChatTunables) Update(c ChatConfig) {
	t.v.Store(&c)
}
