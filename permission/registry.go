package permission

import (
	"errors"
	"sync"
)

// Registry maps server-reported permission identifiers to app-internal
// permission identifiers. Server permissions with no registered mapping
// pass through under their own id, so a deployment only registers the
// renames it actually needs.
type Registry struct {
	mu          sync.RWMutex
	serverToApp map[string][]string
	frozen      bool
}

// NewRegistry describes the newregistry operation and its observable behavior.
//
// NewRegistry returns an empty, unfrozen mapping registry.
func NewRegistry() *Registry {
	return &Registry{
		serverToApp: make(map[string][]string),
	}
}

// Register maps one server permission id to one or more app permission ids.
// Registration fails after Freeze.
func (r *Registry) Register(serverID string, appIDs ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.New("permission registry frozen")
	}
	if serverID == "" {
		return errors.New("server permission id empty")
	}
	if len(appIDs) == 0 {
		return errors.New("app permission ids empty")
	}

	r.serverToApp[serverID] = append(r.serverToApp[serverID], appIDs...)
	return nil
}

// Freeze makes the registry immutable. Lookups after Freeze take the read
// lock only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Prepare maps raw granted-permission records into the deduplicated
// app-internal permission id list, preserving first-seen order.
func (r *Registry) Prepare(records []Record) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(records))
	var out []string

	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, rec := range records {
		mapped, ok := r.serverToApp[rec.PermissionID]
		if !ok {
			add(rec.PermissionID)
			continue
		}
		for _, id := range mapped {
			add(id)
		}
	}

	return out
}
