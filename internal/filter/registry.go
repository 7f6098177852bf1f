package filter

import (
	"fmt"
	"sort"
	"sync"
)

// Registry owns the map from device id to Session. It is the sole owner of
// session lifetime: a session is created when a device's configuration entry
// becomes active and removed with it.
//
// The registry itself is safe for concurrent use; the sessions it hands out
// are not (see Session).
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create builds a session for the device and registers it.
// A duplicate device id or an invalid config is an error.
func (r *Registry) Create(deviceID string, cfg Config) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[deviceID]; exists {
		return nil, fmt.Errorf("session for device %q already exists", deviceID)
	}
	sess, err := NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("device %q: %w", deviceID, err)
	}
	r.sessions[deviceID] = sess
	return sess, nil
}

// Get returns the session for the device, if one exists.
func (r *Registry) Get(deviceID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[deviceID]
	return sess, ok
}

// Remove drops the device's session. Removing an unknown device is a no-op.
func (r *Registry) Remove(deviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, deviceID)
}

// IDs returns the registered device ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
