package resilience

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ProviderStatus is a point-in-time health snapshot for one provider,
// exposed through the ops status endpoint.
type ProviderStatus struct {
	Name         string     `json:"name"`
	Healthy      bool       `json:"healthy"`
	CircuitState string     `json:"circuitState"`
	LastSuccess  *time.Time `json:"lastSuccess,omitempty"`
	LastFailure  *time.Time `json:"lastFailure,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
	Requests     uint32     `json:"requests"`
	Failures     uint32     `json:"failures"`
}

// Registry tracks health for all registered external providers.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
	health  map[string]*healthRecord
}

type healthRecord struct {
	lastSuccess time.Time
	lastFailure time.Time
	lastError   string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
		health:  make(map[string]*healthRecord),
	}
}

// Register adds a provider's client to the registry.
func (r *Registry) Register(name string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = c
	if _, ok := r.health[name]; !ok {
		r.health[name] = &healthRecord{}
	}
}

// RecordSuccess marks a successful call to the named provider.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.record(name)
	rec.lastSuccess = time.Now()
}

// RecordFailure marks a failed call to the named provider.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.record(name)
	rec.lastFailure = time.Now()
	if err != nil {
		rec.lastError = err.Error()
	}
}

// record must be called with the lock held.
func (r *Registry) record(name string) *healthRecord {
	rec, ok := r.health[name]
	if !ok {
		rec = &healthRecord{}
		r.health[name] = rec
	}
	return rec
}

// Snapshot returns the current status of every registered provider.
func (r *Registry) Snapshot() []ProviderStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ProviderStatus, 0, len(r.health))
	for name, rec := range r.health {
		status := ProviderStatus{
			Name:         name,
			Healthy:      true,
			CircuitState: gobreaker.StateClosed.String(),
		}

		if c, ok := r.clients[name]; ok {
			state := c.BreakerState()
			status.CircuitState = state.String()
			status.Healthy = state != gobreaker.StateOpen
			counts := c.BreakerCounts()
			status.Requests = counts.Requests
			status.Failures = counts.TotalFailures
		}

		if !rec.lastSuccess.IsZero() {
			ts := rec.lastSuccess
			status.LastSuccess = &ts
		}
		if !rec.lastFailure.IsZero() {
			ts := rec.lastFailure
			status.LastFailure = &ts
			// A failure more recent than the last success marks the
			// provider degraded even with a closed circuit.
			if rec.lastFailure.After(rec.lastSuccess) {
				status.Healthy = false
			}
			status.LastError = rec.lastError
		}

		out = append(out, status)
	}

	return out
}

// AllHealthy reports whether every registered provider is healthy.
func (r *Registry) AllHealthy() bool {
	for _, s := range r.Snapshot() {
		if !s.Healthy {
			return false
		}
	}
	return true
}
