// Package usage records completion token usage per provider, model, flow
// and wizard session.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"bestfit/internal/logging"
)

type (
	trackerKey struct{}
	flowKey    struct{}
	sessionKey struct{}
)

// Tracker manages token usage recording and persistence.
type Tracker struct {
	mu       sync.Mutex
	data     UsageData
	filePath string
	dirty    bool
}

// NewTracker creates a tracker persisted at path. An empty path keeps usage
// in memory only.
func NewTracker(path string) (*Tracker, error) {
	t := &Tracker{
		filePath: path,
		data:     UsageData{Version: "1.0"},
	}
	t.data.Aggregate.ensureMaps()

	if path == "" {
		return t, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create usage dir: %w", err)
	}
	if err := t.Load(); err != nil {
		// A corrupt file starts a fresh tally rather than blocking startup.
		logging.BootWarn("ignoring unreadable usage file %s: %v", path, err)
	}
	return t, nil
}

func (s *AggregatedStats) ensureMaps() {
	if s.ByProvider == nil {
		s.ByProvider = make(map[string]TokenCounts)
	}
	if s.ByModel == nil {
		s.ByModel = make(map[string]TokenCounts)
	}
	if s.ByFlow == nil {
		s.ByFlow = make(map[string]TokenCounts)
	}
	if s.BySession == nil {
		s.BySession = make(map[string]TokenCounts)
	}
}

// Load reads the usage data from disk.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.filePath == "" {
		return nil
	}
	data, err := os.ReadFile(t.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var loaded UsageData
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	loaded.Aggregate.ensureMaps()
	t.data = loaded
	return nil
}

// Save writes the usage data to disk if anything changed since the last save.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.filePath == "" || !t.dirty {
		return nil
	}
	data, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(t.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write usage: %w", err)
	}
	t.dirty = false
	return nil
}

// Track records one completion call. Flow and session come from ctx.
func (t *Tracker) Track(ctx context.Context, model, provider string, input, output int) {
	flow := FlowFromContext(ctx)
	sessionID := SessionFromContext(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.data.Aggregate.Total.Add(input, output)
	addToMap(t.data.Aggregate.ByProvider, provider, input, output)
	addToMap(t.data.Aggregate.ByModel, model, input, output)
	addToMap(t.data.Aggregate.ByFlow, string(flow), input, output)
	if sessionID != "" {
		addToMap(t.data.Aggregate.BySession, sessionID, input, output)
	}
	t.dirty = true
}

// Stats returns a copy of the aggregated stats.
func (t *Tracker) Stats() AggregatedStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.data.Aggregate
	stats.ByProvider = copyTokenCountsMap(stats.ByProvider)
	stats.ByModel = copyTokenCountsMap(stats.ByModel)
	stats.ByFlow = copyTokenCountsMap(stats.ByFlow)
	stats.BySession = copyTokenCountsMap(stats.BySession)
	return stats
}

// Forget drops the per-session counters of a deleted wizard session.
func (t *Tracker) Forget(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.data.Aggregate.BySession[sessionID]; ok {
		delete(t.data.Aggregate.BySession, sessionID)
		t.dirty = true
	}
}

func copyTokenCountsMap(src map[string]TokenCounts) map[string]TokenCounts {
	dst := make(map[string]TokenCounts, len(src))
	for key, counts := range src {
		dst[key] = counts
	}
	return dst
}

func addToMap(m map[string]TokenCounts, key string, input, output int) {
	entry := m[key]
	entry.Add(input, output)
	m[key] = entry
}

// Context Helpers

// NewContext returns a new context carrying the tracker.
func NewContext(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// FromContext retrieves the tracker from the context.
func FromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(trackerKey{}).(*Tracker)
	return t
}

// WithFlow tags ctx with the calling flow.
func WithFlow(ctx context.Context, flow Flow) context.Context {
	return context.WithValue(ctx, flowKey{}, flow)
}

// FlowFromContext returns the flow tag, or FlowUnknown.
func FlowFromContext(ctx context.Context) Flow {
	if f, ok := ctx.Value(flowKey{}).(Flow); ok {
		return f
	}
	return FlowUnknown
}

// WithSession tags ctx with a wizard session id.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFromContext returns the session id tag, or "".
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// Record tracks a call on the tracker carried by ctx, if any.
func Record(ctx context.Context, model, provider string, input, output int) {
	if t := FromContext(ctx); t != nil {
		t.Track(ctx, model, provider, input, output)
	}
}
