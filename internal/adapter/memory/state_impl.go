package memory

import (
	"context"
	"sync"

	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/internal/repository"
)

// StateRegistry keeps extraction progress records in process memory.
// Records handed out are copies, so callers never share the stored value.
type StateRegistry struct {
	mu     sync.RWMutex
	states map[string]*entity.ExtractionState
}

// NewStateRegistry creates an empty registry.
func NewStateRegistry() *StateRegistry {
	return &StateRegistry{states: make(map[string]*entity.ExtractionState)}
}

// Create stores the record, replacing any previous one with the same ID.
func (r *StateRegistry) Create(_ context.Context, state *entity.ExtractionState) error {
	s := *state
	s.Progress = entity.ClampProgress(s.Progress)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[s.ExtractionID] = &s
	return nil
}

func (r *StateRegistry) UpdateProgress(_ context.Context, extractionID string, progress int, stage string) error {
	return r.mutate(extractionID, func(s *entity.ExtractionState) {
		s.Progress = entity.ClampProgress(progress)
		s.Stage = stage
	})
}

func (r *StateRegistry) Get(_ context.Context, extractionID string) (*entity.ExtractionState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.states[extractionID]
	if !ok {
		return nil, repository.ErrStateNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *StateRegistry) SetPaused(_ context.Context, extractionID string, paused bool) error {
	return r.mutate(extractionID, func(s *entity.ExtractionState) { s.Paused = paused })
}

func (r *StateRegistry) SetStopped(_ context.Context, extractionID string, stopped bool) error {
	return r.mutate(extractionID, func(s *entity.ExtractionState) { s.Stopped = stopped })
}

func (r *StateRegistry) Delete(_ context.Context, extractionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, extractionID)
	return nil
}

// Len returns the number of live records.
func (r *StateRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}

func (r *StateRegistry) mutate(extractionID string, fn func(*entity.ExtractionState)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[extractionID]
	if !ok {
		return repository.ErrStateNotFound
	}
	fn(s)
	return nil
}
