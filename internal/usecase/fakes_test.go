package usecase

import (
	"context"
	"sync"

	"github.com/user/extraction-service/internal/adapter/memory"
	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/internal/repository"
)

type fakeExtractor struct {
	data     *entity.ExtractedData
	err      error
	panicMsg string
	calls    int
	// onExtract runs inside Extract, before returning.
	onExtract func()
}

func (f *fakeExtractor) Extract(_ context.Context, url, _ string) (*entity.ExtractedData, error) {
	f.calls++
	if f.onExtract != nil {
		f.onExtract()
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.data, f.err
}

type fakeDataRepo struct {
	err   error
	saved []*entity.ExtractedData
}

func (f *fakeDataRepo) Save(_ context.Context, data *entity.ExtractedData) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, data)
	return nil
}

func (f *fakeDataRepo) FindByURL(_ context.Context, url string) (*entity.ExtractedData, error) {
	for _, d := range f.saved {
		if d.URL == url {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeStatusRepo struct {
	mu      sync.Mutex
	rows    map[string]string
	history []string
	initErr error
	// failStatus makes UpdateStatus fail for that status value.
	failStatus map[string]error
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{rows: map[string]string{}, failStatus: map[string]error{}}
}

func (f *fakeStatusRepo) InitializeEntry(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.initErr != nil {
		return f.initErr
	}
	if _, ok := f.rows[url]; !ok {
		f.rows[url] = entity.StatusPending
		f.history = append(f.history, entity.StatusPending)
	}
	return nil
}

func (f *fakeStatusRepo) UpdateStatus(_ context.Context, url, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failStatus[status]; err != nil {
		return err
	}
	f.rows[url] = status
	f.history = append(f.history, status)
	return nil
}

func (f *fakeStatusRepo) FindByURL(_ context.Context, url string) (*entity.ExtractionStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[url]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entity.ExtractionStatus{URL: url, Status: s}, nil
}

type fakeLogRepo struct {
	mu      sync.Mutex
	err     error
	entries []*entity.OperationLog
}

func (f *fakeLogRepo) Append(_ context.Context, entry *entity.OperationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *entry
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeLogRepo) ListByExtraction(_ context.Context, extractionID string, limit int) ([]*entity.OperationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.OperationLog
	for _, e := range f.entries {
		if e.ExtractionID == extractionID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLogRepo) find(category, event string) *entity.OperationLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.Category == category && e.Event == event {
			return e
		}
	}
	return nil
}

// recordingStates wraps the in-memory registry and remembers every progress update.
type recordingStates struct {
	*memory.StateRegistry
	mu      sync.Mutex
	updates []int
	created int
	deleted int
}

func newRecordingStates() *recordingStates {
	return &recordingStates{StateRegistry: memory.NewStateRegistry()}
}

func (r *recordingStates) Create(ctx context.Context, s *entity.ExtractionState) error {
	r.mu.Lock()
	r.created++
	r.mu.Unlock()
	return r.StateRegistry.Create(ctx, s)
}

func (r *recordingStates) UpdateProgress(ctx context.Context, id string, p int, stage string) error {
	r.mu.Lock()
	r.updates = append(r.updates, p)
	r.mu.Unlock()
	return r.StateRegistry.UpdateProgress(ctx, id, p, stage)
}

func (r *recordingStates) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	r.deleted++
	r.mu.Unlock()
	return r.StateRegistry.Delete(ctx, id)
}
