package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/internal/repository"
)

const statePrefix = "extraction:state:"

// updateIfExists applies HSET only when the hash is still present, so a late
// progress update cannot resurrect a record that was already cleaned up.
var updateIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV))
return 1
`)

// StateStoreImpl provides a concrete implementation for the StateStore interface using Redis hashes.
type StateStoreImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore creates a new instance of StateStoreImpl. Records expire after ttl
// even if the owning attempt never deletes them.
func NewStateStore(client *redis.Client, ttl time.Duration) *StateStoreImpl {
	return &StateStoreImpl{client: client, ttl: ttl}
}

func (s *StateStoreImpl) key(extractionID string) string {
	return statePrefix + extractionID
}

// Create writes the whole record and sets its expiry in one transaction.
func (s *StateStoreImpl) Create(ctx context.Context, state *entity.ExtractionState) error {
	key := s.key(state.ExtractionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, encodeState(state))
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create state %s: %w", state.ExtractionID, err)
	}
	return nil
}

func (s *StateStoreImpl) UpdateProgress(ctx context.Context, extractionID string, progress int, stage string) error {
	return s.update(ctx, extractionID,
		"progress", strconv.Itoa(entity.ClampProgress(progress)),
		"stage", stage,
	)
}

func (s *StateStoreImpl) SetPaused(ctx context.Context, extractionID string, paused bool) error {
	return s.update(ctx, extractionID, "paused", strconv.FormatBool(paused))
}

func (s *StateStoreImpl) SetStopped(ctx context.Context, extractionID string, stopped bool) error {
	return s.update(ctx, extractionID, "stopped", strconv.FormatBool(stopped))
}

func (s *StateStoreImpl) Get(ctx context.Context, extractionID string) (*entity.ExtractionState, error) {
	fields, err := s.client.HGetAll(ctx, s.key(extractionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get state %s: %w", extractionID, err)
	}
	if len(fields) == 0 {
		return nil, repository.ErrStateNotFound
	}
	state, err := decodeState(extractionID, fields)
	if err != nil {
		return nil, fmt.Errorf("decode state %s: %w", extractionID, err)
	}
	return state, nil
}

func (s *StateStoreImpl) Delete(ctx context.Context, extractionID string) error {
	return s.client.Del(ctx, s.key(extractionID)).Err()
}

func (s *StateStoreImpl) update(ctx context.Context, extractionID string, args ...interface{}) error {
	n, err := updateIfExists.Run(ctx, s.client, []string{s.key(extractionID)}, args...).Int()
	if err != nil {
		return fmt.Errorf("update state %s: %w", extractionID, err)
	}
	if n == 0 {
		return repository.ErrStateNotFound
	}
	return nil
}

func encodeState(state *entity.ExtractionState) map[string]interface{} {
	return map[string]interface{}{
		"paused":     strconv.FormatBool(state.Paused),
		"stopped":    strconv.FormatBool(state.Stopped),
		"url":        state.URL,
		"start_time": state.StartTime.UTC().Format(time.RFC3339Nano),
		"progress":   strconv.Itoa(entity.ClampProgress(state.Progress)),
		"stage":      state.Stage,
	}
}

func decodeState(extractionID string, fields map[string]string) (*entity.ExtractionState, error) {
	state := &entity.ExtractionState{
		ExtractionID: extractionID,
		URL:          fields["url"],
		Stage:        fields["stage"],
		Paused:       fields["paused"] == "true",
		Stopped:      fields["stopped"] == "true",
	}
	if v := fields["progress"]; v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("progress %q: %w", v, err)
		}
		state.Progress = p
	}
	if v := fields["start_time"]; v != "" {
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("start_time %q: %w", v, err)
		}
		state.StartTime = ts
	}
	return state, nil
}
