package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"go.uber.org/zap"

	"property-financing/internal/config"
)

// StateStore reads and writes the scenario state under one key.
type StateStore struct {
	kv  KV
	key string
	log *zap.Logger
}

func NewStateStore(kv KV, log *zap.Logger) *StateStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &StateStore{kv: kv, key: DefaultStateKey, log: log}
}

// WithKey returns a store reading and writing a different key on the same backend.
func (s *StateStore) WithKey(key string) *StateStore {
	cp := *s
	cp.key = key
	return &cp
}

// Load returns the persisted state. A missing, unreadable or malformed entry yields
// the defaults; Load never fails.
func (s *StateStore) Load(ctx context.Context) config.State {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return config.DefaultState()
	}
	if err != nil {
		s.log.Warn("state read failed, using defaults", zap.String("key", s.key), zap.Error(err))
		return config.DefaultState()
	}
	st, err := DecodeState(raw)
	if err != nil {
		s.log.Warn("state malformed, using defaults", zap.String("key", s.key), zap.Error(err))
		return config.DefaultState()
	}
	return st
}

// Save writes st in the current schema.
func (s *StateStore) Save(ctx context.Context, st config.State) error {
	st = st.Complete()
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Reset forgets the stored state, so the next Load returns the defaults.
func (s *StateStore) Reset(ctx context.Context) (config.State, error) {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return config.State{}, fmt.Errorf("reset state: %w", err)
	}
	return config.DefaultState(), nil
}

// Copy copies one scenario over another and saves the result.
func (s *StateStore) Copy(ctx context.Context, from, to string) (config.State, error) {
	st, err := s.Load(ctx).CopyScenario(from, to)
	if err != nil {
		return config.State{}, err
	}
	return st, s.Save(ctx, st)
}

// Import decodes a state or export document of any known version and saves it.
func (s *StateStore) Import(ctx context.Context, raw []byte) (config.State, error) {
	st, err := DecodeState(raw)
	if err != nil {
		return config.State{}, err
	}
	return st, s.Save(ctx, st)
}

// DecodeState is lenient: strict JSON first, then repaired JSON, then Hjson.
// Whatever parses is migrated to the current schema.
func DecodeState(raw []byte) (config.State, error) {
	st, err := config.Migrate(raw)
	if err == nil {
		return st, nil
	}
	firstErr := err

	if repaired, rerr := jsonrepair.RepairJSON(string(raw)); rerr == nil {
		if st, err := config.Migrate([]byte(repaired)); err == nil {
			return st, nil
		}
	}

	var doc any
	if herr := hjson.Unmarshal(raw, &doc); herr == nil {
		if asJSON, merr := json.Marshal(doc); merr == nil {
			if st, err := config.Migrate(asJSON); err == nil {
				return st, nil
			}
		}
	}

	return config.State{}, fmt.Errorf("decode state: %w", firstErr)
}
