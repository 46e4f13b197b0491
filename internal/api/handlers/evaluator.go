package handlers

import (
	"context"

	"go.uber.org/zap"

	"property-financing/internal/cache"
	"property-financing/internal/config"
	"property-financing/internal/engine"
	"property-financing/internal/model"
)

// Evaluator runs scenarios through the engine, memoising results.
type Evaluator struct {
	engine *engine.Engine
	cache  *cache.ResultCache
	log    *zap.Logger
}

// NewEvaluator wires an engine to an optional result cache (nil disables caching).
func NewEvaluator(eng *engine.Engine, c *cache.ResultCache, log *zap.Logger) *Evaluator {
	if eng == nil {
		eng = engine.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{engine: eng, cache: c, log: log}
}

// One evaluates a single scenario. A non-empty label replaces the scenario name
// in the result.
func (ev *Evaluator) One(label string, s config.Scenario) model.ScenarioResult {
	name := resultLabel(label, s.Name)
	key := cache.Key(name, s)
	if r, ok := ev.cache.Get(key); ok {
		return r
	}
	cfg := s.ToModel()
	cfg.Name = name
	r := ev.engine.Evaluate(cfg)
	ev.cache.Set(key, r)
	return r
}

// All evaluates every scenario, computing only the ones not already cached.
func (ev *Evaluator) All(ctx context.Context, scenarios map[string]config.Scenario) (map[string]model.ScenarioResult, error) {
	out := make(map[string]model.ScenarioResult, len(scenarios))
	misses := make(map[string]model.ScenarioConfig)
	keys := make(map[string]string)
	for k, s := range scenarios {
		ck := cache.Key(resultLabel(s.Name, k), s)
		if r, ok := ev.cache.Get(ck); ok {
			out[k] = r
			continue
		}
		keys[k] = ck
		misses[k] = s.ToModel()
	}

	if len(misses) > 0 {
		computed, err := ev.engine.EvaluateAll(ctx, misses)
		if err != nil {
			return nil, err
		}
		for k, r := range computed {
			ev.cache.Set(keys[k], r)
			out[k] = r
		}
	}

	ev.log.Debug("evaluated scenarios",
		zap.Int("requested", len(scenarios)),
		zap.Int("computed", len(misses)),
	)
	return out, nil
}

// resultLabel returns the first non-empty name. Results are cached under the label
// they carry, whichever call path produced them.
func resultLabel(names ...string) string {
	for _, n := range names {
		if n != "" {
			return n
		}
	}
	return ""
}
