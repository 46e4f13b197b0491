package store

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"property-financing/internal/config"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	ctx := context.Background()

	sq, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	mr := miniredis.RunT(t)
	rd := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { rd.Close() })

	return map[string]KV{
		"memory": NewMemory(),
		"sqlite": sq,
		"redis":  rd,
	}
}

func TestKVContract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(ctx, "k", []byte("v1")))
			got, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), got)

			require.NoError(t, kv.Set(ctx, "k", []byte("v2")))
			got, err = kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), got)

			require.NoError(t, kv.Delete(ctx, "k"))
			_, err = kv.Get(ctx, "k")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	v := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", v))
	v[0] = 'x'
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, "memory://")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	path := filepath.Join(t.TempDir(), "state.db")
	kv, err = Open(ctx, "sqlite://"+path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "k", []byte("v")))
	require.NoError(t, kv.Close())

	kv, err = Open(ctx, "sqlite://"+path)
	require.NoError(t, err)
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
	require.NoError(t, kv.Close())

	mr := miniredis.RunT(t)
	kv, err = Open(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, kv)
	require.NoError(t, kv.Close())

	_, err = Open(ctx, "ftp://nope")
	require.Error(t, err)
}

func TestStateStoreDefaultsWhenMissing(t *testing.T) {
	s := NewStateStore(NewMemory(), zap.NewNop())
	assert.Equal(t, config.DefaultState(), s.Load(context.Background()))
}

func TestStateStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := NewStateStore(kv, nil)
			st := config.DefaultState()
			a := st.Scenarios[config.KeyA]
			a.Name = "Edited"
			a.PurchasePrice = 950000
			st.Scenarios[config.KeyA] = a

			require.NoError(t, s.Save(ctx, st))
			assert.Equal(t, st, s.Load(ctx))
		})
	}
}

func TestStateStoreMalformedFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	s := NewStateStore(kv, nil)

	for _, raw := range []string{`[1, 2, 3]`, `"just a string"`, `{"A": 1}`} {
		require.NoError(t, kv.Set(ctx, DefaultStateKey, []byte(raw)))
		assert.Equal(t, config.DefaultState(), s.Load(ctx), raw)
	}
}

func TestStateStoreMigratesLegacy(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Set(ctx, DefaultStateKey, []byte(`{"A": {"name": "Legacy", "financingMode": "Cash"}, "B": {"name": "Other"}}`)))

	st := NewStateStore(kv, nil).Load(ctx)
	assert.Equal(t, "Legacy", st.Scenarios[config.KeyA].Name)
	assert.Equal(t, "cash", st.Scenarios[config.KeyA].Financing.Mode)
	assert.Equal(t, config.CurrentSchemaVersion, st.SchemaVersion)
}

func TestDecodeStateRepairsJSON(t *testing.T) {
	st, err := DecodeState([]byte(`{"schemaVersion": 3, "scenarios": {"A": {"name": "Trailing", "purchase_price": 700000,},},}`))
	require.NoError(t, err)
	assert.Equal(t, "Trailing", st.Scenarios[config.KeyA].Name)
	assert.Equal(t, 700000.0, st.Scenarios[config.KeyA].PurchasePrice)
	assert.Equal(t, config.DefaultScenarioB(), st.Scenarios[config.KeyB])
}

func TestDecodeStateHjson(t *testing.T) {
	raw := `
# edited by hand
{
  "A": {
    "purchasePriceAed": 900000
  }
}`
	st, err := DecodeState([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 900000.0, st.Scenarios[config.KeyA].PurchasePrice)
}

func TestResetAndCopy(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	s := NewStateStore(kv, nil)

	st, err := s.Copy(ctx, config.KeyA, config.KeyB)
	require.NoError(t, err)
	assert.Equal(t, config.CopyOfAName, st.Scenarios[config.KeyB].Name)
	assert.Equal(t, config.CopyOfAName, s.Load(ctx).Scenarios[config.KeyB].Name)

	_, err = s.Copy(ctx, "missing", config.KeyB)
	require.Error(t, err)

	st, err = s.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultState(), st)
	assert.Equal(t, config.DefaultState(), s.Load(ctx))

	_, err = kv.Get(ctx, DefaultStateKey)
	require.ErrorIs(t, err, ErrNotFound)

	// Resetting an empty store is fine.
	_, err = s.Reset(ctx)
	require.NoError(t, err)
}

func TestWithKeyIsolatesState(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	a := NewStateStore(kv, nil)
	b := a.WithKey("other")

	_, err := a.Copy(ctx, config.KeyA, config.KeyB)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultState(), b.Load(ctx))
}

func TestExportRoundTrip(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 5, 3, 0, time.UTC)

	var buf bytes.Buffer
	p, err := Export(&buf, config.DefaultState(), now)
	require.NoError(t, err)
	_, err = uuid.Parse(p.ID)
	require.NoError(t, err)
	assert.Equal(t, config.CurrentSchemaVersion, p.SchemaVersion)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "2026-10-18T09:05:03Z", doc["exportedAt"])

	st, err := NewStateStore(NewMemory(), nil).Import(context.Background(), buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultState(), st)

	assert.Equal(t, "property-financing-scenarios-20261018-090503.json", ExportFilename(now))
}
