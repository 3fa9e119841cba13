package kv

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/kcaltrack/internal/database"
	"github.com/jgoulah/kcaltrack/internal/errs"
	"github.com/jgoulah/kcaltrack/internal/kv/kvtest"
)

func TestAdapter_ProbeNilMedium(t *testing.T) {
	a := New(nil, NewMemory(), nil)
	assert.False(t, a.Probe())
}

func TestAdapter_ProbeLeavesNoKey(t *testing.T) {
	m := kvtest.New()
	a := New(m, NewMemory(), nil)

	require.True(t, a.Probe())
	_, ok := m.Raw(probeKey)
	assert.False(t, ok)
}

func TestAdapter_DurableRoundTrip(t *testing.T) {
	m := kvtest.New()
	fb := NewMemory()
	a := New(m, fb, nil)

	require.NoError(t, a.Set("k", "v"))

	v, ok := a.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	raw, ok := m.Raw("k")
	assert.True(t, ok)
	assert.Equal(t, "v", raw)
	assert.Equal(t, 0, fb.Len())
}

func TestAdapter_UnavailableUsesFallback(t *testing.T) {
	m := kvtest.New()
	m.Unavailable = true
	fb := NewMemory()
	a := New(m, fb, nil)

	require.NoError(t, a.Set("k", "v"))

	v, ok := a.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, 1, fb.Len())
}

func TestAdapter_WriteErrorRedirectsToFallback(t *testing.T) {
	m := kvtest.New()
	m.SetHook = func(string, string) error { return errors.New("disk I/O error") }
	fb := NewMemory()
	a := New(m, fb, nil)

	require.NoError(t, a.Set("k", "v"))

	v, ok, _ := fb.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	// The durable medium still probes fine, so reads go there and miss.
	_, ok = a.Get("k")
	assert.False(t, ok)
}

func TestAdapter_QuotaErrorIsReturned(t *testing.T) {
	m := kvtest.New()
	m.SetHook = kvtest.QuotaOver(3)
	fb := NewMemory()
	a := New(m, fb, nil)

	err := a.Set("k", "toolong")
	require.ErrorIs(t, err, errs.ErrQuotaExceeded)
	assert.Equal(t, 0, fb.Len(), "quota failures must not be redirected")
}

func TestAdapter_ReadErrorIsAbsent(t *testing.T) {
	m := kvtest.New()
	m.Put("k", "v")
	m.ReadErr = errors.New("boom")
	a := New(m, NewMemory(), nil)

	_, ok := a.Get("k")
	assert.False(t, ok)
}

func TestAdapter_FallbackIsPerInstance(t *testing.T) {
	a1 := New(nil, NewMemory(), nil)
	a2 := New(nil, NewMemory(), nil)

	require.NoError(t, a1.Set("k", "v"))
	_, ok := a2.Get("k")
	assert.False(t, ok)
}

func TestAdapter_UsageSQLite(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "kv.db"), 100)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	a := New(db, NewMemory(), nil)
	require.NoError(t, a.Set("k", "0123456789"))

	u, err := a.Usage()
	require.NoError(t, err)
	assert.True(t, u.Durable)
	assert.Equal(t, int64(11), u.UsedBytes)
	assert.Equal(t, int64(100), u.Quota)
	assert.True(t, u.Healthy)

	require.NoError(t, a.Set("big", string(make([]byte, 75))))
	u, err = a.Usage()
	require.NoError(t, err)
	assert.False(t, u.Healthy)
}

func TestAdapter_UsageFallback(t *testing.T) {
	a := New(nil, NewMemory(), nil)
	require.NoError(t, a.Set("ab", "cd"))

	u, err := a.Usage()
	require.NoError(t, err)
	assert.False(t, u.Durable)
	assert.Equal(t, int64(4), u.UsedBytes)
	assert.True(t, u.Healthy)
}

func TestAdapter_ProbeToleratesFullMedium(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "full.db"), 10)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Set("k", "012345678"))

	a := New(db, NewMemory(), nil)
	assert.True(t, a.Probe())

	err = a.Set("k2", "x")
	require.ErrorIs(t, err, errs.ErrQuotaExceeded)
}
