package assignment

import (
	"testing"

	"github.com/khanglvm/calc-hub/internal/experiments"
	"github.com/khanglvm/calc-hub/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPick(t *testing.T) {
	variants := []experiments.Variant{
		{ID: "a", Weight: 0.2},
		{ID: "b", Weight: 0.3},
		{ID: "c", Weight: 0.5},
	}

	tests := []struct {
		draw float64
		want string
	}{
		{0.0, "a"},
		{0.1, "a"},
		{0.2, "a"},
		{0.2000001, "b"},
		{0.49, "b"},
		{0.75, "c"},
		{0.9999, "c"},
		{1.5, "c"},
	}

	for _, tt := range tests {
		got, ok := Pick(variants, tt.draw)
		require.True(t, ok)
		assert.Equal(t, tt.want, got.ID, "draw %v", tt.draw)
	}

	_, ok := Pick(nil, 0.5)
	assert.False(t, ok)
}

func TestHashBucketer(t *testing.T) {
	b := HashBucketer{}

	d := b.Draw("visitor", "test")
	assert.GreaterOrEqual(t, d, 0.0)
	assert.Less(t, d, 1.0)
	assert.Equal(t, d, b.Draw("visitor", "test"), "draws are reproducible")
	assert.NotEqual(t, b.Draw("ab", "c"), b.Draw("a", "bc"))
	assert.NotEqual(t, d, b.Draw("visitor", "other-test"))
}

func TestStore(t *testing.T) {
	kv := storage.NewMemory()
	store := NewStore(kv, nil)

	_, ok, err := store.Get("v", "t1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put("v", "t1", "a"))
	require.NoError(t, store.Put("v", "t2", "b"))
	require.NoError(t, store.Put("other", "t1", "z"))

	all, err := store.All("v")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"t1": "a", "t2": "b"}, all)

	raw, _, _ := kv.Get(storage.ScopeAssignments, "v")
	assert.JSONEq(t, `{"t1":"a","t2":"b"}`, raw)

	require.NoError(t, store.Remove("v", "t1"))
	_, ok, _ = store.Get("v", "t1")
	assert.False(t, ok)

	require.NoError(t, store.Clear("v"))
	all, err = store.All("v")
	require.NoError(t, err)
	assert.Empty(t, all)

	v, ok, _ := store.Get("other", "t1")
	assert.True(t, ok, "clearing one visitor leaves others alone")
	assert.Equal(t, "z", v)
}

func TestStore_CorruptDocument(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(storage.ScopeAssignments, "v", "{not json"))
	store := NewStore(kv, nil)

	_, ok, err := store.Get("v", "t")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put("v", "t", "a"))
	got, ok, _ := store.Get("v", "t")
	assert.True(t, ok)
	assert.Equal(t, "a", got)

	require.NoError(t, kv.Set(storage.ScopeAssignments, "n", "null"))
	assert.NoError(t, store.Put("n", "t", "a"))
}
