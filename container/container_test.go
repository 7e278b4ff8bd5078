package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlecore/engine/container"
)

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := container.NewOrderedMap[string, int]()
	m.Set("lightscreen", 1)
	m.Set("reflect", 2)
	m.Set("spikes", 3)
	m.Set("lightscreen", 99) // re-insert: value updates, position doesn't move

	assert.Equal(t, []string{"lightscreen", "reflect", "spikes"}, m.Keys())
	v, ok := m.Get("lightscreen")
	require.True(t, ok)
	assert.Equal(t, 99, v)
}

func TestOrderedMapDeleteRemovesFromOrder(t *testing.T) {
	m := container.NewOrderedMap[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	m.Delete("b")

	assert.Equal(t, []string{"a", "c"}, m.Keys())
	assert.False(t, m.Has("b"))
}

func TestOrderedMapRangeStopsEarly(t *testing.T) {
	m := container.NewOrderedMap[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	var seen []string
	m.Range(func(k string, v int) bool {
		seen = append(seen, k)
		return k != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestBagSetUnionAndIntersect(t *testing.T) {
	a := container.NewBagSet("fire", "water")
	b := container.NewBagSet("water", "grass")

	union := a.Union(b)
	assert.Equal(t, 3, union.Len())
	assert.True(t, union.Contains("fire"))
	assert.True(t, union.Contains("grass"))

	inter := a.Intersect(b)
	assert.Equal(t, 1, inter.Len())
	assert.True(t, inter.Contains("water"))
}

func TestFractionReducesAndApplies(t *testing.T) {
	half := container.NewFraction(2, 4)
	assert.Equal(t, int64(1), half.Numerator)
	assert.Equal(t, int64(2), half.Denominator)
	assert.Equal(t, 50, half.ApplyToInt(100))
}

func TestFractionMulChain(t *testing.T) {
	stab := container.NewFraction(3, 2)       // 1.5x
	superEffective := container.NewFraction(2, 1) // 2x
	combined := stab.Mul(superEffective)
	assert.InDelta(t, 3.0, combined.Float64(), 0.0001)
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	cache := container.NewLRU[string, int](2)
	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Get("a") // promote a
	cache.Put("c", 3) // evicts b, the least-recently-used

	_, ok := cache.Get("b")
	assert.False(t, ok)

	va, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, va)

	vc, ok := cache.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, vc)
}
