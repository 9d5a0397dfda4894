package cache

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyEqual(t *testing.T) {
	assert.True(t, Key{"a", "b"}.Equal(Key{"a", "b"}))
	assert.False(t, Key{"a", "b"}.Equal(Key{"b", "a"}))
	assert.False(t, Key{"a"}.Equal(Key{"a", "b"}))
	assert.True(t, Key(nil).Equal(Key{}))
}

func TestGetOrCompute_SameKeyComputesOnce(t *testing.T) {
	c := New()
	calls := 0
	compute := func() []string {
		calls++
		return []string{"x"}
	}

	first := GetOrCompute(c, "all-files", Key{"/lib"}, compute)
	second := GetOrCompute(c, "all-files", Key{"/lib"}, compute)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Same(t, &first[0], &second[0], "unchanged key returns the stored instance")
}

func TestGetOrCompute_KeyChangeRecomputes(t *testing.T) {
	c := New()
	calls := 0
	compute := func() int {
		calls++
		return calls
	}

	assert.Equal(t, 1, GetOrCompute(c, "classes", Key{"/a"}, compute))
	assert.Equal(t, 2, GetOrCompute(c, "classes", Key{"/a", "/b"}, compute))
	assert.Equal(t, 2, GetOrCompute(c, "classes", Key{"/a", "/b"}, compute))
	assert.Equal(t, 2, calls)
}

func TestGetOrCompute_SlotsAreIndependent(t *testing.T) {
	c := New()
	GetOrCompute(c, "modules", Key{"/a"}, func() string { return "m" })
	GetOrCompute(c, "resources", Key{"/b"}, func() string { return "r" })

	v, ok := c.Lookup("modules", Key{"/a"})
	require.True(t, ok)
	assert.Equal(t, "m", v)

	_, ok = c.Lookup("modules", Key{"/b"})
	assert.False(t, ok)
}

func TestFlush(t *testing.T) {
	c := New()
	calls := 0
	compute := func() int {
		calls++
		return calls
	}

	GetOrCompute(c, "classes", Key{"/a"}, compute)
	c.Flush()
	c.Flush()
	assert.Equal(t, 2, GetOrCompute(c, "classes", Key{"/a"}, compute))
	assert.Equal(t, 2, calls)
}

func TestStoreCopiesKey(t *testing.T) {
	c := New()
	key := Key{"/a"}
	c.Store("slot", key, 1)
	key[0] = "/mutated"

	_, ok := c.Lookup("slot", Key{"/a"})
	assert.True(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var computed atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key{"/root"}
			if i%2 == 0 {
				key = Key{"/root", "/extra"}
			}
			got := GetOrCompute(c, "all-files", key, func() Key {
				computed.Add(1)
				return key
			})
			// A caller never sees a value computed for a different key.
			assert.Equal(t, key, got)
		}(i)
	}
	wg.Wait()

	assert.GreaterOrEqual(t, computed.Load(), int64(2))
}

func TestInfo(t *testing.T) {
	c := New()
	GetOrCompute(c, "resources", Key{"/a", "/b"}, func() int { return 1 })
	GetOrCompute(c, "classes", Key{"/a"}, func() int { return 1 })
	GetOrCompute(c, "classes", Key{"/a"}, func() int { return 1 })

	info := c.Info()
	require.Len(t, info.Slots, 2)
	assert.Equal(t, "classes", info.Slots[0].Name)
	assert.Equal(t, 1, info.Slots[0].KeySize)
	assert.Equal(t, "resources", info.Slots[1].Name)
	assert.Equal(t, 2, info.Slots[1].KeySize)
	assert.Equal(t, int64(1), info.Hits)
	assert.Equal(t, int64(2), info.Misses)

	c.Flush()
	assert.Empty(t, c.Info().Slots)
}
