package cache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/ddsolve/cache"
)

func TestThreshold_Compare(t *testing.T) {
	lo := cache.Threshold{Value: 1}
	loX := cache.Threshold{Value: 1, Explored: true}
	hi := cache.Threshold{Value: 2}

	assert.Equal(t, -1, lo.Compare(loX))
	assert.Equal(t, 1, loX.Compare(lo))
	assert.Equal(t, 0, lo.Compare(lo))
	assert.Equal(t, -1, loX.Compare(hi))
	assert.Equal(t, 1, hi.Compare(loX))
}

func TestSimple_MustExplore(t *testing.T) {
	c := cache.NewSimple[string](3)
	assert.True(t, c.MustExplore(1, "s", 0), "unknown state")

	c.Set(1, "s", cache.Threshold{Value: 10})
	assert.False(t, c.MustExplore(1, "s", 9))
	assert.True(t, c.MustExplore(1, "s", 10), "equal value, not explored")
	assert.True(t, c.MustExplore(1, "s", 11))
	assert.True(t, c.MustExplore(2, "s", 0), "depths are separate")

	c.Set(1, "s", cache.Threshold{Value: 10, Explored: true})
	assert.False(t, c.MustExplore(1, "s", 10), "equal value, explored")
	assert.True(t, c.MustExplore(1, "s", 11))
}

func TestSimple_SetOnlyRaises(t *testing.T) {
	c := cache.NewSimple[int](1)
	c.Set(5, 1, cache.Threshold{Value: 7, Explored: true})
	c.Set(5, 1, cache.Threshold{Value: 7})
	c.Set(5, 1, cache.Threshold{Value: 3})
	th, ok := c.Get(5, 1)
	assert.True(t, ok)
	assert.Equal(t, cache.Threshold{Value: 7, Explored: true}, th)

	c.Set(5, 1, cache.Threshold{Value: 8})
	th, _ = c.Get(5, 1)
	assert.Equal(t, int64(8), th.Value)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	_, ok = c.Get(5, 1)
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestSimple_ConcurrentRaisesKeepMax(t *testing.T) {
	c := cache.NewSimple[int](4)
	var wg sync.WaitGroup
	for v := int64(0); v < 100; v++ {
		wg.Add(1)
		go func(v int64) {
			defer wg.Done()
			c.Set(2, 42, cache.Threshold{Value: v})
		}(v)
	}
	wg.Wait()
	th, ok := c.Get(2, 42)
	assert.True(t, ok)
	assert.Equal(t, int64(99), th.Value)
}

func TestEmpty(t *testing.T) {
	var c cache.Cache[int] = cache.Empty[int]{}
	c.Set(0, 1, cache.Threshold{Value: 100, Explored: true})
	_, ok := c.Get(0, 1)
	assert.False(t, ok)
	assert.True(t, c.MustExplore(0, 1, -100))
}
