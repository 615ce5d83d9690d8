package kv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSetDelete(t *testing.T) {
	s := New[string, int]()

	_, ok := s.Get("a")
	assert.False(t, ok)

	s.Set("a", 1)
	s.Set("b", 2)
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, s.Len())
	assert.ElementsMatch(t, []string{"a", "b"}, s.Keys())

	s.Delete("a")
	_, ok = s.Get("a")
	assert.False(t, ok)
}

func TestStore_Take(t *testing.T) {
	s := New[string, int]()
	s.Set("a", 1)

	v, ok := s.Take("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.Take("a")
	assert.False(t, ok, "a second take finds nothing")
	assert.Equal(t, 0, s.Len())
}

func TestStore_Drain(t *testing.T) {
	s := New[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)

	assert.Equal(t, map[string]int{"a": 1, "b": 2}, s.Drain())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Drain())
}

func TestStore_ConcurrentTakeIsExclusive(t *testing.T) {
	s := New[int, struct{}]()
	for i := range 100 {
		s.Set(i, struct{}{})
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		taken int
	)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				if _, ok := s.Take(i); ok {
					mu.Lock()
					taken++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, taken)
}
