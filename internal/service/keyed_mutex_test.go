package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	k := newKeyedMutex()
	counters := map[string]*int{"a": new(int), "b": new(int)}
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		for key, n := range counters {
			wg.Add(1)
			go func(key string, n *int) {
				defer wg.Done()
				unlock := k.Lock(key)
				defer unlock()
				*n++
			}(key, n)
		}
	}
	wg.Wait()

	assert.Equal(t, 50, *counters["a"])
	assert.Equal(t, 50, *counters["b"])
	assert.Equal(t, 0, k.size())
}
