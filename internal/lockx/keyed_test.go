package lockx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock_SerializesSameKey(t *testing.T) {
	var (
		k       KeyedMutex
		wg      sync.WaitGroup
		counter int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("a")
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, k.Len(), "entries must be released")
}

func TestTryLock(t *testing.T) {
	var k KeyedMutex

	unlock := k.Lock("a")

	_, ok := k.TryLock("a")
	assert.False(t, ok, "held key")

	unlockB, ok := k.TryLock("b")
	require.True(t, ok, "different key is independent")
	unlockB()

	unlock()
	unlockA, ok := k.TryLock("a")
	require.True(t, ok)
	unlockA()

	assert.Zero(t, k.Len())
}
