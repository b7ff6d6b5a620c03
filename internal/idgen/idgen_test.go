package idgen

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	id := UUID{}.NewID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, UUID{}.NewID())
}

func TestNewFunc_Stub(t *testing.T) {
	orig := NewFunc
	t.Cleanup(func() { NewFunc = orig })

	NewFunc = func() string { return "fixed" }
	assert.Equal(t, "fixed", UUID{}.NewID())
}

func TestSequence(t *testing.T) {
	s := NewSequence(0)
	assert.Equal(t, "1", s.NewID())
	assert.Equal(t, "2", s.NewID())

	assert.Equal(t, "11", NewSequence(10).NewID())
}

func TestSequence_Concurrent(t *testing.T) {
	s := NewSequence(0)
	var (
		mu   sync.Mutex
		seen = map[string]bool{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.NewID()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
}
