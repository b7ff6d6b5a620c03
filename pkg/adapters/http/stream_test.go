package http

import (
	"testing"

	"github.com/aretw0/flowcraft/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager(logging.NewNop())

	a, cancelA := sm.Subscribe()
	b, cancelB := sm.Subscribe()
	assert.Equal(t, 2, sm.Len())

	sm.Broadcast("hello")
	assert.Equal(t, "hello", <-a)
	assert.Equal(t, "hello", <-b)

	cancelA()
	cancelA()
	_, open := <-a
	assert.False(t, open)
	assert.Equal(t, 1, sm.Len())

	for i := 0; i < streamBuffer+5; i++ {
		sm.Broadcast("flood")
	}
	assert.Len(t, b, streamBuffer)

	sm.Close()
	assert.Equal(t, 0, sm.Len())
	cancelB()
}
