package rex

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryTokenStoreLifecycle(t *testing.T) {
	s := NewMemoryTokenStore()

	token, ok := s.Get()
	assert.False(t, ok)
	assert.Empty(t, token)

	s.Set("abc")
	token, ok = s.Get()
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	s.Set("def")
	token, _ = s.Get()
	assert.Equal(t, "def", token)

	s.Clear()
	token, ok = s.Get()
	assert.False(t, ok)
	assert.Empty(t, token)
}

func TestMemoryTokenStoreConcurrentWriters(t *testing.T) {
	s := NewMemoryTokenStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Set("token-" + strconv.Itoa(n))
			s.Get()
		}(i)
	}
	wg.Wait()

	token, ok := s.Get()
	assert.True(t, ok)
	assert.Contains(t, token, "token-")
}
