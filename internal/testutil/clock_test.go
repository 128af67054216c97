package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_Sequence(t *testing.T) {
	c := NewDeterministicClock()

	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	c.Reset()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
}

func TestDeterministicClock_Concurrent(t *testing.T) {
	c := NewDeterministicClock()

	var wg sync.WaitGroup
	seen := make(chan int64, 100)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				seen <- c.Next()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]struct{})
	for v := range seen {
		unique[v] = struct{}{}
	}
	assert.Len(t, unique, 100, "sequence numbers must never repeat")
	assert.Equal(t, int64(100), c.Current())
}

func TestFixedIDGenerator_Sequence(t *testing.T) {
	g := NewFixedIDGenerator("step")

	assert.Equal(t, "step-0001", g.NewID())
	assert.Equal(t, "step-0002", g.NewID())
}

func TestFixedIDGenerator_DefaultPrefix(t *testing.T) {
	g := NewFixedIDGenerator("")

	assert.Equal(t, "id-0001", g.NewID())
}
