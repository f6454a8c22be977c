package links

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleReturnsDistinctURLs(t *testing.T) {
	got := Sample(3)
	assert.Len(t, got, 3)

	seen := map[string]bool{}
	for _, u := range got {
		assert.False(t, seen[u], "duplicate url %s", u)
		seen[u] = true
	}
}

func TestSampleClampsToAvailable(t *testing.T) {
	assert.Len(t, Sample(100), len(recipeSites))
}

func TestSampleNonPositive(t *testing.T) {
	assert.Empty(t, Sample(0))
	assert.Empty(t, Sample(-1))
}

func TestSampleConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Len(t, Sample(3), 3)
			}
		}()
	}
	wg.Wait()
}
