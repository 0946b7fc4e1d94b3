package observability

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_AssignmentCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordAssignment("src-1", "assigned")
	m.RecordAssignment("src-1", "assigned")
	m.RecordAssignment("src-1", "capacity_exhausted")
	m.RecordAssignment("src-2", "assigned")

	assert.Equal(t, int64(2), m.AssignmentCount("src-1", "assigned"))
	assert.Equal(t, int64(1), m.AssignmentCount("src-1", "capacity_exhausted"))
	assert.Equal(t, int64(1), m.AssignmentCount("src-2", "assigned"))
	assert.Equal(t, int64(0), m.AssignmentCount("src-2", "no_linked_operator"))
}

func TestMetrics_ConcurrentRecording(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordAssignment("src-1", "assigned")
			m.RecordRequest("/appeals", "POST", 201, 0)
			m.RecordError("/appeals", "POST", "VALIDATION_FAILED")
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.AssignmentCount("src-1", "assigned"))
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordAssignment("src-1", "assigned")
	assert.Equal(t, int64(0), m.AssignmentCount("src-1", "assigned"))
}
