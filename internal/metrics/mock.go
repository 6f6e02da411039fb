package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	tx                   map[string]int
	statRowsWritten      int
	photoCleanupFailures int
}

func NewMock() *Mock {
	return &Mock{tx: make(map[string]int)}
}

func (m *Mock) ObserveTx(operation, outcome string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tx[operation+"/"+outcome]++
}

func (m *Mock) AddStatRowsWritten(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statRowsWritten += n
}

func (m *Mock) IncPhotoCleanupFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.photoCleanupFailures++
}

// Tx returns how many times operation finished with outcome.
func (m *Mock) Tx(operation, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx[operation+"/"+outcome]
}

func (m *Mock) StatRowsWritten() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statRowsWritten
}

func (m *Mock) PhotoCleanupFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.photoCleanupFailures
}
