package metrics

// Metrics defines the interface for collecting application metrics.
// Services depend on it so tests can swap in Mock.
type Metrics interface {
	// ObserveTx records one WithinTx unit of work: outcome is "commit" or "rollback".
	ObserveTx(operation, outcome string, seconds float64)
	AddStatRowsWritten(n int)
	IncPhotoCleanupFailures()
}

// Tx outcome labels.
const (
	OutcomeCommit   = "commit"
	OutcomeRollback = "rollback"
)
