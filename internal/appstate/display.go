package appstate

import "time"

// GenerationStarting logs the parameters a generation run is about to use.
func GenerationStarting(tableID uint32, m0 uint64, chainLength uint64) {
	Logger.Info("Starting table generation", "table_id", tableID, "startpoints", m0, "chain_length", chainLength)
}

// RoundStarting logs the start of a filtration round.
func RoundStarting(round int, fromCol, toCol uint32, liveChains int) {
	Logger.Debug("Extending chains", "round", round, "from_column", fromCol, "to_column", toCol, "live_chains", liveChains)
}

// RoundFinished logs the survivor count after a filtration round's dedup pass.
func RoundFinished(round int, survivors int, merged int) {
	Logger.Info("Round finished", "round", round, "survivors", survivors, "merged", merged)
}

// ExecutorRetrying logs a transient executor failure and the batch-size halving response.
func ExecutorRetrying(attempt int, newBatchSize int, err error) {
	Logger.Warn("Executor failed, retrying with smaller batch", "attempt", attempt, "batch_size", newBatchSize, "error", err)
}

// ExecutorFallingBackToCPU logs that the pipeline gave up on the configured executor.
func ExecutorFallingBackToCPU(err error) {
	Logger.Warn("Executor exhausted retries, falling back to the CPU executor", "error", err)
}

// TableWritten logs a completed table file.
func TableWritten(path string, chains int, elapsed time.Duration) {
	Logger.Info("Table written", "path", path, "chains", chains, "elapsed", elapsed)
}

// AttackStarting logs the start of an inversion attempt.
func AttackStarting(digestHex string, tableCount int) {
	Logger.Info("Starting attack", "digest", digestHex, "tables", tableCount)
}

// ChainInverted logs a successful inversion.
func ChainInverted(plaintext string, column uint32, table uint32) {
	Logger.Info("Plaintext recovered", "plaintext", plaintext, "column", column, "table", table)
}

// FalseAlarm logs a rejected endpoint collision.
func FalseAlarm(table uint32, column uint32) {
	Logger.Debug("False alarm", "table", table, "column", column)
}

// AttackNotFound logs an exhausted attack.
func AttackNotFound(digestHex string) {
	Logger.Info("Target not found", "digest", digestHex)
}
