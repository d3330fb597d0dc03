// Package rterrors defines the typed error kinds shared across cugparck's
// generation and attack paths, and a small handler that logs them uniformly.
package rterrors

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// InvalidParameter marks a configuration error: empty charset, L > 32,
// t == 0, an unknown hash kind, malformed digest hex. Surfaced to the CLI.
type InvalidParameter struct {
	Message string
}

func (e *InvalidParameter) Error() string { return "invalid parameter: " + e.Message }

// SearchSpaceOverflow marks a configuration where N would exceed 2^64;
// refused at config time rather than at generation time.
type SearchSpaceOverflow struct {
	Message string
}

func (e *SearchSpaceOverflow) Error() string { return "search space overflow: " + e.Message }

// ExecutorTransient marks a retryable executor failure (GPU OOM, device
// reset). The pipeline halves its batch size and retries before falling
// back to the CPU executor.
type ExecutorTransient struct {
	Err error
}

func (e *ExecutorTransient) Error() string { return fmt.Sprintf("executor transient failure: %v", e.Err) }
func (e *ExecutorTransient) Unwrap() error { return e.Err }

// ExecutorFatal marks a non-retryable executor failure (wrong driver,
// permission denied).
type ExecutorFatal struct {
	Err error
}

func (e *ExecutorFatal) Error() string { return fmt.Sprintf("executor fatal failure: %v", e.Err) }
func (e *ExecutorFatal) Unwrap() error { return e.Err }

// CorruptedTable marks a fatal decode-time failure: bad magic, truncated
// file, out-of-range index.
type CorruptedTable struct {
	Message string
}

func (e *CorruptedTable) Error() string { return "corrupted table: " + e.Message }

// ErrNotFound is returned by the attack engine when a target isn't found
// after exhausting all columns and tables. It is not an error condition in
// the usual sense; callers map it to a distinct exit code rather than
// logging it as a failure.
var ErrNotFound = errors.New("not found")

// Handler logs errors uniformly, choosing the level and kind label from the
// error's type. It only logs: it neither escalates nor counts errors.
type Handler struct {
	Logger *log.Logger
}

// NewHandler builds a Handler bound to the given logger.
func NewHandler(logger *log.Logger) *Handler {
	return &Handler{Logger: logger}
}

// Handle logs err with context message and returns it unchanged, for
// chaining at call sites that want to both log and propagate.
func (h *Handler) Handle(err error, message string) error {
	if err == nil {
		return nil
	}

	var (
		invalid   *InvalidParameter
		overflow  *SearchSpaceOverflow
		transient *ExecutorTransient
		fatal     *ExecutorFatal
		corrupted *CorruptedTable
	)

	switch {
	case errors.As(err, &invalid):
		h.Logger.Error(message, "kind", "invalid_parameter", "error", err)
	case errors.As(err, &overflow):
		h.Logger.Error(message, "kind", "search_space_overflow", "error", err)
	case errors.As(err, &transient):
		h.Logger.Warn(message, "kind", "executor_transient", "error", err)
	case errors.As(err, &fatal):
		h.Logger.Error(message, "kind", "executor_fatal", "error", err)
	case errors.As(err, &corrupted):
		h.Logger.Error(message, "kind", "corrupted_table", "error", err)
	case errors.Is(err, ErrNotFound):
		h.Logger.Info(message, "kind", "not_found")
	default:
		h.Logger.Error(message, "error", err)
	}

	return err
}
