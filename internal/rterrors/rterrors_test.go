package rterrors

import (
	"errors"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() *Handler {
	return NewHandler(log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel}))
}

func TestHandleNilIsNoop(t *testing.T) {
	t.Parallel()
	h := testHandler()
	assert.NoError(t, h.Handle(nil, "should not happen"))
}

func TestHandleReturnsOriginalError(t *testing.T) {
	t.Parallel()
	h := testHandler()

	err := &InvalidParameter{Message: "empty charset"}
	got := h.Handle(err, "config error")
	require.Equal(t, err, got)
}

func TestHandleRecognizesEachKind(t *testing.T) {
	t.Parallel()
	h := testHandler()

	errs := []error{
		&InvalidParameter{Message: "x"},
		&SearchSpaceOverflow{Message: "x"},
		&ExecutorTransient{Err: errors.New("oom")},
		&ExecutorFatal{Err: errors.New("no driver")},
		&CorruptedTable{Message: "bad magic"},
		ErrNotFound,
		errors.New("some other error"),
	}

	for _, err := range errs {
		assert.Equal(t, err, h.Handle(err, "context"))
	}
}

func TestExecutorErrorsUnwrap(t *testing.T) {
	t.Parallel()

	base := errors.New("device lost")
	transient := &ExecutorTransient{Err: base}
	assert.ErrorIs(t, transient, base)

	fatal := &ExecutorFatal{Err: base}
	assert.ErrorIs(t, fatal, base)
}
