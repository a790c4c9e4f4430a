package saga

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"hanabi/internal/logger"
)

func TestExecuteRunsStepsInOrder(t *testing.T) {
	order := []string{}
	runner := NewRunner(logger.New("test_saga"))
	err := runner.Execute([]Step{
		{Name: "first", Run: func() error { order = append(order, "first"); return nil }},
		{Name: "second", Run: func() error { order = append(order, "second"); return nil }},
		{Name: "third", Run: func() error { order = append(order, "third"); return nil }},
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestExecuteCompensatesBackwardOnFailure(t *testing.T) {
	boom := errors.New("boom")
	order := []string{}
	runner := NewRunner(logger.New("test_saga"))
	err := runner.Execute([]Step{
		{
			Name:       "first",
			Run:        func() error { order = append(order, "first"); return nil },
			Compensate: func() error { order = append(order, "undo first"); return nil },
		},
		{
			Name:       "second",
			Run:        func() error { order = append(order, "second"); return nil },
			Compensate: func() error { order = append(order, "undo second"); return nil },
		},
		{
			Name: "third",
			Run:  func() error { return boom },
		},
	})
	assert.Equal(t, boom, err, "the step's own error must propagate unchanged")
	assert.Equal(t, []string{"first", "second", "undo second", "undo first"}, order)
}

func TestExecuteFailedStepIsNotCompensated(t *testing.T) {
	boom := errors.New("boom")
	compensated := false
	runner := NewRunner(logger.New("test_saga"))
	err := runner.Execute([]Step{
		{
			Name:       "only",
			Run:        func() error { return boom },
			Compensate: func() error { compensated = true; return nil },
		},
	})
	assert.Equal(t, boom, err)
	assert.False(t, compensated, "a step that never completed must not be undone")
}

func TestExecuteCompensationFailureDoesNotMaskOriginal(t *testing.T) {
	boom := errors.New("boom")
	runner := NewRunner(logger.New("test_saga"))
	err := runner.Execute([]Step{
		{
			Name:       "first",
			Run:        func() error { return nil },
			Compensate: func() error { return errors.New("undo failed") },
		},
		{
			Name: "second",
			Run:  func() error { return boom },
		},
	})
	assert.Equal(t, boom, err)
}

func TestExecuteNilCompensationIsSkipped(t *testing.T) {
	boom := errors.New("boom")
	runner := NewRunner(logger.New("test_saga"))
	err := runner.Execute([]Step{
		{Name: "first", Run: func() error { return nil }},
		{Name: "second", Run: func() error { return boom }},
	})
	assert.Equal(t, boom, err)
}
