// Package saga runs ordered multi-store operations without transactions.
// A step list executes in order; on the first failure the completed steps
// are compensated in reverse and the original failure is returned.
package saga

import (
	"fmt"

	"hanabi/internal/logger"
)

type Step struct {
	Name string
	Run  func() error
	// Compensate undoes a completed Run. Nil means the step cannot be
	// undone; steps after it must tolerate a crash leaving it applied.
	Compensate func() error
}

type Runner struct {
	Logger logger.Logger
}

func NewRunner(log logger.Logger) *Runner {
	return &Runner{Logger: log}
}

// Execute runs every step in order. If a step fails, compensations for the
// already-completed steps run backwards and the step's own error is
// returned unchanged. A failing compensation is logged and skipped so the
// original failure is never masked.
func (r *Runner) Execute(steps []Step) error {
	for i, step := range steps {
		err := step.Run()
		if err == nil {
			continue
		}
		r.Logger.Error(fmt.Sprintf("Step %s failed, compensating", step.Name), err)
		for j := i - 1; j >= 0; j-- {
			undo := steps[j]
			if undo.Compensate == nil {
				continue
			}
			if undoErr := undo.Compensate(); undoErr != nil {
				r.Logger.Error(fmt.Sprintf("Failed to compensate step %s", undo.Name), undoErr)
			}
		}
		return err
	}
	return nil
}
