package catalog

import (
	"context"
	"log"
)

type sagaStep struct {
	name string
	undo func(ctx context.Context) error
}

// saga collects compensating actions as forward steps succeed and runs
// them in reverse order when the workflow fails. Compensation failures
// are logged, never escalated: by the time compensation runs the
// database state is already consistent without them.
type saga struct {
	steps []sagaStep
}

func (s *saga) push(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, sagaStep{name: name, undo: undo})
}

func (s *saga) compensate(ctx context.Context) {
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			log.Printf("Compensation %q failed: %v", step.name, err)
		} else {
			log.Printf("Compensation %q applied", step.name)
		}
	}
	s.steps = nil
}
