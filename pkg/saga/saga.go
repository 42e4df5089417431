// Package saga runs a sequence of local steps where each step has a compensating action.
// When a step fails, the steps that already succeeded are compensated in reverse order.
//
// Example (buyback acquisition):
//
//	s := saga.NewSaga(5 * time.Second)
//	s.AddStep("reserve_units", reserve, release)
//	s.AddStep("create_listing", createListing, deleteListing)
//	err := s.Execute(ctx)
package saga

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

type Saga struct {
	steps    []Step
	executed []Step
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSaga creates a saga whose steps must finish within timeout.
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{timeout: timeout, logger: zap.L()}
}

// WithLogger replaces the global logger used for compensation failures.
func (s *Saga) WithLogger(logger *zap.Logger) *Saga {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{Name: name, Action: action, Compensate: compensate})
}

// Execute runs the steps in order. The returned error wraps the failing step's error,
// so errors.As still finds domain errors raised by a step.
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			s.compensate(context.WithoutCancel(ctx))
			return fmt.Errorf("saga aborted before step %q: %w", step.Name, err)
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				// compensations get their own context so a deadline does not skip them
				s.compensate(context.WithoutCancel(ctx))
				return fmt.Errorf("saga step %d (%s) failed: %w", i, step.Name, err)
			}
		}
		s.executed = append(s.executed, step)
	}

	return nil
}

func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("saga compensation failed",
				zap.String("step", step.Name),
				zap.Error(err),
			)
		}
	}
	s.executed = nil
}
