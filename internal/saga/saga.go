package saga

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khrees2412/mockprep/internal/app"
)

// Step is one remote write with an optional compensation undoing it
type Step struct {
	Name       string
	Do         func(ctx context.Context) error
	Compensate func(ctx context.Context) error
	// Skip leaves the step out entirely when it reports true at run time
	Skip func() bool
}

// Saga runs steps in order. When a step fails, the compensations of the
// steps that already succeeded run in reverse order and the step's error
// is returned. Compensation failures are logged, never returned.
type Saga struct {
	name   string
	steps  []Step
	logger *zap.Logger
}

func New(name string, logger *zap.Logger, steps ...Step) *Saga {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saga{name: name, steps: steps, logger: logger}
}

func (s *Saga) Run(ctx context.Context) error {
	done := make([]Step, 0, len(s.steps))
	for _, step := range s.steps {
		if step.Skip != nil && step.Skip() {
			continue
		}
		if err := step.Do(ctx); err != nil {
			s.compensate(ctx, done)
			return fmt.Errorf("%s: %w", step.Name, err)
		}
		done = append(done, step)
	}
	return nil
}

func (s *Saga) compensate(ctx context.Context, done []Step) {
	// Compensations still run when the caller's context is cancelled
	ctx = context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			failure := &app.CompensationFailure{Step: step.Name, Err: err}
			s.logger.Error("compensation failed",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(failure),
			)
			continue
		}
		s.logger.Debug("compensated step", zap.String("saga", s.name), zap.String("step", step.Name))
	}
}
