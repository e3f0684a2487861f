package sagas

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SagaState tracks where a saga execution stands
type SagaState string

const (
	SagaStatePending      SagaState = "PENDING"
	SagaStateRunning      SagaState = "RUNNING"
	SagaStateCompleted    SagaState = "COMPLETED"
	SagaStateFailed       SagaState = "FAILED"
	SagaStateCompensating SagaState = "COMPENSATING"
	SagaStateCompensated  SagaState = "COMPENSATED"
)

// SagaStep is one unit of work with optional compensation and retry.
// Execute receives the previous step's output and returns its own.
type SagaStep struct {
	Name       string
	Execute    func(ctx context.Context, data interface{}) (interface{}, error)
	Compensate func(ctx context.Context, data interface{}) error
	MaxRetries int
	RetryDelay time.Duration
}

// Saga runs an ordered step list, compensating completed steps in
// reverse when a later one fails
type Saga struct {
	id     string
	name   string
	steps  []SagaStep
	state  SagaState
	logger *zap.Logger
}

// NewSaga creates a new saga instance
func NewSaga(name string, logger *zap.Logger) *Saga {
	return &Saga{
		id:     fmt.Sprintf("saga_%d", time.Now().UnixNano()),
		name:   name,
		state:  SagaStatePending,
		logger: logger,
	}
}

// AddStep appends a step to the saga
func (s *Saga) AddStep(step SagaStep) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// State returns the saga's current state
func (s *Saga) State() SagaState {
	return s.state
}

// ID returns the saga's unique identifier
func (s *Saga) ID() string {
	return s.id
}

// Execute runs all steps in order, threading each step's output into
// the next. On failure, compensations of completed steps run in reverse
// order; a compensation error is logged but does not stop the rest.
func (s *Saga) Execute(ctx context.Context, initialData interface{}) (interface{}, error) {
	s.state = SagaStateRunning
	s.logger.Info("Starting saga",
		zap.String("sagaID", s.id),
		zap.String("saga", s.name),
		zap.Int("steps", len(s.steps)),
	)

	type completed struct {
		step SagaStep
		data interface{}
	}

	data := initialData
	var done []completed

	for i, step := range s.steps {
		result, err := s.executeWithRetry(ctx, step, data)
		if err != nil {
			s.state = SagaStateFailed
			s.logger.Error("Saga step failed",
				zap.String("sagaID", s.id),
				zap.String("step", step.Name),
				zap.Int("stepNumber", i+1),
				zap.Error(err),
			)

			s.state = SagaStateCompensating
			for j := len(done) - 1; j >= 0; j-- {
				c := done[j]
				if c.step.Compensate == nil {
					continue
				}
				if compErr := c.step.Compensate(ctx, c.data); compErr != nil {
					s.logger.Error("Saga compensation failed",
						zap.String("sagaID", s.id),
						zap.String("step", c.step.Name),
						zap.Error(compErr),
					)
				}
			}
			s.state = SagaStateCompensated

			return nil, fmt.Errorf("saga %s failed at step %s: %w", s.name, step.Name, err)
		}

		data = result
		done = append(done, completed{step: step, data: data})
	}

	s.state = SagaStateCompleted
	s.logger.Info("Saga completed",
		zap.String("sagaID", s.id),
		zap.String("saga", s.name),
	)

	return data, nil
}

func (s *Saga) executeWithRetry(ctx context.Context, step SagaStep, data interface{}) (interface{}, error) {
	attempts := step.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	delay := step.RetryDelay
	if delay == 0 {
		delay = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := step.Execute(ctx, data)
		if err == nil {
			return result, nil
		}

		lastErr = err
		s.logger.Warn("Saga step attempt failed",
			zap.String("sagaID", s.id),
			zap.String("step", step.Name),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	return nil, fmt.Errorf("step %s failed after %d attempts: %w", step.Name, attempts, lastErr)
}
