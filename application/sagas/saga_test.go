package sagas

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaga_Execute_ThreadsDataThroughSteps(t *testing.T) {
	ctx := context.Background()
	saga := NewSaga("pipeline", zap.NewNop())

	saga.AddStep(SagaStep{
		Name: "double",
		Execute: func(_ context.Context, data interface{}) (interface{}, error) {
			return data.(int) * 2, nil
		},
	}).AddStep(SagaStep{
		Name: "increment",
		Execute: func(_ context.Context, data interface{}) (interface{}, error) {
			return data.(int) + 1, nil
		},
	})

	result, err := saga.Execute(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, 21, result)
	assert.Equal(t, SagaStateCompleted, saga.State())
}

func TestSaga_Execute_CompensatesInReverseOrder(t *testing.T) {
	ctx := context.Background()
	saga := NewSaga("pipeline", zap.NewNop())

	var compensated []string
	saga.AddStep(SagaStep{
		Name: "first",
		Execute: func(_ context.Context, data interface{}) (interface{}, error) {
			return data, nil
		},
		Compensate: func(_ context.Context, _ interface{}) error {
			compensated = append(compensated, "first")
			return nil
		},
	}).AddStep(SagaStep{
		Name: "second",
		Execute: func(_ context.Context, data interface{}) (interface{}, error) {
			return data, nil
		},
		Compensate: func(_ context.Context, _ interface{}) error {
			compensated = append(compensated, "second")
			return nil
		},
	}).AddStep(SagaStep{
		Name: "failing",
		Execute: func(_ context.Context, _ interface{}) (interface{}, error) {
			return nil, errors.New("boom")
		},
	})

	_, err := saga.Execute(ctx, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing")
	assert.Equal(t, []string{"second", "first"}, compensated)
	assert.Equal(t, SagaStateCompensated, saga.State())
}

func TestSaga_Execute_CompensationErrorDoesNotStopOthers(t *testing.T) {
	ctx := context.Background()
	saga := NewSaga("pipeline", zap.NewNop())

	firstCompensated := false
	saga.AddStep(SagaStep{
		Name: "first",
		Execute: func(_ context.Context, data interface{}) (interface{}, error) {
			return data, nil
		},
		Compensate: func(_ context.Context, _ interface{}) error {
			firstCompensated = true
			return nil
		},
	}).AddStep(SagaStep{
		Name: "second",
		Execute: func(_ context.Context, data interface{}) (interface{}, error) {
			return data, nil
		},
		Compensate: func(_ context.Context, _ interface{}) error {
			return errors.New("compensation broke")
		},
	}).AddStep(SagaStep{
		Name: "failing",
		Execute: func(_ context.Context, _ interface{}) (interface{}, error) {
			return nil, errors.New("boom")
		},
	})

	_, err := saga.Execute(ctx, nil)

	require.Error(t, err)
	assert.True(t, firstCompensated)
	assert.Equal(t, SagaStateCompensated, saga.State())
}

func TestSaga_Execute_RetriesUntilSuccess(t *testing.T) {
	ctx := context.Background()
	saga := NewSaga("pipeline", zap.NewNop())

	attempts := 0
	saga.AddStep(SagaStep{
		Name:       "flaky",
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
		Execute: func(_ context.Context, data interface{}) (interface{}, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("transient")
			}
			return data, nil
		},
	})

	_, err := saga.Execute(ctx, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, SagaStateCompleted, saga.State())
}

func TestSaga_Execute_CancelledContextStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	saga := NewSaga("pipeline", zap.NewNop())

	saga.AddStep(SagaStep{
		Name:       "flaky",
		MaxRetries: 5,
		RetryDelay: time.Minute,
		Execute: func(_ context.Context, _ interface{}) (interface{}, error) {
			cancel()
			return nil, errors.New("transient")
		},
	})

	_, err := saga.Execute(ctx, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
