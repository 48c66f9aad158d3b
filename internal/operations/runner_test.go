package operations

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	var log []string
	reg := NewRegistry()
	mustRegister(t, reg,
		newMockStep("report", &log, "merge"),
		newMockStep("load", &log),
		newMockStep("merge", &log, "load"),
	)

	state := NewState("run-1", "test")
	require.NoError(t, NewRunner(reg, nil, nil).Run(context.Background(), state))

	assert.Equal(t, []string{"load", "merge", "report"}, log)
	for _, id := range log {
		st := state.GetStep(id)
		require.NotNil(t, st)
		assert.Equal(t, StepStatusCompleted, st.GetStatus())
	}
}

func TestRunner_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name       string
		configure  func(s *mockStep)
		wantStatus StepStatus
		check      func(t *testing.T, err error)
	}{
		{
			name:       "execution error",
			configure:  func(s *mockStep) { s.executeErr = boom },
			wantStatus: StepStatusFailed,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, boom))
				var opErr *OperationError
				require.True(t, errors.As(err, &opErr))
				assert.Equal(t, ErrorTypeExecution, opErr.Type)
				assert.Equal(t, "merge", opErr.Step)
			},
		},
		{
			name:       "validation error",
			configure:  func(s *mockStep) { s.validateErr = NewValidationError("merge", "fundamentals not loaded") },
			wantStatus: StepStatusFailed,
			check: func(t *testing.T, err error) {
				assert.True(t, IsValidationError(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log []string
			merge := newMockStep("merge", &log, "load")
			tt.configure(merge)

			reg := NewRegistry()
			mustRegister(t, reg, newMockStep("load", &log), merge, newMockStep("report", &log, "merge"))

			state := NewState("run-1", "test")
			err := NewRunner(reg, nil, nil).Run(context.Background(), state)
			require.Error(t, err)
			tt.check(t, err)

			assert.NotContains(t, log, "report")
			assert.Equal(t, tt.wantStatus, state.GetStep("merge").GetStatus())
			assert.Equal(t, StepStatusSkipped, state.GetStep("report").GetStatus())
		})
	}
}

func TestRunner_CancelBetweenSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var log []string
	load := newMockStep("load", &log)
	load.onExecute = func(context.Context, *State) { cancel() }

	reg := NewRegistry()
	mustRegister(t, reg, load, newMockStep("merge", &log, "load"), newMockStep("report", &log, "merge"))

	state := NewState("run-1", "test")
	err := NewRunner(reg, nil, nil).Run(ctx, state)
	require.Error(t, err)
	assert.True(t, IsCancellationError(err))
	assert.True(t, errors.Is(err, context.Canceled))

	assert.Equal(t, []string{"load"}, log)
	assert.Equal(t, StepStatusCompleted, state.GetStep("load").GetStatus())
	assert.Equal(t, StepStatusSkipped, state.GetStep("merge").GetStatus())
	assert.Equal(t, StepStatusSkipped, state.GetStep("report").GetStatus())
}

func TestRunner_InvalidGraph(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg, newMockStep("merge", nil, "load"))
	err := NewRunner(reg, nil, nil).Run(context.Background(), NewState("run-1", "test"))
	assert.True(t, IsDependencyError(err))
}

func TestRunner_LogsBlockedDependents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	merge := newMockStep("merge", nil, "load")
	merge.executeErr = errors.New("boom")

	reg := NewRegistry()
	mustRegister(t, reg,
		newMockStep("load", nil),
		merge,
		newMockStep("ratios", nil, "merge"),
		newMockStep("report", nil, "merge"),
	)

	state := NewState("run-1", "test")
	require.Error(t, NewRunner(reg, nil, logger).Run(context.Background(), state))

	assert.Contains(t, buf.String(), `"msg":"Dependent steps not run"`)
	assert.Contains(t, buf.String(), `"dependents":["ratios","report"]`)
	assert.Equal(t, StepStatusSkipped, state.GetStep("ratios").GetStatus())
	assert.Equal(t, StepStatusSkipped, state.GetStep("report").GetStatus())
}
