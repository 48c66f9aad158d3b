package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStep records its execution into a shared log
type mockStep struct {
	BaseStep
	log         *[]string
	validateErr error
	executeErr  error
	onExecute   func(ctx context.Context, state *State)
}

func newMockStep(id string, log *[]string, deps ...string) *mockStep {
	return &mockStep{BaseStep: NewBaseStep(id, "Mock "+id, deps...), log: log}
}

func (m *mockStep) Validate(state *State) error { return m.validateErr }

func (m *mockStep) Execute(ctx context.Context, state *State) error {
	if m.log != nil {
		*m.log = append(*m.log, m.ID())
	}
	if m.onExecute != nil {
		m.onExecute(ctx, state)
	}
	return m.executeErr
}

func mustRegister(t *testing.T, reg *Registry, steps ...Step) {
	t.Helper()
	for _, s := range steps {
		require.NoError(t, reg.Register(s))
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, 0, reg.Count())
	assert.NotNil(t, reg.List())

	require.NoError(t, reg.Register(newMockStep("load", nil)))
	require.NoError(t, reg.Register(newMockStep("merge", nil, "load")))
	assert.Equal(t, 2, reg.Count())
	assert.Equal(t, []string{"load", "merge"}, stepIDs(reg.List()))

	got, err := reg.Get("merge")
	require.NoError(t, err)
	assert.Equal(t, "Mock merge", got.Name())

	tests := []struct {
		name string
		step Step
		want string
	}{
		{"nil step", nil, "nil step"},
		{"empty id", newMockStep("", nil), "ID cannot be empty"},
		{"duplicate", newMockStep("load", nil), "already registered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.step)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err = reg.Get("missing")
	require.Error(t, err)
	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, ErrorTypeNotFound, opErr.Type)
}

func TestRegistryDependencyOrder(t *testing.T) {
	tests := []struct {
		name  string
		steps [][]string // id followed by dependencies
		want  []string
	}{
		{
			name:  "linear chain",
			steps: [][]string{{"report", "ratios"}, {"ratios", "merge"}, {"merge", "load"}, {"load"}},
			want:  []string{"load", "merge", "ratios", "report"},
		},
		{
			name:  "ties keep registration order",
			steps: [][]string{{"load"}, {"clean", "load"}, {"merge", "load"}, {"ratios", "merge"}, {"sectors", "ratios"}, {"growth", "ratios"}},
			want:  []string{"load", "clean", "merge", "ratios", "sectors", "growth"},
		},
		{
			name:  "late registered root",
			steps: [][]string{{"b", "a"}, {"c"}, {"a"}},
			want:  []string{"c", "a", "b"},
		},
		{
			name:  "diamond",
			steps: [][]string{{"load"}, {"left", "load"}, {"right", "load"}, {"report", "right", "left"}},
			want:  []string{"load", "left", "right", "report"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			for _, s := range tt.steps {
				require.NoError(t, reg.Register(newMockStep(s[0], nil, s[1:]...)))
			}
			order, err := reg.GetDependencyOrder()
			require.NoError(t, err)
			assert.Equal(t, tt.want, stepIDs(order))
		})
	}
}

func TestRegistryDependencyErrors(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		reg := NewRegistry()
		mustRegister(t, reg,
			newMockStep("load", nil),
			newMockStep("a", nil, "load", "c"),
			newMockStep("b", nil, "a"),
			newMockStep("c", nil, "b"),
		)
		_, err := reg.GetDependencyOrder()
		require.Error(t, err)
		assert.True(t, IsDependencyError(err))
		assert.Contains(t, err.Error(), "cycle")
		assert.Contains(t, err.Error(), "[a b c]")
	})

	t.Run("unknown dependency", func(t *testing.T) {
		reg := NewRegistry()
		mustRegister(t, reg, newMockStep("merge", nil, "load"))
		err := reg.ValidateDependencies()
		require.Error(t, err)
		assert.True(t, IsDependencyError(err))
		assert.Contains(t, err.Error(), "unknown step load")
	})

	t.Run("self dependency", func(t *testing.T) {
		reg := NewRegistry()
		mustRegister(t, reg, newMockStep("loop", nil, "loop"))
		assert.Error(t, reg.ValidateDependencies())
	})
}

func TestRegistryGetDependents(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg,
		newMockStep("load", nil),
		newMockStep("merge", nil, "load"),
		newMockStep("clean", nil, "load"),
		newMockStep("ratios", nil, "merge"),
	)
	assert.Equal(t, []string{"merge", "clean"}, stepIDs(reg.GetDependents("load")))
	assert.Empty(t, reg.GetDependents("ratios"))
}

func TestAfter(t *testing.T) {
	base := newMockStep("merge", nil, "load")
	wrapped := After(base, "clean")
	assert.Equal(t, "merge", wrapped.ID())
	assert.Equal(t, []string{"load", "clean"}, wrapped.GetDependencies())
	assert.Equal(t, []string{"load"}, base.GetDependencies(), "wrapped step is unchanged")
}
