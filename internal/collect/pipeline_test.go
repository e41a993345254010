package collect

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"sitecensus/internal/model"
)

// mockStep is a configurable step for pipeline tests.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, result *model.CollectionResult) error
	callCount int
}

func (m *mockStep) Do(ctx context.Context, result *model.CollectionResult) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, result)
	}
	return nil
}

func (m *mockStep) Name() string {
	return m.name
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("steps run in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(_ context.Context, _ *model.CollectionResult) error {
				order = append(order, name)
				return nil
			}}
		}

		p := New()
		p.AddSteps(record("first"), record("second"), record("third"))

		result := model.NewCollectionResult("https://example.com")
		if err := p.Execute(context.Background(), result); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		want := []string{"first", "second", "third"}
		if !reflect.DeepEqual(order, want) {
			t.Errorf("execution order = %v, want %v", order, want)
		}
		if !reflect.DeepEqual(result.PerformedSteps, want) {
			t.Errorf("PerformedSteps = %v, want %v", result.PerformedSteps, want)
		}
		if result.CollectedAt.IsZero() {
			t.Error("CollectedAt not stamped")
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("step exploded")
		failing := &mockStep{name: "failing", doFunc: func(_ context.Context, _ *model.CollectionResult) error {
			return boom
		}}
		after := &mockStep{name: "after"}

		p := New()
		p.AddSteps(failing, after)

		result := model.NewCollectionResult("https://example.com")
		if err := p.Execute(context.Background(), result); !errors.Is(err, boom) {
			t.Errorf("Execute() error = %v, want the step error", err)
		}
		if after.callCount != 0 {
			t.Error("step after the failure should not run")
		}
		if !errors.Is(result.Error, boom) {
			t.Errorf("result.Error = %v, want step error recorded", result.Error)
		}
		if result.ErrorMessage != "step exploded" {
			t.Errorf("ErrorMessage = %q", result.ErrorMessage)
		}
		if result.CollectedAt.IsZero() {
			t.Error("CollectedAt must be stamped even on failure")
		}
	})

	t.Run("continues past failures when configured", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{name: "failing", doFunc: func(_ context.Context, _ *model.CollectionResult) error {
			return errors.New("non-critical")
		}}
		after := &mockStep{name: "after"}

		p := New(WithContinueOnError(true))
		p.AddSteps(failing, after)

		result := model.NewCollectionResult("https://example.com")
		if err := p.Execute(context.Background(), result); err != nil {
			t.Fatalf("Execute() error = %v, want nil with continueOnError", err)
		}
		if after.callCount != 1 {
			t.Error("step after the failure should still run")
		}
		if result.ErrorMessage != "non-critical" {
			t.Errorf("ErrorMessage = %q, want the recorded failure", result.ErrorMessage)
		}
		want := []string{"failing", "after"}
		if !reflect.DeepEqual(result.PerformedSteps, want) {
			t.Errorf("PerformedSteps = %v, want %v", result.PerformedSteps, want)
		}
	})

	t.Run("honors cancellation between steps", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		first := &mockStep{name: "first", doFunc: func(_ context.Context, _ *model.CollectionResult) error {
			cancel()
			return nil
		}}
		second := &mockStep{name: "second"}

		p := New()
		p.AddSteps(first, second)

		result := model.NewCollectionResult("https://example.com")
		if err := p.Execute(ctx, result); !errors.Is(err, context.Canceled) {
			t.Errorf("Execute() error = %v, want context.Canceled", err)
		}
		if second.callCount != 0 {
			t.Error("step after cancellation should not run")
		}
		if !errors.Is(result.Error, context.Canceled) {
			t.Errorf("result.Error = %v", result.Error)
		}
	})

	t.Run("empty pipeline", func(t *testing.T) {
		t.Parallel()

		result := model.NewCollectionResult("https://example.com")
		if err := New().Execute(context.Background(), result); err != nil {
			t.Errorf("Execute() error = %v", err)
		}
		if result.CollectedAt.IsZero() {
			t.Error("CollectedAt not stamped")
		}
	})
}

func TestPipelineStepBookkeeping(t *testing.T) {
	t.Parallel()

	p := New()
	if p.StepCount() != 0 {
		t.Errorf("StepCount() = %d, want 0", p.StepCount())
	}

	p.AddStep(&mockStep{name: "one"})
	p.AddSteps(&mockStep{name: "two"}, &mockStep{name: "three"})

	if p.StepCount() != 3 {
		t.Errorf("StepCount() = %d, want 3", p.StepCount())
	}
	want := []string{"one", "two", "three"}
	if got := p.StepNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("StepNames() = %v, want %v", got, want)
	}
}
