package pipeline

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestRun(t *testing.T) {
	items := []string{"a", "b", "c"}

	var called int32
	errs := Run(items, 2, func(i int, item string) error {
		atomic.AddInt32(&called, 1)
		if item == "b" {
			return errors.New("test error")
		}
		return nil
	})

	if called != int32(len(items)) {
		t.Fatalf("expected %d calls, got %d", len(items), called)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
}

func TestRunWritesByIndex(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}
	out := make([]int, len(items))

	errs := Run(items, 0, func(i int, item int) error {
		out[i] = item * item
		return nil
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestRunEmpty(t *testing.T) {
	if errs := Run[string](nil, 4, func(int, string) error { return errors.New("never") }); errs != nil {
		t.Fatalf("expected nil, got %v", errs)
	}
	if errs := Run([]string{"a"}, 4, nil); errs != nil {
		t.Fatalf("expected nil for nil func, got %v", errs)
	}
}
