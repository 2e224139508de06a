package stack_test

import (
	"testing"

	"vesper/pkg/stack"
)

func TestPushPopOrder(t *testing.T) {
	s := stack.NewStack(1, 2)
	s.Push(3)

	if s.Size() != 3 {
		t.Fatalf("expected size 3, got %d", s.Size())
	}

	for _, want := range []int{3, 2, 1} {
		got, ok := s.Pop()
		if !ok || got != want {
			t.Errorf("expected (%d, true), got (%d, %v)", want, got, ok)
		}
	}

	if _, ok := s.Pop(); ok {
		t.Error("expected pop on empty stack to report false")
	}
}

func TestPeekAndTruncate(t *testing.T) {
	s := stack.NewStack("a", "b", "c", "d")

	top, ok := s.Peek()
	if !ok || top != "d" {
		t.Errorf("expected peek d, got %q", top)
	}

	s.Truncate(2)
	if s.Size() != 2 {
		t.Fatalf("expected size 2 after truncate, got %d", s.Size())
	}

	arr := s.Array()
	if len(arr) != 2 || arr[0] != "a" || arr[1] != "b" {
		t.Errorf("unexpected contents %v", arr)
	}

	// Array is a copy
	arr[0] = "z"
	if got := s.Array()[0]; got != "a" {
		t.Errorf("Array leaked internal storage, got %q", got)
	}

	s.Truncate(10)
	if s.Size() != 2 {
		t.Errorf("truncate above size must be a no-op, got %d", s.Size())
	}
}
