package search

import (
	"errors"
	"testing"
)

func TestFrontier_DequeuesLowestScore(t *testing.T) {
	f := NewFrontier[string]()
	f.Enqueue(3, "c")
	f.Enqueue(1, "a")
	f.Enqueue(2, "b")
	f.Enqueue(0.5, "first")

	if f.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", f.Len())
	}

	var got []string
	for f.Len() > 0 {
		item, err := f.DequeueMin()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, item)
	}
	want := []string{"first", "a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFrontier_TiesAreStable(t *testing.T) {
	f := NewFrontier[int]()
	for i := 0; i < 50; i++ {
		f.Enqueue(1, i)
	}
	f.Enqueue(0, -1)
	if item, _ := f.DequeueMin(); item != -1 {
		t.Fatalf("expected -1 first, got %d", item)
	}
	for want := 0; want < 50; want++ {
		item, err := f.DequeueMin()
		if err != nil {
			t.Fatal(err)
		}
		if item != want {
			t.Fatalf("expected insertion order %d, got %d", want, item)
		}
	}
}

func TestFrontier_DuplicateItems(t *testing.T) {
	f := NewFrontier[string]()
	f.Enqueue(5, "room")
	f.Enqueue(2, "room")
	if f.Len() != 2 {
		t.Fatalf("expected both entries kept, got %d", f.Len())
	}
	item, _ := f.DequeueMin()
	if item != "room" {
		t.Errorf("expected room, got %s", item)
	}
}

func TestFrontier_Empty(t *testing.T) {
	f := NewFrontier[int]()
	if _, err := f.DequeueMin(); !errors.Is(err, ErrFrontierEmpty) {
		t.Errorf("expected ErrFrontierEmpty, got %v", err)
	}
	if f.Len() != 0 {
		t.Errorf("expected empty frontier, got %d", f.Len())
	}
}
