package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}

	l := &Layout{
		Name:      "demo",
		Document:  []byte(`name = "demo"`),
		Positions: []Position{{Vertex: "a", X: 1, Y: 2}},
	}
	if err := s.Put(ctx, l); err != nil {
		t.Fatalf("Put() = %v", err)
	}
	if l.ID == "" || l.CreatedAt.IsZero() || l.UpdatedAt.IsZero() {
		t.Fatalf("Put did not fill metadata: %+v", l)
	}

	got, err := s.Get(ctx, l.ID)
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if got.Name != "demo" || len(got.Positions) != 1 {
		t.Errorf("Get() = %+v", got)
	}

	byName, err := s.GetByName(ctx, "demo")
	if err != nil || byName.ID != l.ID {
		t.Errorf("GetByName() = %+v, %v", byName, err)
	}
}

func TestMemoryStoreNameUniqueness(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a := &Layout{Name: "taken"}
	if err := s.Put(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, &Layout{Name: "taken"}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Put(duplicate name) = %v, want ErrDuplicateName", err)
	}
	// Overwriting the same layout under its own name is fine.
	a.Positions = []Position{{Vertex: "a"}}
	if err := s.Put(ctx, a); err != nil {
		t.Errorf("Put(same id) = %v", err)
	}

	// Renaming frees the old name.
	a.Name = "renamed"
	if err := s.Put(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, &Layout{Name: "taken"}); err != nil {
		t.Errorf("Put(freed name) = %v", err)
	}
}

func TestMemoryStoreDeleteAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	b := &Layout{Name: "b"}
	for _, l := range []*Layout{b, {Name: "a"}, {Name: "c"}} {
		if err := s.Put(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if err := s.Delete(ctx, b.ID); err != nil {
		t.Errorf("Delete(absent) = %v", err)
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() = %v", err)
	}
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Errorf("List() = %v, want [a c]", got)
	}
}

func TestMemoryStoreCopiesOnRead(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	l := &Layout{Name: "x"}
	if err := s.Put(ctx, l); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get(ctx, l.ID)
	got.Name = "mutated"

	again, _ := s.Get(ctx, l.ID)
	if again.Name != "x" {
		t.Error("stored layout mutated through a read copy")
	}
}
