package value

import "testing"

func TestArrayAllocationAndOffset(t *testing.T) {
	a := NewArena()
	h := a.NewArray("integer", []int{2, 3})
	c := a.Get(h)
	if len(c.Elements) != 6 {
		t.Fatalf("expected 6 elements, got %d", len(c.Elements))
	}
	off, err := Offset(c.Dims, []int{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off != 5 {
		t.Errorf("expected row-major offset 5, got %d", off)
	}
}

func TestOffsetRejectsOutOfBounds(t *testing.T) {
	_, err := Offset([]int{2, 3}, []int{2, 0})
	if err == nil {
		t.Fatalf("expected an out-of-bounds error")
	}
}

func TestAssignmentSharesHandleReferenceSemantics(t *testing.T) {
	a := NewArena()
	h := a.NewArray("integer", []int{1})
	v1 := NewArray(h)
	v2 := v1 // copies the Value, which only copies the Handle
	a.Get(v1.Handle()).Elements[0] = NewInteger(7)
	if a.Get(v2.Handle()).Elements[0].Integer() != 7 {
		t.Errorf("expected v2 to observe the write through the shared handle")
	}
}

func TestCopyDeepDuplicatesAndHandlesCycles(t *testing.T) {
	a := NewArena()
	h := a.NewRecord("Node", []string{"next", "val"})
	rec := a.Get(h)
	rec.Fields["val"] = NewInteger(1)
	rec.Fields["next"] = NewRecord(h) // self-referential cycle

	copied := a.Copy(NewRecord(h))
	if copied.Handle() == h {
		t.Fatalf("expected a new handle from Copy")
	}
	copiedRec := a.Get(copied.Handle())
	if copiedRec.Fields["val"].Integer() != 1 {
		t.Errorf("expected val to be duplicated")
	}
	if copiedRec.Fields["next"].Handle() != copied.Handle() {
		t.Errorf("expected the cyclic reference to point back at the new copy, got handle %d want %d",
			copiedRec.Fields["next"].Handle(), copied.Handle())
	}
}
