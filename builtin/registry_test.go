package builtin

import (
	"testing"

	"github.com/ebscore/ebs/value"
)

func newTestContext() *Context {
	return &Context{Arena: value.NewArena()}
}

func TestRegistryContainsRepresentativeCategories(t *testing.T) {
	r := New()
	for _, name := range []string{
		"string.upper", "array.sort", "queue.enqueue", "map.keys",
		"json.stringify", "date.now", "math.abs", "sys.copy",
	} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("expected builtin %q to be registered", name)
		}
	}
}

func TestCallDispatchesToRegisteredBuiltin(t *testing.T) {
	r := New()
	ctx := newTestContext()
	got, err := r.Call(ctx, "string.upper", []value.Value{value.NewString("hi")})
	if err != nil || got.Str() != "HI" {
		t.Fatalf("unexpected result: %+v err=%v", got, err)
	}
}

func TestCallUnknownBuiltinFails(t *testing.T) {
	r := New()
	if _, err := r.Call(newTestContext(), "nope.nope", nil); err == nil {
		t.Fatalf("expected an error for an unregistered builtin")
	}
}

func TestStringSplitProducesArray(t *testing.T) {
	r := New()
	ctx := newTestContext()
	got, err := r.Call(ctx, "string.split", []value.Value{value.NewString("a,b,c"), value.NewString(",")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := ctx.Arena.Get(got.Handle())
	if len(c.Elements) != 3 || c.Elements[1].Str() != "b" {
		t.Fatalf("unexpected split result: %+v", c.Elements)
	}
}

func TestArrayPushPopRoundTrip(t *testing.T) {
	r := New()
	ctx := newTestContext()
	h := ctx.Arena.NewDynamicArray("integer")
	arr := value.NewArray(h)

	if _, err := r.Call(ctx, "array.push", []value.Value{arr, value.NewInteger(7)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	popped, err := r.Call(ctx, "array.pop", []value.Value{arr})
	if err != nil || popped.Integer() != 7 {
		t.Fatalf("unexpected pop result: %+v err=%v", popped, err)
	}
}

func TestQueueFIFOOrder(t *testing.T) {
	r := New()
	ctx := newTestContext()
	h := ctx.Arena.NewQueue("integer")
	q := value.NewQueue(h)

	r.Call(ctx, "queue.enqueue", []value.Value{q, value.NewInteger(1)})
	r.Call(ctx, "queue.enqueue", []value.Value{q, value.NewInteger(2)})
	first, _ := r.Call(ctx, "queue.dequeue", []value.Value{q})
	if first.Integer() != 1 {
		t.Fatalf("expected FIFO order, got %+v", first)
	}
}

func TestSysCopyDuplicatesArray(t *testing.T) {
	r := New()
	ctx := newTestContext()
	h := ctx.Arena.NewArray("integer", []int{1})
	ctx.Arena.Get(h).Elements[0] = value.NewInteger(5)
	orig := value.NewArray(h)

	copied, err := r.Call(ctx, "sys.copy", []value.Value{orig})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if copied.Handle() == orig.Handle() {
		t.Fatalf("expected sys.copy to allocate a new handle")
	}
	ctx.Arena.Get(orig.Handle()).Elements[0] = value.NewInteger(99)
	if ctx.Arena.Get(copied.Handle()).Elements[0].Integer() != 5 {
		t.Fatalf("expected the copy to be independent of the original")
	}
}
