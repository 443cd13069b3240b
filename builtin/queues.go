package builtin

import (
	"fmt"

	"github.com/ebscore/ebs/value"
)

func registerQueues(r *Registry) {
	r.add(Info{Name: "queue.enqueue", Params: params("q", "v"), Invoke: queueEnqueue})
	r.add(Info{Name: "queue.dequeue", Params: params("q"), Invoke: queueDequeue})
	r.add(Info{Name: "queue.peek", Params: params("q"), Invoke: queuePeek})
	r.add(Info{Name: "queue.size", Params: params("q"), Invoke: queueSize})
}

func queueContainer(ctx *Context, args []value.Value, fname string) (*value.Container, error) {
	if len(args) < 1 || args[0].Kind != value.KindQueue {
		return nil, fmt.Errorf("TypeError: %s expects a queue as its first argument", fname)
	}
	c := ctx.Arena.Get(args[0].Handle())
	if c == nil {
		return nil, fmt.Errorf("IndexError: %s: invalid queue handle", fname)
	}
	return c, nil
}

func queueEnqueue(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := queueContainer(ctx, args, "queue.enqueue")
	if err != nil {
		return value.Null, err
	}
	if len(args) != 2 {
		return value.Null, fmt.Errorf("TypeError: queue.enqueue expects 2 arguments")
	}
	c.Elements = append(c.Elements, args[1])
	return value.NewInteger(int32(len(c.Elements))), nil
}

func queueDequeue(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := queueContainer(ctx, args, "queue.dequeue")
	if err != nil {
		return value.Null, err
	}
	if len(c.Elements) == 0 {
		return value.Null, fmt.Errorf("IndexError: queue.dequeue on an empty queue")
	}
	front := c.Elements[0]
	c.Elements = c.Elements[1:]
	return front, nil
}

func queuePeek(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := queueContainer(ctx, args, "queue.peek")
	if err != nil {
		return value.Null, err
	}
	if len(c.Elements) == 0 {
		return value.Null, fmt.Errorf("IndexError: queue.peek on an empty queue")
	}
	return c.Elements[0], nil
}

func queueSize(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := queueContainer(ctx, args, "queue.size")
	if err != nil {
		return value.Null, err
	}
	return value.NewInteger(int32(len(c.Elements))), nil
}
