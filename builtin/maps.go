package builtin

import (
	"fmt"
	"sort"

	"github.com/ebscore/ebs/value"
)

func registerMaps(r *Registry) {
	r.add(Info{Name: "map.keys", Params: params("m"), Invoke: mapKeys})
	r.add(Info{Name: "map.values", Params: params("m"), Invoke: mapValues})
	r.add(Info{Name: "map.contains", Params: params("m", "k"), Invoke: mapContains})
}

func mapContainer(ctx *Context, args []value.Value, fname string) (*value.Container, error) {
	if len(args) < 1 || args[0].Kind != value.KindMap {
		return nil, fmt.Errorf("TypeError: %s expects a map as its first argument", fname)
	}
	c := ctx.Arena.Get(args[0].Handle())
	if c == nil {
		return nil, fmt.Errorf("IndexError: %s: invalid map handle", fname)
	}
	return c, nil
}

// orderedKeys returns a map Container's keys in insertion order, or
// sorted order when the map was declared `sorted map` (spec §3.3).
func orderedKeys(c *value.Container) []string {
	keys := append([]string(nil), c.Keys...)
	if c.Sorted {
		sort.Strings(keys)
	}
	return keys
}

func mapKeys(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := mapContainer(ctx, args, "map.keys")
	if err != nil {
		return value.Null, err
	}
	h := ctx.Arena.NewDynamicArray("string")
	arr := ctx.Arena.Get(h)
	for _, k := range orderedKeys(c) {
		arr.Elements = append(arr.Elements, value.NewString(k))
	}
	arr.Dims = []int{len(arr.Elements)}
	return value.NewArray(h), nil
}

func mapValues(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := mapContainer(ctx, args, "map.values")
	if err != nil {
		return value.Null, err
	}
	h := ctx.Arena.NewDynamicArray("")
	arr := ctx.Arena.Get(h)
	for _, k := range orderedKeys(c) {
		arr.Elements = append(arr.Elements, c.Fields[k])
	}
	arr.Dims = []int{len(arr.Elements)}
	return value.NewArray(h), nil
}

func mapContains(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := mapContainer(ctx, args, "map.contains")
	if err != nil {
		return value.Null, err
	}
	if len(args) != 2 {
		return value.Null, fmt.Errorf("TypeError: map.contains expects 2 arguments")
	}
	_, ok := c.Fields[args[1].Str()]
	return value.NewBoolean(ok), nil
}
