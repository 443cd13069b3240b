package builtin

import (
	"fmt"
	"sort"

	"github.com/ebscore/ebs/value"
)

func registerArrays(r *Registry) {
	r.add(Info{Name: "array.sort", Params: params("a"), Invoke: arraySort})
	r.add(Info{Name: "array.push", Params: params("a", "v"), Invoke: arrayPush})
	r.add(Info{Name: "array.pop", Params: params("a"), Invoke: arrayPop})
	r.add(Info{Name: "array.indexOf", Params: params("a", "v"), Invoke: arrayIndexOf})
	r.add(Info{Name: "array.contains", Params: params("a", "v"), Invoke: arrayContains})
	r.add(Info{Name: "array.asBitmap", Params: params("a"), Invoke: arrayAsBitmap})
	r.add(Info{Name: "array.asByte", Params: params("a"), Invoke: arrayAsByte})
}

func arrayContainer(ctx *Context, args []value.Value, fname string) (*value.Container, error) {
	if len(args) < 1 || args[0].Kind != value.KindArray {
		return nil, fmt.Errorf("TypeError: %s expects an array as its first argument", fname)
	}
	c := ctx.Arena.Get(args[0].Handle())
	if c == nil {
		return nil, fmt.Errorf("IndexError: %s: invalid array handle", fname)
	}
	return c, nil
}

func arraySort(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := arrayContainer(ctx, args, "array.sort")
	if err != nil {
		return value.Null, err
	}
	elems := append([]value.Value(nil), c.Elements...)
	sort.Slice(elems, func(i, j int) bool {
		if elems[i].Kind == value.KindString {
			return elems[i].Str() < elems[j].Str()
		}
		return elems[i].AsFloat64() < elems[j].AsFloat64()
	})
	h := ctx.Arena.NewDynamicArray(c.ElemType)
	sorted := ctx.Arena.Get(h)
	sorted.Elements = elems
	sorted.Dims = []int{len(elems)}
	return value.NewArray(h), nil
}

func arrayPush(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := arrayContainer(ctx, args, "array.push")
	if err != nil {
		return value.Null, err
	}
	if len(args) != 2 {
		return value.Null, fmt.Errorf("TypeError: array.push expects 2 arguments")
	}
	c.Elements = append(c.Elements, args[1])
	c.Dims = []int{len(c.Elements)}
	return value.NewInteger(int32(len(c.Elements))), nil
}

func arrayPop(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := arrayContainer(ctx, args, "array.pop")
	if err != nil {
		return value.Null, err
	}
	if len(c.Elements) == 0 {
		return value.Null, fmt.Errorf("IndexError: array.pop on an empty array")
	}
	last := c.Elements[len(c.Elements)-1]
	c.Elements = c.Elements[:len(c.Elements)-1]
	c.Dims = []int{len(c.Elements)}
	return last, nil
}

func arrayIndexOf(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := arrayContainer(ctx, args, "array.indexOf")
	if err != nil {
		return value.Null, err
	}
	if len(args) != 2 {
		return value.Null, fmt.Errorf("TypeError: array.indexOf expects 2 arguments")
	}
	for i, e := range c.Elements {
		if equalValues(e, args[1]) {
			return value.NewInteger(int32(i)), nil
		}
	}
	return value.NewInteger(-1), nil
}

func arrayContains(ctx *Context, args []value.Value) (value.Value, error) {
	idx, err := arrayIndexOf(ctx, args)
	if err != nil {
		return value.Null, err
	}
	return value.NewBoolean(idx.Integer() >= 0), nil
}

func arrayAsBitmap(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := arrayContainer(ctx, args, "array.asBitmap")
	if err != nil {
		return value.Null, err
	}
	bits := make([]byte, (len(c.Elements)+7)/8)
	for i, e := range c.Elements {
		if e.Truthy() {
			bits[i/8] |= 1 << uint(i%8)
		}
	}
	h := ctx.Arena.NewBitmap("", len(bits))
	ctx.Arena.Get(h).RawBits = bits
	return value.NewBitmap(h), nil
}

func arrayAsByte(ctx *Context, args []value.Value) (value.Value, error) {
	c, err := arrayContainer(ctx, args, "array.asByte")
	if err != nil {
		return value.Null, err
	}
	if len(c.Elements) > 8 {
		return value.Null, fmt.Errorf("TypeError: array.asByte requires 8 or fewer elements")
	}
	var b byte
	for i, e := range c.Elements {
		if e.Truthy() {
			b |= 1 << uint(i)
		}
	}
	return value.NewByte(b), nil
}

func equalValues(a, b value.Value) bool {
	if a.Kind != b.Kind {
		if a.IsNumeric() && b.IsNumeric() {
			return a.AsFloat64() == b.AsFloat64()
		}
		return false
	}
	switch a.Kind {
	case value.KindString:
		return a.Str() == b.Str()
	case value.KindBoolean:
		return a.Bool() == b.Bool()
	default:
		if a.IsNumeric() {
			return a.AsFloat64() == b.AsFloat64()
		}
		return a.Handle() == b.Handle()
	}
}
