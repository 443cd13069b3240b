package builtin

import (
	"fmt"
	"strings"

	"github.com/ebscore/ebs/value"
)

func registerStrings(r *Registry) {
	r.add(Info{Name: "string.concat", Params: params("a", "b"), Invoke: stringConcat})
	r.add(Info{Name: "string.length", Params: params("s"), Invoke: stringLength})
	r.add(Info{Name: "string.substring", Params: params("s", "start", "end"), Invoke: stringSubstring})
	r.add(Info{Name: "string.split", Params: params("s", "sep"), Invoke: stringSplit})
	r.add(Info{Name: "string.trim", Params: params("s"), Invoke: stringTrim})
	r.add(Info{Name: "string.upper", Params: params("s"), Invoke: stringUpper})
	r.add(Info{Name: "string.lower", Params: params("s"), Invoke: stringLower})
}

func stringConcat(ctx *Context, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Null, fmt.Errorf("TypeError: string.concat expects 2 arguments")
	}
	return value.NewString(args[0].Display() + args[1].Display()), nil
}

func stringLength(ctx *Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.KindString {
		return value.Null, fmt.Errorf("TypeError: string.length expects a string")
	}
	return value.NewInteger(int32(len([]rune(args[0].Str())))), nil
}

func stringSubstring(ctx *Context, args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return value.Null, fmt.Errorf("TypeError: string.substring expects 3 arguments")
	}
	runes := []rune(args[0].Str())
	start, end := int(args[1].AsFloat64()), int(args[2].AsFloat64())
	if start < 0 || end > len(runes) || start > end {
		return value.Null, fmt.Errorf("IndexError: substring range [%d,%d) out of bounds for length %d", start, end, len(runes))
	}
	return value.NewString(string(runes[start:end])), nil
}

func stringSplit(ctx *Context, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Null, fmt.Errorf("TypeError: string.split expects 2 arguments")
	}
	parts := strings.Split(args[0].Str(), args[1].Str())
	h := ctx.Arena.NewDynamicArray("string")
	c := ctx.Arena.Get(h)
	for _, p := range parts {
		c.Elements = append(c.Elements, value.NewString(p))
	}
	c.Dims = []int{len(c.Elements)}
	return value.NewArray(h), nil
}

func stringTrim(ctx *Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null, fmt.Errorf("TypeError: string.trim expects 1 argument")
	}
	return value.NewString(strings.TrimSpace(args[0].Str())), nil
}

func stringUpper(ctx *Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null, fmt.Errorf("TypeError: string.upper expects 1 argument")
	}
	return value.NewString(strings.ToUpper(args[0].Str())), nil
}

func stringLower(ctx *Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null, fmt.Errorf("TypeError: string.lower expects 1 argument")
	}
	return value.NewString(strings.ToLower(args[0].Str())), nil
}
