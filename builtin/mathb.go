package builtin

import (
	"fmt"
	"math"

	"github.com/ebscore/ebs/value"
)

func registerMath(r *Registry) {
	r.add(Info{Name: "math.abs", Params: params("x"), Invoke: mathAbs})
	r.add(Info{Name: "math.sqrt", Params: params("x"), Invoke: mathSqrt})
	r.add(Info{Name: "math.floor", Params: params("x"), Invoke: mathFloor})
	r.add(Info{Name: "math.ceil", Params: params("x"), Invoke: mathCeil})
	r.add(Info{Name: "math.round", Params: params("x"), Invoke: mathRound})
	r.add(Info{Name: "math.pow", Params: params("base", "exp"), Invoke: mathPow})
	r.add(Info{Name: "math.min", Params: params("a", "b"), Invoke: mathMin})
	r.add(Info{Name: "math.max", Params: params("a", "b"), Invoke: mathMax})
}

func numericArg(args []value.Value, i int, fname string) (float64, error) {
	if i >= len(args) || !args[i].IsNumeric() {
		return 0, fmt.Errorf("TypeError: %s expects a numeric argument at position %d", fname, i)
	}
	return args[i].AsFloat64(), nil
}

func mathAbs(ctx *Context, args []value.Value) (value.Value, error) {
	x, err := numericArg(args, 0, "math.abs")
	if err != nil {
		return value.Null, err
	}
	return value.NewDouble(math.Abs(x)), nil
}

func mathSqrt(ctx *Context, args []value.Value) (value.Value, error) {
	x, err := numericArg(args, 0, "math.sqrt")
	if err != nil {
		return value.Null, err
	}
	if x < 0 {
		return value.Null, fmt.Errorf("NumError: math.sqrt of a negative number")
	}
	return value.NewDouble(math.Sqrt(x)), nil
}

func mathFloor(ctx *Context, args []value.Value) (value.Value, error) {
	x, err := numericArg(args, 0, "math.floor")
	if err != nil {
		return value.Null, err
	}
	return value.NewDouble(math.Floor(x)), nil
}

func mathCeil(ctx *Context, args []value.Value) (value.Value, error) {
	x, err := numericArg(args, 0, "math.ceil")
	if err != nil {
		return value.Null, err
	}
	return value.NewDouble(math.Ceil(x)), nil
}

func mathRound(ctx *Context, args []value.Value) (value.Value, error) {
	x, err := numericArg(args, 0, "math.round")
	if err != nil {
		return value.Null, err
	}
	return value.NewDouble(math.Round(x)), nil
}

func mathPow(ctx *Context, args []value.Value) (value.Value, error) {
	base, err := numericArg(args, 0, "math.pow")
	if err != nil {
		return value.Null, err
	}
	exp, err := numericArg(args, 1, "math.pow")
	if err != nil {
		return value.Null, err
	}
	return value.NewDouble(math.Pow(base, exp)), nil
}

func mathMin(ctx *Context, args []value.Value) (value.Value, error) {
	a, err := numericArg(args, 0, "math.min")
	if err != nil {
		return value.Null, err
	}
	b, err := numericArg(args, 1, "math.min")
	if err != nil {
		return value.Null, err
	}
	return value.NewDouble(math.Min(a, b)), nil
}

func mathMax(ctx *Context, args []value.Value) (value.Value, error) {
	a, err := numericArg(args, 0, "math.max")
	if err != nil {
		return value.Null, err
	}
	b, err := numericArg(args, 1, "math.max")
	if err != nil {
		return value.Null, err
	}
	return value.NewDouble(math.Max(a, b)), nil
}
