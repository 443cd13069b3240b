package builtin

import (
	"fmt"

	"github.com/ebscore/ebs/jsonreader"
	"github.com/ebscore/ebs/value"
)

func registerJSON(r *Registry) {
	r.add(Info{Name: "json.parse", Params: params("s"), Invoke: jsonParse})
	r.add(Info{Name: "json.stringify", Params: params("v"), Invoke: jsonStringify})
}

func jsonParse(ctx *Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.KindString {
		return value.Null, fmt.Errorf("TypeError: json.parse expects a string")
	}
	node, err := jsonreader.Parse(args[0].Str(), jsonreader.Options{})
	if err != nil {
		return value.Null, fmt.Errorf("IOError: %w", err)
	}
	return value.NewJson(node), nil
}

func jsonStringify(ctx *Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.KindJson {
		return value.Null, fmt.Errorf("TypeError: json.stringify expects a json value")
	}
	return value.NewString(args[0].Json().String()), nil
}
