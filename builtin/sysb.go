package builtin

import (
	"fmt"

	"github.com/ebscore/ebs/value"
)

func registerSys(r *Registry) {
	r.add(Info{Name: "sys.copy", Params: params("v"), Invoke: sysCopy})
}

// sysCopy is the deep-duplication builtin spec §4.6 names explicitly
// ("`sys.copy` for deep-clone"); it delegates to Arena.Copy, which walks
// reference containers with a visited set to terminate on cycles (spec §9).
func sysCopy(ctx *Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null, fmt.Errorf("TypeError: sys.copy expects 1 argument")
	}
	return ctx.Arena.Copy(args[0]), nil
}
