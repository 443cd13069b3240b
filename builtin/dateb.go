package builtin

import (
	"fmt"
	"strings"
	"time"

	"github.com/ebscore/ebs/value"
)

func registerDate(r *Registry) {
	r.add(Info{Name: "date.now", Invoke: dateNow})
	r.add(Info{Name: "date.format", Params: params("d", "layout"), Invoke: dateFormat})
	r.add(Info{Name: "date.parse", Params: params("s"), Invoke: dateParse})
}

func dateNow(ctx *Context, args []value.Value) (value.Value, error) {
	return value.NewDate(time.Now()), nil
}

func dateFormat(ctx *Context, args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Kind != value.KindDate {
		return value.Null, fmt.Errorf("TypeError: date.format expects (date, layout)")
	}
	layout := ebsLayoutToGo(args[1].Str())
	return value.NewString(args[0].Time().Format(layout)), nil
}

func dateParse(ctx *Context, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null, fmt.Errorf("TypeError: date.parse expects 1 argument")
	}
	return value.ParseDate(args[0].Str())
}

// ebsLayoutToGo translates the script-facing YYYY-MM-DD style layout
// tokens (spec §4.1's date grammar) into Go's reference-time layout.
func ebsLayoutToGo(layout string) string {
	replacer := []struct{ from, to string }{
		{"YYYY", "2006"}, {"MM", "01"}, {"DD", "02"},
		{"HH", "15"}, {"mm", "04"}, {"SS", "05"},
	}
	out := layout
	for _, r := range replacer {
		out = strings.ReplaceAll(out, r.from, r.to)
	}
	return out
}
