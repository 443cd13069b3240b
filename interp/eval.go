package interp

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/env"
	"github.com/ebscore/ebs/host"
	"github.com/ebscore/ebs/jsonreader"
	"github.com/ebscore/ebs/value"
)

// eval evaluates an expression node in scope en (spec §4.5.2).
func (i *Interp) eval(e ast.Expression, en *env.Environment) (value.Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return evalLiteral(n)
	case *ast.Variable:
		return en.Get(n.Name)
	case *ast.Property:
		return i.evalProperty(n, en)
	case *ast.Index:
		return i.evalIndex(n, en)
	case *ast.LengthExpr:
		return i.evalLength(n, en)
	case *ast.Unary:
		return i.evalUnary(n, en)
	case *ast.Binary:
		return i.evalBinary(n, en)
	case *ast.ChainedComparison:
		return i.evalChainedComparison(n, en)
	case *ast.CallExpr:
		return i.evalCallExpr(n, en)
	case *ast.Cast:
		return i.evalCast(n, en)
	case *ast.ArrayLiteral:
		return i.evalArrayLiteral(n, en)
	case *ast.ArrayAlloc:
		return i.evalArrayAlloc(n, en)
	case *ast.QueueLiteral:
		return i.evalQueueLiteral(n, en)
	case *ast.JsonLiteral:
		return i.evalJsonLiteral(n, en)
	case *ast.SqlSelect:
		return i.evalSqlSelect(n, en)
	case *ast.CursorHasNext:
		return i.evalCursorHasNext(n)
	case *ast.CursorNext:
		return i.evalCursorNext(n)
	case *ast.BlockStatement:
		// an anonymous block used as a value (spec §4.2 "block expressions")
		return value.Null, nil
	default:
		return value.Null, fmt.Errorf("TypeError: cannot evaluate expression of type %T", e)
	}
}

func evalLiteral(n *ast.Literal) (value.Value, error) {
	switch n.Kind {
	case "int":
		return value.NewInteger(int32(n.IntVal)), nil
	case "long":
		return value.NewLong(n.IntVal), nil
	case "float":
		return value.NewFloat(float32(n.FloatVal)), nil
	case "double":
		return value.NewDouble(n.FloatVal), nil
	case "string":
		return value.NewString(n.StringVal), nil
	case "date":
		return value.ParseDate(n.StringVal)
	case "bool":
		return value.NewBoolean(n.BoolVal), nil
	case "null":
		return value.Null, nil
	default:
		return value.Null, fmt.Errorf("TypeError: unknown literal kind %q", n.Kind)
	}
}

// evalProperty implements `target.field` (spec §4.5.2): a Record or
// Json field read, or — when Target is a bare name that is not a
// declared variable — a `screenName.varName` read through ScreenVars.
func (i *Interp) evalProperty(n *ast.Property, en *env.Environment) (value.Value, error) {
	if v, ok := n.Target.(*ast.Variable); ok {
		if _, err := en.Get(v.Name); err != nil {
			return i.ScreenVars.Get(v.Name, n.Field)
		}
	}
	target, err := i.eval(n.Target, en)
	if err != nil {
		return value.Null, err
	}
	switch target.Kind {
	case value.KindRecord:
		c := i.Arena.Get(target.Handle())
		fv, ok := c.Fields[n.Field]
		if !ok {
			return value.Null, errNamef("record %q has no field %q", c.RecordType, n.Field)
		}
		return fv, nil
	case value.KindJson:
		return jsonNodeToValue(target.Json().Get(n.Field)), nil
	default:
		return value.Null, errTypef("cannot read field %q of a %s", n.Field, target.Kind)
	}
}

// evalIndex implements `target[i, j, ...]` (spec §4.5.2).
func (i *Interp) evalIndex(n *ast.Index, en *env.Environment) (value.Value, error) {
	target, err := i.eval(n.Target, en)
	if err != nil {
		return value.Null, err
	}
	if target.Kind == value.KindMap {
		if len(n.Indices) != 1 {
			return value.Null, errIndexf("map index expects 1 key, got %d", len(n.Indices))
		}
		key, err := i.evalMapKey(n.Indices[0], en)
		if err != nil {
			return value.Null, err
		}
		c := i.Arena.Get(target.Handle())
		fv, ok := c.Fields[key]
		if !ok {
			return value.Null, errIndexf("map has no key %q", key)
		}
		return fv, nil
	}
	idx, err := i.evalIntIndices(n.Indices, en)
	if err != nil {
		return value.Null, err
	}
	switch target.Kind {
	case value.KindArray:
		c := i.Arena.Get(target.Handle())
		off, err := value.Offset(c.Dims, idx)
		if err != nil {
			return value.Null, err
		}
		return c.Elements[off], nil
	case value.KindString:
		if len(idx) != 1 {
			return value.Null, errIndexf("string index expects 1 index, got %d", len(idx))
		}
		runes := []rune(target.Str())
		if idx[0] < 0 || idx[0] >= len(runes) {
			return value.Null, errIndexf("string index %d out of bounds for length %d", idx[0], len(runes))
		}
		return value.NewString(string(runes[idx[0]])), nil
	default:
		return value.Null, errTypef("cannot index a %s", target.Kind)
	}
}

func (i *Interp) evalIntIndices(exprs []ast.Expression, en *env.Environment) ([]int, error) {
	out := make([]int, len(exprs))
	for k, e := range exprs {
		v, err := i.eval(e, en)
		if err != nil {
			return nil, err
		}
		if !v.IsNumeric() {
			return nil, errTypef("array index must be numeric, got %s", v.Kind)
		}
		out[k] = int(v.AsFloat64())
	}
	return out, nil
}

// evalMapKey reads a map key expression, which may be any expression
// whose Display() form is the key (spec §4.5.2: "map keys are always
// strings").
func (i *Interp) evalMapKey(e ast.Expression, en *env.Environment) (string, error) {
	v, err := i.eval(e, en)
	if err != nil {
		return "", err
	}
	return v.Display(), nil
}

func (i *Interp) evalLength(n *ast.LengthExpr, en *env.Environment) (value.Value, error) {
	target, err := i.eval(n.Target, en)
	if err != nil {
		return value.Null, err
	}
	switch target.Kind {
	case value.KindString:
		return value.NewInteger(int32(len([]rune(target.Str())))), nil
	case value.KindArray, value.KindQueue:
		c := i.Arena.Get(target.Handle())
		return value.NewInteger(int32(len(c.Elements))), nil
	case value.KindMap:
		c := i.Arena.Get(target.Handle())
		return value.NewInteger(int32(len(c.Keys))), nil
	case value.KindRecord:
		c := i.Arena.Get(target.Handle())
		return value.NewInteger(int32(len(c.Fields))), nil
	case value.KindJson:
		j := target.Json()
		switch j.Kind {
		case value.JsonArray:
			return value.NewInteger(int32(len(j.Array))), nil
		case value.JsonObject:
			return value.NewInteger(int32(len(j.Keys))), nil
		default:
			return value.Null, errTypef("length() expects an array/map/queue/record/string/json, got json scalar")
		}
	default:
		return value.Null, errTypef("length() expects an array/map/queue/record/string/json, got %s", target.Kind)
	}
}

func (i *Interp) evalUnary(n *ast.Unary, en *env.Environment) (value.Value, error) {
	switch n.Op {
	case "typeof":
		v, err := i.eval(n.Right, en)
		if err != nil {
			return value.Null, err
		}
		return value.NewString(v.Kind.String()), nil
	case "!":
		v, err := i.eval(n.Right, en)
		if err != nil {
			return value.Null, err
		}
		return value.NewBoolean(!v.Truthy()), nil
	case "-", "+":
		v, err := i.eval(n.Right, en)
		if err != nil {
			return value.Null, err
		}
		if !v.IsNumeric() {
			return value.Null, errTypef("unary %s expects a numeric operand, got %s", n.Op, v.Kind)
		}
		if n.Op == "+" {
			return v, nil
		}
		return value.WidenNumeric(value.NewDouble(-v.AsFloat64()), v.Kind)
	default:
		return value.Null, errTypef("unknown unary operator %q", n.Op)
	}
}

func (i *Interp) evalBinary(n *ast.Binary, en *env.Environment) (value.Value, error) {
	switch n.Op {
	case "&&":
		l, err := i.eval(n.Left, en)
		if err != nil {
			return value.Null, err
		}
		if !l.Truthy() {
			return value.NewBoolean(false), nil
		}
		r, err := i.eval(n.Right, en)
		if err != nil {
			return value.Null, err
		}
		return value.NewBoolean(r.Truthy()), nil
	case "||":
		l, err := i.eval(n.Left, en)
		if err != nil {
			return value.Null, err
		}
		if l.Truthy() {
			return value.NewBoolean(true), nil
		}
		r, err := i.eval(n.Right, en)
		if err != nil {
			return value.Null, err
		}
		return value.NewBoolean(r.Truthy()), nil
	}

	l, err := i.eval(n.Left, en)
	if err != nil {
		return value.Null, err
	}
	r, err := i.eval(n.Right, en)
	if err != nil {
		return value.Null, err
	}

	switch n.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		ok, err := compareValues(l, r, n.Op)
		if err != nil {
			return value.Null, err
		}
		return value.NewBoolean(ok), nil
	case "+":
		if l.Kind == value.KindString || r.Kind == value.KindString {
			return value.NewString(l.Display() + r.Display()), nil
		}
		return arith(l, r, func(a, b float64) float64 { return a + b })
	case "-":
		return arith(l, r, func(a, b float64) float64 { return a - b })
	case "*":
		return arith(l, r, func(a, b float64) float64 { return a * b })
	case "/":
		if r.IsNumeric() && r.AsFloat64() == 0 && value.IsIntegralKind(value.WidestNumeric(l.Kind, r.Kind)) {
			return value.Null, errNumf("division by zero")
		}
		return arith(l, r, func(a, b float64) float64 { return a / b })
	case "%":
		target := value.WidestNumeric(l.Kind, r.Kind)
		if r.IsNumeric() && r.AsFloat64() == 0 && value.IsIntegralKind(target) {
			return value.Null, errNumf("modulo by zero")
		}
		if value.IsIntegralKind(target) {
			return arith(l, r, math.Mod)
		}
		return arith(l, r, math.Remainder)
	case "^":
		return evalPow(l, r)
	default:
		return value.Null, errTypef("unknown binary operator %q", n.Op)
	}
}

// arith evaluates a numeric binary op in float64 and narrows to the
// operands' widest kind. For an integral result kind (Byte/Integer/
// Long), a result outside that kind's range raises NUM_ERROR rather
// than silently wrapping (spec §8.3: "overflow on integer operation";
// the user calls `long(x)` to widen before the op instead).
func arith(l, r value.Value, f func(a, b float64) float64) (value.Value, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return value.Null, errTypef("arithmetic expects numeric operands, got %s and %s", l.Kind, r.Kind)
	}
	result := f(l.AsFloat64(), r.AsFloat64())
	target := value.WidestNumeric(l.Kind, r.Kind)
	if lo, hi, ok := value.IntegralRange(target); ok && (result < lo || result > hi) {
		return value.Null, errNumf("overflow on integer operation")
	}
	return value.WidenNumeric(value.NewDouble(result), target)
}

// evalPow implements `^` exponentiation, promoting to Double whenever
// the exponent is negative or non-integral (a negative/fractional
// exponent cannot stay inside the operands' integer kind), otherwise
// keeping the widest operand kind (spec §9 Open Question: exponent
// promotion).
func evalPow(l, r value.Value) (value.Value, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return value.Null, errTypef("^ expects numeric operands, got %s and %s", l.Kind, r.Kind)
	}
	exp := r.AsFloat64()
	result := math.Pow(l.AsFloat64(), exp)
	if exp < 0 || exp != math.Trunc(exp) {
		return value.NewDouble(result), nil
	}
	return value.WidenNumeric(value.NewDouble(result), value.WidestNumeric(l.Kind, r.Kind))
}

// compareValues implements the per-kind comparison rules shared by
// Binary and ChainedComparison (spec §4.5.2): numeric widening
// comparison, lexical String comparison, chronological Date
// comparison, equality-only Boolean/Null, and equality-only
// reference-kind comparison by Handle identity.
func compareValues(l, r value.Value, op string) (bool, error) {
	switch {
	case l.IsNumeric() && r.IsNumeric():
		return numCompare(l.AsFloat64(), r.AsFloat64(), op)
	case l.Kind == value.KindString && r.Kind == value.KindString:
		return strCompare(strings.Compare(l.Str(), r.Str()), op)
	case l.Kind == value.KindDate && r.Kind == value.KindDate:
		return timeCompare(l.Time(), r.Time(), op)
	case l.Kind == value.KindBoolean && r.Kind == value.KindBoolean:
		return eqOnly(l.Bool() == r.Bool(), op)
	case l.Kind == value.KindNull || r.Kind == value.KindNull:
		return eqOnly(l.Kind == r.Kind, op)
	case l.IsReferenceKind() && r.IsReferenceKind():
		return eqOnly(l.Kind == r.Kind && l.Handle() == r.Handle(), op)
	default:
		return false, errTypef("cannot compare %s and %s", l.Kind, r.Kind)
	}
}

func numCompare(a, b float64, op string) (bool, error) {
	switch op {
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	case ">=":
		return a >= b, nil
	}
	return false, errTypef("unknown comparison operator %q", op)
}

func strCompare(cmp int, op string) (bool, error) {
	switch op {
	case "==":
		return cmp == 0, nil
	case "!=":
		return cmp != 0, nil
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	case ">=":
		return cmp >= 0, nil
	}
	return false, errTypef("unknown comparison operator %q", op)
}

func timeCompare(a, b time.Time, op string) (bool, error) {
	switch op {
	case "==":
		return a.Equal(b), nil
	case "!=":
		return !a.Equal(b), nil
	case "<":
		return a.Before(b), nil
	case "<=":
		return a.Before(b) || a.Equal(b), nil
	case ">":
		return a.After(b), nil
	case ">=":
		return a.After(b) || a.Equal(b), nil
	}
	return false, errTypef("unknown comparison operator %q", op)
}

func eqOnly(eq bool, op string) (bool, error) {
	switch op {
	case "==":
		return eq, nil
	case "!=":
		return !eq, nil
	default:
		return false, errTypef("operator %q only supports equality for this kind", op)
	}
}

func (i *Interp) evalChainedComparison(n *ast.ChainedComparison, en *env.Environment) (value.Value, error) {
	vals := make([]value.Value, len(n.Operands))
	for k, o := range n.Operands {
		v, err := i.eval(o, en)
		if err != nil {
			return value.Null, err
		}
		vals[k] = v
	}
	for k, op := range n.Ops {
		ok, err := compareValues(vals[k], vals[k+1], op)
		if err != nil {
			return value.Null, err
		}
		if !ok {
			return value.NewBoolean(false), nil
		}
	}
	return value.NewBoolean(true), nil
}

func (i *Interp) evalCallExpr(n *ast.CallExpr, en *env.Environment) (value.Value, error) {
	return i.evalCall(n.Name, n.Args, n.ResolvedBlock, n.ResolvedBuiltin, n.ResolvedBuiltinName, n.Line(), en)
}

// evalCast implements `type(expr)` (spec §4.5.2 "Cast"), including the
// cast-via-alias path that projects a numeric value through a
// BitmapType/IntmapType alias into a fresh bit-packed container.
func (i *Interp) evalCast(n *ast.Cast, en *env.Environment) (value.Value, error) {
	v, err := i.eval(n.Value, en)
	if err != nil {
		return value.Null, err
	}
	target := n.Type
	if target.Alias {
		defined, ok := i.Types.Lookup(target.Name)
		if !ok {
			return value.Null, errNamef("undefined type alias %q", target.Name)
		}
		resolved, err := i.Types.Resolve(defined)
		if err != nil {
			return value.Null, fmt.Errorf("TypeError: %w", err)
		}
		if resolved.IsBitmap || resolved.IsIntmap {
			return i.castViaAlias(v, target.Name, resolved)
		}
		target = resolved
	}
	return value.Cast(v, env.KindOf(target))
}

// castViaAlias builds a fresh Bitmap/Intmap container seeded from v's
// raw integer value. This is a scoped interpretation of the cast: EBS
// values have no reference layer over primitive slots, so the result
// views a *copy* of v's bits, not the original variable's storage
// (spec §9 Open Question: cast-via-alias aliasing).
func (i *Interp) castViaAlias(v value.Value, typeName string, spec *ast.TypeSpec) (value.Value, error) {
	if !v.IsNumeric() {
		return value.Null, errTypef("cannot cast %s to bit-packed type %q", v.Kind, typeName)
	}
	raw := uint64(int64(v.AsFloat64()))
	if spec.IsBitmap {
		width := value.BitmapByteWidth(spec)
		h := i.Arena.NewBitmap(typeName, width)
		c := i.Arena.Get(h)
		for k := 0; k < width; k++ {
			c.RawBits[k] = byte(raw >> (8 * uint(k)))
		}
		return value.NewBitmap(h), nil
	}
	h := i.Arena.NewIntmap(typeName)
	c := i.Arena.Get(h)
	c.RawInt = int32(raw)
	return value.NewIntmap(h), nil
}

func (i *Interp) evalArrayLiteral(n *ast.ArrayLiteral, en *env.Environment) (value.Value, error) {
	elemName := ""
	var elemKind value.Kind = -1
	if n.ElemType != nil {
		elemName = n.ElemType.Name
		elemKind = env.KindOf(n.ElemType)
	}
	h := i.Arena.NewArray(elemName, []int{len(n.Elements)})
	c := i.Arena.Get(h)
	for k, el := range n.Elements {
		v, err := i.eval(el, en)
		if err != nil {
			return value.Null, err
		}
		if n.ElemType != nil {
			coerced, err := value.CoerceOnStore(v, elemKind)
			if err != nil {
				return value.Null, err
			}
			v = coerced
		}
		c.Elements[k] = v
	}
	return value.NewArray(h), nil
}

func (i *Interp) evalArrayAlloc(n *ast.ArrayAlloc, en *env.Environment) (value.Value, error) {
	elemName := ""
	if n.ElemType != nil {
		elemName = n.ElemType.Name
	}
	if len(n.Dims) == 0 {
		h := i.Arena.NewDynamicArray(elemName)
		return value.NewArray(h), nil
	}
	dims := make([]int, len(n.Dims))
	for k, d := range n.Dims {
		v, err := i.eval(d, en)
		if err != nil {
			return value.Null, err
		}
		dims[k] = int(v.AsFloat64())
	}
	h := i.Arena.NewArray(elemName, dims)
	c := i.Arena.Get(h)

	var initVal value.Value
	haveInit := false
	if n.Initializer != nil {
		v, err := i.eval(n.Initializer, en)
		if err != nil {
			return value.Null, err
		}
		initVal = v
		haveInit = true
	}
	for k := range c.Elements {
		switch {
		case haveInit && initVal.IsReferenceKind():
			c.Elements[k] = i.Arena.Copy(initVal)
		case haveInit:
			c.Elements[k] = initVal
		case n.ElemType != nil:
			c.Elements[k] = value.ZeroOf(i.Arena, n.ElemType)
		}
	}
	return value.NewArray(h), nil
}

func (i *Interp) evalQueueLiteral(n *ast.QueueLiteral, en *env.Environment) (value.Value, error) {
	elemName := ""
	if n.ElemType != nil {
		elemName = n.ElemType.Name
	}
	h := i.Arena.NewQueue(elemName)
	c := i.Arena.Get(h)
	for _, el := range n.Elements {
		v, err := i.eval(el, en)
		if err != nil {
			return value.Null, err
		}
		c.Elements = append(c.Elements, v)
	}
	return value.NewQueue(h), nil
}

// evalJsonLiteral parses a captured `{...}`/`[...]` source slice on
// first evaluation (spec §4.2 "JSON and SQL literals"), running embedded
// `#ns.name(args)` calls back through this interpreter, and — when
// TypeName names a record alias — projects the parsed object into a
// Record container (spec §4.2 "Record literals").
func (i *Interp) evalJsonLiteral(n *ast.JsonLiteral, en *env.Environment) (value.Value, error) {
	node, err := i.parseJSONWithEmbeds(n.Raw, en)
	if err != nil {
		return value.Null, errIOf("%v", err)
	}
	if n.TypeName == "" {
		return value.NewJson(node), nil
	}
	spec, ok := i.Types.Lookup(n.TypeName)
	if !ok {
		return value.Null, errNamef("undefined record type %q", n.TypeName)
	}
	resolved, err := i.Types.Resolve(spec)
	if err != nil {
		return value.Null, fmt.Errorf("TypeError: %w", err)
	}
	if !resolved.IsRecord {
		return value.Null, errTypef("%q is not a record type", n.TypeName)
	}
	names := make([]string, len(resolved.Fields))
	for k, f := range resolved.Fields {
		names[k] = f.Name
	}
	h := i.Arena.NewRecord(n.TypeName, names)
	rec := i.Arena.Get(h)
	for _, f := range resolved.Fields {
		raw := node.Get(f.Name)
		v := jsonNodeToValue(raw)
		coerced, err := value.CoerceOnStore(v, env.KindOf(f.Type))
		if err != nil {
			return value.Null, err
		}
		rec.Fields[f.Name] = coerced
	}
	return value.NewRecord(h), nil
}

// jsonNodeToValue converts a parsed JsonNode into a Value, wrapping
// composite nodes back into KindJson rather than projecting them into
// Array/Map (spec §4.5.2: a plain json-typed read stays json-typed
// unless explicitly cast or projected as above).
func jsonNodeToValue(n *value.JsonNode) value.Value {
	if n == nil {
		return value.Null
	}
	switch n.Kind {
	case value.JsonNull:
		return value.Null
	case value.JsonBool:
		return value.NewBoolean(n.Bool)
	case value.JsonNumber:
		return value.NewDouble(n.Number)
	case value.JsonString:
		return value.NewString(n.Str)
	default:
		return value.NewJson(n)
	}
}

func valueToJSONNode(v value.Value) *value.JsonNode {
	switch v.Kind {
	case value.KindNull:
		return value.NewJsonNull()
	case value.KindBoolean:
		return value.NewJsonBool(v.Bool())
	case value.KindString, value.KindDate:
		return value.NewJsonString(v.Display())
	case value.KindJson:
		return v.Json()
	default:
		if v.IsNumeric() {
			return value.NewJsonNumber(v.AsFloat64())
		}
		return value.NewJsonString(v.Display())
	}
}

// evalSqlSelect implements SELECT-as-expression (spec §9 Open Question
// 1): eager materialization into an Array of Record against the
// currently active connection, sharing the same bind/scan path as
// `cursor`'s lazy form.
func (i *Interp) evalSqlSelect(n *ast.SqlSelect, en *env.Environment) (value.Value, error) {
	conn, connErr := i.currentConnection()
	if connErr != nil {
		return value.Null, connErr
	}
	args, err := i.bindSQLPlaceholders(n.Raw, en)
	if err != nil {
		return value.Null, err
	}
	rows, err := conn.Query(n.Raw, args)
	if err != nil {
		return value.Null, errDBf("%v", err)
	}
	defer rows.Close()

	h := i.Arena.NewDynamicArray("record")
	c := i.Arena.Get(h)
	for rows.Next() {
		rh, err := rows.Scan(i.Arena)
		if err != nil {
			return value.Null, errTypef("row scan failed: %v", err)
		}
		c.Elements = append(c.Elements, value.NewRecord(rh))
	}
	c.Dims = []int{len(c.Elements)}
	return value.NewArray(h), nil
}

// bindSQLPlaceholders resolves `:name` placeholders in a bare SELECT
// expression's text against the calling environment, since this form
// carries no explicit argument list the way `open cur(...)` does.
func (i *Interp) bindSQLPlaceholders(raw string, en *env.Environment) ([]host.QueryArg, error) {
	var args []host.QueryArg
	seen := map[string]bool{}
	i2 := 0
	for i2 < len(raw) {
		if raw[i2] == ':' && i2+1 < len(raw) && isIdentByte(raw[i2+1]) {
			j := i2 + 1
			for j < len(raw) && isIdentByte(raw[j]) {
				j++
			}
			name := raw[i2+1 : j]
			if !seen[name] {
				seen[name] = true
				v, err := en.Get(name)
				if err != nil {
					return nil, err
				}
				args = append(args, host.QueryArg{Name: name, Value: v})
			}
			i2 = j
			continue
		}
		i2++
	}
	return args, nil
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

const maxEmbeddedCallDepth = 16

// parseJSONWithEmbeds parses a JSON literal's raw source, pre-evaluating
// any embedded `#ns.name(args)` builtin calls by reusing the full
// lexer/parser/binder/interp pipeline on a synthesized one-statement
// snippet, rather than writing a second call-text parser (spec §4.8
// extension 2).
func (i *Interp) parseJSONWithEmbeds(raw string, en *env.Environment) (*value.JsonNode, error) {
	return jsonreader.Parse(raw, jsonreader.Options{
		Eval: func(call string) (*value.JsonNode, error) {
			return i.evalEmbeddedBuiltinCall(call, en)
		},
	})
}

func (i *Interp) evalEmbeddedBuiltinCall(call string, en *env.Environment) (*value.JsonNode, error) {
	if i.embedDepth >= maxEmbeddedCallDepth {
		return nil, errTypef("embedded call nesting exceeds %d", maxEmbeddedCallDepth)
	}
	i.embedDepth++
	defer func() { i.embedDepth-- }()

	printStmt, err := i.parseSingleCallSnippet(call)
	if err != nil {
		return nil, err
	}
	v, err := i.eval(printStmt.Value, en)
	if err != nil {
		return nil, err
	}
	return valueToJSONNode(v), nil
}

func (i *Interp) evalCursorHasNext(n *ast.CursorHasNext) (value.Value, error) {
	cs, ok := i.cursors[n.CursorName]
	if !ok || !cs.Open {
		return value.Null, errDBf("cursor %q is not open", n.CursorName)
	}
	ok2, err := cs.hasNext(i.Arena)
	if err != nil {
		return value.Null, errTypef("%v", err)
	}
	return value.NewBoolean(ok2), nil
}

func (i *Interp) evalCursorNext(n *ast.CursorNext) (value.Value, error) {
	cs, ok := i.cursors[n.CursorName]
	if !ok || !cs.Open {
		return value.Null, errDBf("cursor %q is not open", n.CursorName)
	}
	h, err := cs.next(i.Arena)
	if err != nil {
		return value.Null, errTypef("%v", err)
	}
	return value.NewRecord(h), nil
}

// iterate enumerates a ForEach collection in the order spec §4.5.1
// describes: Array/Queue elements front to back, Map values in key
// order (not key/value pairs — a scoped reading of spec §9 Open
// Question: ForEach-over-Map iterates values), and Json array
// elements or object values in Keys order.
func (i *Interp) iterate(v value.Value) ([]value.Value, error) {
	switch v.Kind {
	case value.KindArray, value.KindQueue:
		c := i.Arena.Get(v.Handle())
		out := make([]value.Value, len(c.Elements))
		copy(out, c.Elements)
		return out, nil
	case value.KindMap:
		c := i.Arena.Get(v.Handle())
		out := make([]value.Value, len(c.Keys))
		for k, key := range c.Keys {
			out[k] = c.Fields[key]
		}
		return out, nil
	case value.KindJson:
		j := v.Json()
		switch j.Kind {
		case value.JsonArray:
			out := make([]value.Value, len(j.Array))
			for k, el := range j.Array {
				out[k] = jsonNodeToValue(el)
			}
			return out, nil
		case value.JsonObject:
			out := make([]value.Value, len(j.Keys))
			for k, key := range j.Keys {
				out[k] = jsonNodeToValue(j.Object[key])
			}
			return out, nil
		default:
			return nil, errTypef("cannot iterate a json scalar")
		}
	default:
		return nil, errTypef("cannot iterate a %s", v.Kind)
	}
}
