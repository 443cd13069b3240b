// Package value implements the EBS runtime value model: a closed tagged
// union over every data kind a script can hold, plus the arena that backs
// reference-semantics containers (arrays, records, maps, queues).
package value

import (
	"fmt"
	"math"
	"time"
)

// Kind tags the active member of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindByte
	KindInteger
	KindLong
	KindFloat
	KindDouble
	KindString
	KindDate
	KindBoolean
	KindJson
	KindArray
	KindRecord
	KindMap
	KindQueue
	KindBitmap
	KindIntmap
	KindCursor
	KindConnection
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindByte:
		return "byte"
	case KindInteger:
		return "integer"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindBoolean:
		return "boolean"
	case KindJson:
		return "json"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	case KindMap:
		return "map"
	case KindQueue:
		return "queue"
	case KindBitmap:
		return "bitmap"
	case KindIntmap:
		return "intmap"
	case KindCursor:
		return "cursor"
	case KindConnection:
		return "connection"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Value is a tagged struct rather than an interface-per-variant sum type:
// the interpreter's hot path switches on Kind for every expression it
// evaluates, so a closed struct avoids the allocation and type-assertion
// cost of boxing 19 variants behind an interface.
type Value struct {
	Kind Kind

	b   byte
	i32 int32
	i64 int64
	f32 float32
	f64 float64
	str string
	t   time.Time
	boo bool

	json   *JsonNode
	handle Handle
}

// Handle is an index into an Arena identifying a reference-semantics
// container (Array, Record, Map, Queue, Bitmap, Intmap).
type Handle int

const NoHandle Handle = -1

var Null = Value{Kind: KindNull}

func NewByte(b byte) Value       { return Value{Kind: KindByte, b: b} }
func NewInteger(i int32) Value   { return Value{Kind: KindInteger, i32: i} }
func NewLong(i int64) Value      { return Value{Kind: KindLong, i64: i} }
func NewFloat(f float32) Value   { return Value{Kind: KindFloat, f32: f} }
func NewDouble(f float64) Value  { return Value{Kind: KindDouble, f64: f} }
func NewString(s string) Value   { return Value{Kind: KindString, str: s} }
func NewDate(t time.Time) Value  { return Value{Kind: KindDate, t: t} }
func NewBoolean(b bool) Value    { return Value{Kind: KindBoolean, boo: b} }
func NewCursor(h Handle) Value   { return Value{Kind: KindCursor, handle: h} }
func NewConnection(h Handle) Value {
	return Value{Kind: KindConnection, handle: h}
}
func NewImage(payload []byte) Value {
	return Value{Kind: KindImage, str: string(payload)}
}

func NewJson(n *JsonNode) Value { return Value{Kind: KindJson, json: n} }

func NewArray(h Handle) Value  { return Value{Kind: KindArray, handle: h} }
func NewRecord(h Handle) Value { return Value{Kind: KindRecord, handle: h} }
func NewMap(h Handle) Value    { return Value{Kind: KindMap, handle: h} }
func NewQueue(h Handle) Value  { return Value{Kind: KindQueue, handle: h} }
func NewBitmap(h Handle) Value { return Value{Kind: KindBitmap, handle: h} }
func NewIntmap(h Handle) Value { return Value{Kind: KindIntmap, handle: h} }

func (v Value) Byte() byte           { return v.b }
func (v Value) Integer() int32       { return v.i32 }
func (v Value) Long() int64          { return v.i64 }
func (v Value) Float32() float32     { return v.f32 }
func (v Value) Float64() float64     { return v.f64 }
func (v Value) Str() string          { return v.str }
func (v Value) Time() time.Time      { return v.t }
func (v Value) Bool() bool           { return v.boo }
func (v Value) Json() *JsonNode      { return v.json }
func (v Value) Handle() Handle       { return v.handle }
func (v Value) IsNull() bool         { return v.Kind == KindNull }

// IsReferenceKind reports whether v's Kind carries arena reference
// semantics (spec §3.3: "Records and arrays have reference semantics").
func (v Value) IsReferenceKind() bool {
	switch v.Kind {
	case KindArray, KindRecord, KindMap, KindQueue, KindBitmap, KindIntmap:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether v is one of the widening numeric kinds
// (spec §4.4: byte ⊂ integer ⊂ long ⊂ float ⊂ double).
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case KindByte, KindInteger, KindLong, KindFloat, KindDouble:
		return true
	default:
		return false
	}
}

// AsFloat64 widens any numeric kind to float64 for arithmetic dispatch.
func (v Value) AsFloat64() float64 {
	switch v.Kind {
	case KindByte:
		return float64(v.b)
	case KindInteger:
		return float64(v.i32)
	case KindLong:
		return float64(v.i64)
	case KindFloat:
		return float64(v.f32)
	case KindDouble:
		return v.f64
	default:
		return 0
	}
}

// Truthy implements spec §4.5.3: the only implicit coercion to Boolean.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBoolean:
		return v.boo
	case KindByte:
		return v.b != 0
	case KindInteger:
		return v.i32 != 0
	case KindLong:
		return v.i64 != 0
	case KindFloat:
		return v.f32 != 0
	case KindDouble:
		return v.f64 != 0
	case KindString:
		return v.str != ""
	case KindRecord:
		return true
	default:
		return true // Array/Map/Queue emptiness is checked by the caller via an Arena lookup.
	}
}

// Display renders v in canonical textual form for `print` (spec §4.5.1).
// Containers resolve through arena so callers must prefer
// Interp-level stringify for Array/Record/Map/Queue/Json; this covers
// the scalar kinds directly reachable without an Arena.
func (v Value) Display() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindByte:
		return fmt.Sprintf("%d", v.b)
	case KindInteger:
		return fmt.Sprintf("%d", v.i32)
	case KindLong:
		return fmt.Sprintf("%d", v.i64)
	case KindFloat:
		return displayFloat(float64(v.f32))
	case KindDouble:
		return displayFloat(v.f64)
	case KindString:
		return v.str
	case KindBoolean:
		return fmt.Sprintf("%t", v.boo)
	case KindDate:
		if v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 {
			return v.t.Format("2006-01-02")
		}
		return v.t.Format("2006-01-02 15:04:05")
	case KindJson:
		return v.json.String()
	default:
		return fmt.Sprintf("<%s>", v.Kind)
	}
}

// displayFloat renders a Float/Double for `print`, spelling out IEEE
// infinities and NaN the way a division by zero (spec §8.3: "float/
// double → ±Infinity, no error") needs a readable result instead of
// Go's bare `%g` formatting ("+Inf"/"NaN").
func displayFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	default:
		return fmt.Sprintf("%g", f)
	}
}
