package value

import (
	"fmt"

	"github.com/ebscore/ebs/ast"
)

// ZeroOf synthesizes the type-zero value for a declared type (spec §3.7:
// "missing initializers default to type-zero: 0/0.0/false/""/null").
func ZeroOf(arena *Arena, t *ast.TypeSpec) Value {
	if t == nil {
		return Null
	}
	switch t.Name {
	case "byte":
		return NewByte(0)
	case "integer":
		return NewInteger(0)
	case "long":
		return NewLong(0)
	case "float":
		return NewFloat(0)
	case "double":
		return NewDouble(0)
	case "string":
		return NewString("")
	case "boolean":
		return NewBoolean(false)
	case "json":
		return NewJson(NewJsonNull())
	}
	switch {
	case t.IsArray:
		// Fixed dimensions are sized by the interpreter at declaration time
		// (ArraySize is an Expression it must evaluate); zero-value here
		// covers the dynamic case and pre-sizing callers overwrite it.
		return NewArray(arena.NewDynamicArray(elemTypeName(t)))
	case t.IsQueue:
		return NewQueue(arena.NewQueue(elemTypeName(t)))
	case t.IsMap:
		return NewMap(arena.NewMap(t.Sorted))
	case t.IsRecord:
		names := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			names[i] = f.Name
		}
		h := arena.NewRecord(t.Name, names)
		rec := arena.Get(h)
		for _, f := range t.Fields {
			rec.Fields[f.Name] = ZeroOf(arena, f.Type)
		}
		return NewRecord(h)
	case t.IsBitmap:
		return NewBitmap(arena.NewBitmap(t.Name, bitmapByteWidth(t)))
	case t.IsIntmap:
		return NewIntmap(arena.NewIntmap(t.Name))
	}
	return Null
}

func elemTypeName(t *ast.TypeSpec) string {
	if t.ElemType != nil {
		return t.ElemType.Name
	}
	return ""
}

// BitmapByteWidth exposes bitmapByteWidth for the interpreter's
// cast-via-alias path, which must size a fresh Bitmap container without
// going through ZeroOf.
func BitmapByteWidth(t *ast.TypeSpec) int { return bitmapByteWidth(t) }

func bitmapByteWidth(t *ast.TypeSpec) int {
	maxBit := 0
	for _, bf := range t.BitFields {
		if bf.EndBit > maxBit {
			maxBit = bf.EndBit
		}
	}
	return (maxBit + 8) / 8
}

// FieldSet reports the record's expected field names (spec §3.7: "A
// record value's field set equals its RecordType's field set").
func FieldSet(t *ast.TypeSpec) map[string]bool {
	set := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		set[f.Name] = true
	}
	return set
}

// ValidateRecordAssignment checks a record container's field set against
// its declared type before a structural store (spec §4.4: "record field
// sets ... must match; otherwise fail with TypeError").
func ValidateRecordAssignment(c *Container, t *ast.TypeSpec) error {
	want := FieldSet(t)
	if len(want) != len(c.Fields) {
		return fmt.Errorf("TypeError: record %q field count mismatch: want %d, got %d", t.Name, len(want), len(c.Fields))
	}
	for name := range want {
		if _, ok := c.Fields[name]; !ok {
			return fmt.Errorf("TypeError: record %q missing field %q", t.Name, name)
		}
	}
	return nil
}
