package value

import (
	"fmt"
	"math"
	"time"
)

// numericRank orders the widening chain byte ⊂ integer ⊂ long ⊂ float ⊂
// double (spec §4.4).
func numericRank(k Kind) int {
	switch k {
	case KindByte:
		return 0
	case KindInteger:
		return 1
	case KindLong:
		return 2
	case KindFloat:
		return 3
	case KindDouble:
		return 4
	default:
		return -1
	}
}

// WidenNumeric converts a numeric Value to the requested numeric Kind,
// truncating on narrowing (explicit casts only; implicit stores always
// widen, never narrow — callers enforce that separately).
func WidenNumeric(v Value, target Kind) (Value, error) {
	if !v.IsNumeric() {
		return Null, fmt.Errorf("TypeError: cannot convert %s to %s", v.Kind, target)
	}
	f := v.AsFloat64()
	switch target {
	case KindByte:
		return NewByte(byte(int64(f))), nil
	case KindInteger:
		return NewInteger(int32(f)), nil
	case KindLong:
		return NewLong(int64(f)), nil
	case KindFloat:
		return NewFloat(float32(f)), nil
	case KindDouble:
		return NewDouble(f), nil
	default:
		return Null, fmt.Errorf("TypeError: %s is not a numeric kind", target)
	}
}

// CoerceOnStore implements the Environment's store-time coercion rules
// (spec §4.4: "Numeric widening ... String⇄Date uses ISO format. Boolean
// is not implicitly convertible from numeric").
func CoerceOnStore(v Value, declaredKind Kind) (Value, error) {
	if v.Kind == declaredKind {
		return v, nil
	}
	if v.Kind == KindNull {
		return v, nil
	}
	if v.IsNumeric() && numericKindValid(declaredKind) {
		if numericRank(v.Kind) > numericRank(declaredKind) {
			return Null, fmt.Errorf("TypeError: cannot implicitly narrow %s to %s", v.Kind, declaredKind)
		}
		return WidenNumeric(v, declaredKind)
	}
	if v.Kind == KindString && declaredKind == KindDate {
		return ParseDate(v.Str())
	}
	if v.Kind == KindDate && declaredKind == KindString {
		return NewString(v.Display()), nil
	}
	if v.IsReferenceKind() && v.Kind == declaredKind {
		return v, nil
	}
	return Null, fmt.Errorf("TypeError: cannot store a %s into a %s slot", v.Kind, declaredKind)
}

func numericKindValid(k Kind) bool {
	return numericRank(k) >= 0
}

// IsIntegralKind reports whether k is one of the integer-backed
// numeric kinds (Byte/Integer/Long), as opposed to Float/Double.
func IsIntegralKind(k Kind) bool {
	switch k {
	case KindByte, KindInteger, KindLong:
		return true
	default:
		return false
	}
}

// IntegralRange returns the inclusive [min, max] a Byte/Integer/Long
// slot can hold, for overflow detection before WidenNumeric narrows an
// arithmetic result (spec §8.3). Long's bounds are float64-approximate
// beyond 2^53, the same precision limit arith already accepts by doing
// the operation itself in float64.
func IntegralRange(k Kind) (min, max float64, ok bool) {
	switch k {
	case KindByte:
		return 0, 255, true
	case KindInteger:
		return math.MinInt32, math.MaxInt32, true
	case KindLong:
		return math.MinInt64, math.MaxInt64, true
	default:
		return 0, 0, false
	}
}

// WidestNumeric returns whichever of a, b sits further along the
// widening chain byte ⊂ integer ⊂ long ⊂ float ⊂ double, for binary
// arithmetic's result-kind promotion (spec §4.4).
func WidestNumeric(a, b Kind) Kind {
	if numericRank(b) > numericRank(a) {
		return b
	}
	return a
}

// ParseDate parses the ISO date/time formats the lexer's Date grammar
// accepts (spec §4.1: "YYYY-MM-DD with optional HH:MM[:SS]").
func ParseDate(s string) (Value, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t), nil
		}
	}
	return Null, fmt.Errorf("TypeError: %q is not a valid date", s)
}

// Cast applies the explicit cast-conversion table for `type(expr)` (spec
// §4.5.2), excluding the alias-to-Bitmap/Intmap view cast which requires
// Arena+TypeSpec context and lives in the interpreter's eval path.
func Cast(v Value, target Kind) (Value, error) {
	switch target {
	case KindBoolean:
		switch v.Kind {
		case KindBoolean:
			return v, nil
		case KindString:
			return NewBoolean(v.Str() == "true"), nil
		default:
			if v.IsNumeric() {
				return NewBoolean(v.AsFloat64() != 0), nil
			}
		}
	case KindString:
		return NewString(v.Display()), nil
	case KindByte, KindInteger, KindLong, KindFloat, KindDouble:
		if v.IsNumeric() {
			return WidenNumeric(v, target)
		}
		if v.Kind == KindBoolean {
			if v.Bool() {
				return WidenNumeric(NewInteger(1), target)
			}
			return WidenNumeric(NewInteger(0), target)
		}
	case KindDate:
		if v.Kind == KindString {
			return ParseDate(v.Str())
		}
	}
	return Null, fmt.Errorf("TypeError: cannot cast %s to %s", v.Kind, target)
}
