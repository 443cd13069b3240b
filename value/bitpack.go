package value

import (
	"fmt"

	"github.com/ebscore/ebs/ast"
)

// fieldSpan locates a named bit field within a BitmapType/IntmapType.
func fieldSpan(t *ast.TypeSpec, name string) (ast.BitFieldSpec, error) {
	for _, bf := range t.BitFields {
		if bf.Name == name {
			return bf, nil
		}
	}
	return ast.BitFieldSpec{}, fmt.Errorf("NameError: no such bit field %q", name)
}

func width(bf ast.BitFieldSpec) uint {
	return uint(bf.EndBit - bf.StartBit + 1)
}

func mask(w uint) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << w) - 1
}

// GetBitmapField reads a named field out of a byte-backed Bitmap
// container (spec §3.3/§3.4: "widths of 1 bit encode boolean fields,
// ≥2 bits encode small unsigned integers").
func GetBitmapField(c *Container, t *ast.TypeSpec, name string) (Value, error) {
	bf, err := fieldSpan(t, name)
	if err != nil {
		return Null, err
	}
	raw := readBits(c.RawBits, uint(bf.StartBit), width(bf))
	if width(bf) == 1 {
		return NewBoolean(raw != 0), nil
	}
	return NewInteger(int32(raw)), nil
}

// SetBitmapField writes a named field into a byte-backed Bitmap
// container; writes go back to the underlying storage (spec §4.5.2).
func SetBitmapField(c *Container, t *ast.TypeSpec, name string, v Value) error {
	bf, err := fieldSpan(t, name)
	if err != nil {
		return err
	}
	var raw uint64
	if width(bf) == 1 {
		if v.Truthy() {
			raw = 1
		}
	} else {
		raw = uint64(v.AsFloat64()) & mask(width(bf))
	}
	writeBits(c.RawBits, uint(bf.StartBit), width(bf), raw)
	return nil
}

// GetIntmapField reads a named field out of a 32-bit-backed Intmap.
func GetIntmapField(c *Container, t *ast.TypeSpec, name string) (Value, error) {
	bf, err := fieldSpan(t, name)
	if err != nil {
		return Null, err
	}
	raw := (uint64(uint32(c.RawInt)) >> uint(bf.StartBit)) & mask(width(bf))
	if width(bf) == 1 {
		return NewBoolean(raw != 0), nil
	}
	return NewInteger(int32(raw)), nil
}

func SetIntmapField(c *Container, t *ast.TypeSpec, name string, v Value) error {
	bf, err := fieldSpan(t, name)
	if err != nil {
		return err
	}
	var raw uint64
	if width(bf) == 1 {
		if v.Truthy() {
			raw = 1
		}
	} else {
		raw = uint64(v.AsFloat64()) & mask(width(bf))
	}
	cleared := uint64(uint32(c.RawInt)) &^ (mask(width(bf)) << uint(bf.StartBit))
	c.RawInt = int32(uint32(cleared | (raw << uint(bf.StartBit))))
	return nil
}

func readBits(buf []byte, startBit, w uint) uint64 {
	var raw uint64
	for i := uint(0); i < w; i++ {
		bitIdx := startBit + i
		byteIdx := bitIdx / 8
		if int(byteIdx) >= len(buf) {
			break
		}
		bit := (buf[byteIdx] >> (bitIdx % 8)) & 1
		raw |= uint64(bit) << i
	}
	return raw
}

func writeBits(buf []byte, startBit, w uint, raw uint64) {
	for i := uint(0); i < w; i++ {
		bitIdx := startBit + i
		byteIdx := bitIdx / 8
		if int(byteIdx) >= len(buf) {
			break
		}
		bit := (raw >> i) & 1
		if bit == 1 {
			buf[byteIdx] |= 1 << (bitIdx % 8)
		} else {
			buf[byteIdx] &^= 1 << (bitIdx % 8)
		}
	}
}
