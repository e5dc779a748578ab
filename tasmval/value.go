// Package tasmval implements the tasm Value model: the tagged union
// argument type, its textual parsing rules, and the signature matcher
// the instruction registry uses to pick a handler for a given argument
// list.
package tasmval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AliasKind distinguishes the two reserved aliases.
type AliasKind int

const (
	MemReg AliasKind = iota
	PtrPos
)

func (k AliasKind) String() string {
	if k == MemReg {
		return "MEMREG"
	}
	return "PTRPOS"
}

// Tag identifies which field of a Value is populated.
type Tag int

const (
	TagCounter Tag = iota
	TagTimer
	TagNumber
	TagGroup
	TagString
	TagAlias
)

// Value is the tagged union every instruction argument parses into.
type Value struct {
	tag   Tag
	i     int16   // Counter, Timer, Group id
	num   float64 // Number
	str   string  // String
	alias AliasKind
}

func Counter(id int16) Value { return Value{tag: TagCounter, i: id} }
func Timer(id int16) Value   { return Value{tag: TagTimer, i: id} }
func Number(n float64) Value { return Value{tag: TagNumber, num: n} }
func Group(id int16) Value   { return Value{tag: TagGroup, i: id} }
func Str(s string) Value     { return Value{tag: TagString, str: s} }
func Alias(k AliasKind) Value { return Value{tag: TagAlias, alias: k} }

func (v Value) Tag() Tag { return v.tag }

// IntID returns the Counter/Timer/Group id. Panics if the value does
// not carry one — callers must check Tag() first.
func (v Value) IntID() int16 {
	switch v.tag {
	case TagCounter, TagTimer, TagGroup:
		return v.i
	default:
		panic(fmt.Sprintf("tasmval: IntID called on %v", v.tag))
	}
}

// NumberValue returns the Number payload.
func (v Value) NumberValue() float64 {
	if v.tag != TagNumber {
		panic("tasmval: NumberValue called on non-Number")
	}
	return v.num
}

// StringValue returns the String payload.
func (v Value) StringValue() string {
	if v.tag != TagString {
		panic("tasmval: StringValue called on non-String")
	}
	return v.str
}

// AliasKindValue returns which alias this Value carries.
func (v Value) AliasKindValue() AliasKind {
	if v.tag != TagAlias {
		panic("tasmval: AliasKindValue called on non-Alias")
	}
	return v.alias
}

func (v Value) String() string {
	switch v.tag {
	case TagCounter:
		return fmt.Sprintf("C%d", v.i)
	case TagTimer:
		return fmt.Sprintf("T%d", v.i)
	case TagNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case TagGroup:
		return fmt.Sprintf("%dg", v.i)
	case TagString:
		return v.str
	case TagAlias:
		return v.alias.String()
	default:
		return "<invalid>"
	}
}

// IsInt reports whether a Number value has zero fractional part.
func (v Value) IsInt() bool {
	return v.tag == TagNumber && v.num == math.Trunc(v.num)
}

// ParseValue implements the §4.1 value-parsing rule for one token.
// MEMREG and PTRPOS become Alias values rather than counter ids, so the
// result does not depend on the configured mem-end counter.
func ParseValue(t string) (Value, error) {
	if t == "MEMREG" {
		return Alias(MemReg), nil
	}
	if t == "PTRPOS" {
		return Alias(PtrPos), nil
	}

	if len(t) > 1 && t[0] == 'T' {
		if n, err := strconv.ParseInt(t[1:], 10, 16); err == nil {
			return Timer(int16(n)), nil
		}
	}
	if len(t) > 1 && t[0] == 'C' {
		if n, err := strconv.ParseInt(t[1:], 10, 16); err == nil {
			return Counter(int16(n)), nil
		}
	}

	if f, err := strconv.ParseFloat(t, 64); err == nil {
		if math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("infinity not allowed")
		}
		if math.IsNaN(f) {
			return Value{}, fmt.Errorf("NaN not allowed")
		}
		return Number(f), nil
	}

	if strings.HasSuffix(t, "g") {
		trimmed := strings.TrimSuffix(t, "g")
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f == math.Trunc(f) {
			return Group(int16(f)), nil
		}
	}

	return Str(t), nil
}
