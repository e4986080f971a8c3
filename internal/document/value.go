package document

import (
	"math/big"
	"time"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	// KindNull is an explicit null (~, null, or an empty value)
	KindNull Kind = iota
	// KindBool is true/false
	KindBool
	// KindInt is an arbitrary precision integer
	KindInt
	// KindFloat is a float64, including .inf and .nan
	KindFloat
	// KindString is any string scalar
	KindString
	// KindTimestamp is a YAML timestamp
	KindTimestamp
	// KindSequence is an ordered list of values
	KindSequence
	// KindMapping is an insertion-ordered string-keyed map
	KindMapping
	// KindAbsent marks a key that does not exist in a document.
	// It never comes out of the loader.
	KindAbsent
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTimestamp:
		return "timestamp"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Value is an immutable node of a configuration document.
// The zero Value is Null.
type Value struct {
	kind  Kind
	b     bool
	i     *big.Int
	f     float64
	s     string
	t     time.Time
	items []Value
	m     *mapping
}

type mapping struct {
	keys   []string
	values map[string]Value
}

// Pair is one key/value entry used to build a mapping
type Pair struct {
	Key   string
	Value Value
}

// KV is shorthand for building a Pair
func KV(key string, value Value) Pair {
	return Pair{Key: key, Value: value}
}

// Null returns a null value
func Null() Value { return Value{kind: KindNull} }

// Absent returns the sentinel used for keys missing from a document
func Absent() Value { return Value{kind: KindAbsent} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value
func Int(i int64) Value { return Value{kind: KindInt, i: big.NewInt(i)} }

// BigInt returns an integer value. The argument is copied.
func BigInt(i *big.Int) Value { return Value{kind: KindInt, i: new(big.Int).Set(i)} }

// Float returns a floating point value
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value
func String(s string) Value { return Value{kind: KindString, s: s} }

// Timestamp returns a timestamp value
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, t: t} }

// Sequence returns a sequence value holding a copy of items
func Sequence(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindSequence, items: cp}
}

// Map returns a mapping value with the pairs in the given order.
// A repeated key overwrites the earlier value but keeps its position.
func Map(pairs ...Pair) Value {
	m := &mapping{values: make(map[string]Value, len(pairs))}
	for _, p := range pairs {
		m.set(p.Key, p.Value)
	}
	return Value{kind: KindMapping, m: m}
}

func (m *mapping) set(key string, v Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Kind returns the variant held by v
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the absent sentinel
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// AsBool returns the boolean and whether v is a bool
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns a copy of the integer and whether v is an int
func (v Value) AsInt() (*big.Int, bool) {
	if v.kind != KindInt {
		return nil, false
	}
	return new(big.Int).Set(v.i), true
}

// AsFloat returns the float and whether v is a float
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the string and whether v is a string
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsTime returns the timestamp and whether v is a timestamp
func (v Value) AsTime() (time.Time, bool) { return v.t, v.kind == KindTimestamp }

// Items returns a copy of the sequence elements, or nil if v is not a sequence
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	cp := make([]Value, len(v.items))
	copy(cp, v.items)
	return cp
}

// Keys returns the mapping keys in insertion order, or nil if v is not a mapping
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	cp := make([]string, len(v.m.keys))
	copy(cp, v.m.keys)
	return cp
}

// Get looks up key in a mapping
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	val, ok := v.m.values[key]
	return val, ok
}

// Lookup is like Get but returns the absent sentinel for missing keys
func (v Value) Lookup(key string) Value {
	if val, ok := v.Get(key); ok {
		return val
	}
	return Absent()
}

// Len returns the number of sequence items or mapping entries
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.m.keys)
	default:
		return 0
	}
}
