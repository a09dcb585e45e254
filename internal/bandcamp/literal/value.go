// Package literal parses the object literals Bandcamp embeds in its pages.
//
// The accepted grammar is JSON plus the JavaScript conveniences found in
// page scripts: unquoted keys, single-quoted strings, string concatenation
// with +, comments, trailing commas and the undefined keyword.
//
// Parsed values are addressed by path:
//
//	v, err := literal.Parse(src)
//	title, _ := v.Path("current.title").String()
//	audio, _ := v.Path("trackinfo[0].file.mp3-128").String()
package literal

import (
	"strconv"
	"strings"
)

// Kind identifies the type of a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a node of a parsed literal. A nil *Value stands for a missing
// node; every accessor is safe to call on it.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string
	items  []*Value
	fields map[string]*Value
	keys   []string
}

// Kind returns the value type. Missing values report Null.
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// Exists reports whether v is present, even if it is null.
func (v *Value) Exists() bool {
	return v != nil
}

// IsNull reports whether v is missing, null or undefined.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == Null
}

// String returns the string content of a String value.
func (v *Value) String() (string, bool) {
	if v == nil || v.kind != String {
		return "", false
	}
	return v.s, true
}

// Float returns a Number value. Numeric strings are converted as well.
func (v *Value) Float() (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.kind {
	case Number:
		return v.n, true
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		return f, err == nil
	}
	return 0, false
}

// Int returns a Number value truncated to an int.
func (v *Value) Int() (int, bool) {
	f, ok := v.Float()
	return int(f), ok
}

// Bool returns a Bool value. Numbers are true when non-zero.
func (v *Value) Bool() (bool, bool) {
	if v == nil {
		return false, false
	}
	switch v.kind {
	case Bool:
		return v.b, true
	case Number:
		return v.n != 0, true
	}
	return false, false
}

// Len returns the element count of an Array or the field count of an Object.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.keys)
	}
	return 0
}

// Index returns element i of an Array, or nil.
func (v *Value) Index(i int) *Value {
	if v == nil || v.kind != Array || i < 0 || i >= len(v.items) {
		return nil
	}
	return v.items[i]
}

// Get returns field key of an Object, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.kind != Object {
		return nil
	}
	return v.fields[key]
}

// Keys returns the field names of an Object in source order.
func (v *Value) Keys() []string {
	if v == nil || v.kind != Object {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Path walks a dotted path with optional array indices, such as
// "trackinfo[2].title". It returns nil when any step is missing.
//
// Keys may contain any character except '.' and '['.
func (v *Value) Path(path string) *Value {
	cur := v
	for _, segment := range strings.Split(path, ".") {
		key, rest, _ := strings.Cut(segment, "[")
		if key != "" {
			cur = cur.Get(key)
		}
		for rest != "" {
			idx, tail, ok := strings.Cut(rest, "]")
			if !ok {
				return nil
			}
			i, err := strconv.Atoi(idx)
			if err != nil {
				return nil
			}
			cur = cur.Index(i)
			rest = strings.TrimPrefix(tail, "[")
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}
