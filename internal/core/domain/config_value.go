package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"go.trai.ch/zerr"
)

// ValueKind is the tag of a ConfigValue.
type ValueKind int

const (
	// KindNull is the JSON null.
	KindNull ValueKind = iota
	// KindString is a string scalar.
	KindString
	// KindNumber is a numeric scalar, kept as its literal text.
	KindNumber
	// KindBool is a boolean scalar.
	KindBool
	// KindList is an ordered list of values.
	KindList
	// KindMap is an ordered string-keyed map of values.
	KindMap
)

// String returns the name used in shape errors.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "a string"
	case KindNumber:
		return "a number"
	case KindBool:
		return "a boolean"
	case KindList:
		return "a list"
	case KindMap:
		return "a map"
	default:
		return "unknown"
	}
}

// ConfigValue is a loosely-typed configuration tree node: null, scalar, list or map.
// The zero value is null. Values are immutable once built.
type ConfigValue struct {
	kind   ValueKind
	text   string
	flag   bool
	items  []ConfigValue
	keys   []string
	fields map[string]ConfigValue
}

// MapEntry is a single key/value pair used to build a map value.
type MapEntry struct {
	Key   string
	Value ConfigValue
}

// Null returns the null value.
func Null() ConfigValue {
	return ConfigValue{}
}

// String returns a string scalar.
func String(s string) ConfigValue {
	return ConfigValue{kind: KindString, text: s}
}

// Number returns a numeric scalar from its literal text.
func Number(n json.Number) ConfigValue {
	return ConfigValue{kind: KindNumber, text: n.String()}
}

// Bool returns a boolean scalar.
func Bool(b bool) ConfigValue {
	return ConfigValue{kind: KindBool, flag: b}
}

// List returns a list value holding a copy of items.
func List(items ...ConfigValue) ConfigValue {
	cp := make([]ConfigValue, len(items))
	copy(cp, items)
	return ConfigValue{kind: KindList, items: cp}
}

// Strings returns a list of string scalars.
func Strings(items ...string) ConfigValue {
	values := make([]ConfigValue, len(items))
	for i, s := range items {
		values[i] = String(s)
	}
	return ConfigValue{kind: KindList, items: values}
}

// Map returns a map value. A repeated key keeps its first position and its last value.
func Map(entries ...MapEntry) ConfigValue {
	v := ConfigValue{
		kind:   KindMap,
		keys:   make([]string, 0, len(entries)),
		fields: make(map[string]ConfigValue, len(entries)),
	}
	for _, e := range entries {
		if _, seen := v.fields[e.Key]; !seen {
			v.keys = append(v.keys, e.Key)
		}
		v.fields[e.Key] = e.Value
	}
	return v
}

// Kind returns the tag of the value.
func (v ConfigValue) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v ConfigValue) IsNull() bool {
	return v.kind == KindNull
}

// IsScalar reports whether the value is a string, number or boolean.
func (v ConfigValue) IsScalar() bool {
	return v.kind == KindString || v.kind == KindNumber || v.kind == KindBool
}

// AsString returns the string scalar.
func (v ConfigValue) AsString() (string, bool) {
	return v.text, v.kind == KindString
}

// AsBool returns the boolean scalar.
func (v ConfigValue) AsBool() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// AsInt returns an integral numeric scalar.
func (v ConfigValue) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n, err := strconv.ParseInt(v.text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ScalarText renders any scalar as text, the way it would appear on a command line.
func (v ConfigValue) ScalarText() (string, bool) {
	switch v.kind {
	case KindString, KindNumber:
		return v.text, true
	case KindBool:
		return strconv.FormatBool(v.flag), true
	default:
		return "", false
	}
}

// Items returns the elements of a list value.
func (v ConfigValue) Items() []ConfigValue {
	if v.kind != KindList {
		return nil
	}
	cp := make([]ConfigValue, len(v.items))
	copy(cp, v.items)
	return cp
}

// Keys returns the keys of a map value in document order.
func (v ConfigValue) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	cp := make([]string, len(v.keys))
	copy(cp, v.keys)
	return cp
}

// Get returns the value stored under key in a map value.
func (v ConfigValue) Get(key string) (ConfigValue, bool) {
	if v.kind != KindMap {
		return ConfigValue{}, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// Len returns the number of elements of a list or entries of a map.
func (v ConfigValue) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.keys)
	default:
		return 0
	}
}

// DecodeConfigValue parses strict JSON into a ConfigValue, keeping map key order
// and number literals.
func DecodeConfigValue(data []byte) (ConfigValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return ConfigValue{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ConfigValue{}, zerr.New("unexpected trailing data after document")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (ConfigValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return ConfigValue{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case json.Delim:
		switch t {
		case '[':
			var items []ConfigValue
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return ConfigValue{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return ConfigValue{}, err
			}
			return List(items...), nil
		case '{':
			var entries []MapEntry
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return ConfigValue{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return ConfigValue{}, zerr.New("object key is not a string")
				}
				value, err := decodeValue(dec)
				if err != nil {
					return ConfigValue{}, err
				}
				entries = append(entries, MapEntry{Key: key, Value: value})
			}
			if _, err := dec.Token(); err != nil {
				return ConfigValue{}, err
			}
			return Map(entries...), nil
		}
	}
	return ConfigValue{}, zerr.With(zerr.New("unexpected token"), "token", tok)
}
