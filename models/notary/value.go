// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package notary

// Kind is the type tag of a payload value.
type Kind uint8

// Supported payload value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindString
	KindList
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Field is a single named entry of a record value.
type Field struct {
	Key   string
	Value Value
}

// F is a shorthand to build a record field.
func F(key string, value Value) Field {
	return Field{Key: key, Value: value}
}

// Value is the payload notarized by a block. It is a tagged union of the
// JSON-like kinds that the chain knows how to encode canonically. Values are
// immutable once built; the zero value is the null value.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	str     string
	list    []Value
	fields  []Field
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// Integer returns an integer value.
func Integer(i int64) Value {
	return Value{kind: KindInteger, integer: i}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// List returns a list value holding a copy of the given elements.
func List(elements ...Value) Value {
	list := make([]Value, len(elements))
	copy(list, elements)
	return Value{kind: KindList, list: list}
}

// Record returns a record value. Field order is significant and preserved.
func Record(fields ...Field) Value {
	fs := make([]Field, len(fields))
	copy(fs, fields)
	return Value{kind: KindRecord, fields: fs}
}

// Kind returns the type tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Bool returns the boolean held by the value and whether it is a boolean.
func (v Value) Bool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

// Integer returns the integer held by the value and whether it is an integer.
func (v Value) Integer() (int64, bool) {
	return v.integer, v.kind == KindInteger
}

// Str returns the string held by the value and whether it is a string.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Elements returns a copy of the elements of a list value.
func (v Value) Elements() []Value {
	elements := make([]Value, len(v.list))
	copy(elements, v.list)
	return elements
}

// Fields returns a copy of the fields of a record value, in order.
func (v Value) Fields() []Field {
	fields := make([]Field, len(v.fields))
	copy(fields, v.fields)
	return fields
}

// Lookup returns the value of the first record field with the given key.
func (v Value) Lookup(key string) (Value, bool) {
	for _, field := range v.fields {
		if field.Key == key {
			return field.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether two values are structurally identical, including
// record field order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolean == other.boolean
	case KindInteger:
		return v.integer == other.integer
	case KindString:
		return v.str == other.str
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(v.fields) != len(other.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i].Key != other.fields[i].Key {
				return false
			}
			if !v.fields[i].Value.Equal(other.fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
