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

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// Canonical returns the canonical JSON encoding of the value, which is the
// encoding used for hashing:
//
//   - no insignificant whitespace;
//   - integers in base 10 without exponent;
//   - strings escape only `"`, `\` and control characters below U+0020, using
//     the short forms \b \f \n \r \t where they exist and \u00xx otherwise;
//   - record fields in insertion order.
//
// It fails with ErrSerialization on invalid UTF-8 and duplicate record keys.
func (v Value) Canonical() ([]byte, error) {
	var buf bytes.Buffer
	err := v.encode(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler using the canonical encoding.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.Canonical()
}

// UnmarshalJSON implements json.Unmarshaler using ParseJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	value, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = value
	return nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case KindInteger:
		buf.WriteString(strconv.FormatInt(v.integer, 10))
	case KindString:
		return encodeString(buf, v.str)
	case KindList:
		buf.WriteByte('[')
		for i, element := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			err := element.encode(buf)
			if err != nil {
				return fmt.Errorf("could not encode list element (position: %d): %w", i, err)
			}
		}
		buf.WriteByte(']')
	case KindRecord:
		seen := make(map[string]struct{}, len(v.fields))
		buf.WriteByte('{')
		for i, field := range v.fields {
			_, ok := seen[field.Key]
			if ok {
				return fmt.Errorf("duplicate record key (key: %q)", field.Key)
			}
			seen[field.Key] = struct{}{}
			if i > 0 {
				buf.WriteByte(',')
			}
			err := encodeString(buf, field.Key)
			if err != nil {
				return fmt.Errorf("could not encode record key: %w", err)
			}
			buf.WriteByte(':')
			err = field.Value.encode(buf)
			if err != nil {
				return fmt.Errorf("could not encode record value (key: %q): %w", field.Key, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind (%d)", v.kind)
	}

	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("invalid utf-8 string (%q)", s)
	}

	buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if c < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[c>>4])
				buf.WriteByte(hexDigits[c&0xf])
				continue
			}
			buf.WriteByte(c)
		}
	}
	buf.WriteByte('"')

	return nil
}

// ParseJSON decodes JSON text into a value. Record field order is preserved.
// Numbers must be integers that fit into 64 bits; fractions and exponents are
// refused so that every accepted document has exactly one canonical form.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := parseValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %s", ErrSerialization, err)
	}

	_, err = dec.Token()
	if !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("%w: trailing data after value", ErrSerialization)
	}

	return value, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	token, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("could not read token: %w", err)
	}

	switch t := token.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		i, err := strconv.ParseInt(t.String(), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("unsupported number (%s)", t.String())
		}
		return Integer(i), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			return parseList(dec)
		case '{':
			return parseRecord(dec)
		}
	}

	return Value{}, fmt.Errorf("unexpected token (%v)", token)
}

func parseList(dec *json.Decoder) (Value, error) {
	var elements []Value
	for dec.More() {
		element, err := parseValue(dec)
		if err != nil {
			return Value{}, fmt.Errorf("could not parse list element (position: %d): %w", len(elements), err)
		}
		elements = append(elements, element)
	}

	// Consume the closing bracket.
	_, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("could not close list: %w", err)
	}

	return List(elements...), nil
}

func parseRecord(dec *json.Decoder) (Value, error) {
	var fields []Field
	seen := make(map[string]struct{})
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("could not read record key: %w", err)
		}
		key, ok := token.(string)
		if !ok {
			return Value{}, fmt.Errorf("invalid record key (%v)", token)
		}
		_, ok = seen[key]
		if ok {
			return Value{}, fmt.Errorf("duplicate record key (key: %q)", key)
		}
		seen[key] = struct{}{}

		value, err := parseValue(dec)
		if err != nil {
			return Value{}, fmt.Errorf("could not parse record value (key: %q): %w", key, err)
		}
		fields = append(fields, F(key, value))
	}

	// Consume the closing brace.
	_, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("could not close record: %w", err)
	}

	return Record(fields...), nil
}
