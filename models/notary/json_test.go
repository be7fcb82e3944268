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

package notary_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/dispute-notary/models/notary"
)

func TestValue_Canonical(t *testing.T) {
	tests := []struct {
		desc    string
		value   notary.Value
		want    string
		wantErr assert.ErrorAssertionFunc
	}{
		{
			desc:    "null",
			value:   notary.Null(),
			want:    `null`,
			wantErr: assert.NoError,
		},
		{
			desc:    "zero value is null",
			value:   notary.Value{},
			want:    `null`,
			wantErr: assert.NoError,
		},
		{
			desc:    "booleans",
			value:   notary.List(notary.Bool(true), notary.Bool(false)),
			want:    `[true,false]`,
			wantErr: assert.NoError,
		},
		{
			desc:    "integers",
			value:   notary.List(notary.Integer(0), notary.Integer(-42), notary.Integer(9007199254740993)),
			want:    `[0,-42,9007199254740993]`,
			wantErr: assert.NoError,
		},
		{
			desc:    "plain string",
			value:   notary.String("Genesis Block"),
			want:    `"Genesis Block"`,
			wantErr: assert.NoError,
		},
		{
			desc:    "escaped string",
			value:   notary.String("a\"b\\c\nd\te\x01f"),
			want:    `"a\"b\\c\nd\te\u0001f"`,
			wantErr: assert.NoError,
		},
		{
			desc:    "html and unicode are kept",
			value:   notary.String("<a&b> é ✓"),
			want:    `"<a&b> é ✓"`,
			wantErr: assert.NoError,
		},
		{
			desc:    "empty containers",
			value:   notary.List(notary.List(), notary.Record()),
			want:    `[[],{}]`,
			wantErr: assert.NoError,
		},
		{
			desc: "record keeps insertion order",
			value: notary.Record(
				notary.F("title", notary.String("Deposit")),
				notary.F("amount", notary.Integer(1200)),
				notary.F("open", notary.Bool(true)),
			),
			want:    `{"title":"Deposit","amount":1200,"open":true}`,
			wantErr: assert.NoError,
		},
		{
			desc: "nested record",
			value: notary.Record(
				notary.F("a", notary.Record(notary.F("b", notary.List(notary.Null())))),
			),
			want:    `{"a":{"b":[null]}}`,
			wantErr: assert.NoError,
		},
		{
			desc:    "invalid utf-8",
			value:   notary.String("\xff"),
			wantErr: assert.Error,
		},
		{
			desc:    "invalid utf-8 key",
			value:   notary.Record(notary.F("\xfe", notary.Null())),
			wantErr: assert.Error,
		},
		{
			desc: "duplicate key",
			value: notary.Record(
				notary.F("id", notary.Integer(1)),
				notary.F("id", notary.Integer(2)),
			),
			wantErr: assert.Error,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.desc, func(t *testing.T) {
			t.Parallel()

			got, err := test.value.Canonical()
			test.wantErr(t, err)

			if err != nil {
				assert.ErrorIs(t, err, notary.ErrSerialization)
				return
			}
			assert.Equal(t, test.want, string(got))
		})
	}
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		desc    string
		data    string
		want    notary.Value
		wantErr assert.ErrorAssertionFunc
	}{
		{
			desc:    "scalar",
			data:    `42`,
			want:    notary.Integer(42),
			wantErr: assert.NoError,
		},
		{
			desc: "record with whitespace",
			data: "{ \"z\" : 1 ,\n \"a\" : [ true , null , \"x\" ] }",
			want: notary.Record(
				notary.F("z", notary.Integer(1)),
				notary.F("a", notary.List(notary.Bool(true), notary.Null(), notary.String("x"))),
			),
			wantErr: assert.NoError,
		},
		{
			desc:    "escapes",
			data:    `"é\n\/"`,
			want:    notary.String("é\n/"),
			wantErr: assert.NoError,
		},
		{
			desc:    "fraction",
			data:    `1.5`,
			wantErr: assert.Error,
		},
		{
			desc:    "exponent",
			data:    `1e3`,
			wantErr: assert.Error,
		},
		{
			desc:    "overflow",
			data:    `9223372036854775808`,
			wantErr: assert.Error,
		},
		{
			desc:    "duplicate key",
			data:    `{"a":1,"a":2}`,
			wantErr: assert.Error,
		},
		{
			desc:    "trailing data",
			data:    `{} {}`,
			wantErr: assert.Error,
		},
		{
			desc:    "truncated",
			data:    `[1,2`,
			wantErr: assert.Error,
		},
		{
			desc:    "empty",
			data:    ``,
			wantErr: assert.Error,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.desc, func(t *testing.T) {
			t.Parallel()

			got, err := notary.ParseJSON([]byte(test.data))
			test.wantErr(t, err)

			if err != nil {
				assert.ErrorIs(t, err, notary.ErrSerialization)
				return
			}
			assert.True(t, test.want.Equal(got))
		})
	}
}

func TestValue_JSON(t *testing.T) {
	type envelope struct {
		Payload notary.Value `json:"payload"`
	}

	in := envelope{
		Payload: notary.Record(
			notary.F("dispute_id", notary.String("D-1")),
			notary.F("amount", notary.Integer(-7)),
		),
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `{"payload":{"dispute_id":"D-1","amount":-7}}`, string(data))

	var out envelope
	err = json.Unmarshal(data, &out)
	require.NoError(t, err)
	assert.True(t, in.Payload.Equal(out.Payload))

	err = json.Unmarshal([]byte(`{"payload":{"amount":0.5}}`), &out)
	assert.ErrorIs(t, err, notary.ErrSerialization)
}
