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

package storage

import (
	"errors"
	"fmt"

	"github.com/optakt/dispute-notary/models/notary"
)

// ErrUnknownVersion is returned when a stored record uses an unsupported
// encoding version.
var ErrUnknownVersion = errors.New("unknown record version")

// Record is the stored form of a block. The payload is kept as its canonical
// JSON encoding, which parses back into an identical value.
type Record struct {
	Version        uint8  `cbor:"1,keyasint"`
	Index          uint64 `cbor:"2,keyasint"`
	Timestamp      int64  `cbor:"3,keyasint"`
	Payload        []byte `cbor:"4,keyasint"`
	PreviousDigest string `cbor:"5,keyasint"`
	Digest         string `cbor:"6,keyasint"`
	Nonce          uint64 `cbor:"7,keyasint"`
}

// NewRecord converts a block into its stored form.
func NewRecord(block notary.Block) (Record, error) {

	payload, err := block.Payload.Canonical()
	if err != nil {
		return Record{}, fmt.Errorf("could not encode payload (index: %d): %w", block.Index, err)
	}

	r := Record{
		Version:        Version,
		Index:          block.Index,
		Timestamp:      block.Timestamp,
		Payload:        payload,
		PreviousDigest: block.PreviousDigest,
		Digest:         block.Digest,
		Nonce:          block.Nonce,
	}

	return r, nil
}

// Block converts the record back into a block.
func (r Record) Block() (notary.Block, error) {

	if r.Version != Version {
		return notary.Block{}, fmt.Errorf("%w (index: %d, version: %d)", ErrUnknownVersion, r.Index, r.Version)
	}

	payload, err := notary.ParseJSON(r.Payload)
	if err != nil {
		return notary.Block{}, fmt.Errorf("could not decode payload (index: %d): %w", r.Index, err)
	}

	block := notary.Block{
		Index:          r.Index,
		Timestamp:      r.Timestamp,
		Payload:        payload,
		PreviousDigest: r.PreviousDigest,
		Digest:         r.Digest,
		Nonce:          r.Nonce,
	}

	return block, nil
}
