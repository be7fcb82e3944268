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

package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/optakt/dispute-notary/models/notary"
)

// Template holds the nonce-independent prefix of a block pre-image, so that
// the payload is only encoded once while searching for a nonce. It is safe
// for concurrent use.
type Template struct {
	prefix []byte
}

// NewTemplate encodes the fixed fields of a block in pre-image order:
// decimal index, previous digest, decimal timestamp and canonical payload.
func NewTemplate(index uint64, previous string, timestamp int64, payload notary.Value) (*Template, error) {
	data, err := payload.Canonical()
	if err != nil {
		return nil, fmt.Errorf("could not encode payload: %w", err)
	}

	prefix := make([]byte, 0, 20+len(previous)+20+len(data))
	prefix = strconv.AppendUint(prefix, index, 10)
	prefix = append(prefix, previous...)
	prefix = strconv.AppendInt(prefix, timestamp, 10)
	prefix = append(prefix, data...)

	t := Template{
		prefix: prefix,
	}

	return &t, nil
}

// Digest completes the pre-image with the decimal nonce and returns the
// lowercase hex SHA-256 of it.
func (t *Template) Digest(nonce uint64) string {
	buf := make([]byte, len(t.prefix), len(t.prefix)+20)
	copy(buf, t.prefix)
	buf = strconv.AppendUint(buf, nonce, 10)
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// Digest computes the digest of a block from its canonical fields.
func Digest(index uint64, previous string, timestamp int64, payload notary.Value, nonce uint64) (string, error) {
	t, err := NewTemplate(index, previous, timestamp, payload)
	if err != nil {
		return "", err
	}
	return t.Digest(nonce), nil
}

// BlockDigest recomputes the digest of a block from its own fields.
func BlockDigest(block notary.Block) (string, error) {
	return Digest(block.Index, block.PreviousDigest, block.Timestamp, block.Payload, block.Nonce)
}

// DescriptionHash fingerprints a dispute description the way dispute records
// are created: the digest of a zero block over an empty previous digest with
// the description as payload.
func DescriptionHash(description string, at time.Time) (string, error) {
	return Digest(0, "", at.UnixMilli(), notary.String(description), 0)
}
