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
	"strings"
)

const (
	// GenesisDigest is the sentinel used both as the digest of the genesis
	// block and as its previous digest. It is not the hash of any fields.
	GenesisDigest = "0"

	// GenesisMarker is the payload of the genesis block.
	GenesisMarker = "Genesis Block"

	// DefaultDifficulty is the number of leading zero characters required in
	// the digest of a sealed block.
	DefaultDifficulty = 4

	// MaxDifficulty is the length of a hex-encoded SHA-256 digest.
	MaxDifficulty = 64
)

// Block is one sealed record of the integrity chain.
type Block struct {
	Index          uint64
	Timestamp      int64
	Payload        Value
	PreviousDigest string
	Digest         string
	Nonce          uint64
}

// Genesis returns the fixed first block of a chain created at the given
// timestamp, in milliseconds since the Unix epoch.
func Genesis(timestamp int64) Block {
	b := Block{
		Index:          0,
		Timestamp:      timestamp,
		Payload:        String(GenesisMarker),
		PreviousDigest: GenesisDigest,
		Digest:         GenesisDigest,
		Nonce:          0,
	}

	return b
}

// IsGenesis returns whether the block sits at the genesis position.
func (b Block) IsGenesis() bool {
	return b.Index == 0
}

// MeetsDifficulty returns whether the textual digest starts with at least
// `difficulty` zero characters.
func MeetsDifficulty(digest string, difficulty uint) bool {
	if uint(len(digest)) < difficulty {
		return false
	}
	return strings.Count(digest[:difficulty], "0") == int(difficulty)
}
