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
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/optakt/dispute-notary/models/notary"
)

// SaveVersion is an operation that writes the version of the storage format.
func (l *Library) SaveVersion(version uint8) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixVersion), version)
}

// SaveDifficulty is an operation that writes the difficulty of the chain.
func (l *Library) SaveDifficulty(difficulty uint) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixDifficulty), uint64(difficulty))
}

// SaveLast is an operation that writes the index of the last stored block.
func (l *Library) SaveLast(index uint64) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixLast), index)
}

// SaveBlock is an operation that writes the record of a block at its index.
func (l *Library) SaveBlock(block notary.Block) func(*badger.Txn) error {
	record, err := NewRecord(block)
	if err != nil {
		return func(*badger.Txn) error {
			return fmt.Errorf("could not convert block: %w", err)
		}
	}
	return l.save(EncodeKey(PrefixBlock, block.Index), record)
}

// IndexForDigest is an operation that indexes the index of a block for its digest.
func (l *Library) IndexForDigest(digest string, index uint64) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixIndexForDigest, digest), index)
}

// RetrieveVersion retrieves the version of the storage format.
func (l *Library) RetrieveVersion(version *uint8) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixVersion), version)
}

// RetrieveDifficulty retrieves the difficulty of the chain.
func (l *Library) RetrieveDifficulty(difficulty *uint) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		var d uint64
		err := l.retrieve(EncodeKey(PrefixDifficulty), &d)(tx)
		if err != nil {
			return err
		}
		*difficulty = uint(d)
		return nil
	}
}

// RetrieveLast retrieves the index of the last stored block.
func (l *Library) RetrieveLast(index *uint64) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixLast), index)
}

// RetrieveBlock retrieves the block at the given index.
func (l *Library) RetrieveBlock(index uint64, block *notary.Block) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		var record Record
		err := l.retrieve(EncodeKey(PrefixBlock, index), &record)(tx)
		if err != nil {
			return err
		}
		b, err := record.Block()
		if err != nil {
			return fmt.Errorf("could not convert record: %w", err)
		}
		*block = b
		return nil
	}
}

// LookupIndexForDigest retrieves the index of the block with the given digest.
// The lookup key is a checksum of the digest, so callers compare the digest of
// the resulting block.
func (l *Library) LookupIndexForDigest(digest string, index *uint64) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixIndexForDigest, digest), index)
}
