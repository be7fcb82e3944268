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

package index

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/dgraph-io/ristretto"

	"github.com/optakt/dispute-notary/models/notary"
	"github.com/optakt/dispute-notary/service/storage"
)

// Reader reads the persisted chain from a Badger database. Blocks are
// immutable once written, so they are cached by index.
type Reader struct {
	db    *badger.DB
	lib   *storage.Library
	cache *ristretto.Cache
}

// NewReader creates a new index reader, using the given database as the
// underlying persistent storage.
func NewReader(db *badger.DB, lib *storage.Library, options ...func(*Config)) (*Reader, error) {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(cfg.CacheSize) * 10,
		MaxCost:     int64(cfg.CacheSize),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("could not initialize cache: %w", err)
	}

	r := Reader{
		db:    db,
		lib:   lib,
		cache: cache,
	}

	return &r, nil
}

// Difficulty returns the difficulty the chain was created with. It fails with
// storage.ErrUnknownVersion when the database uses another storage format.
func (r *Reader) Difficulty() (uint, error) {
	var difficulty uint
	err := r.db.View(r.lib.Versioned(r.lib.RetrieveDifficulty(&difficulty)))
	if errors.Is(err, notary.ErrNotFound) {
		return 0, notary.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("could not retrieve difficulty: %w", err)
	}
	return difficulty, nil
}

// Last returns the index of the last stored block.
func (r *Reader) Last() (uint64, error) {
	var last uint64
	err := r.db.View(r.lib.RetrieveLast(&last))
	if errors.Is(err, notary.ErrNotFound) {
		return 0, notary.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("could not retrieve last index: %w", err)
	}
	return last, nil
}

// Block returns the block at the given index.
func (r *Reader) Block(index uint64) (notary.Block, error) {

	cached, ok := r.cache.Get(index)
	if ok {
		return cached.(notary.Block), nil
	}

	var block notary.Block
	err := r.db.View(r.lib.RetrieveBlock(index, &block))
	if errors.Is(err, notary.ErrNotFound) {
		return notary.Block{}, notary.ErrNotFound
	}
	if err != nil {
		return notary.Block{}, fmt.Errorf("could not retrieve block (index: %d): %w", index, err)
	}

	r.cache.Set(index, block, 1)

	return block, nil
}

// Index returns the index of the block with the given digest.
func (r *Reader) Index(digest string) (uint64, error) {

	var index uint64
	err := r.db.View(r.lib.LookupIndexForDigest(digest, &index))
	if errors.Is(err, notary.ErrNotFound) {
		return 0, notary.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("could not look up index (digest: %s): %w", digest, err)
	}

	// The lookup key is a checksum, so confirm the match on the block itself.
	block, err := r.Block(index)
	if err != nil {
		return 0, fmt.Errorf("could not retrieve block for digest (digest: %s): %w", digest, err)
	}
	if block.Digest != digest {
		return 0, notary.ErrNotFound
	}

	return index, nil
}
