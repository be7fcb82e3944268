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
	"sync/atomic"

	"github.com/dgraph-io/badger/v2"

	"github.com/optakt/dispute-notary/models/notary"
	"github.com/optakt/dispute-notary/service/storage"
)

// ErrClosed is returned when writing to a closed writer.
var ErrClosed = errors.New("writer is closed")

// Writer writes sealed blocks to a Badger database. Each block is written
// together with its digest lookup and the new last index, in a single
// transaction.
type Writer struct {
	db     *badger.DB
	lib    *storage.Library
	closed uint32
}

// NewWriter creates a new index writer that writes to the given database.
func NewWriter(db *badger.DB, lib *storage.Library) *Writer {

	w := Writer{
		db:  db,
		lib: lib,
	}

	return &w
}

// Difficulty writes the storage format version and the difficulty of the
// chain.
func (w *Writer) Difficulty(difficulty uint) error {
	if atomic.LoadUint32(&w.closed) == 1 {
		return ErrClosed
	}
	err := w.db.Update(storage.Combine(
		w.lib.SaveVersion(storage.Version),
		w.lib.SaveDifficulty(difficulty),
	))
	if err != nil {
		return fmt.Errorf("could not save difficulty: %w", err)
	}
	return nil
}

// Block writes the given block and makes it the last stored block.
func (w *Writer) Block(block notary.Block) error {
	if atomic.LoadUint32(&w.closed) == 1 {
		return ErrClosed
	}
	err := w.db.Update(storage.Combine(
		w.lib.SaveBlock(block),
		w.lib.IndexForDigest(block.Digest, block.Index),
		w.lib.SaveLast(block.Index),
	))
	if err != nil {
		return fmt.Errorf("could not save block (index: %d): %w", block.Index, err)
	}
	return nil
}

// Close makes the writer refuse further writes. It does not close the
// database, which belongs to the caller.
func (w *Writer) Close() error {
	atomic.StoreUint32(&w.closed, 1)
	return nil
}
