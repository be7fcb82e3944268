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

	"github.com/dgraph-io/badger/v2"

	"github.com/optakt/dispute-notary/models/notary"
)

// Combine runs the operations in order within one transaction and returns the
// error of the first one that fails.
func Combine(ops ...func(*badger.Txn) error) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		for _, op := range ops {
			err := op(tx)
			if err != nil {
				return err
			}
		}

		return nil
	}
}

// Versioned runs the operations only if the database uses the storage format
// version of this library. A database without a version holds no chain.
func (l *Library) Versioned(ops ...func(*badger.Txn) error) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		var version uint8
		err := l.RetrieveVersion(&version)(tx)
		if err != nil {
			return fmt.Errorf("could not check storage version: %w", err)
		}
		if version != Version {
			return fmt.Errorf("%w (stored: %d, supported: %d)", ErrUnknownVersion, version, Version)
		}

		return Combine(ops...)(tx)
	}
}

// retrieve decodes the value stored under the key. A missing key is reported
// as notary.ErrNotFound.
func (l *Library) retrieve(key []byte, v interface{}) func(tx *badger.Txn) error {
	// NOTE: In a loop, declare the destination inside the loop body so that
	// each decoded value has its own memory.
	return func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not find key (key: %x): %w", key, notary.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("could not get value (key: %x): %w", key, err)
		}

		err = item.Value(func(val []byte) error {
			return l.codec.Unmarshal(val, v)
		})
		if err != nil {
			return fmt.Errorf("could not decode value (key: %x): %w", key, err)
		}

		return nil
	}
}

// save encodes the value eagerly, so that the operation writes the value as it
// was when the operation was built.
func (l *Library) save(key []byte, value interface{}) func(*badger.Txn) error {
	val, err := l.codec.Marshal(value)
	return func(tx *badger.Txn) error {
		if err != nil {
			return fmt.Errorf("could not encode value (key: %x): %w", key, err)
		}

		err = tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not set value (key: %x): %w", key, err)
		}

		return nil
	}
}
