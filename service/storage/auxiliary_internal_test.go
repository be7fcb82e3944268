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
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/dispute-notary/codec/zbor"
	"github.com/optakt/dispute-notary/models/notary"
	"github.com/optakt/dispute-notary/testing/helpers"
	"github.com/optakt/dispute-notary/testing/mocks"
)

func TestCombine(t *testing.T) {
	t.Run("runs all operations", func(t *testing.T) {
		t.Parallel()

		count := 0
		op := func(*badger.Txn) error {
			count++
			return nil
		}

		err := Combine(op, op, op)(nil)

		assert.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("stops at first failure", func(t *testing.T) {
		t.Parallel()

		called := false
		err := Combine(
			func(*badger.Txn) error { return nil },
			func(*badger.Txn) error { return mocks.GenericError },
			func(*badger.Txn) error {
				called = true
				return nil
			},
		)(nil)

		assert.ErrorIs(t, err, mocks.GenericError)
		assert.False(t, called)
	})
}

func TestLibrary_Versioned(t *testing.T) {
	lib := New(zbor.NewCodec())
	called := false
	op := func(*badger.Txn) error {
		called = true
		return nil
	}

	t.Run("nominal case", func(t *testing.T) {
		db := helpers.InMemoryDB(t)
		defer db.Close()
		require.NoError(t, db.Update(lib.SaveVersion(Version)))
		called = false

		err := db.View(lib.Versioned(op))

		assert.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("handles missing version", func(t *testing.T) {
		db := helpers.InMemoryDB(t)
		defer db.Close()
		called = false

		err := db.View(lib.Versioned(op))

		assert.ErrorIs(t, err, notary.ErrNotFound)
		assert.False(t, called)
	})

	t.Run("handles unknown version", func(t *testing.T) {
		db := helpers.InMemoryDB(t)
		defer db.Close()
		require.NoError(t, db.Update(lib.SaveVersion(Version+1)))
		called = false

		err := db.View(lib.Versioned(op))

		assert.ErrorIs(t, err, ErrUnknownVersion)
		assert.False(t, called)
	})
}

func TestLibrary_Save(t *testing.T) {
	db := helpers.InMemoryDB(t)
	defer db.Close()

	t.Run("nominal case", func(t *testing.T) {
		codec := mocks.BaselineCodec(t)
		codec.MarshalFunc = func(v interface{}) ([]byte, error) {
			assert.Equal(t, uint64(42), v)
			return mocks.GenericBytes, nil
		}
		l := New(codec)

		err := db.Update(l.save([]byte{13, 37}, uint64(42)))
		require.NoError(t, err)

		err = db.View(func(tx *badger.Txn) error {
			item, err := tx.Get([]byte{13, 37})
			require.NoError(t, err)
			val, err := item.ValueCopy(nil)
			require.NoError(t, err)
			assert.Equal(t, mocks.GenericBytes, val)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("handles codec failure", func(t *testing.T) {
		codec := mocks.BaselineCodec(t)
		codec.MarshalFunc = func(interface{}) ([]byte, error) {
			return nil, mocks.GenericError
		}
		l := New(codec)

		err := db.Update(l.save([]byte{13, 37}, uint64(42)))

		assert.ErrorIs(t, err, mocks.GenericError)
	})

	t.Run("handles empty key", func(t *testing.T) {
		l := New(mocks.BaselineCodec(t))

		err := db.Update(l.save([]byte{}, uint64(42)))

		assert.Error(t, err)
	})
}

func TestLibrary_Retrieve(t *testing.T) {
	db := helpers.InMemoryDB(t)
	defer db.Close()

	key := []byte{42}
	val, err := zbor.NewCodec().Marshal(uint64(42))
	require.NoError(t, err)
	err = db.Update(func(tx *badger.Txn) error {
		return tx.Set(key, val)
	})
	require.NoError(t, err)

	t.Run("nominal case", func(t *testing.T) {
		l := New(zbor.NewCodec())

		var got uint64
		err := db.View(l.retrieve(key, &got))

		require.NoError(t, err)
		assert.Equal(t, uint64(42), got)
	})

	t.Run("handles unknown key", func(t *testing.T) {
		l := New(zbor.NewCodec())

		var got uint64
		err := db.View(l.retrieve([]byte{13, 37}, &got))

		assert.ErrorIs(t, err, notary.ErrNotFound)
	})

	t.Run("handles codec failure", func(t *testing.T) {
		codec := mocks.BaselineCodec(t)
		codec.UnmarshalFunc = func(b []byte, _ interface{}) error {
			assert.Equal(t, val, b)
			return mocks.GenericError
		}
		l := New(codec)

		var got uint64
		err := db.View(l.retrieve(key, &got))

		assert.ErrorIs(t, err, mocks.GenericError)
	})
}
