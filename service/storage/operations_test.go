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

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/dispute-notary/codec/zbor"
	"github.com/optakt/dispute-notary/models/notary"
	"github.com/optakt/dispute-notary/service/storage"
	"github.com/optakt/dispute-notary/testing/helpers"
	"github.com/optakt/dispute-notary/testing/mocks"
)

func TestLibrary_Operations(t *testing.T) {
	db := helpers.InMemoryDB(t)
	defer db.Close()

	lib := storage.New(zbor.NewCodec())

	err := db.Update(storage.Combine(
		lib.SaveVersion(storage.Version),
		lib.SaveDifficulty(mocks.GenericDifficulty),
		lib.SaveBlock(mocks.GenericGenesis),
		lib.SaveBlock(mocks.GenericBlock),
		lib.IndexForDigest(mocks.GenericBlock.Digest, mocks.GenericBlock.Index),
		lib.SaveLast(mocks.GenericBlock.Index),
	))
	require.NoError(t, err)

	t.Run("version", func(t *testing.T) {
		var version uint8
		err := db.View(lib.RetrieveVersion(&version))

		require.NoError(t, err)
		assert.Equal(t, uint8(storage.Version), version)
	})

	t.Run("difficulty", func(t *testing.T) {
		var difficulty uint
		err := db.View(lib.RetrieveDifficulty(&difficulty))

		require.NoError(t, err)
		assert.Equal(t, mocks.GenericDifficulty, difficulty)
	})

	t.Run("last", func(t *testing.T) {
		var last uint64
		err := db.View(lib.RetrieveLast(&last))

		require.NoError(t, err)
		assert.Equal(t, mocks.GenericBlock.Index, last)
	})

	t.Run("block", func(t *testing.T) {
		var block notary.Block
		err := db.View(lib.RetrieveBlock(1, &block))

		require.NoError(t, err)
		assert.Equal(t, mocks.GenericBlock, block)

		var genesis notary.Block
		err = db.View(lib.RetrieveBlock(0, &genesis))

		require.NoError(t, err)
		assert.Equal(t, mocks.GenericGenesis, genesis)
	})

	t.Run("missing block", func(t *testing.T) {
		var block notary.Block
		err := db.View(lib.RetrieveBlock(2, &block))

		assert.ErrorIs(t, err, notary.ErrNotFound)
	})

	t.Run("digest lookup", func(t *testing.T) {
		var index uint64
		err := db.View(lib.LookupIndexForDigest(mocks.GenericBlock.Digest, &index))

		require.NoError(t, err)
		assert.Equal(t, mocks.GenericBlock.Index, index)

		err = db.View(lib.LookupIndexForDigest("unknown", &index))

		assert.ErrorIs(t, err, notary.ErrNotFound)
	})

	t.Run("unencodable block", func(t *testing.T) {
		block := mocks.GenericNextBlock
		block.Payload = notary.String("\xff")

		err := db.Update(lib.SaveBlock(block))

		assert.ErrorIs(t, err, notary.ErrSerialization)
	})
}
