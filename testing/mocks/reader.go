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

package mocks

import (
	"testing"

	"github.com/optakt/dispute-notary/models/notary"
)

type Reader struct {
	DifficultyFunc func() (uint, error)
	LastFunc       func() (uint64, error)
	BlockFunc      func(index uint64) (notary.Block, error)
	IndexFunc      func(digest string) (uint64, error)
}

// BaselineReader returns a reader over the generic blocks.
func BaselineReader(t *testing.T) *Reader {
	t.Helper()

	blocks := GenericBlocks()

	r := Reader{
		DifficultyFunc: func() (uint, error) {
			return GenericDifficulty, nil
		},
		LastFunc: func() (uint64, error) {
			return uint64(len(blocks) - 1), nil
		},
		BlockFunc: func(index uint64) (notary.Block, error) {
			if index >= uint64(len(blocks)) {
				return notary.Block{}, notary.ErrNotFound
			}
			return blocks[index], nil
		},
		IndexFunc: func(digest string) (uint64, error) {
			for _, block := range blocks {
				if block.Digest == digest {
					return block.Index, nil
				}
			}
			return 0, notary.ErrNotFound
		},
	}

	return &r
}

func (r *Reader) Difficulty() (uint, error) {
	return r.DifficultyFunc()
}

func (r *Reader) Last() (uint64, error) {
	return r.LastFunc()
}

func (r *Reader) Block(index uint64) (notary.Block, error) {
	return r.BlockFunc(index)
}

func (r *Reader) Index(digest string) (uint64, error) {
	return r.IndexFunc(digest)
}
