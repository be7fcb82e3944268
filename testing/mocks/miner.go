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
	"context"
	"testing"

	"github.com/optakt/dispute-notary/models/notary"
)

type Miner struct {
	DifficultyFunc func() uint
	SealFunc       func(ctx context.Context, candidate notary.Block) (notary.Block, error)
}

// BaselineMiner returns a miner that seals every candidate with the nonce and
// digest of the generic block.
func BaselineMiner(t *testing.T) *Miner {
	t.Helper()

	m := Miner{
		DifficultyFunc: func() uint {
			return GenericDifficulty
		},
		SealFunc: func(_ context.Context, candidate notary.Block) (notary.Block, error) {
			candidate.Nonce = GenericBlock.Nonce
			candidate.Digest = GenericBlock.Digest
			return candidate, nil
		},
	}

	return &m
}

func (m *Miner) Difficulty() uint {
	return m.DifficultyFunc()
}

func (m *Miner) Seal(ctx context.Context, candidate notary.Block) (notary.Block, error) {
	return m.SealFunc(ctx, candidate)
}
