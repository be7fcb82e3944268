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

type Chain struct {
	DifficultyFunc func() uint
	AppendFunc     func(ctx context.Context, payload notary.Value) (notary.Block, error)
	LenFunc        func() int
	TailFunc       func() notary.Block
	BlockFunc      func(index uint64) (notary.Block, error)
	FindFunc       func(digest string) (notary.Block, error)
	BlocksFunc     func() []notary.Block
	ReportFunc     func() notary.Report
	AuditFunc      func() notary.Report
}

// BaselineChain returns a chain mock that serves the generic blocks and
// appends every payload as the generic block.
func BaselineChain(t *testing.T) *Chain {
	t.Helper()

	blocks := GenericBlocks()

	c := Chain{
		DifficultyFunc: func() uint {
			return GenericDifficulty
		},
		AppendFunc: func(_ context.Context, payload notary.Value) (notary.Block, error) {
			block := GenericBlock
			block.Payload = payload
			return block, nil
		},
		LenFunc: func() int {
			return len(blocks)
		},
		TailFunc: func() notary.Block {
			return blocks[len(blocks)-1]
		},
		BlockFunc: func(index uint64) (notary.Block, error) {
			if index >= uint64(len(blocks)) {
				return notary.Block{}, notary.ErrNotFound
			}
			return blocks[index], nil
		},
		FindFunc: func(digest string) (notary.Block, error) {
			for _, block := range blocks {
				if block.Digest == digest {
					return block, nil
				}
			}
			return notary.Block{}, notary.ErrNotFound
		},
		BlocksFunc: func() []notary.Block {
			return GenericBlocks()
		},
		ReportFunc: func() notary.Report {
			return notary.Report{Length: len(blocks)}
		},
		AuditFunc: func() notary.Report {
			return notary.Report{Length: len(blocks)}
		},
	}

	return &c
}

func (c *Chain) Difficulty() uint {
	return c.DifficultyFunc()
}

func (c *Chain) Append(ctx context.Context, payload notary.Value) (notary.Block, error) {
	return c.AppendFunc(ctx, payload)
}

func (c *Chain) Len() int {
	return c.LenFunc()
}

func (c *Chain) Tail() notary.Block {
	return c.TailFunc()
}

func (c *Chain) Block(index uint64) (notary.Block, error) {
	return c.BlockFunc(index)
}

func (c *Chain) Find(digest string) (notary.Block, error) {
	return c.FindFunc(digest)
}

func (c *Chain) Blocks() []notary.Block {
	return c.BlocksFunc()
}

func (c *Chain) Report() notary.Report {
	return c.ReportFunc()
}

func (c *Chain) Audit() notary.Report {
	return c.AuditFunc()
}
