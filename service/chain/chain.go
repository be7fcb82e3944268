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

package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/optakt/dispute-notary/models/notary"
	"github.com/optakt/dispute-notary/service/hasher"
)

// Chain is an append-only sequence of blocks anchored by a genesis block.
// Each appended block is sealed by the miner and linked to the digest of its
// predecessor. It is safe for concurrent use; appends are serialized.
type Chain struct {
	log     zerolog.Logger
	cfg     Config
	miner   notary.Miner
	mutex   *sync.RWMutex
	blocks  []notary.Block
	digests map[string]uint64
}

// New creates a chain holding only its genesis block. If a writer is
// configured, the difficulty and the genesis block are persisted first.
func New(log zerolog.Logger, miner notary.Miner, options ...func(*Config)) (*Chain, error) {

	c := newChain(log, miner, options...)

	genesis := notary.Genesis(c.cfg.Clock())
	if c.cfg.Writer != nil {
		err := c.cfg.Writer.Difficulty(miner.Difficulty())
		if err != nil {
			return nil, fmt.Errorf("could not persist difficulty: %w", err)
		}
		err = c.cfg.Writer.Block(genesis)
		if err != nil {
			return nil, fmt.Errorf("could not persist genesis block: %w", err)
		}
	}
	c.push(genesis)

	c.log.Debug().
		Uint("difficulty", miner.Difficulty()).
		Int64("timestamp", genesis.Timestamp).
		Msg("chain initialized")

	return c, nil
}

// FromReader rebuilds a chain from persisted blocks. Blocks are loaded as they
// are stored and not validated; use Validate or Audit on the result. When the
// store is empty, a new chain is created as with New.
func FromReader(log zerolog.Logger, reader notary.Reader, miner notary.Miner, options ...func(*Config)) (*Chain, error) {

	last, err := reader.Last()
	if errors.Is(err, notary.ErrNotFound) {
		return New(log, miner, options...)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read last index: %w", err)
	}

	difficulty, err := reader.Difficulty()
	if err != nil {
		return nil, fmt.Errorf("could not read difficulty: %w", err)
	}
	if difficulty != miner.Difficulty() {
		return nil, fmt.Errorf("%w: stored difficulty does not match miner (stored: %d, miner: %d)", notary.ErrInvalidDifficulty, difficulty, miner.Difficulty())
	}

	c := newChain(log, miner, options...)
	for index := uint64(0); index <= last; index++ {
		block, err := reader.Block(index)
		if err != nil {
			return nil, fmt.Errorf("could not read block (index: %d): %w", index, err)
		}
		c.push(block)
	}

	c.log.Info().
		Uint64("last", last).
		Uint("difficulty", difficulty).
		Msg("chain loaded")

	return c, nil
}

func newChain(log zerolog.Logger, miner notary.Miner, options ...func(*Config)) *Chain {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	c := Chain{
		log:     log.With().Str("component", "chain").Logger(),
		cfg:     cfg,
		miner:   miner,
		mutex:   &sync.RWMutex{},
		digests: make(map[string]uint64),
	}

	return &c
}

// push appends the block and indexes its digest by position, which is not
// necessarily the index the block claims for itself.
func (c *Chain) push(block notary.Block) {
	c.digests[block.Digest] = uint64(len(c.blocks))
	c.blocks = append(c.blocks, block)
}

// Append seals a new block holding the payload on top of the current tail and
// returns it. On any failure, the chain is left unchanged.
func (c *Chain) Append(ctx context.Context, payload notary.Value) (notary.Block, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	tail := c.blocks[len(c.blocks)-1]
	candidate := makeCandidate(tail, payload, c.cfg.Clock())

	sealed, err := c.miner.Seal(ctx, candidate)
	if err != nil {
		return notary.Block{}, fmt.Errorf("could not seal block (index: %d): %w", candidate.Index, err)
	}

	if c.cfg.Writer != nil {
		err = c.cfg.Writer.Block(sealed)
		if err != nil {
			return notary.Block{}, fmt.Errorf("could not persist block (index: %d): %w", sealed.Index, err)
		}
	}

	c.push(sealed)

	c.log.Debug().
		Uint64("index", sealed.Index).
		Str("digest", sealed.Digest).
		Uint64("nonce", sealed.Nonce).
		Msg("block appended")

	return sealed, nil
}

func makeCandidate(previous notary.Block, payload notary.Value, timestamp int64) notary.Block {
	candidate := notary.Block{
		Index:          previous.Index + 1,
		Timestamp:      timestamp,
		Payload:        payload,
		PreviousDigest: previous.Digest,
		Nonce:          0,
	}

	return candidate
}

// Difficulty returns the difficulty of the chain's miner.
func (c *Chain) Difficulty() uint {
	return c.miner.Difficulty()
}

// Tail returns the most recently appended block, or genesis.
func (c *Chain) Tail() notary.Block {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.blocks[len(c.blocks)-1]
}

// Len returns the number of blocks, genesis included.
func (c *Chain) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.blocks)
}

// Block returns the block at the given index.
func (c *Chain) Block(index uint64) (notary.Block, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if index >= uint64(len(c.blocks)) {
		return notary.Block{}, fmt.Errorf("could not find block (index: %d): %w", index, notary.ErrNotFound)
	}

	return c.blocks[index], nil
}

// Find returns the block with the given digest.
func (c *Chain) Find(digest string) (notary.Block, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	index, ok := c.digests[digest]
	if !ok {
		return notary.Block{}, fmt.Errorf("could not find block (digest: %s): %w", digest, notary.ErrNotFound)
	}

	return c.blocks[index], nil
}

// Blocks returns a copy of the ordered block sequence.
func (c *Chain) Blocks() []notary.Block {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	blocks := make([]notary.Block, len(c.blocks))
	copy(blocks, c.blocks)

	return blocks
}

// Validate returns whether every block after genesis links to the digest of
// its predecessor and carries the digest of its own fields.
func (c *Chain) Validate() bool {
	return c.Report().Valid()
}

// Report walks the chain like Validate and returns the first violation found,
// if any. For each block, the link is checked before the digest.
func (c *Chain) Report() notary.Report {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	report := notary.Report{
		Length: len(c.blocks),
	}
	for i := 1; i < len(c.blocks); i++ {
		violations := check(uint64(i), c.blocks[i-1], c.blocks[i])
		if len(violations) > 0 {
			report.Violations = violations[:1]
			break
		}
	}

	return report
}

// Audit walks the whole chain and returns every violation. On top of the
// checks of Validate, it verifies the index sequence and the difficulty of
// each digest.
func (c *Chain) Audit() notary.Report {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	difficulty := c.miner.Difficulty()
	report := notary.Report{
		Length: len(c.blocks),
	}
	for i := 1; i < len(c.blocks); i++ {
		previous, current := c.blocks[i-1], c.blocks[i]

		if current.Index != previous.Index+1 {
			report.Violations = append(report.Violations, notary.Violation{
				Index:    uint64(i),
				Reason:   notary.ReasonIndexMismatch,
				Expected: fmt.Sprint(previous.Index + 1),
				Actual:   fmt.Sprint(current.Index),
			})
		}

		report.Violations = append(report.Violations, check(uint64(i), previous, current)...)

		if !notary.MeetsDifficulty(current.Digest, difficulty) {
			report.Violations = append(report.Violations, notary.Violation{
				Index:    uint64(i),
				Reason:   notary.ReasonDifficultyMismatch,
				Expected: fmt.Sprintf("%d leading zeros", difficulty),
				Actual:   current.Digest,
			})
		}
	}

	c.log.Debug().
		Int("length", report.Length).
		Int("violations", len(report.Violations)).
		Msg("chain audited")

	return report
}

// Crosscheck compares the chain against the digest lookups of a persisted
// store. Every block must be found under its digest at its own position.
func (c *Chain) Crosscheck(reader notary.Reader) notary.Report {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	report := notary.Report{
		Length: len(c.blocks),
	}
	for i, block := range c.blocks {
		position := uint64(i)

		index, err := reader.Index(block.Digest)
		if errors.Is(err, notary.ErrNotFound) {
			report.Violations = append(report.Violations, notary.Violation{
				Index:    position,
				Reason:   notary.ReasonLookupMismatch,
				Expected: fmt.Sprint(position),
				Actual:   "missing",
			})
			continue
		}
		if err != nil {
			report.Violations = append(report.Violations, notary.Violation{
				Index:    position,
				Reason:   notary.ReasonLookupMismatch,
				Expected: fmt.Sprint(position),
				Actual:   err.Error(),
			})
			continue
		}
		if index != position {
			report.Violations = append(report.Violations, notary.Violation{
				Index:    position,
				Reason:   notary.ReasonLookupMismatch,
				Expected: fmt.Sprint(position),
				Actual:   fmt.Sprint(index),
			})
		}
	}

	c.log.Debug().
		Int("length", report.Length).
		Int("violations", len(report.Violations)).
		Msg("chain crosschecked")

	return report
}

// check compares the block at the given position against its predecessor.
func check(position uint64, previous notary.Block, current notary.Block) []notary.Violation {

	var violations []notary.Violation

	if current.PreviousDigest != previous.Digest {
		violations = append(violations, notary.Violation{
			Index:    position,
			Reason:   notary.ReasonLinkMismatch,
			Expected: previous.Digest,
			Actual:   current.PreviousDigest,
		})
	}

	// An unencodable payload counts as a digest mismatch.
	digest, err := hasher.BlockDigest(current)
	if err != nil {
		digest = err.Error()
	}
	if current.Digest != digest {
		violations = append(violations, notary.Violation{
			Index:    position,
			Reason:   notary.ReasonDigestMismatch,
			Expected: digest,
			Actual:   current.Digest,
		})
	}

	return violations
}
