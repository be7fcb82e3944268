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

package miner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/optakt/dispute-notary/models/notary"
	"github.com/optakt/dispute-notary/service/hasher"
)

// checkInterval is how many nonces are tried between two checks of the
// context and of the abort condition.
const checkInterval = 1024

// Miner seals candidate blocks by searching for a nonce whose digest starts
// with the configured number of zero characters.
type Miner struct {
	cfg Config
}

// New creates a miner with the given options applied over the default
// configuration.
func New(options ...func(*Config)) (*Miner, error) {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	err := validator.New().Struct(cfg)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if verr.Field() == "Difficulty" {
				return nil, fmt.Errorf("%w (difficulty: %d, max: %d)", notary.ErrInvalidDifficulty, cfg.Difficulty, notary.MaxDifficulty)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("invalid miner configuration: %w", err)
	}

	m := Miner{
		cfg: cfg,
	}

	return &m, nil
}

// Difficulty returns the difficulty that sealed blocks satisfy.
func (m *Miner) Difficulty() uint {
	return m.cfg.Difficulty
}

// Seal searches for the lowest nonce, starting from zero, that makes the
// candidate's digest meet the difficulty, and returns the candidate with that
// nonce and digest set. It fails with notary.ErrSerialization if the payload
// cannot be encoded, and with notary.ErrSealTimeout when the iteration cap or
// the context deadline is reached.
func (m *Miner) Seal(ctx context.Context, candidate notary.Block) (notary.Block, error) {

	template, err := hasher.NewTemplate(candidate.Index, candidate.PreviousDigest, candidate.Timestamp, candidate.Payload)
	if err != nil {
		return notary.Block{}, fmt.Errorf("could not prepare candidate: %w", err)
	}

	limit := uint64(math.MaxUint64)
	if m.cfg.MaxIterations > 0 {
		limit = m.cfg.MaxIterations
	}

	var (
		nonce  uint64
		digest string
		found  bool
	)
	if m.cfg.Workers > 1 {
		nonce, digest, found, err = m.parallel(ctx, template, limit)
	} else {
		nonce, digest, found, err = m.scan(ctx, template, 0, limit, nil)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return notary.Block{}, fmt.Errorf("%w: %s", notary.ErrSealTimeout, err)
	}
	if err != nil {
		return notary.Block{}, fmt.Errorf("could not search nonce: %w", err)
	}
	if !found {
		return notary.Block{}, fmt.Errorf("%w (iterations: %d)", notary.ErrSealTimeout, limit)
	}

	sealed := candidate
	sealed.Nonce = nonce
	sealed.Digest = digest

	return sealed, nil
}

// scan tries the nonces in [start, end) in order and stops at the first one
// that meets the difficulty, or without result when abort returns true.
func (m *Miner) scan(ctx context.Context, template *hasher.Template, start uint64, end uint64, abort func() bool) (uint64, string, bool, error) {
	for nonce := start; nonce < end; nonce++ {
		if (nonce-start)%checkInterval == 0 {
			err := ctx.Err()
			if err != nil {
				return 0, "", false, err
			}
			if abort != nil && abort() {
				return 0, "", false, nil
			}
		}

		digest := template.Digest(nonce)
		if notary.MeetsDifficulty(digest, m.cfg.Difficulty) {
			return nonce, digest, true, nil
		}
	}

	return 0, "", false, nil
}

type result struct {
	nonce  uint64
	digest string
	found  bool
}

// parallel splits the nonce space into rounds of one batch per worker. Worker
// w of a round scans the w-th batch; once a worker finds a nonce, workers with
// a higher position stop, and the result of the lowest successful position is
// kept, which is the lowest satisfying nonce of the round.
func (m *Miner) parallel(ctx context.Context, template *hasher.Template, limit uint64) (uint64, string, bool, error) {

	workers := m.cfg.Workers
	batch := m.cfg.BatchSize

	for base := uint64(0); base < limit; {

		results := make([]result, workers)
		lowest := int64(workers)

		group, gctx := errgroup.WithContext(ctx)
		next := base
		for w := uint(0); w < workers && next < limit; w++ {

			position := int64(w)
			start := next
			end := start + batch
			if end > limit || end < start {
				end = limit
			}
			next = end

			group.Go(func() error {
				abort := func() bool {
					return atomic.LoadInt64(&lowest) < position
				}
				nonce, digest, found, err := m.scan(gctx, template, start, end, abort)
				if err != nil {
					return err
				}
				if !found {
					return nil
				}
				results[position] = result{nonce: nonce, digest: digest, found: true}
				for {
					current := atomic.LoadInt64(&lowest)
					if current <= position || atomic.CompareAndSwapInt64(&lowest, current, position) {
						return nil
					}
				}
			})
		}

		err := group.Wait()
		if err != nil {
			return 0, "", false, err
		}

		for _, r := range results {
			if r.found {
				return r.nonce, r.digest, true, nil
			}
		}

		if next <= base {
			break
		}
		base = next
	}

	return 0, "", false, nil
}
