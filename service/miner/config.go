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
	"github.com/optakt/dispute-notary/models/notary"
)

// DefaultConfig is the default configuration for the miner.
var DefaultConfig = Config{
	Difficulty:    notary.DefaultDifficulty,
	Workers:       1,
	BatchSize:     1 << 12,
	MaxIterations: 0,
}

// Config contains the configuration options for the miner.
type Config struct {
	Difficulty    uint   `validate:"max=64"`
	Workers       uint   `validate:"min=1,max=256"`
	BatchSize     uint64 `validate:"min=1"`
	MaxIterations uint64
}

// WithDifficulty sets the number of leading zero characters that the digest
// of a sealed block must have.
func WithDifficulty(difficulty uint) func(*Config) {
	return func(cfg *Config) {
		cfg.Difficulty = difficulty
	}
}

// WithWorkers sets the number of goroutines that search the nonce space. With
// more than one worker, nonces are scanned in rounds of consecutive batches and
// the lowest satisfying nonce of a round wins, which yields the same nonce as a
// single worker would.
func WithWorkers(workers uint) func(*Config) {
	return func(cfg *Config) {
		cfg.Workers = workers
	}
}

// WithBatchSize sets how many consecutive nonces each worker scans per round.
func WithBatchSize(size uint64) func(*Config) {
	return func(cfg *Config) {
		cfg.BatchSize = size
	}
}

// WithMaxIterations caps the number of nonces tried before sealing gives up
// with a seal timeout. Zero means no cap.
func WithMaxIterations(max uint64) func(*Config) {
	return func(cfg *Config) {
		cfg.MaxIterations = max
	}
}
