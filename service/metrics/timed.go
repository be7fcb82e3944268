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

package metrics

import (
	"context"

	"github.com/optakt/dispute-notary/models/notary"
)

// Time records the duration of named operations.
type Time interface {
	Duration(name string) func()
}

// TimedMiner wraps a miner and times its seal operations.
type TimedMiner struct {
	miner notary.Miner
	time  Time
}

func NewTimedMiner(miner notary.Miner, time Time) *TimedMiner {
	t := TimedMiner{
		miner: miner,
		time:  time,
	}
	return &t
}

func (t *TimedMiner) Difficulty() uint {
	return t.miner.Difficulty()
}

func (t *TimedMiner) Seal(ctx context.Context, candidate notary.Block) (notary.Block, error) {
	defer t.time.Duration("seal")()
	return t.miner.Seal(ctx, candidate)
}
