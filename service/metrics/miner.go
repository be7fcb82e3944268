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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/optakt/dispute-notary/models/notary"
)

// Miner wraps a miner and records Prometheus metrics about sealing.
type Miner struct {
	miner notary.Miner

	sealed   prometheus.Counter
	failed   prometheus.Counter
	attempts prometheus.Counter
	duration prometheus.Histogram
}

// NewMiner wraps the given miner and registers its metrics with the given
// registerer.
func NewMiner(miner notary.Miner, reg prometheus.Registerer) *Miner {

	factory := promauto.With(reg)

	sealed := factory.NewCounter(prometheus.CounterOpts{
		Namespace: "notary",
		Name:      "sealed_blocks_total",
		Help:      "the number of sealed blocks",
	})
	failed := factory.NewCounter(prometheus.CounterOpts{
		Namespace: "notary",
		Name:      "seal_failures_total",
		Help:      "the number of seal operations that did not find a nonce",
	})
	attempts := factory.NewCounter(prometheus.CounterOpts{
		Namespace: "notary",
		Name:      "seal_attempts_total",
		Help:      "the number of nonces tried by successful seal operations",
	})
	duration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "notary",
		Name:      "seal_duration_seconds",
		Help:      "the duration of seal operations",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	m := Miner{
		miner:    miner,
		sealed:   sealed,
		failed:   failed,
		attempts: attempts,
		duration: duration,
	}

	return &m
}

func (m *Miner) Difficulty() uint {
	return m.miner.Difficulty()
}

func (m *Miner) Seal(ctx context.Context, candidate notary.Block) (notary.Block, error) {
	start := time.Now()
	block, err := m.miner.Seal(ctx, candidate)
	m.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.failed.Inc()
		return notary.Block{}, err
	}

	m.sealed.Inc()
	m.attempts.Add(float64(block.Nonce) + 1)

	return block, nil
}
