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

package index

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/optakt/dispute-notary/models/notary"
)

// MetricsWriter wraps a writer and records metrics for the blocks it writes.
type MetricsWriter struct {
	write notary.Writer

	blocks   prometheus.Counter
	failures prometheus.Counter
}

// NewMetricsWriter wraps the given writer and registers its metrics with the
// given registerer.
func NewMetricsWriter(write notary.Writer, reg prometheus.Registerer) *MetricsWriter {

	factory := promauto.With(reg)

	blocks := factory.NewCounter(prometheus.CounterOpts{
		Namespace: "notary",
		Name:      "stored_blocks_total",
		Help:      "the number of blocks written to storage",
	})
	failures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: "notary",
		Name:      "storage_failures_total",
		Help:      "the number of failed storage writes",
	})

	w := MetricsWriter{
		write:    write,
		blocks:   blocks,
		failures: failures,
	}

	return &w
}

// Difficulty writes the difficulty of the chain.
func (m *MetricsWriter) Difficulty(difficulty uint) error {
	err := m.write.Difficulty(difficulty)
	if err != nil {
		m.failures.Inc()
	}
	return err
}

// Block writes a block and counts it.
func (m *MetricsWriter) Block(block notary.Block) error {
	err := m.write.Block(block)
	if err != nil {
		m.failures.Inc()
		return err
	}
	m.blocks.Inc()
	return nil
}

// Close closes the wrapped writer.
func (m *MetricsWriter) Close() error {
	return m.write.Close()
}
