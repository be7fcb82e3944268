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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RegisterChainLength registers a gauge that reports the current number of
// blocks of a chain, genesis included.
func RegisterChainLength(reg prometheus.Registerer, length func() int) {
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "notary",
		Name:      "chain_length",
		Help:      "the number of blocks in the chain",
	}, func() float64 {
		return float64(length())
	})
}

// RegisterPending registers a gauge that reports the number of payloads
// waiting to be notarized.
func RegisterPending(reg prometheus.Registerer, pending func() int) {
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "notary",
		Name:      "pending_payloads",
		Help:      "the number of payloads waiting to be sealed",
	}, func() float64 {
		return float64(pending())
	})
}
