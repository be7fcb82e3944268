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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/dispute-notary/metrics/rcrowley"
	"github.com/optakt/dispute-notary/models/notary"
	"github.com/optakt/dispute-notary/testing/mocks"
)

func TestMiner(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		m := NewMiner(mocks.BaselineMiner(t), reg)

		assert.Equal(t, mocks.GenericDifficulty, m.Difficulty())

		block, err := m.Seal(context.Background(), notary.Block{Index: 1})
		require.NoError(t, err)
		assert.Equal(t, mocks.GenericDigest, block.Digest)

		assert.Equal(t, float64(1), testutil.ToFloat64(m.sealed))
		assert.Equal(t, float64(mocks.GenericBlock.Nonce+1), testutil.ToFloat64(m.attempts))
		assert.Equal(t, float64(0), testutil.ToFloat64(m.failed))
		assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
	})

	t.Run("handles seal failure", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		miner := mocks.BaselineMiner(t)
		miner.SealFunc = func(context.Context, notary.Block) (notary.Block, error) {
			return notary.Block{}, notary.ErrSealTimeout
		}
		m := NewMiner(miner, reg)

		_, err := m.Seal(context.Background(), notary.Block{Index: 1})

		assert.ErrorIs(t, err, notary.ErrSealTimeout)
		assert.Equal(t, float64(0), testutil.ToFloat64(m.sealed))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.failed))
	})
}

func TestTimedMiner(t *testing.T) {
	tm := rcrowley.NewTime("miner")
	m := NewTimedMiner(mocks.BaselineMiner(t), tm)

	assert.Equal(t, mocks.GenericDifficulty, m.Difficulty())

	_, err := m.Seal(context.Background(), notary.Block{Index: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(1), tm.Count("seal"))
}

func TestRegisterChainLength(t *testing.T) {
	reg := prometheus.NewRegistry()
	length := 3
	RegisterChainLength(reg, func() int { return length })
	RegisterPending(reg, func() int { return 0 })

	want := `
# HELP notary_chain_length the number of blocks in the chain
# TYPE notary_chain_length gauge
notary_chain_length 3
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(want), "notary_chain_length")
	assert.NoError(t, err)

	length = 4
	want = strings.Replace(want, "notary_chain_length 3", "notary_chain_length 4", 1)
	err = testutil.GatherAndCompare(reg, strings.NewReader(want), "notary_chain_length")
	assert.NoError(t, err)
}

func TestRegisterBadgerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	err := RegisterBadgerMetrics(reg)
	require.NoError(t, err)

	err = RegisterBadgerMetrics(reg)
	assert.Error(t, err)
}

func TestServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterChainLength(reg, func() int { return 1 })

	s := NewServer(mocks.NoopLogger, "localhost:0", reg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	s.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "notary_chain_length 1")

	t.Run("start and stop", func(t *testing.T) {
		done := make(chan error, 1)
		go func() {
			done <- s.Start()
		}()

		// Shutdown may race with the listener setup; retry until Start returns.
		assert.Eventually(t, func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			_ = s.Stop(ctx)
			select {
			case err := <-done:
				assert.NoError(t, err)
				return true
			default:
				return false
			}
		}, 2*time.Second, 10*time.Millisecond)
	})
}
