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

package rcrowley_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/optakt/dispute-notary/metrics/rcrowley"
)

func TestTime(t *testing.T) {
	tm := rcrowley.NewTime("miner")

	tm.Duration("seal")()
	tm.Duration("seal")()
	tm.Duration("other")()

	assert.Equal(t, int64(2), tm.Count("seal"))
	assert.Equal(t, int64(1), tm.Count("other"))
	assert.Equal(t, int64(0), tm.Count("unknown"))

	var buf bytes.Buffer
	tm.Output(zerolog.New(&buf))

	assert.Contains(t, buf.String(), `"metrics":"miner"`)
	assert.Contains(t, buf.String(), `"operation":"seal"`)
	assert.Contains(t, buf.String(), `"count":2`)
}
