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

package notary_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/dispute-notary/models/notary"
)

func TestDisputeRecord(t *testing.T) {
	at := time.Date(2023, time.November, 14, 23, 13, 20, 123456789, time.FixedZone("CET", 3600))

	record := notary.NewDisputeRecord("D-42", "Deposit", "2d4d93b3", at)

	assert.Equal(t, "2023-11-14T22:13:20.123Z", record.Timestamp)

	canonical, err := record.Value().Canonical()
	require.NoError(t, err)
	assert.Equal(t, `{"dispute_id":"D-42","title":"Deposit","description_hash":"2d4d93b3","timestamp":"2023-11-14T22:13:20.123Z"}`, string(canonical))
}
