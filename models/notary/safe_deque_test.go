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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optakt/dispute-notary/models/notary"
)

func TestSafeDeque(t *testing.T) {
	t.Run("pops in push order", func(t *testing.T) {
		t.Parallel()

		q := notary.NewDeque()
		q.PushBack(1)
		q.PushBack(2)
		assert.Equal(t, 2, q.Len())

		v, ok := q.TryPopFront()
		assert.True(t, ok)
		assert.Equal(t, 1, v)

		v, ok = q.TryPopFront()
		assert.True(t, ok)
		assert.Equal(t, 2, v)

		_, ok = q.TryPopFront()
		assert.False(t, ok)
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()

		q := notary.NewDeque()
		q.PushBack(1)
		q.Clear()

		assert.Equal(t, 0, q.Len())
	})

	t.Run("concurrent use", func(t *testing.T) {
		t.Parallel()

		q := notary.NewDeque()
		var wg sync.WaitGroup
		for i := 0; i < 64; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				q.PushBack(i)
			}(i)
		}
		wg.Wait()

		count := 0
		for {
			_, ok := q.TryPopFront()
			if !ok {
				break
			}
			count++
		}
		assert.Equal(t, 64, count)
	})
}
