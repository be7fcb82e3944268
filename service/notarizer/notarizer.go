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

package notarizer

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/optakt/dispute-notary/models/notary"
)

// Result is the outcome of notarizing one payload.
type Result struct {
	Block notary.Block
	Err   error
}

type job struct {
	payload notary.Value
	result  chan Result
}

// Notarizer appends submitted payloads to a chain, one at a time and in
// submission order, from a single worker goroutine.
type Notarizer struct {
	log    zerolog.Logger
	chain  notary.Chain
	queue  *notary.SafeDeque
	wake   chan struct{}
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc

	mutex   *sync.Mutex
	stopped bool
}

// New creates a notarizer for the given chain. Nothing is appended until Run
// is called.
func New(log zerolog.Logger, chain notary.Chain) *Notarizer {

	ctx, cancel := context.WithCancel(context.Background())

	n := Notarizer{
		log:    log.With().Str("component", "notarizer").Logger(),
		chain:  chain,
		queue:  notary.NewDeque(),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		mutex:  &sync.Mutex{},
	}

	return &n
}

// Submit queues the payload and returns the channel on which its result will
// be delivered. The channel is buffered and receives exactly one result.
func (n *Notarizer) Submit(payload notary.Value) <-chan Result {

	result := make(chan Result, 1)

	n.mutex.Lock()
	defer n.mutex.Unlock()

	if n.stopped {
		result <- Result{Err: notary.ErrStopped}
		return result
	}

	n.queue.PushBack(job{payload: payload, result: result})

	select {
	case n.wake <- struct{}{}:
	default:
	}

	return result
}

// Pending returns the number of payloads waiting to be appended.
func (n *Notarizer) Pending() int {
	return n.queue.Len()
}

// Run processes queued payloads until Stop is called.
func (n *Notarizer) Run() error {
	defer n.drain()

	for {
		select {
		case <-n.done:
			return nil
		default:
		}

		item, ok := n.queue.TryPopFront()
		if !ok {
			select {
			case <-n.done:
				return nil
			case <-n.wake:
				continue
			}
		}

		j := item.(job)
		block, err := n.chain.Append(n.ctx, j.payload)
		if err != nil && n.ctx.Err() != nil {
			n.log.Warn().Err(err).Msg("notarization interrupted")
			j.result <- Result{Err: fmt.Errorf("could not append payload: %w", notary.ErrStopped)}
			continue
		}
		if err != nil {
			n.log.Error().Err(err).Msg("could not notarize payload")
			j.result <- Result{Err: fmt.Errorf("could not append payload: %w", err)}
			continue
		}

		n.log.Info().
			Uint64("index", block.Index).
			Str("digest", block.Digest).
			Msg("payload notarized")

		j.result <- Result{Block: block}
	}
}

// Stop makes the notarizer refuse new payloads, interrupts the current seal
// operation and answers every queued payload with notary.ErrStopped.
func (n *Notarizer) Stop() {
	n.mutex.Lock()
	if n.stopped {
		n.mutex.Unlock()
		return
	}
	n.stopped = true
	n.mutex.Unlock()

	close(n.done)
	n.cancel()
	n.drain()
}

func (n *Notarizer) drain() {
	for {
		item, ok := n.queue.TryPopFront()
		if !ok {
			return
		}
		item.(job).result <- Result{Err: notary.ErrStopped}
	}
}
