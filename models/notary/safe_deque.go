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

package notary

import (
	"sync"

	"github.com/gammazero/deque"
)

// SafeDeque is a double-ended queue that can be shared between goroutines.
type SafeDeque struct {
	mutex *sync.Mutex
	deque *deque.Deque
}

func NewDeque() *SafeDeque {
	s := SafeDeque{
		mutex: &sync.Mutex{},
		deque: deque.New(),
	}
	return &s
}

func (s *SafeDeque) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.deque.Len()
}

func (s *SafeDeque) PushBack(v interface{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.deque.PushBack(v)
}

// TryPopFront removes and returns the front item. Unlike the underlying deque,
// it does not panic on an empty queue, so that checking and popping happen
// under the same lock.
func (s *SafeDeque) TryPopFront() (interface{}, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.deque.Len() == 0 {
		return nil, false
	}
	return s.deque.PopFront(), true
}

func (s *SafeDeque) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.deque.Clear()
}
