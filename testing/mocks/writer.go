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

package mocks

import (
	"testing"

	"github.com/optakt/dispute-notary/models/notary"
)

type Writer struct {
	DifficultyFunc func(difficulty uint) error
	BlockFunc      func(block notary.Block) error
	CloseFunc      func() error
}

func BaselineWriter(t *testing.T) *Writer {
	t.Helper()

	w := Writer{
		DifficultyFunc: func(uint) error {
			return nil
		},
		BlockFunc: func(notary.Block) error {
			return nil
		},
		CloseFunc: func() error {
			return nil
		},
	}

	return &w
}

func (w *Writer) Difficulty(difficulty uint) error {
	return w.DifficultyFunc(difficulty)
}

func (w *Writer) Block(block notary.Block) error {
	return w.BlockFunc(block)
}

func (w *Writer) Close() error {
	return w.CloseFunc()
}
