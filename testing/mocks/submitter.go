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
	"github.com/optakt/dispute-notary/service/notarizer"
)

type Submitter struct {
	SubmitFunc func(payload notary.Value) <-chan notarizer.Result
}

// BaselineSubmitter returns a submitter that seals every payload into a copy
// of the generic block.
func BaselineSubmitter(t *testing.T) *Submitter {
	t.Helper()

	s := Submitter{
		SubmitFunc: func(payload notary.Value) <-chan notarizer.Result {
			block := GenericBlock
			block.Payload = payload
			result := make(chan notarizer.Result, 1)
			result <- notarizer.Result{Block: block}
			return result
		},
	}

	return &s
}

func (s *Submitter) Submit(payload notary.Value) <-chan notarizer.Result {
	return s.SubmitFunc(payload)
}
