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
	"context"
)

// Chain is the read and append surface of a notarization chain.
type Chain interface {
	Difficulty() uint
	Append(ctx context.Context, payload Value) (Block, error)
	Len() int
	Tail() Block
	Block(index uint64) (Block, error)
	Find(digest string) (Block, error)
	Blocks() []Block
	Report() Report
	Audit() Report
}
