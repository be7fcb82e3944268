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
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/optakt/dispute-notary/models/notary"
)

// Global variables that can be used for testing. They are non-nil valid values for the types commonly needed
// to test notary components.
var (
	NoopLogger = zerolog.New(io.Discard)

	GenericError = errors.New("dummy error")

	GenericTimestamp = int64(1700000000000)

	GenericDifficulty = uint(1)

	GenericBytes = []byte(`test`)

	GenericPayload = notary.Record(notary.F("id", notary.String("abc")))

	GenericDigest = "07b1d0167c7cbe15c4000571ea131eaf55afc51526d2cef6209b017d334faa00"

	GenericGenesis = notary.Genesis(GenericTimestamp)

	// GenericBlock is the block sealed at difficulty 1 on top of GenericGenesis
	// with GenericPayload and GenericTimestamp.
	GenericBlock = notary.Block{
		Index:          1,
		Timestamp:      GenericTimestamp,
		Payload:        GenericPayload,
		PreviousDigest: notary.GenesisDigest,
		Digest:         GenericDigest,
		Nonce:          24,
	}

	// GenericNextBlock is sealed at difficulty 1 on top of GenericBlock.
	GenericNextBlock = notary.Block{
		Index:          2,
		Timestamp:      GenericTimestamp,
		Payload:        notary.Record(notary.F("id", notary.String("def"))),
		PreviousDigest: GenericDigest,
		Digest:         "0173d57c97177624284253bb40665a85a18d666c6c1745a3a7418a7365523aaf",
		Nonce:          5,
	}
)

// GenericBlocks returns the generic genesis, first and second block, which
// form a valid chain at difficulty 1.
func GenericBlocks() []notary.Block {
	return []notary.Block{GenericGenesis, GenericBlock, GenericNextBlock}
}

// GenericClock returns a clock that always returns the generic timestamp.
func GenericClock() func() int64 {
	return func() int64 {
		return GenericTimestamp
	}
}
