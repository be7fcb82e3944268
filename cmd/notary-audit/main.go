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

package main

import (
	"errors"
	"os"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/optakt/dispute-notary/codec/zbor"
	"github.com/optakt/dispute-notary/models/notary"
	"github.com/optakt/dispute-notary/service/chain"
	"github.com/optakt/dispute-notary/service/index"
	"github.com/optakt/dispute-notary/service/miner"
	"github.com/optakt/dispute-notary/service/storage"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {

	// Command line parameter initialization.
	var (
		flagData  string
		flagLevel string
	)

	pflag.StringVarP(&flagData, "data", "d", "data", "path to database directory")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")

	pflag.Parse()

	// Logger initialization.
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)

	db, err := badger.Open(notary.DefaultOptions(flagData).WithReadOnly(true))
	if err != nil {
		log.Error().Str("data", flagData).Err(err).Msg("could not open database")
		return failure
	}
	defer func() {
		err := db.Close()
		if err != nil {
			log.Error().Err(err).Msg("could not close database")
		}
	}()

	lib := storage.New(zbor.NewCodec())
	read, err := index.NewReader(db, lib)
	if err != nil {
		log.Error().Err(err).Msg("could not initialize index reader")
		return failure
	}

	// The miner is only used for its difficulty, which must match the stored one.
	difficulty, err := read.Difficulty()
	if errors.Is(err, notary.ErrNotFound) {
		log.Error().Str("data", flagData).Msg("database holds no chain")
		return failure
	}
	if err != nil {
		log.Error().Err(err).Msg("could not read difficulty")
		return failure
	}
	mine, err := miner.New(miner.WithDifficulty(difficulty))
	if err != nil {
		log.Error().Uint("difficulty", difficulty).Err(err).Msg("could not initialize miner")
		return failure
	}

	ledger, err := chain.FromReader(log, read, mine)
	if err != nil {
		log.Error().Err(err).Msg("could not load chain")
		return failure
	}

	report := ledger.Audit().Merge(ledger.Crosscheck(read))
	for _, violation := range report.Violations {
		log.Warn().
			Uint64("index", violation.Index).
			Str("reason", string(violation.Reason)).
			Str("expected", violation.Expected).
			Str("actual", violation.Actual).
			Msg("violation found")
	}
	if !report.Valid() {
		log.Error().
			Int("length", report.Length).
			Int("violations", len(report.Violations)).
			Err(report.Err()).
			Msg("chain is invalid")
		return failure
	}

	log.Info().
		Int("length", report.Length).
		Uint("difficulty", difficulty).
		Msg("chain is valid")

	return success
}
