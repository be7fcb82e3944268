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
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/ziflex/lecho/v2"

	"github.com/optakt/dispute-notary/api/rest"
	"github.com/optakt/dispute-notary/codec/zbor"
	"github.com/optakt/dispute-notary/engine"
	"github.com/optakt/dispute-notary/metrics/output"
	"github.com/optakt/dispute-notary/metrics/rcrowley"
	"github.com/optakt/dispute-notary/models/notary"
	"github.com/optakt/dispute-notary/service/chain"
	"github.com/optakt/dispute-notary/service/index"
	"github.com/optakt/dispute-notary/service/metrics"
	"github.com/optakt/dispute-notary/service/miner"
	"github.com/optakt/dispute-notary/service/notarizer"
	"github.com/optakt/dispute-notary/service/profiler"
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

	// Signal catching for clean shutdown.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	// Command line parameter initialization.
	var (
		flagCache         uint64
		flagData          string
		flagDifficulty    uint
		flagInterval      time.Duration
		flagLevel         string
		flagMaxIterations uint64
		flagMetrics       string
		flagPort          uint16
		flagProfiler      string
		flagWorkers       uint
	)

	pflag.Uint64VarP(&flagCache, "cache", "c", index.DefaultConfig.CacheSize, "maximum number of cached blocks when reading from the database")
	pflag.StringVarP(&flagData, "data", "d", "", "path to database directory, memory only if empty")
	pflag.UintVarP(&flagDifficulty, "difficulty", "f", notary.DefaultDifficulty, "number of leading zeros required in block digests")
	pflag.DurationVarP(&flagInterval, "log-interval", "i", 0, "interval between logged timing summaries, disabled if zero")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.Uint64VarP(&flagMaxIterations, "max-iterations", "x", 0, "maximum number of nonces tried per block, unlimited if zero")
	pflag.StringVarP(&flagMetrics, "metrics", "m", ":9090", "address of the metrics server, disabled if empty")
	pflag.Uint16VarP(&flagPort, "port", "p", 8080, "port to host the REST API on")
	pflag.StringVarP(&flagProfiler, "profiler", "r", "", "address of the pprof server, disabled if empty")
	pflag.UintVarP(&flagWorkers, "workers", "w", 1, "number of goroutines searching for nonces")

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
	elog := lecho.From(log)

	// Metrics are registered on a dedicated registry, exposed by the metrics
	// server.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	// The miner seals blocks; its wrappers record Prometheus metrics and, when
	// enabled, timing summaries for the log output.
	seal, err := miner.New(
		miner.WithDifficulty(flagDifficulty),
		miner.WithWorkers(flagWorkers),
		miner.WithMaxIterations(flagMaxIterations),
	)
	if err != nil {
		log.Error().Err(err).Msg("could not initialize miner")
		return failure
	}
	var mine notary.Miner = metrics.NewMiner(seal, reg)
	timing := rcrowley.NewTime("miner")
	if flagInterval > 0 {
		mine = metrics.NewTimedMiner(mine, timing)
	}

	// The chain is either rebuilt from the database or created in memory.
	var ledger *chain.Chain
	if flagData != "" {
		db, err := badger.Open(notary.DefaultOptions(flagData))
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

		err = metrics.RegisterBadgerMetrics(reg)
		if err != nil {
			log.Error().Err(err).Msg("could not register database metrics")
			return failure
		}

		// The storage library is initialized with a codec and provides functions to
		// interact with a Badger database while encoding and compressing
		// transparently.
		lib := storage.New(zbor.NewCodec())
		read, err := index.NewReader(db, lib, index.WithCacheSize(flagCache))
		if err != nil {
			log.Error().Err(err).Msg("could not initialize index reader")
			return failure
		}
		write := index.NewMetricsWriter(index.NewWriter(db, lib), reg)
		defer func() {
			err := write.Close()
			if err != nil {
				log.Error().Err(err).Msg("could not close index writer")
			}
		}()

		ledger, err = chain.FromReader(log, read, mine, chain.WithWriter(write))
		if err != nil {
			log.Error().Err(err).Msg("could not load chain")
			return failure
		}

		// The stored chain is served even when invalid.
		report := ledger.Audit().Merge(ledger.Crosscheck(read))
		if !report.Valid() {
			log.Warn().
				Int("length", report.Length).
				Int("violations", len(report.Violations)).
				Err(report.Err()).
				Msg("stored chain is invalid")
		}
	} else {
		ledger, err = chain.New(log, mine)
		if err != nil {
			log.Error().Err(err).Msg("could not create chain")
			return failure
		}
	}
	metrics.RegisterChainLength(reg, ledger.Len)

	// The notarizer appends submitted payloads one at a time.
	worker := notarizer.New(log, ledger)
	metrics.RegisterPending(reg, worker.Pending)

	controller := rest.NewController(ledger, worker)

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.Logger = elog
	server.Use(lecho.Middleware(lecho.Config{Logger: elog}))
	server.Use(middleware.Recover())
	controller.Register(server)

	if flagInterval > 0 {
		out := output.New(log, flagInterval)
		out.Register(timing)
		out.Run()
		defer out.Stop()
	}

	e := engine.New(log, "Dispute Notary Server", sig).
		Component(
			"rest",
			func() error {
				err := server.Start(fmt.Sprint(":", flagPort))
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			},
			func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				err := server.Shutdown(ctx)
				if err != nil {
					log.Error().Err(err).Msg("could not shut down rest server")
				}
			},
		).
		Component(
			"notarizer",
			worker.Run,
			worker.Stop,
		)

	if flagMetrics != "" {
		mserver := metrics.NewServer(log, flagMetrics, reg)
		e = e.Component(
			"metrics",
			mserver.Start,
			func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				err := mserver.Stop(ctx)
				if err != nil {
					log.Error().Err(err).Msg("could not shut down metrics server")
				}
			},
		)
	}

	if flagProfiler != "" {
		pserver := profiler.NewServer(log, flagProfiler)
		e = e.Component(
			"profiler",
			pserver.Start,
			func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				err := pserver.Stop(ctx)
				if err != nil {
					log.Error().Err(err).Msg("could not shut down profiler server")
				}
			},
		)
	}

	err = e.Run()
	e.Stop()
	if err != nil {
		log.Error().Err(err).Msg("failed")
		return failure
	}

	return success
}
