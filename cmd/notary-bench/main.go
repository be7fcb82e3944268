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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/optakt/dispute-notary/api/rest"
	"github.com/optakt/dispute-notary/models/notary"
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
		flagAddress    string
		flagConcurrent int
		flagCount      int
		flagLevel      string
		flagMetrics    string
		flagTimeout    time.Duration
	)

	pflag.StringVarP(&flagAddress, "address", "a", "http://localhost:8080", "base URL of the notary REST API")
	pflag.IntVarP(&flagConcurrent, "max-concurrent", "c", 16, "maximum number of concurrent requests")
	pflag.IntVarP(&flagCount, "count", "n", 1000, "number of blocks to submit")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagMetrics, "metrics", "m", "", "address on which to expose benchmark metrics")
	pflag.DurationVarP(&flagTimeout, "timeout", "t", time.Minute, "timeout of a single request")

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

	if flagConcurrent < 1 || flagCount < 1 {
		log.Error().Int("max_concurrent", flagConcurrent).Int("count", flagCount).Msg("concurrency and count must be positive")
		return failure
	}

	reg := prometheus.NewRegistry()
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "notary",
		Subsystem: "bench",
		Name:      "submit_latency_seconds",
		Help:      "latency of block submissions",
		Buckets:   prometheus.ExponentialBucketsRange(0.001, 60, 30),
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "notary",
		Subsystem: "bench",
		Name:      "submit_failures_total",
		Help:      "number of failed block submissions",
	})
	reg.MustRegister(latency, failures)

	if flagMetrics != "" {
		listener, err := net.Listen("tcp", flagMetrics)
		if err != nil {
			log.Error().Str("metrics", flagMetrics).Err(err).Msg("could not listen for metrics")
			return failure
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		server := &http.Server{Handler: mux}
		go func() {
			log.Info().Str("address", listener.Addr().String()).Msg("benchmark metrics server listening")
			_ = server.Serve(listener)
		}()
		defer server.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	client := &http.Client{Timeout: flagTimeout}
	url := flagAddress + "/blocks"

	totalTime := atomic.NewDuration(0)
	totalCount := atomic.NewUint64(0)

	start := time.Now()
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(flagConcurrent)
	for loop := 0; loop < flagCount; loop++ {
		if ctx.Err() != nil {
			break
		}

		sequence := loop
		group.Go(func() error {
			begin := time.Now()
			err := submit(ctx, client, url, sequence)
			if err != nil {
				failures.Inc()
				log.Error().Int("sequence", sequence).Err(err).Msg("could not submit block")
				return nil
			}
			elapsed := time.Since(begin)
			latency.Observe(elapsed.Seconds())

			totalCount.Inc()
			totalTime.Add(elapsed)

			return nil
		})

		if (loop > 100 && loop%100 == 0) || loop == flagCount-1 {
			count := totalCount.Load()
			if count == 0 {
				continue
			}
			log.Info().
				Uint64("submitted", count).
				Dur("per_block", totalTime.Load()/time.Duration(count)).
				Msg("progress")
		}
	}

	_ = group.Wait()

	count := totalCount.Load()
	log.Info().
		Uint64("submitted", count).
		Int("failed", flagCount-int(count)).
		Dur("duration", time.Since(start)).
		Msg("benchmark done")

	if count != uint64(flagCount) {
		return failure
	}

	return success
}

func submit(ctx context.Context, client *http.Client, url string, sequence int) error {

	payload, err := notary.Record(
		notary.F("bench", notary.Integer(int64(sequence))),
		notary.F("sent_at", notary.Integer(time.Now().UnixMilli())),
	).Canonical()
	if err != nil {
		return fmt.Errorf("could not encode payload: %w", err)
	}

	body, err := json.Marshal(rest.BlockRequest{Payload: payload})
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code (%d)", res.StatusCode)
	}

	return nil
}
