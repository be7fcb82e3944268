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

package chain

import (
	"time"

	"github.com/optakt/dispute-notary/models/notary"
)

// DefaultConfig is the default configuration for a chain.
var DefaultConfig = Config{
	Clock:  func() int64 { return time.Now().UnixMilli() },
	Writer: nil,
}

// Config contains the configuration options for a chain.
type Config struct {
	Clock  func() int64
	Writer notary.Writer
}

// WithClock sets the function that provides block timestamps, in milliseconds
// since the Unix epoch.
func WithClock(clock func() int64) func(*Config) {
	return func(cfg *Config) {
		cfg.Clock = clock
	}
}

// WithWriter makes the chain persist every block before it becomes part of
// the chain.
func WithWriter(writer notary.Writer) func(*Config) {
	return func(cfg *Config) {
		cfg.Writer = writer
	}
}
