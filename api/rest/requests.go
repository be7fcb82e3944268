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

package rest

import (
	"encoding/json"
	"time"
)

// BlockRequest is the body of a request that notarizes an arbitrary payload.
type BlockRequest struct {
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// DisputeRequest is the body of a request that notarizes a dispute. When the
// timestamp is omitted, the time of the request is used.
type DisputeRequest struct {
	DisputeID   string     `json:"dispute_id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}
