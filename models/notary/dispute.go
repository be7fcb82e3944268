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
	"time"
)

// ISOMillis is the layout of record timestamps, matching the UTC ISO-8601
// form with millisecond precision used by the dashboard.
const ISOMillis = "2006-01-02T15:04:05.000Z"

// DisputeRecord is the payload notarized for each newly created dispute.
type DisputeRecord struct {
	DisputeID       string `json:"dispute_id" validate:"required"`
	Title           string `json:"title" validate:"required"`
	DescriptionHash string `json:"description_hash" validate:"required"`
	Timestamp       string `json:"timestamp" validate:"required"`
}

// NewDisputeRecord creates a dispute record stamped with the given time.
func NewDisputeRecord(disputeID string, title string, descriptionHash string, at time.Time) DisputeRecord {
	r := DisputeRecord{
		DisputeID:       disputeID,
		Title:           title,
		DescriptionHash: descriptionHash,
		Timestamp:       at.UTC().Format(ISOMillis),
	}

	return r
}

// Value converts the record into a payload value with a fixed field order.
func (r DisputeRecord) Value() Value {
	return Record(
		F("dispute_id", String(r.DisputeID)),
		F("title", String(r.Title)),
		F("description_hash", String(r.DescriptionHash)),
		F("timestamp", String(r.Timestamp)),
	)
}
