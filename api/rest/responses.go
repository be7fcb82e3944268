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
	"github.com/optakt/dispute-notary/models/notary"
)

// BlockResponse is the display form of a block.
type BlockResponse struct {
	Index          uint64       `json:"index"`
	Timestamp      int64        `json:"timestamp"`
	Payload        notary.Value `json:"payload"`
	PreviousDigest string       `json:"previous_digest"`
	Digest         string       `json:"digest"`
	Nonce          uint64       `json:"nonce"`
}

// DisputeResponse holds the notarized dispute record and its block.
type DisputeResponse struct {
	Record notary.DisputeRecord `json:"record"`
	Block  BlockResponse        `json:"block"`
}

// ViolationResponse describes a block that breaks the chain.
type ViolationResponse struct {
	Index    uint64 `json:"index"`
	Reason   string `json:"reason"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// ValidateResponse holds the outcome of a validation walk.
type ValidateResponse struct {
	Valid     bool               `json:"valid"`
	Length    int                `json:"length"`
	Violation *ViolationResponse `json:"violation,omitempty"`
}

// AuditResponse holds every violation found by an audit.
type AuditResponse struct {
	Valid      bool                `json:"valid"`
	Length     int                 `json:"length"`
	Violations []ViolationResponse `json:"violations"`
}

func blockResponse(block notary.Block) BlockResponse {
	res := BlockResponse{
		Index:          block.Index,
		Timestamp:      block.Timestamp,
		Payload:        block.Payload,
		PreviousDigest: block.PreviousDigest,
		Digest:         block.Digest,
		Nonce:          block.Nonce,
	}
	return res
}

func violationResponse(violation notary.Violation) ViolationResponse {
	res := ViolationResponse{
		Index:    violation.Index,
		Reason:   string(violation.Reason),
		Expected: violation.Expected,
		Actual:   violation.Actual,
	}
	return res
}
