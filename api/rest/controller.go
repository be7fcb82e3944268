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
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/optakt/dispute-notary/models/notary"
	"github.com/optakt/dispute-notary/service/hasher"
	"github.com/optakt/dispute-notary/service/notarizer"
)

// Submitter queues payloads for notarization.
type Submitter interface {
	Submit(payload notary.Value) <-chan notarizer.Result
}

// Controller serves the chain over HTTP. Reads go straight to the chain,
// appends go through the submitter.
type Controller struct {
	chain    notary.Chain
	submit   Submitter
	validate *validator.Validate
	now      func() time.Time
}

func NewController(chain notary.Chain, submit Submitter) *Controller {
	c := Controller{
		chain:    chain,
		submit:   submit,
		validate: validator.New(),
		now:      time.Now,
	}
	return &c
}

// ListBlocks returns every block, genesis first.
func (c *Controller) ListBlocks(ctx echo.Context) error {
	blocks := c.chain.Blocks()
	res := make([]BlockResponse, 0, len(blocks))
	for _, block := range blocks {
		res = append(res, blockResponse(block))
	}
	return ctx.JSON(http.StatusOK, res)
}

// GetTail returns the most recent block.
func (c *Controller) GetTail(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, blockResponse(c.chain.Tail()))
}

// GetBlock returns the block at the index given as path parameter.
func (c *Controller) GetBlock(ctx echo.Context) error {

	index, err := strconv.ParseUint(ctx.Param("index"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	block, err := c.chain.Block(index)
	if errors.Is(err, notary.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return ctx.JSON(http.StatusOK, blockResponse(block))
}

// GetDigest returns the block with the digest given as path parameter.
func (c *Controller) GetDigest(ctx echo.Context) error {

	block, err := c.chain.Find(ctx.Param("digest"))
	if errors.Is(err, notary.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return ctx.JSON(http.StatusOK, blockResponse(block))
}

// CreateBlock notarizes the JSON payload of the request body.
func (c *Controller) CreateBlock(ctx echo.Context) error {

	var req BlockRequest
	err := ctx.Bind(&req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	err = c.validate.Struct(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	payload, err := notary.ParseJSON(req.Payload)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	block, err := c.notarize(ctx, payload)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, blockResponse(block))
}

// CreateDispute notarizes a dispute record. The description itself is not
// stored; only its hash is.
func (c *Controller) CreateDispute(ctx echo.Context) error {

	var req DisputeRequest
	err := ctx.Bind(&req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	err = c.validate.Struct(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	at := c.now()
	if req.Timestamp != nil {
		at = *req.Timestamp
	}

	hash, err := hasher.DescriptionHash(req.Description, at)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	record := notary.NewDisputeRecord(req.DisputeID, req.Title, hash, at)

	block, err := c.notarize(ctx, record.Value())
	if err != nil {
		return err
	}

	res := DisputeResponse{
		Record: record,
		Block:  blockResponse(block),
	}

	return ctx.JSON(http.StatusCreated, res)
}

func (c *Controller) notarize(ctx echo.Context, payload notary.Value) (notary.Block, error) {

	var res notarizer.Result
	select {
	case res = <-c.submit.Submit(payload):
	case <-ctx.Request().Context().Done():
		return notary.Block{}, echo.NewHTTPError(http.StatusServiceUnavailable, ctx.Request().Context().Err())
	}

	switch {
	case errors.Is(res.Err, notary.ErrSerialization):
		return notary.Block{}, echo.NewHTTPError(http.StatusBadRequest, res.Err)
	case errors.Is(res.Err, notary.ErrStopped), errors.Is(res.Err, notary.ErrSealTimeout):
		return notary.Block{}, echo.NewHTTPError(http.StatusServiceUnavailable, res.Err)
	case res.Err != nil:
		return notary.Block{}, echo.NewHTTPError(http.StatusInternalServerError, res.Err)
	}

	return res.Block, nil
}

// Validate reports whether the chain is intact, with the first violation
// found if it is not.
func (c *Controller) Validate(ctx echo.Context) error {

	report := c.chain.Report()

	res := ValidateResponse{
		Valid:  report.Valid(),
		Length: report.Length,
	}
	violation, ok := report.First()
	if ok {
		v := violationResponse(violation)
		res.Violation = &v
	}

	return ctx.JSON(http.StatusOK, res)
}

// Audit reports every violation of the chain.
func (c *Controller) Audit(ctx echo.Context) error {

	report := c.chain.Audit()

	res := AuditResponse{
		Valid:      report.Valid(),
		Length:     report.Length,
		Violations: make([]ViolationResponse, 0, len(report.Violations)),
	}
	for _, violation := range report.Violations {
		res.Violations = append(res.Violations, violationResponse(violation))
	}

	return ctx.JSON(http.StatusOK, res)
}
