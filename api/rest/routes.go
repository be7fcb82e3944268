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
	"github.com/labstack/echo/v4"
)

// Register adds the routes of the controller to the server.
func (c *Controller) Register(server *echo.Echo) {
	server.GET("/blocks", c.ListBlocks)
	server.GET("/blocks/tail", c.GetTail)
	server.GET("/blocks/:index", c.GetBlock)
	server.GET("/digests/:digest", c.GetDigest)
	server.POST("/blocks", c.CreateBlock)
	server.POST("/disputes", c.CreateDispute)
	server.GET("/validate", c.Validate)
	server.GET("/audit", c.Audit)
}
