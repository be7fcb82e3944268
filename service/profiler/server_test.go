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

package profiler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optakt/dispute-notary/testing/mocks"
)

func TestServer(t *testing.T) {
	s := NewServer(mocks.NoopLogger, "localhost:0")

	tests := []struct {
		desc       string
		target     string
		wantStatus int
	}{
		{desc: "index", target: "/debug/pprof/", wantStatus: http.StatusOK},
		{desc: "goroutine profile", target: "/debug/pprof/goroutine?debug=1", wantStatus: http.StatusOK},
		{desc: "unknown path", target: "/metrics", wantStatus: http.StatusNotFound},
	}

	for _, test := range tests {
		test := test
		t.Run(test.desc, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, test.target, nil)

			s.server.Handler.ServeHTTP(rec, req)

			assert.Equal(t, test.wantStatus, rec.Code)
		})
	}
}
