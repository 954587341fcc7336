// response.go
//
// A neighborhood social network data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of barrio.
// barrio is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// barrio is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with barrio.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/localnerve/barrio/internal/utils"
)

// AssertStatus verifies the HTTP status code
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}

// ParseJSON decodes the response body into the target
func ParseJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	defer resp.Body.Close()

	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("Failed to decode JSON: %v. Body: %s", err, string(body))
	}
}

// EnvelopeOf decodes a response envelope, keeping the result raw for a second decode
type EnvelopeOf struct {
	Code   string          `json:"code"`
	Result json.RawMessage `json:"result"`
	Info   string          `json:"info"`
}

// AssertEnvelope checks status and envelope code and returns the decoded envelope
func AssertEnvelope(t *testing.T, resp *http.Response, status int, code string) EnvelopeOf {
	t.Helper()
	AssertStatus(t, resp, status)

	var env EnvelopeOf
	ParseJSON(t, resp, &env)
	if env.Code != code {
		t.Errorf("Expected envelope code %s, got %s (info: %s)", code, env.Code, env.Info)
	}
	if code == utils.CodeError && string(env.Result) != "null" {
		t.Errorf("Expected null result on error, got %s", string(env.Result))
	}
	return env
}

// DecodeResult decodes the envelope result into target
func DecodeResult(t *testing.T, env EnvelopeOf, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Result, target); err != nil {
		t.Fatalf("Failed to decode result: %v. Result: %s", err, string(env.Result))
	}
}
