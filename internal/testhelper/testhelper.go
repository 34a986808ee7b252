// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper provides shared helpers for the test suites.
package testhelper

import (
	"net/http"
	"os"
	"strings"
	"testing"
)

// TestOnlineAPIURL is a publicly reachable endpoint used by the integration tests
const TestOnlineAPIURL = "https://overpass-api.de/api/status"

// MockRoundTripper implements http.RoundTripper with a custom roundtrip function, so
// tests can serve canned API responses without hitting the network.
type MockRoundTripper struct {
	Fn func(req *http.Request) (*http.Response, error)
}

func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// PerformIntegrationTests skips the current test unless the PERFORM_INTEGRATION_TEST
// environment variable is set to "true"
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if val := os.Getenv("PERFORM_INTEGRATION_TEST"); !strings.EqualFold(val, "true") {
		t.Skip("skipping integration test")
	}
}
