// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package wigle

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"os"
	"strings"
	"testing"

	"github.com/wneessen/hotspotd/internal/credentials"
	"github.com/wneessen/hotspotd/internal/geo"
	"github.com/wneessen/hotspotd/internal/hotspot"
	"github.com/wneessen/hotspotd/internal/http"
	"github.com/wneessen/hotspotd/internal/logger"
	"github.com/wneessen/hotspotd/internal/testhelper"
)

const (
	searchFile = "../../../../testdata/wigle_search.json"
	emptyFile  = "../../../../testdata/wigle_empty.json"
)

var testCenter = geo.Coordinate{Lat: 17.7287, Lon: 83.3030}

func TestNew(t *testing.T) {
	t.Run("creating a new adapter succeeds", func(t *testing.T) {
		adapter := testAdapter(t, nil)
		if adapter == nil {
			t.Fatal("expected a non-nil adapter")
		}
		if adapter.Name() != name {
			t.Errorf("expected adapter name to be %q, got %q", name, adapter.Name())
		}
	})
	t.Run("creating an adapter without http client fails", func(t *testing.T) {
		if _, err := New(nil, logger.New(slog.LevelError), credentials.Static("user:token")); err == nil {
			t.Error("expected adapter creation to fail without http client")
		}
	})
	t.Run("creating an adapter without logger fails", func(t *testing.T) {
		client := http.New(logger.New(slog.LevelError))
		if _, err := New(client, nil, credentials.Static("user:token")); err == nil {
			t.Error("expected adapter creation to fail without logger")
		}
	})
}

func TestWigle_Configured(t *testing.T) {
	t.Run("adapter with credential is configured", func(t *testing.T) {
		if !testAdapter(t, nil).Configured() {
			t.Error("expected adapter to be configured")
		}
	})
	t.Run("adapter without credential is not configured", func(t *testing.T) {
		client := http.New(logger.New(slog.LevelError))
		adapter, err := New(client, logger.New(slog.LevelError), credentials.Static(""))
		if err != nil {
			t.Fatalf("failed to create adapter: %s", err)
		}
		if adapter.Configured() {
			t.Error("expected adapter to not be configured")
		}
	})
}

func TestWigle_Nearby(t *testing.T) {
	t.Run("networks are normalized into hotspot records", func(t *testing.T) {
		adapter := testAdapter(t, fileResponse(t, searchFile, 200))
		records, err := adapter.Nearby(context.Background(), testCenter, 0.01)
		if err != nil {
			t.Fatalf("failed to fetch nearby networks: %s", err)
		}
		// The canned response holds 4 entries, one of them without coordinates
		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}
		first := records[0]
		if first.SSID != "Beach Road Cafe" {
			t.Errorf("expected SSID %q, got %q", "Beach Road Cafe", first.SSID)
		}
		if first.BSSID != "0a:1b:2c:3d:4e:5f" {
			t.Errorf("expected BSSID %q, got %q", "0a:1b:2c:3d:4e:5f", first.BSSID)
		}
		if first.Source != hotspot.SourceWigle {
			t.Errorf("expected source %q, got %q", hotspot.SourceWigle, first.Source)
		}
		if first.Signal != 5 {
			t.Errorf("expected signal 5, got %d", first.Signal)
		}
		if first.Address != "Beach Road, Visakhapatnam" {
			t.Errorf("expected the comment as address, got %q", first.Address)
		}
	})
	t.Run("missing SSID falls back to the default network name", func(t *testing.T) {
		adapter := testAdapter(t, fileResponse(t, searchFile, 200))
		records, err := adapter.Nearby(context.Background(), testCenter, 0.01)
		if err != nil {
			t.Fatalf("failed to fetch nearby networks: %s", err)
		}
		if records[1].SSID != defaultSSID {
			t.Errorf("expected SSID to default to %q, got %q", defaultSSID, records[1].SSID)
		}
	})
	t.Run("missing encryption falls back to the raw wep field", func(t *testing.T) {
		adapter := testAdapter(t, fileResponse(t, searchFile, 200))
		records, err := adapter.Nearby(context.Background(), testCenter, 0.01)
		if err != nil {
			t.Fatalf("failed to fetch nearby networks: %s", err)
		}
		if records[1].Encryption != "W" {
			t.Errorf("expected encryption to fall back to wep value %q, got %q", "W", records[1].Encryption)
		}
	})
	t.Run("missing comment falls back to the coordinate address string", func(t *testing.T) {
		adapter := testAdapter(t, fileResponse(t, searchFile, 200))
		records, err := adapter.Nearby(context.Background(), testCenter, 0.01)
		if err != nil {
			t.Fatalf("failed to fetch nearby networks: %s", err)
		}
		want := "17.730100, 83.305500"
		if records[1].Address != want {
			t.Errorf("expected address %q, got %q", want, records[1].Address)
		}
	})
	t.Run("bounding box and free network filters are part of the query", func(t *testing.T) {
		var gotQuery string
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			gotQuery = req.URL.RawQuery
			data, err := os.Open(emptyFile)
			if err != nil {
				t.Fatalf("failed to open JSON response file: %s", err)
			}
			return &stdhttp.Response{StatusCode: 200, Body: data, Header: make(stdhttp.Header)}, nil
		}
		adapter := testAdapter(t, rtFn)
		if _, err := adapter.Nearby(context.Background(), testCenter, 0.01); err != nil {
			t.Fatalf("failed to fetch nearby networks: %s", err)
		}
		for _, param := range []string{"latrange1=", "latrange2=", "longrange1=", "longrange2=",
			"freenet=true", "paynet=false"} {
			if !strings.Contains(gotQuery, param) {
				t.Errorf("expected query to contain %q, got %q", param, gotQuery)
			}
		}
	})
	t.Run("request carries the basic auth credential", func(t *testing.T) {
		var gotAuth string
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			gotAuth = req.Header.Get("Authorization")
			data, err := os.Open(emptyFile)
			if err != nil {
				t.Fatalf("failed to open JSON response file: %s", err)
			}
			return &stdhttp.Response{StatusCode: 200, Body: data, Header: make(stdhttp.Header)}, nil
		}
		adapter := testAdapter(t, rtFn)
		if _, err := adapter.Nearby(context.Background(), testCenter, 0.01); err != nil {
			t.Fatalf("failed to fetch nearby networks: %s", err)
		}
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("user:token"))
		if gotAuth != want {
			t.Errorf("expected authorization header %q, got %q", want, gotAuth)
		}
	})
	t.Run("missing credential returns the sentinel error", func(t *testing.T) {
		client := http.New(logger.New(slog.LevelError))
		adapter, err := New(client, logger.New(slog.LevelError), credentials.Static(""))
		if err != nil {
			t.Fatalf("failed to create adapter: %s", err)
		}
		if _, err = adapter.Nearby(context.Background(), testCenter, 0.01); !errors.Is(err, ErrNoCredential) {
			t.Errorf("expected error to be %s, got %s", ErrNoCredential, err)
		}
	})
	t.Run("non-200 response returns an error", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return &stdhttp.Response{
				StatusCode: 500,
				Body:       io.NopCloser(strings.NewReader(`{"success":false}`)),
				Header:     make(stdhttp.Header),
			}, nil
		}
		adapter := testAdapter(t, rtFn)
		if _, err := adapter.Nearby(context.Background(), testCenter, 0.01); err == nil {
			t.Error("expected the adapter call to fail on a 500 response")
		}
	})
	t.Run("malformed response body returns an error", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return &stdhttp.Response{
				StatusCode: 200,
				Body:       io.NopCloser(strings.NewReader("this is not JSON")),
				Header:     make(stdhttp.Header),
			}, nil
		}
		adapter := testAdapter(t, rtFn)
		if _, err := adapter.Nearby(context.Background(), testCenter, 0.01); err == nil {
			t.Error("expected the adapter call to fail on a malformed body")
		}
	})
}

func testAdapter(t *testing.T, rtFn func(req *stdhttp.Request) (*stdhttp.Response, error)) *Wigle {
	t.Helper()
	client := http.New(logger.New(slog.LevelError))
	if rtFn != nil {
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
	}
	adapter, err := New(client, logger.New(slog.LevelError), credentials.Static("user:token"))
	if err != nil {
		t.Fatalf("failed to create adapter: %s", err)
	}
	return adapter
}

func fileResponse(t *testing.T, file string, code int) func(req *stdhttp.Request) (*stdhttp.Response, error) {
	t.Helper()
	return func(req *stdhttp.Request) (*stdhttp.Response, error) {
		data, err := os.Open(file)
		if err != nil {
			t.Fatalf("failed to open JSON response file: %s", err)
		}
		return &stdhttp.Response{StatusCode: code, Body: data, Header: make(stdhttp.Header)}, nil
	}
}
