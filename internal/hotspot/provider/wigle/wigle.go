// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package wigle implements the hotspot data source adapter for the commercial
// crowdsourced WiGLE WiFi database.
package wigle

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/wneessen/hotspotd/internal/credentials"
	"github.com/wneessen/hotspotd/internal/geo"
	"github.com/wneessen/hotspotd/internal/hotspot"
	"github.com/wneessen/hotspotd/internal/http"
	"github.com/wneessen/hotspotd/internal/logger"
)

const (
	// APIEndpoint is the WiGLE bounding-box network search endpoint
	APIEndpoint = "https://api.wigle.net/api/v2/network/search"
	// APITimeout is the per-request timeout for the WiGLE API
	APITimeout = time.Second * 10
	// maxResults caps the number of entries a single search returns
	maxResults = 100

	name = "wigle"

	// defaultSSID is used when a network reports no SSID
	defaultSSID = "Unknown Network"
)

// ErrNoCredential is returned when no WiGLE API credential is configured. This is an
// expected "source unavailable" condition, not a provider failure.
var ErrNoCredential = fmt.Errorf("no WiGLE API credential configured")

// Wigle queries the WiGLE network search API for free WiFi networks within a bounding
// box and normalizes the results into hotspot records.
type Wigle struct {
	creds  credentials.Source
	http   *http.Client
	logger *logger.Logger
}

// Response is the WiGLE network search API response
type Response struct {
	Success      bool      `json:"success"`
	TotalResults int       `json:"totalResults"`
	Search       []Network `json:"search"`
}

// Network is one raw access point entry as reported by the WiGLE API
type Network struct {
	TriLat     float64 `json:"trilat"`
	TriLong    float64 `json:"trilong"`
	SSID       string  `json:"ssid"`
	NetID      string  `json:"netid"`
	Comment    string  `json:"comment"`
	WEP        string  `json:"wep"`
	FreeNet    string  `json:"freenet"`
	PayNet     string  `json:"paynet"`
	Channel    int     `json:"channel"`
	Encryption string  `json:"encryption"`
	LastTime   string  `json:"lasttime"`
	NetType    string  `json:"nettype"`
	QoS        int     `json:"qos"`
}

// New returns a new WiGLE adapter
func New(client *http.Client, log *logger.Logger, creds credentials.Source) (*Wigle, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if creds == nil {
		creds = credentials.Static("")
	}
	return &Wigle{creds: creds, http: client, logger: log}, nil
}

// Name returns the adapter name
func (w *Wigle) Name() string {
	return name
}

// Configured reports whether a WiGLE API credential is available. Without one the
// coordinator skips this adapter entirely.
func (w *Wigle) Configured() bool {
	return w.creds.Available()
}

// Nearby queries WiGLE for free networks within center +/- radiusDeg and returns the
// normalized records. Entries without coordinates are skipped instead of being emitted
// with placeholder zeros. A single attempt is made, there are no retries.
func (w *Wigle) Nearby(ctx context.Context, center geo.Coordinate, radiusDeg float64) ([]hotspot.Hotspot, error) {
	username, token, ok := w.creds.Get()
	if !ok {
		return nil, ErrNoCredential
	}

	box := geo.NewBoundingBox(center, radiusDeg)
	query := url.Values{}
	query.Set("latrange1", formatCoord(box.South))
	query.Set("latrange2", formatCoord(box.North))
	query.Set("longrange1", formatCoord(box.West))
	query.Set("longrange2", formatCoord(box.East))
	query.Set("freenet", "true")
	query.Set("paynet", "false")
	query.Set("resultCount", strconv.Itoa(maxResults))

	headers := map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+token)),
		"Accept":        "application/json",
	}

	response := new(Response)
	code, err := w.http.GetWithTimeout(ctx, APIEndpoint, response, query, headers, APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve network data from WiGLE API: %w", err)
	}
	if code != 200 {
		return nil, fmt.Errorf("WiGLE API returned non-positive response code: %d", code)
	}

	records := make([]hotspot.Hotspot, 0, len(response.Search))
	for _, network := range response.Search {
		record, ok := normalize(network)
		if !ok {
			w.logger.Debug("skipping WiGLE network without coordinates",
				"netid", network.NetID)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// normalize maps one raw WiGLE entry into the shared hotspot model. The second return
// value is false when the entry carries no usable coordinates.
func normalize(network Network) (hotspot.Hotspot, bool) {
	coord := geo.Coordinate{Lat: network.TriLat, Lon: network.TriLong}
	if !coord.Valid() || (network.TriLat == 0 && network.TriLong == 0) {
		return hotspot.Hotspot{}, false
	}

	ssid := network.SSID
	if ssid == "" {
		ssid = defaultSSID
	}
	encryption := network.Encryption
	if encryption == "" {
		encryption = network.WEP
	}
	address := network.Comment
	if address == "" {
		address = hotspot.FormatAddress(coord)
	}

	return hotspot.Hotspot{
		SSID:       ssid,
		BSSID:      network.NetID,
		Latitude:   network.TriLat,
		Longitude:  network.TriLong,
		Encryption: encryption,
		Signal:     network.QoS,
		LastSeen:   network.LastTime,
		Source:     hotspot.SourceWigle,
		Venue:      network.Comment,
		Address:    address,
	}, true
}

func formatCoord(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
