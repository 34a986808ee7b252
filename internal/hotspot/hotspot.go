// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package hotspot provides the normalized WiFi hotspot model shared by all data source
// adapters, the spatial deduplicator and the synthetic fallback generator.
package hotspot

import (
	"context"
	"fmt"

	"github.com/wneessen/hotspotd/internal/geo"
)

// Source identifies which upstream data source produced a hotspot record.
type Source string

const (
	// SourceWigle tags records from the commercial crowdsourced WiGLE database
	SourceWigle Source = "wigle"
	// SourceOverpass tags records from the public OpenStreetMap Overpass API
	SourceOverpass Source = "overpass"
	// SourceSynthetic tags generated demonstration records
	SourceSynthetic Source = "synthetic"
)

// EncryptionNone is the encryption value for open networks. Any other non-empty value
// means the network is secured, the exact vocabulary differs per provider.
const EncryptionNone = "none"

// Hotspot represents one wireless access point as reported by a data source, normalized
// into the shared model. Records are built fresh per request and are immutable after
// creation.
type Hotspot struct {
	SSID       string  `json:"ssid"`
	BSSID      string  `json:"bssid"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Encryption string  `json:"encryption"`
	Signal     int     `json:"signal"`
	LastSeen   string  `json:"lastSeen"`
	Source     Source  `json:"source"`
	Venue      string  `json:"venue,omitempty"`
	Address    string  `json:"address,omitempty"`
}

// Provider is implemented by each hotspot data source adapter.
type Provider interface {
	Name() string
	Nearby(ctx context.Context, center geo.Coordinate, radiusDeg float64) ([]Hotspot, error)
}

// Coordinate returns the record's position as a geo.Coordinate
func (h Hotspot) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: h.Latitude, Lon: h.Longitude}
}

// Open reports whether the network is unencrypted
func (h Hotspot) Open() bool {
	return h.Encryption == "" || h.Encryption == EncryptionNone
}

// FormatAddress renders a coordinate as the fallback address string used when a provider
// supplies no free-text address.
func FormatAddress(c geo.Coordinate) string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lon)
}
