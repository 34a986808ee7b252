// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package overpass implements the hotspot data source adapter for the public
// OpenStreetMap Overpass query API.
package overpass

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wneessen/hotspotd/internal/geo"
	"github.com/wneessen/hotspotd/internal/hotspot"
	"github.com/wneessen/hotspotd/internal/http"
	"github.com/wneessen/hotspotd/internal/logger"
)

const (
	// APIEndpoint is the Overpass query interpreter endpoint
	APIEndpoint = "https://overpass-api.de/api/interpreter"
	// APITimeout is the per-request timeout for the Overpass API
	APITimeout = time.Second * 25

	name = "overpass"

	// radiusFactor widens the search box relative to the requested radius. OSM free-WiFi
	// point density is low and a tight box frequently yields zero results.
	radiusFactor = 2.0

	// defaultVenue is used when a node carries neither a name nor a category tag
	defaultVenue = "Public WiFi"
	// defaultSignal is a fixed informational value, the source has no real signal data
	defaultSignal = 2
)

// wifiVenueTypes are the venue categories that plausibly advertise free wireless access
var wifiVenueTypes = []string{"cafe", "restaurant", "library", "fast_food", "coffee_shop"}

// Overpass queries the Overpass API for points of interest offering free wireless
// access and normalizes the results into hotspot records. All records from this source
// are open networks by construction.
type Overpass struct {
	http   *http.Client
	logger *logger.Logger
}

// Response is the Overpass API response envelope
type Response struct {
	Version  float64   `json:"version"`
	Elements []Element `json:"elements"`
}

// Element is one raw OSM node as returned by the Overpass API
type Element struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// New returns a new Overpass adapter
func New(client *http.Client, log *logger.Logger) (*Overpass, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Overpass{http: client, logger: log}, nil
}

// Name returns the adapter name
func (o *Overpass) Name() string {
	return name
}

// Nearby queries the Overpass API for free-WiFi points around center. The requested
// radius is widened by radiusFactor before building the bounding box. Entries without
// coordinates are skipped. A single attempt is made, there are no retries.
func (o *Overpass) Nearby(ctx context.Context, center geo.Coordinate, radiusDeg float64) ([]hotspot.Hotspot, error) {
	box := geo.NewBoundingBox(center, radiusDeg*radiusFactor)

	headers := map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	}

	form := url.Values{}
	form.Set("data", BuildQuery(box))

	response := new(Response)
	body := strings.NewReader(form.Encode())
	code, err := o.http.PostWithTimeout(ctx, APIEndpoint, response, body, headers, APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve node data from Overpass API: %w", err)
	}
	if code != 200 {
		return nil, fmt.Errorf("Overpass API returned non-positive response code: %d", code)
	}

	records := make([]hotspot.Hotspot, 0, len(response.Elements))
	for _, element := range response.Elements {
		record, ok := normalize(element)
		if !ok {
			o.logger.Debug("skipping Overpass element without coordinates",
				"id", element.ID)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// BuildQuery composes the Overpass QL statement for the given bounding box. The block
// is a true set union: nodes tagged as explicitly free WiFi, plus venue types that
// advertise wireless internet access.
func BuildQuery(box geo.BoundingBox) string {
	bbox := fmt.Sprintf("(%f,%f,%f,%f)", box.South, box.West, box.North, box.East)
	venues := strings.Join(wifiVenueTypes, "|")

	var sb strings.Builder
	sb.WriteString("[out:json][timeout:25];\n(\n")
	sb.WriteString(fmt.Sprintf("  node[\"wifi\"=\"free\"]%s;\n", bbox))
	sb.WriteString(fmt.Sprintf("  node[\"internet_access\"=\"wlan\"][\"internet_access:fee\"=\"no\"]%s;\n", bbox))
	sb.WriteString(fmt.Sprintf("  node[\"amenity\"~\"^(%s)$\"][\"internet_access\"=\"wlan\"]%s;\n", venues, bbox))
	sb.WriteString(fmt.Sprintf("  node[\"tourism\"=\"hotel\"][\"internet_access\"=\"wlan\"]%s;\n", bbox))
	sb.WriteString(");\nout;")
	return sb.String()
}

// normalize maps one raw OSM node into the shared hotspot model. The second return
// value is false when the node carries no usable coordinates.
func normalize(element Element) (hotspot.Hotspot, bool) {
	coord := geo.Coordinate{Lat: element.Lat, Lon: element.Lon}
	if !coord.Valid() || (element.Lat == 0 && element.Lon == 0) {
		return hotspot.Hotspot{}, false
	}

	venue := element.Tags["name"]
	if venue == "" {
		venue = element.Tags["amenity"]
	}
	if venue == "" {
		venue = element.Tags["tourism"]
	}
	if venue == "" {
		venue = defaultVenue
	}

	address := formatOSMAddress(element.Tags)
	if address == "" {
		address = hotspot.FormatAddress(coord)
	}

	return hotspot.Hotspot{
		SSID:       venue,
		BSSID:      fmt.Sprintf("node/%d", element.ID),
		Latitude:   element.Lat,
		Longitude:  element.Lon,
		Encryption: hotspot.EncryptionNone,
		Signal:     defaultSignal,
		LastSeen:   time.Now().UTC().Format(time.RFC3339),
		Source:     hotspot.SourceOverpass,
		Venue:      venue,
		Address:    address,
	}, true
}

// formatOSMAddress joins the addr:* tags of a node into a single address line. Returns
// an empty string when no address tags are present.
func formatOSMAddress(tags map[string]string) string {
	var parts []string
	if street := tags["addr:street"]; street != "" {
		if housenumber := tags["addr:housenumber"]; housenumber != "" {
			parts = append(parts, street+" "+housenumber)
		} else {
			parts = append(parts, street)
		}
	}
	if city := tags["addr:city"]; city != "" {
		parts = append(parts, city)
	}
	return strings.Join(parts, ", ")
}
