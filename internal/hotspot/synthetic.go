// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package hotspot

import (
	"time"

	"github.com/wneessen/hotspotd/internal/geo"
)

// SyntheticSetSize is the fixed number of demonstration records the generator produces
const SyntheticSetSize = 3

// syntheticArchetypes are the venue archetypes the generator places around the requested
// coordinate. The offsets stay within ~0.003 degrees so the records land plausibly close.
var syntheticArchetypes = []struct {
	ssid     string
	venue    string
	signal   int
	latDelta float64
	lonDelta float64
}{
	{"CoffeeHouse_Guest", "Coffee House", 4, 0.0010, 0.0015},
	{"CityLibrary_Free", "Public Library", 3, -0.0012, 0.0020},
	{"Hotel_Lobby_WiFi", "Grand Hotel", 2, 0.0025, -0.0010},
}

// Synthetic generates a fixed-size set of plausible demonstration records around the
// given center. It is a pure function of its inputs and never fails, so the aggregation
// result is never a hard empty state. The records are tagged SourceSynthetic so calling
// layers can label them as demo data.
func Synthetic(center geo.Coordinate, now time.Time) []Hotspot {
	lastSeen := now.UTC().Format(time.RFC3339)
	records := make([]Hotspot, 0, SyntheticSetSize)
	for i, arch := range syntheticArchetypes {
		coord := geo.Coordinate{
			Lat: center.Lat + arch.latDelta,
			Lon: center.Lon + arch.lonDelta,
		}
		records = append(records, Hotspot{
			SSID:       arch.ssid,
			BSSID:      demoBSSID(i),
			Latitude:   coord.Lat,
			Longitude:  coord.Lon,
			Encryption: EncryptionNone,
			Signal:     arch.signal,
			LastSeen:   lastSeen,
			Source:     SourceSynthetic,
			Venue:      arch.venue,
			Address:    FormatAddress(coord),
		})
	}
	return records
}

func demoBSSID(i int) string {
	return "00:00:5e:00:53:0" + string(rune('1'+i))
}
