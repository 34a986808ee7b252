// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package hotspot

import (
	"github.com/wneessen/hotspotd/internal/geo"
)

// DefaultDedupThresholdMeters is the proximity below which two records are considered
// the same physical access point
const DefaultDedupThresholdMeters = 50.0

// Deduplicate collapses records that lie within thresholdMeters of an already accepted
// record. The input is walked in order and the first-seen record wins, so callers decide
// which source's provenance survives by concatenating that source first. The greedy
// O(n^2) scan is fine for the tens to low hundreds of records a single request yields.
func Deduplicate(in []Hotspot, thresholdMeters float64) []Hotspot {
	out := make([]Hotspot, 0, len(in))
	for _, candidate := range in {
		duplicate := false
		for _, accepted := range out {
			distKm := geo.Haversine(candidate.Coordinate(), accepted.Coordinate())
			if distKm*1000 <= thresholdMeters {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, candidate)
		}
	}
	return out
}
