// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geo provides the coordinate model and the great-circle distance math shared
// by the hotspot data source adapters and the deduplicator.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine distance
	EarthRadiusKm = 6371.0
)

// Coordinate represents a geographic WGS84 coordinate.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid checks if the coordinate is valid according to the EPSG logic
func (c Coordinate) Valid() bool {
	return c.Finite() && c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Finite checks that neither part of the coordinate is NaN or infinite
func (c Coordinate) Finite() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lon) && !math.IsInf(c.Lon, 0)
}

// Haversine returns the great-circle distance between two coordinates in kilometers,
// calculated with the haversine formula on a sphere with the mean Earth radius.
func Haversine(a, b Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BoundingBox is a rectangular lat/lon region used to scope a spatial query.
type BoundingBox struct {
	South float64
	West  float64
	North float64
	East  float64
}

// NewBoundingBox returns the bounding box spanning center +/- radius degrees in both
// directions. The box is built on an s2.Rect so that latitudes clamp at the poles
// instead of leaving the valid range.
func NewBoundingBox(center Coordinate, radiusDeg float64) BoundingBox {
	rect := s2.RectFromCenterSize(
		s2.LatLngFromDegrees(center.Lat, center.Lon),
		s2.LatLngFromDegrees(2*radiusDeg, 2*radiusDeg),
	)
	return BoundingBox{
		South: rect.Lo().Lat.Degrees(),
		West:  rect.Lo().Lng.Degrees(),
		North: rect.Hi().Lat.Degrees(),
		East:  rect.Hi().Lng.Degrees(),
	}
}
