// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package api exposes the hotspot aggregation service over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wneessen/hotspotd/internal/geo"
	"github.com/wneessen/hotspotd/internal/hotspot"
	"github.com/wneessen/hotspotd/internal/logger"
	"github.com/wneessen/hotspotd/internal/service"
)

// Handler serves the hotspot aggregation endpoints.
type Handler struct {
	aggregator *service.Aggregator
	logger     *logger.Logger
}

// hotspotsResponse mirrors the shape the web frontend expects.
type hotspotsResponse struct {
	Success  bool              `json:"success"`
	Hotspots []hotspot.Hotspot `json:"hotspots"`
	Count    int               `json:"count"`
}

// NewHandler returns a new API handler
func NewHandler(aggregator *service.Aggregator, log *logger.Logger) *Handler {
	return &Handler{aggregator: aggregator, logger: log}
}

// Router builds the gin engine with all routes and middleware attached
func (h *Handler) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(h.requestLogger(), gin.Recovery(), corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/hotspots", h.getHotspots)
	}

	return router
}

// getHotspots handles GET /api/v1/hotspots?latitude=..&longitude=..
func (h *Handler) getHotspots(c *gin.Context) {
	center, ok := parseCenter(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "missing or invalid latitude/longitude",
		})
		return
	}

	found := h.aggregator.FetchNearby(c.Request.Context(), center)
	c.JSON(http.StatusOK, hotspotsResponse{
		Success:  true,
		Hotspots: found,
		Count:    len(found),
	})
}

// parseCenter extracts and validates the requested center coordinate
func parseCenter(c *gin.Context) (geo.Coordinate, bool) {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		return geo.Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		return geo.Coordinate{}, false
	}
	center := geo.Coordinate{Lat: lat, Lon: lon}
	return center, center.Valid()
}

// corsMiddleware allows cross-origin requests from the map frontend
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogger emits one structured log line per handled request
func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info("handled request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
