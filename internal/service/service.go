// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package service implements the hotspot aggregation coordinator. It fans out to the
// configured data source adapters, collects whatever partial results they deliver,
// deduplicates them spatially and falls back to synthetic records when nothing real
// is available. The coordinator never surfaces an error to its caller.
package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wneessen/hotspotd/internal/config"
	"github.com/wneessen/hotspotd/internal/geo"
	"github.com/wneessen/hotspotd/internal/hotspot"
	"github.com/wneessen/hotspotd/internal/logger"
)

// State describes where the coordinator is in its aggregation lifecycle. It exists for
// diagnostics only, the caller-visible return shape is the same in all terminal states.
type State int32

const (
	// StateIdle means no aggregation has run yet
	StateIdle State = iota
	// StateFetching means adapter calls are in flight
	StateFetching
	// StateSucceededData means the last request returned real, deduplicated records
	StateSucceededData
	// StateSucceededEmptyFallback means all sources legitimately returned nothing and
	// the synthetic set was substituted
	StateSucceededEmptyFallback
	// StateFailedAllFallback means an unexpected failure escaped the per-adapter
	// containment and the synthetic set was substituted
	StateFailedAllFallback
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateSucceededData:
		return "succeeded-with-data"
	case StateSucceededEmptyFallback:
		return "succeeded-empty-fallback"
	case StateFailedAllFallback:
		return "failed-all-fallback"
	}
	return "unknown"
}

// conditionalProvider is implemented by adapters that are only usable when an external
// requirement (such as an API credential) is satisfied.
type conditionalProvider interface {
	Configured() bool
}

// Aggregator coordinates the hotspot data source adapters.
type Aggregator struct {
	config    *config.Config
	logger    *logger.Logger
	providers []hotspot.Provider

	state atomic.Int32
	nowFn func() time.Time
}

// New returns a new Aggregator. The provider order decides which source's record wins
// when the deduplicator collapses near-duplicates, so the commercial source should be
// passed first.
func New(conf *config.Config, log *logger.Logger, providers ...hotspot.Provider) *Aggregator {
	return &Aggregator{
		config:    conf,
		logger:    log,
		providers: providers,
		nowFn:     time.Now,
	}
}

// State returns the coordinator's current lifecycle state
func (a *Aggregator) State() State {
	return State(a.state.Load())
}

// FetchNearby aggregates hotspot records around the given center using the configured
// default search radius. It always returns a usable list: real data when any source
// delivered, the synthetic demonstration set otherwise.
func (a *Aggregator) FetchNearby(ctx context.Context, center geo.Coordinate) []hotspot.Hotspot {
	return a.FetchNearbyRadius(ctx, center, a.config.Search.RadiusDegrees)
}

// FetchNearbyRadius is FetchNearby with an explicit search radius in degrees.
func (a *Aggregator) FetchNearbyRadius(ctx context.Context, center geo.Coordinate, radiusDeg float64) (records []hotspot.Hotspot) {
	a.state.Store(int32(StateFetching))

	// Last line of defense: a programming defect anywhere in the pipeline must not
	// reach the caller, it degrades into the synthetic fallback instead.
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("aggregation pipeline panicked, serving synthetic fallback",
				slog.Any("panic", r))
			a.state.Store(int32(StateFailedAllFallback))
			records = hotspot.Synthetic(center, a.nowFn())
		}
	}()

	collected, failed := a.settleAll(ctx, center, radiusDeg)

	records = hotspot.Deduplicate(collected, a.config.Search.DedupThresholdMeters)
	if len(records) > 0 {
		a.logger.Debug("aggregation returned real data",
			slog.Int("collected", len(collected)), slog.Int("unique", len(records)))
		a.state.Store(int32(StateSucceededData))
		return records
	}

	// Nothing real to show. Whether every adapter failed or the area is genuinely
	// empty, the caller still gets a list, tagged so the UI can label it as demo data.
	state := StateSucceededEmptyFallback
	if failed > 0 && failed == a.invokableProviders() {
		state = StateFailedAllFallback
	}
	a.logger.Info("no hotspot data from any source, serving synthetic fallback",
		slog.Int("failed_adapters", failed), slog.String("state", state.String()))
	a.state.Store(int32(state))
	return hotspot.Synthetic(center, a.nowFn())
}

// settleAll runs every usable adapter concurrently and waits for all of them,
// regardless of individual failures. Adapter errors and panics are contained per slot
// and converted into an empty partial result plus a logged diagnostic. The returned
// records keep provider order, so the first-passed source wins ties in the
// deduplicator.
func (a *Aggregator) settleAll(ctx context.Context, center geo.Coordinate, radiusDeg float64) ([]hotspot.Hotspot, int) {
	partials := make([][]hotspot.Hotspot, len(a.providers))
	var failures atomic.Int32

	var wg sync.WaitGroup
	for i, provider := range a.providers {
		if cond, ok := provider.(conditionalProvider); ok && !cond.Configured() {
			// Expected condition, not a failure: the source is simply unavailable.
			a.logger.Debug("skipping unconfigured adapter", slog.String("adapter", provider.Name()))
			continue
		}

		wg.Add(1)
		go func(i int, provider hotspot.Provider) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failures.Add(1)
					a.logger.Error("adapter panicked",
						slog.String("adapter", provider.Name()), slog.Any("panic", r))
				}
			}()

			found, err := provider.Nearby(ctx, center, radiusDeg)
			if err != nil {
				failures.Add(1)
				a.logger.Warn("adapter failed, continuing without its data",
					slog.String("adapter", provider.Name()), logger.Err(err))
				return
			}
			partials[i] = found
		}(i, provider)
	}
	wg.Wait()

	var collected []hotspot.Hotspot
	for _, partial := range partials {
		collected = append(collected, partial...)
	}
	return collected, int(failures.Load())
}

// invokableProviders counts the adapters that would actually be called for a request
func (a *Aggregator) invokableProviders() int {
	n := 0
	for _, provider := range a.providers {
		if cond, ok := provider.(conditionalProvider); ok && !cond.Configured() {
			continue
		}
		n++
	}
	return n
}
