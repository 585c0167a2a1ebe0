package services

import (
	"context"
	"errors"
	"sync"

	"airbnb-fee-simulator/models"
	"airbnb-fee-simulator/utils"
)

// ErrNoFeasibleSchedule means no fee triple satisfied both the ordering
// constraints and the host-revenue floor.
var ErrNoFeasibleSchedule = errors.New("no fee schedule satisfies the search constraints")

// Search feasibility constants. The mid-tier cap pins the middle rate at
// or below the status-quo fee; the floor requires hosts to come out at
// least 1.5% ahead before the platform may take a candidate.
const (
	midFeeCap           = 0.033
	hostRevenueFloorPct = 1.5
)

// feeTriple is one grid cell: the variable names follow stay-length
// convention (short-stay hosts book the most), so short maps to tier high
// and long maps to tier low.
type feeTriple struct {
	index int
	short float64
	mid   float64
	long  float64
}

func (t feeTriple) schedule() models.FeeSchedule {
	return models.FeeSchedule{High: t.short, Mid: t.mid, Low: t.long}
}

// GridSearch enumerates fee triples over a fixed step grid and picks the
// feasible schedule with the highest platform revenue.
type GridSearch struct {
	sim     *Simulator
	step    float64
	max     float64
	workers int
	logger  *utils.Logger
}

// NewGridSearch creates a GridSearch. step and max are fractions (the
// defaults 0.005 and 0.06 enumerate 0%..6% in half-point steps).
func NewGridSearch(sim *Simulator, step, max float64, workers int, logger *utils.Logger) *GridSearch {
	if workers < 1 {
		workers = 1
	}
	return &GridSearch{sim: sim, step: step, max: max, workers: workers, logger: logger}
}

// enumerate lists every triple satisfying short < mid < long and
// mid <= midFeeCap. Rates come from integer multiples of step to keep the
// grid exact under float arithmetic.
func (g *GridSearch) enumerate() []feeTriple {
	n := int(g.max/g.step + 0.5)
	rates := make([]float64, n+1)
	for i := range rates {
		rates[i] = float64(i) * g.step
	}

	var triples []feeTriple
	for _, long := range rates {
		for _, mid := range rates {
			if mid >= long || mid > midFeeCap {
				continue
			}
			for _, short := range rates {
				if short >= mid {
					continue
				}
				triples = append(triples, feeTriple{index: len(triples), short: short, mid: mid, long: long})
			}
		}
	}
	return triples
}

// candidate is one evaluated grid cell, folded by the reducer.
type candidate struct {
	index     int
	schedule  models.FeeSchedule
	platform  float64
	host      float64
	hostDelta float64
	feasible  bool
}

// evaluate simulates one triple against a private snapshot of raw and
// scores it: platform revenue under the tiered fee, and the host-revenue
// change against the flat-fee baseline.
func (g *GridSearch) evaluate(raw []*models.Listing, t feeTriple) (candidate, error) {
	listings, _, err := g.sim.Simulate(raw, t.schedule())
	if err != nil {
		return candidate{}, err
	}

	origHost, simHost := HostRevenue(listings)
	if origHost == 0 {
		return candidate{}, ErrZeroBaseline
	}
	hostDelta := (simHost - origHost) / origHost * 100

	var platform float64
	for _, l := range listings {
		platform += l.Price * l.BookedNew * l.FeeAfter
	}

	return candidate{
		index:     t.index,
		schedule:  t.schedule(),
		platform:  platform,
		host:      simHost,
		hostDelta: hostDelta,
		feasible:  hostDelta >= hostRevenueFloorPct,
	}, nil
}

// Search runs the grid over a worker pool, each worker snapshotting its
// own copy of raw inside Simulate, and folds results with the acceptance
// rule: feasible, strictly higher platform revenue, ties broken by lower
// enumeration index so the outcome matches a sequential first-found scan.
// The context deadline bounds the whole search; cells not started before
// cancellation are abandoned.
func (g *GridSearch) Search(ctx context.Context, raw []*models.Listing) (*models.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	triples := g.enumerate()
	if len(triples) == 0 {
		return nil, ErrNoFeasibleSchedule
	}
	g.logger.Info("Grid search: %d candidate schedules, %d workers", len(triples), g.workers)

	jobs := make(chan feeTriple)
	results := make(chan candidate)

	var wg sync.WaitGroup
	for w := 0; w < g.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				c, err := g.evaluate(raw, t)
				if err != nil {
					g.logger.Warn("Skipping triple (%.3f, %.3f, %.3f): %v", t.short, t.mid, t.long, err)
					continue
				}
				select {
				case results <- c:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, t := range triples {
			select {
			case jobs <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var best *candidate
	evaluated, feasible := 0, 0
	for c := range results {
		evaluated++
		if !c.feasible {
			continue
		}
		feasible++
		c := c
		if best == nil || c.platform > best.platform ||
			(c.platform == best.platform && c.index < best.index) {
			best = &c
			g.logger.Debug("New best schedule (high=%.3f mid=%.3f low=%.3f): platform %.0f, host +%.2f%%",
				c.schedule.High, c.schedule.Mid, c.schedule.Low, c.platform, c.hostDelta)
		}
	}

	if err := ctx.Err(); err != nil && best == nil {
		return nil, err
	}
	if best == nil {
		return nil, ErrNoFeasibleSchedule
	}

	g.logger.Info("Grid search done: %d/%d cells evaluated, %d feasible", evaluated, len(triples), feasible)
	return &models.SearchResult{
		Schedule:            best.schedule,
		PlatformRevenue:     best.platform,
		HostRevenue:         best.host,
		HostRevenueDeltaPct: best.hostDelta,
		Evaluated:           evaluated,
		Feasible:            feasible,
	}, nil
}
