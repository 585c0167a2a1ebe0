package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"airbnb-fee-simulator/models"
	"airbnb-fee-simulator/utils"
)

// stubDemand returns one preset prediction per row, in row order.
type stubDemand struct {
	preds []float64
}

func (s stubDemand) Predict(matrix [][]float64) ([]float64, error) {
	out := make([]float64, len(matrix))
	for i := range out {
		out[i] = s.preds[i%len(s.preds)]
	}
	return out, nil
}

func searchFixture(preds []float64) (*GridSearch, []*models.Listing) {
	logger := utils.NewLogger()
	sim := NewSimulator(stubDemand{preds: preds}, logger)
	gs := NewGridSearch(sim, 0.005, 0.06, 3, logger)

	raw := []*models.Listing{
		testListing(300), // high tier -> short fee
		testListing(100), // low tier -> long fee
	}
	return gs, raw
}

func TestEnumerate_Constraints(t *testing.T) {
	gs, _ := searchFixture(nil)
	triples := gs.enumerate()
	if len(triples) == 0 {
		t.Fatal("enumerate returned no triples")
	}

	for _, tr := range triples {
		if !(tr.short < tr.mid && tr.mid < tr.long) {
			t.Errorf("triple (%v, %v, %v) violates short < mid < long", tr.short, tr.mid, tr.long)
		}
		if tr.mid > midFeeCap {
			t.Errorf("triple (%v, %v, %v) violates mid <= %v", tr.short, tr.mid, tr.long, midFeeCap)
		}
		if tr.long > 0.06+1e-12 {
			t.Errorf("triple long fee %v exceeds grid max", tr.long)
		}
	}
}

func TestSearch_FindsMaxFeasibleSchedule(t *testing.T) {
	// Demand grows under the new schedule, so every cell clears the host
	// floor and the maximum-fee corner of the grid must win.
	gs, raw := searchFixture([]float64{330, 150})

	result, err := gs.Search(context.Background(), raw)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if !almostEqual(result.Schedule.High, 0.025) ||
		!almostEqual(result.Schedule.Mid, 0.030) ||
		!almostEqual(result.Schedule.Low, 0.060) {
		t.Errorf("Schedule = %+v, want {High: 0.025, Mid: 0.030, Low: 0.060}", result.Schedule)
	}

	if !(result.Schedule.High < result.Schedule.Mid && result.Schedule.Mid < result.Schedule.Low) {
		t.Errorf("Schedule %+v violates short < mid < long", result.Schedule)
	}
	if result.Schedule.Mid > midFeeCap+1e-12 {
		t.Errorf("Schedule mid %v violates the 3.3%% cap", result.Schedule.Mid)
	}
	if result.HostRevenueDeltaPct < hostRevenueFloorPct {
		t.Errorf("HostRevenueDeltaPct = %v, want >= %v", result.HostRevenueDeltaPct, hostRevenueFloorPct)
	}
	if result.Feasible == 0 || result.Evaluated < result.Feasible {
		t.Errorf("implausible counters: evaluated %d, feasible %d", result.Evaluated, result.Feasible)
	}
}

func TestSearch_HostFloorHolds(t *testing.T) {
	gs, raw := searchFixture([]float64{330, 150})

	result, err := gs.Search(context.Background(), raw)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	// Re-simulate the chosen schedule and verify the 1.5% floor directly.
	listings, _, err := gs.sim.Simulate(raw, result.Schedule)
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	orig, sim := HostRevenue(listings)
	if sim < 1.015*orig {
		t.Errorf("simulated host revenue %v below 1.015 x original %v", sim, orig)
	}
}

func TestSearch_Infeasible(t *testing.T) {
	// Demand collapses: hosts always lose, no cell is feasible.
	gs, raw := searchFixture([]float64{10, 10})

	_, err := gs.Search(context.Background(), raw)
	if !errors.Is(err, ErrNoFeasibleSchedule) {
		t.Errorf("Search error = %v, want ErrNoFeasibleSchedule", err)
	}
}

func TestSearch_RespectsCancellation(t *testing.T) {
	gs, raw := searchFixture([]float64{330, 150})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	var err error
	go func() {
		_, err = gs.Search(ctx, raw)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Search did not return after cancellation")
	}
	if err == nil {
		t.Error("Search returned no error on a cancelled context")
	}
}

func TestSearch_DoesNotMutateInput(t *testing.T) {
	gs, raw := searchFixture([]float64{330, 150})
	before := models.CloneListings(raw)

	if _, err := gs.Search(context.Background(), raw); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	for i := range raw {
		if *raw[i] != *before[i] {
			t.Errorf("listing %d mutated by the search: %+v != %+v", i, raw[i], before[i])
		}
	}
}
