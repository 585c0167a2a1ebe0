package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"airbnb-fee-simulator/models"
	"airbnb-fee-simulator/services"
	"airbnb-fee-simulator/utils"

	"github.com/gin-gonic/gin"
)

// APIHandler serves the simulation entry points the presentation layer
// consumes. Fees cross this boundary as percentages (matching the UI
// sliders) and are converted to fractions immediately on receipt.
type APIHandler struct {
	sim           *services.Simulator
	search        *services.GridSearch
	raw           []*models.Listing
	searchTimeout time.Duration
	logger        *utils.Logger
}

// SetupRoutes registers the API routes on a router group.
func SetupRoutes(r *gin.RouterGroup, sim *services.Simulator, search *services.GridSearch,
	raw []*models.Listing, searchTimeout time.Duration, logger *utils.Logger) *APIHandler {

	handler := &APIHandler{
		sim:           sim,
		search:        search,
		raw:           raw,
		searchTimeout: searchTimeout,
		logger:        logger,
	}

	r.GET("/health", handler.Health)
	r.POST("/simulate", handler.Simulate)
	r.POST("/optimal-fee", handler.OptimalFee)

	return handler
}

type feeScheduleRequest struct {
	HighPct float64 `json:"high_pct"`
	MidPct  float64 `json:"mid_pct"`
	LowPct  float64 `json:"low_pct"`
}

func (r feeScheduleRequest) schedule() models.FeeSchedule {
	return models.FeeSchedule{
		High: r.HighPct / 100,
		Mid:  r.MidPct / 100,
		Low:  r.LowPct / 100,
	}
}

type feeScheduleResponse struct {
	HighPct float64 `json:"high_pct"`
	MidPct  float64 `json:"mid_pct"`
	LowPct  float64 `json:"low_pct"`
}

func toScheduleResponse(s models.FeeSchedule) feeScheduleResponse {
	return feeScheduleResponse{
		HighPct: s.High * 100,
		MidPct:  s.Mid * 100,
		LowPct:  s.Low * 100,
	}
}

// Health reports liveness and the loaded dataset size.
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"listings": len(h.raw),
	})
}

// Simulate runs one simulation for the posted fee schedule.
func (h *APIHandler) Simulate(c *gin.Context) {
	var req feeScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fee schedule: " + err.Error()})
		return
	}

	listings, summary, err := h.sim.Simulate(h.raw, req.schedule())
	if err != nil {
		if errors.Is(err, services.ErrZeroBaseline) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Simulation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tierSales := services.SalesByTier(listings)
	c.JSON(http.StatusOK, gin.H{
		"schedule":           toScheduleResponse(req.schedule()),
		"original_total":     summary.OriginalTotal,
		"simulated_total":    summary.SimulatedTotal,
		"revenue_change_pct": summary.RevenueChangePct,
		"sales_by_tier": gin.H{
			"high": tierSales[models.TierHigh],
			"mid":  tierSales[models.TierMid],
			"low":  tierSales[models.TierLow],
		},
	})
}

// OptimalFee runs the fee grid search under the configured deadline.
func (h *APIHandler) OptimalFee(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.searchTimeout)
	defer cancel()

	result, err := h.search.Search(ctx, h.raw)
	if err != nil {
		if errors.Is(err, services.ErrNoFeasibleSchedule) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "grid search deadline exceeded"})
			return
		}
		h.logger.Error("Grid search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schedule":               toScheduleResponse(result.Schedule),
		"platform_revenue":       result.PlatformRevenue,
		"host_revenue":           result.HostRevenue,
		"host_revenue_delta_pct": result.HostRevenueDeltaPct,
		"cells_evaluated":        result.Evaluated,
		"cells_feasible":         result.Feasible,
	})
}
