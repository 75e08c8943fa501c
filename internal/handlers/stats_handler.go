package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ricolabs/procure-api/internal/services"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// @Summary Dashboard Stats
// @Description Get headline counters, per-category spend against limits and the six month trend
// @Tags Stats
// @Produce json
// @Success 200 {object} services.DashboardStats
// @Security BearerAuth
// @Router /stats/dashboard [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Verified Spend Report
// @Description Get settled invoices inside a date window, optionally filtered by category names
// @Tags Stats
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param categories query string false "Comma-separated category names"
// @Success 200 {object} services.VerifiedSpendReport
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /stats/verified_spend [get]
func (h *StatsHandler) VerifiedSpend(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	var categories []string
	if raw := c.Query("categories"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				categories = append(categories, trimmed)
			}
		}
	}

	report, err := h.statsService.VerifiedSpend(c.Request.Context(), start, end, categories)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
