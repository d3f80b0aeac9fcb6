package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	portssvc "github.com/SscSPs/transfer_reconciler/internal/core/ports/services"
	"github.com/SscSPs/transfer_reconciler/internal/dto"
	"github.com/SscSPs/transfer_reconciler/internal/middleware"
	"github.com/gin-gonic/gin"
)

type reportHandler struct {
	totalsService portssvc.TotalsSvc
}

func registerReportRoutes(rg *gin.RouterGroup, ts portssvc.TotalsSvc) {
	h := &reportHandler{totalsService: ts}

	reports := rg.Group("/reports")
	reports.GET("/totals", h.getTotals)
}

// getTotals godoc
// @Summary Income, expense and net for a view
// @Description Sums the transactions that count toward totals for the household or one member.
// @Tags reports
// @Produce json
// @Param userID query string false "Member whose view to use; omitted for the household view"
// @Param evaluator query string false "Where inclusion is decided" Enums(memory, sql) default(memory)
// @Success 200 {object} dto.TotalsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute totals"
// @Security BearerAuth
// @Router /reports/totals [get]
func (h *reportHandler) getTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.TotalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for Totals", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	view := params.View()
	evaluator := domain.Evaluator(params.Evaluator)
	totals, err := h.totalsService.Totals(c.Request.Context(), view, evaluator)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute totals")
		return
	}

	c.JSON(http.StatusOK, dto.ToTotalsResponse(*totals, view, evaluator))
}
