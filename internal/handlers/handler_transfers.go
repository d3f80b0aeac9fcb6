package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/transfer_reconciler/internal/core/ports/services"
	"github.com/SscSPs/transfer_reconciler/internal/dto"
	"github.com/SscSPs/transfer_reconciler/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transferHandler handles HTTP requests related to transfer reconciliation.
type transferHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newTransferHandler(rs portssvc.ReconciliationSvcFacade) *transferHandler {
	return &transferHandler{reconciliationService: rs}
}

// registerTransferRoutes registers routes related to transfers. reconcileLimit
// guards the full pass, which rewrites the whole snapshot.
func registerTransferRoutes(rg *gin.RouterGroup, rs portssvc.ReconciliationSvcFacade, reconcileLimit gin.HandlerFunc) {
	h := newTransferHandler(rs)

	tr := rg.Group("/transfers")
	{
		tr.POST("/reconcile", reconcileLimit, h.reconcile)
		tr.GET("/detect", h.detect)
	}
}

// reconcile godoc
// @Summary Run a full transfer reconciliation
// @Description Strips every transfer annotation, re-detects transfers over the whole snapshot and saves the result in one write.
// @Tags transfers
// @Produce json
// @Success 200 {object} domain.ReconciliationSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Reconciliation failed"
// @Security BearerAuth
// @Router /transfers/reconcile [post]
func (h *transferHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to run full reconciliation", slog.String("actor", actorID(c)))

	summary, err := h.reconciliationService.RunFullReconciliation(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Reconciliation failed")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// detect godoc
// @Summary Dry-run transfer detection
// @Description Detects transfers over the stored snapshot without saving anything.
// @Tags transfers
// @Produce json
// @Success 200 {object} dto.DetectTransfersResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Detection failed"
// @Security BearerAuth
// @Router /transfers/detect [get]
func (h *transferHandler) detect(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	res, err := h.reconciliationService.DetectTransfers(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Detection failed")
		return
	}

	c.JSON(http.StatusOK, dto.ToDetectTransfersResponse(res))
}
