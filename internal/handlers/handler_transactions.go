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

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService    portssvc.TransactionSvcFacade
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, rs portssvc.ReconciliationSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService:    ts,
		reconciliationService: rs,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvcFacade, rs portssvc.ReconciliationSvcFacade) {
	h := newTransactionHandler(ts, rs)

	txs := rg.Group("/transactions")
	{
		txs.GET("", h.listTransactions)
		txs.POST("", h.importTransactions)
		txs.PUT("/:transactionID/inclusion", h.overrideInclusion)
	}
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions ordered by date, then id, with the inclusion decision for the selected view.
// @Tags transactions
// @Produce json
// @Param userID query string false "Member whose view to use; omitted for the household view"
// @Param included query bool false "Only transactions that are (or are not) included"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}

	logger.Debug("Transactions listed", slog.Int("count", len(resp.Transactions)))
	c.JSON(http.StatusOK, resp)
}

// importTransactions godoc
// @Summary Import transactions
// @Description Appends a batch of transactions to the snapshot. Run a reconciliation afterwards to detect transfers among them.
// @Tags transactions
// @Accept json
// @Produce json
// @Param body body dto.ImportTransactionsRequest true "Transactions to import"
// @Success 201 {object} dto.ImportTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Duplicate transaction id"
// @Failure 500 {object} map[string]string "Failed to import transactions"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) importTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ImportTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	imported, err := h.transactionService.ImportTransactions(c.Request.Context(), req.Transactions, actorID(c))
	if err != nil {
		respondWithError(c, logger, err, "Failed to import transactions")
		return
	}

	resp := dto.ImportTransactionsResponse{
		Imported:       len(imported),
		TransactionIDs: make([]string, len(imported)),
	}
	for i, t := range imported {
		resp.TransactionIDs[i] = t.TransactionID
	}
	logger.Info("Transactions imported", slog.Int("count", resp.Imported))
	c.JSON(http.StatusCreated, resp)
}

// overrideInclusion godoc
// @Summary Override whether a transfer counts toward totals
// @Description Records a person's decision for the transfer containing the transaction and applies it to both legs.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transactionID path string true "Transaction ID of either leg"
// @Param body body dto.OverrideInclusionRequest true "Inclusion decision"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not a transfer or its partner leg is missing"
// @Failure 500 {object} map[string]string "Failed to override inclusion"
// @Security BearerAuth
// @Router /transactions/{transactionID}/inclusion [put]
func (h *transactionHandler) overrideInclusion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.OverrideInclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OverrideInclusion", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID), slog.String("actor", actorID(c)))
	logger.Info("Received request to override inclusion", slog.Bool("include", *req.IncludeInCalculations))

	legs, err := h.reconciliationService.OverrideInclusion(c.Request.Context(), transactionID, *req.IncludeInCalculations)
	if err != nil {
		respondWithError(c, logger, err, "Failed to override inclusion")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(legs, domain.AllUsers()))
}
