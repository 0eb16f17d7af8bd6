package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/arvindks/spendtrack/internal/core/ports/services"
	"github.com/arvindks/spendtrack/internal/dto"
	"github.com/arvindks/spendtrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to ledger entries.
type transactionHandler struct {
	txnService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		txnService: ts,
	}
}

// registerTransactionRoutes registers account-scoped entry routes plus the
// entry-scoped amend/remark/delete routes.
func registerTransactionRoutes(rg *gin.RouterGroup, txnService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(txnService)

	accounts := rg.Group("/accounts/:id")
	{
		accounts.GET("/transactions", h.listTransactions)
		accounts.POST("/deposit", h.deposit)
		accounts.POST("/withdraw", h.withdraw)
		accounts.GET("/low-balance-mode", h.getLowBalanceMode)
		accounts.PUT("/low-balance-mode", h.setLowBalanceMode)
	}

	rg.POST("/transfers", h.transfer)
	rg.POST("/requests", h.requestFunds)

	transactions := rg.Group("/transactions")
	{
		transactions.PUT("/:id/amount", h.amendAmount)
		transactions.PUT("/:id/remark", h.setRemark)
		transactions.DELETE("/:id", h.deleteTransaction)
	}
}

func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	logger = logger.With(slog.String("account_id", accountID))

	entries, err := h.txnService.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(entries))
}

func (h *transactionHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	logger = logger.With(slog.String("account_id", accountID))

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.AccountID = accountID

	txn, err := h.txnService.Deposit(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record deposit")
		return
	}

	logger.Info("Deposit recorded", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	logger = logger.With(slog.String("account_id", accountID))

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.AccountID = accountID

	txn, err := h.txnService.Withdraw(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record withdrawal")
		return
	}

	logger.Info("Withdrawal recorded", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.txnService.Transfer(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record transfer")
		return
	}

	logger.Info("Transfer recorded", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) requestFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RequestFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestFunds", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.txnService.Request(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record request")
		return
	}

	logger.Info("Request recorded", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) amendAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")
	logger = logger.With(slog.String("transaction_id", transactionID))

	var req dto.AmendTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AmendAmount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.TransactionID = transactionID

	txn, err := h.txnService.AmendAmount(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to amend transaction")
		return
	}

	logger.Info("Transaction amended", slog.Int("edit_count", txn.EditCount))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) setRemark(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")
	logger = logger.With(slog.String("transaction_id", transactionID))

	var req dto.SetRemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetRemark", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.txnService.SetRemark(c.Request.Context(), transactionID, req.Remark); err != nil {
		respondServiceError(c, logger, err, "Failed to update remark")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")
	logger = logger.With(slog.String("transaction_id", transactionID))

	if err := h.txnService.DeleteTransaction(c.Request.Context(), transactionID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted")
	c.Status(http.StatusNoContent)
}

func (h *transactionHandler) getLowBalanceMode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	mode, err := h.txnService.GetLowBalanceMode(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to read low-balance mode")
		return
	}

	c.JSON(http.StatusOK, gin.H{"mode": mode})
}

func (h *transactionHandler) setLowBalanceMode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	logger = logger.With(slog.String("account_id", accountID))

	var req dto.SetLowBalanceModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetLowBalanceMode", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.txnService.SetLowBalanceMode(c.Request.Context(), accountID, req.Mode); err != nil {
		respondServiceError(c, logger, err, "Failed to store low-balance mode")
		return
	}

	logger.Info("Low-balance mode updated", slog.String("mode", req.Mode))
	c.Status(http.StatusNoContent)
}
