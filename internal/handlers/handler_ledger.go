package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
	"github.com/SscSPs/remittance_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// ledgerHandler answers entry lookups.
type ledgerHandler struct {
	ledgerService portssvc.LedgerQueryService
}

func newLedgerHandler(ls portssvc.LedgerQueryService) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// getRecordEntries godoc
// @Summary List the entries posted for a record
// @Description Returns the receipt or payment entry and any transfer, oldest first.
// @Tags records
// @Produce json
// @Param kind path string true "Record kind" Enums(cash, usdt)
// @Param recordID path string true "Record ID"
// @Success 200 {array} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid record kind"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to find entries"
// @Security BearerAuth
// @Router /records/{kind}/{recordID}/entries [get]
func (h *ledgerHandler) getRecordEntries(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	kind := domain.RecordKind(c.Param("kind"))
	recordID := c.Param("recordID")

	entries, err := h.ledgerService.EntriesForRecord(c.Request.Context(), kind, recordID)
	if err != nil {
		respondError(c, err, "Failed to find entries")
		return
	}

	getLogger(c).Debug("Entries found for record",
		slog.String("kind", string(kind)),
		slog.String("record_id", recordID),
		slog.Int("count", len(entries)))
	c.JSON(http.StatusOK, dto.ToEntryResponses(entries))
}

// listAccountEntries godoc
// @Summary List entries touching an account
// @Description Pages through an account's entries in creation order.
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid paging parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Security BearerAuth
// @Router /accounts/{accountID}/entries [get]
func (h *ledgerHandler) listAccountEntries(c *gin.Context) {
	logger := getLogger(c)
	if _, ok := requireUser(c); !ok {
		return
	}
	accountID := c.Param("accountID")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid query parameters for listAccountEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, next, err := h.ledgerService.ListAccountEntries(c.Request.Context(), accountID, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list entries")
		return
	}

	c.JSON(http.StatusOK, dto.ListEntriesResponse{Entries: dto.ToEntryResponses(entries), NextToken: next})
}
