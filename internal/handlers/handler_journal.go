package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
	"github.com/SscSPs/remittance_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// recordHandler handles HTTP requests that post records to the journal.
type recordHandler struct {
	intakeService       portssvc.IntakeService
	postingService      portssvc.PostingService
	reassignmentService portssvc.ReassignmentService
}

// newRecordHandler creates a new recordHandler.
func newRecordHandler(is portssvc.IntakeService, ps portssvc.PostingService, rs portssvc.ReassignmentService) *recordHandler {
	return &recordHandler{
		intakeService:       is,
		postingService:      ps,
		reassignmentService: rs,
	}
}

// registerRecordRoutes registers record intake, posting and reassignment routes
func registerRecordRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, ledger *ledgerHandler) {
	h := newRecordHandler(services.Intake, services.Posting, services.Reassignment)

	records := rg.Group("/records/:kind")
	{
		records.POST("", h.submitRecord)
		records.POST("/:recordID/reassign", h.reassignRecord)
		records.GET("/:recordID/entries", ledger.getRecordEntries)
	}
	rg.POST("/postings", h.postRecord)
}

// submitRecord godoc
// @Summary Submit a cash or USDT record
// @Description Normalizes a raw record, stores it and posts its journal entry in one transaction.
// @Description Field names are matched loosely (amountUsd, amount_usd and amountusd are the same field).
// @Tags records
// @Accept json
// @Produce json
// @Param kind path string true "Record kind" Enums(cash, usdt)
// @Param record body object true "Raw record fields"
// @Success 201 {object} dto.SubmitRecordResponse
// @Failure 400 {object} map[string]string "Invalid record"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Unknown account or client"
// @Failure 409 {object} map[string]string "Duplicate record id"
// @Failure 500 {object} map[string]string "Failed to submit record"
// @Security BearerAuth
// @Router /records/{kind} [post]
func (h *recordHandler) submitRecord(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	kind := domain.RecordKind(c.Param("kind"))

	// numbers stay json.Number so amounts never pass through float64
	var raw map[string]any
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		logger.Warn("Failed to decode record body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	record, entry, err := h.intakeService.SubmitRecord(c.Request.Context(), kind, raw, userID)
	if err != nil {
		respondError(c, err, "Failed to submit record")
		return
	}

	logger.Info("Record submitted",
		slog.String("kind", string(kind)),
		slog.String("record_id", record.RecordID),
		slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.SubmitRecordResponse{Record: *record, Entry: dto.ToEntryResponse(entry)})
}

// postRecord godoc
// @Summary Post a normalized record
// @Description Appends the journal entry for a normalized record. A new record id is stored with its entry.
// @Description A stored record is posted at most once and only on its stored terms.
// @Tags records
// @Accept json
// @Produce json
// @Param record body dto.PostRecordRequest true "Normalized record"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid record"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Unknown account or client"
// @Failure 409 {object} map[string]string "Record already posted"
// @Failure 500 {object} map[string]string "Failed to post record"
// @Security BearerAuth
// @Router /postings [post]
func (h *recordHandler) postRecord(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.PostRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postRecord", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.postingService.PostInflowOrOutflow(c.Request.Context(), req.ToDomainRecord(), userID)
	if err != nil {
		respondError(c, err, "Failed to post record")
		return
	}

	logger.Info("Record posted", slog.String("record_id", req.RecordID), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// reassignRecord godoc
// @Summary Reassign an unmatched inflow to a client
// @Description Moves the amount from the suspense account to the client's account. Succeeds at most once per record.
// @Tags records
// @Accept json
// @Produce json
// @Param kind path string true "Record kind" Enums(cash, usdt)
// @Param recordID path string true "Record ID"
// @Param request body dto.ReassignRequest true "Target client"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Record or client not found"
// @Failure 409 {object} map[string]string "Record already assigned or its original entry is missing"
// @Failure 500 {object} map[string]string "Failed to reassign record"
// @Security BearerAuth
// @Router /records/{kind}/{recordID}/reassign [post]
func (h *recordHandler) reassignRecord(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	kind := domain.RecordKind(c.Param("kind"))
	recordID := c.Param("recordID")

	var req dto.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for reassignRecord", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("kind", string(kind)),
		slog.String("record_id", recordID),
		slog.String("client_id", req.ClientID),
	)

	entry, err := h.reassignmentService.ReassignToClient(c.Request.Context(), kind, recordID, req.ClientID, userID)
	if err != nil {
		respondError(c, err, "Failed to reassign record")
		return
	}

	logger.Info("Record reassigned", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}
