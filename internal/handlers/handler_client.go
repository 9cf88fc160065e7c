package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
	"github.com/SscSPs/remittance_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type clientHandler struct {
	intakeService    portssvc.IntakeService
	reportingService portssvc.ReportingService
}

func registerClientRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &clientHandler{intakeService: services.Intake, reportingService: services.Reporting}

	clients := rg.Group("/clients")
	{
		clients.POST("", h.registerClient)
		clients.GET("/:clientID/statement", h.getStatement)
	}
}

// registerClient godoc
// @Summary Register a client
// @Description Stores the client and opens its liability account under 6000.
// @Tags clients
// @Accept json
// @Produce json
// @Param client body dto.RegisterClientRequest true "Client"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Client already exists"
// @Failure 500 {object} map[string]string "Failed to register client"
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) registerClient(c *gin.Context) {
	logger := getLogger(c)
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for registerClient", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	client, err := h.intakeService.RegisterClient(c.Request.Context(), req.ClientID, req.Name, userID)
	if err != nil {
		respondError(c, err, "Failed to register client")
		return
	}

	logger.Info("Client registered", slog.String("client_id", client.ClientID))
	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// getStatement godoc
// @Summary Client statement
// @Description Entries on the client's liability account with running balances
// @Tags clients
// @Produce json
// @Param clientID path string true "Client ID"
// @Param asOf query string false "Statement end"
// @Param periodStart query string false "Statement start; earlier entries form the opening balance"
// @Param basis query string false "Timestamp the window applies to" Enums(createdAt, date)
// @Success 200 {object} domain.ClientStatement
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 500 {object} map[string]string "Failed to build statement"
// @Security BearerAuth
// @Router /clients/{clientID}/statement [get]
func (h *clientHandler) getStatement(c *gin.Context) {
	logger := getLogger(c)
	if _, ok := requireUser(c); !ok {
		return
	}

	opts, err := balanceWindow(c)
	if err != nil {
		logger.Warn("Invalid statement window", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	statement, err := h.reportingService.ClientStatement(c.Request.Context(), c.Param("clientID"), opts)
	if err != nil {
		respondError(c, err, "Failed to build statement")
		return
	}
	c.JSON(http.StatusOK, statement)
}
