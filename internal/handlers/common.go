package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/middleware"
	"github.com/SscSPs/remittance_ledger/internal/utils/accounting"
	"github.com/gin-gonic/gin"
)

func getLogger(c *gin.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(c.Request.Context())
}

// respondError writes the status the error maps to. Server faults are logged
// and hidden behind fallback; client faults return the error text, which names
// the violated rule.
func respondError(c *gin.Context, err error, fallback string) {
	logger := getLogger(c)
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// balanceWindow reads asOf, periodStart and basis from the query string.
// An unparseable periodStart is dropped so the report covers all history.
func balanceWindow(c *gin.Context) (accounting.BalanceOptions, error) {
	asOf, err := accounting.ParseAsOf(c.Query("asOf"))
	if err != nil {
		return accounting.BalanceOptions{}, err
	}
	opts := accounting.BalanceOptions{
		AsOf:        asOf,
		PeriodStart: accounting.ParsePeriodStart(c.Query("periodStart")),
		Basis:       accounting.ParseDateBasis(c.Query("basis")),
	}
	if raw := c.Query("periodStart"); raw != "" && opts.PeriodStart == nil {
		getLogger(c).Warn("Ignoring unparseable periodStart", slog.String("periodStart", raw))
	}
	return opts, nil
}

// requireUser writes 401 when the auth middleware did not run.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		getLogger(c).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
