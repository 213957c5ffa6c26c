// controllers/transaction.go
package controllers

import (
	"net/http"
	"time"

	"barbertrack-backend/middleware"
	"barbertrack-backend/services"
	"barbertrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateTransactionInput struct {
	ServiceTypeID string     `json:"service_type_id" binding:"required,uuid"`
	PerformedAt   *time.Time `json:"performed_at"`
	Notes         *string    `json:"notes"`
}

type TransactionController struct {
	Catalog *services.CatalogService
}

// CreateTransaction records a service performed by the calling employee.
func (tc *TransactionController) CreateTransaction(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found in context")
		return
	}

	var input CreateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	serviceTypeID, err := uuid.Parse(input.ServiceTypeID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service type ID format")
		return
	}
	if input.PerformedAt != nil && input.PerformedAt.After(time.Now().Add(time.Minute)) {
		utils.RespondWithError(c, http.StatusBadRequest, "performed_at cannot be in the future")
		return
	}

	tx, err := tc.Catalog.LogTransaction(c.Request.Context(), caller, serviceTypeID, input.PerformedAt, input.Notes)
	if err != nil {
		respondWithServiceError(c, err, "Failed to record transaction")
		return
	}
	c.JSON(http.StatusCreated, tx)
}
