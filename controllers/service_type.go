// controllers/service_type.go
package controllers

import (
	"net/http"

	"barbertrack-backend/middleware"
	"barbertrack-backend/services"
	"barbertrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateServiceTypeInput struct {
	Name         string `json:"name" binding:"required"`
	DisplayOrder int    `json:"display_order" binding:"min=0"`
}

type UpdateServiceTypeInput struct {
	Name         *string `json:"name"`
	DisplayOrder *int    `json:"display_order" binding:"omitempty,min=0"`
	IsActive     *bool   `json:"is_active"`
}

type ServiceTypeController struct {
	Catalog *services.CatalogService
}

// GetServiceTypes lists active service types. Admins may pass
// include_inactive=true to see retired ones.
func (sc *ServiceTypeController) GetServiceTypes(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found in context")
		return
	}

	includeInactive := c.Query("include_inactive") == "true"
	list, err := sc.Catalog.ServiceTypes(c.Request.Context(), caller, includeInactive)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve service types")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (sc *ServiceTypeController) CreateServiceType(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found in context")
		return
	}

	var input CreateServiceTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	st, err := sc.Catalog.CreateServiceType(c.Request.Context(), caller, input.Name, input.DisplayOrder)
	if err != nil {
		respondWithServiceError(c, err, "Failed to create service type")
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (sc *ServiceTypeController) UpdateServiceType(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found in context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service type ID format")
		return
	}

	var input UpdateServiceTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	st, err := sc.Catalog.UpdateServiceType(c.Request.Context(), caller, id, services.ServiceTypeUpdate{
		Name:         input.Name,
		DisplayOrder: input.DisplayOrder,
		IsActive:     input.IsActive,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to update service type")
		return
	}
	c.JSON(http.StatusOK, st)
}
