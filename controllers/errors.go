package controllers

import (
	"errors"
	"net/http"

	"barbertrack-backend/repository"
	"barbertrack-backend/services"
	"barbertrack-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondWithServiceError maps service and store errors onto HTTP statuses.
func respondWithServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrForbidden):
		utils.RespondWithError(c, http.StatusForbidden, "You are not allowed to do that")
	case errors.Is(err, repository.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, repository.ErrAlreadyExists):
		utils.RespondWithError(c, http.StatusConflict, "Already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrInactiveProfile):
		utils.RespondWithError(c, http.StatusUnauthorized, "Profile is deactivated")
	case errors.Is(err, services.ErrShopNameRequired),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInactiveService),
		errors.Is(err, services.ErrNameRequired):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrBusy):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotReady), errors.Is(err, services.ErrSessionClosed):
		utils.RespondWithError(c, http.StatusUnauthorized, "Session is not ready")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
