package controllers

import (
	"net/http"

	"barbertrack-backend/middleware"
	"barbertrack-backend/services"
	"barbertrack-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateProfileInput struct {
	FullName *string `json:"full_name"`
	ShopName *string `json:"shop_name"`
	Phone    *string `json:"phone"`
}

type ProfileController struct {
	Auth *services.AuthService
}

func (pc *ProfileController) GetProfile(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Phone != nil && *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	profile, err := pc.Auth.UpdateProfile(c.Request.Context(), caller, input.FullName, input.ShopName, cleanPhone(input.Phone))
	if err != nil {
		respondWithServiceError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}
