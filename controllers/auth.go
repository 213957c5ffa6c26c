package controllers

import (
	"net/http"

	"barbertrack-backend/middleware"
	"barbertrack-backend/models"
	"barbertrack-backend/services"
	"barbertrack-backend/utils"

	"github.com/gin-gonic/gin"
)

type RegisterInput struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	FullName string  `json:"full_name" binding:"required"`
	Role     string  `json:"role" binding:"required,oneof=admin employee"`
	ShopName *string `json:"shop_name"`
	Phone    *string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	Auth         *services.AuthService
	CookieMaxAge int
}

func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Phone != nil && *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	result, err := ac.Auth.SignUp(c.Request.Context(), services.SignUpInput{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
		Role:     models.Role(input.Role),
		ShopName: input.ShopName,
		Phone:    cleanPhone(input.Phone),
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to create profile")
		return
	}

	ac.setCookie(c, result.Token)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   result.Token,
		"user":    result.Profile.Caller(),
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	result, err := ac.Auth.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondWithServiceError(c, err, "Login failed")
		return
	}

	ac.setCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  result.Profile.Caller(),
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	if session, ok := middleware.CurrentSession(c); ok {
		ac.Auth.SignOut(session.ID())
	}
	c.SetCookie("token", "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func (ac *AuthController) Me(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile.Caller()})
}

func (ac *AuthController) setCookie(c *gin.Context, token string) {
	maxAge := ac.CookieMaxAge
	if maxAge <= 0 {
		maxAge = 24 * 3600
	}
	c.SetCookie("token", token, maxAge, "/", "", true, true)
}

func cleanPhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	p := utils.CleanPhone(*phone)
	return &p
}
