package handlers

import (
	"MediLink/middlewares"
	"MediLink/models"
	"MediLink/services"
	"MediLink/utils"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	UserService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{
		UserService: userService,
	}
}

type registerRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     string  `json:"phone"`
	Role      string  `json:"role"` // "patient" or "doctor"
	License   string  `json:"license_number"`
	Specialty string  `json:"specialization"`
	Fee       float64 `json:"consultation_fee"`
}

// Register handles new patient and doctor registration. Doctors start
// unapproved and cannot log in until an admin approves them.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}

	ctx := c.Request.Context()
	var err error
	switch req.Role {
	case "doctor":
		profile := models.DoctorProfile{
			LicenseNumber:   req.License,
			Specialization:  req.Specialty,
			ConsultationFee: req.Fee,
		}
		err = h.UserService.RegisterDoctor(ctx, &user, &profile)
	case "", "patient":
		err = h.UserService.RegisterPatient(ctx, &user)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Registration failed: %v", err)})
		return
	}

	c.Status(http.StatusCreated)
}

// Login authenticates the user and sets session cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.UserService.AuthenticateUser(ctx, credentials.Email, credentials.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		middlewares.RespondError(c, err)
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(strconv.FormatInt(user.ID, 10), user.Role.Name)
	if err != nil {
		middlewares.HttpError(c, "Failed to generate tokens", http.StatusInternalServerError, err)
		return
	}

	utils.SetAuthCookies(c, accessToken, refreshToken)
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

// RefreshToken issues a fresh access token from a valid refresh token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(utils.RefreshTokenCookie)
	if err != nil || token == "" {
		token = c.DefaultQuery(utils.RefreshTokenCookie, "")
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
		return
	}

	claims, err := utils.ValidateToken(token, models.RoleAdmin, models.RoleDoctor, models.RolePatient)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	revoked, err := utils.IsTokenRevoked(c.Request.Context(), token)
	if err != nil || revoked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(claims.UserID, claims.Role)
	if err != nil {
		middlewares.HttpError(c, "Failed to generate access token", http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
	})
}

// Logoff destroys the session: both tokens are denylisted server-side and
// the cookies cleared, so the old session identifier cannot be replayed.
func (h *AuthHandler) Logoff(c *gin.Context) {
	accessToken, _ := c.Cookie(utils.AccessTokenCookie)
	refreshToken, _ := c.Cookie(utils.RefreshTokenCookie)

	if err := h.UserService.Logout(c.Request.Context(), accessToken, refreshToken); err != nil {
		middlewares.HttpError(c, "Failed to log out", http.StatusInternalServerError, err)
		return
	}

	utils.ClearAuthCookies(c)
	c.Status(http.StatusOK)
}

// GetUserProfile returns the authenticated user's own record.
func (h *AuthHandler) GetUserProfile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	user, err := h.UserService.GetUserByID(c.Request.Context(), actor.UserID)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUserProfile lets a user edit their own contact fields.
func (h *AuthHandler) UpdateUserProfile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var data struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.UserService.UpdateUserProfile(c.Request.Context(), actor.UserID, data.Username, data.Email, data.Phone); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// SendResetCode sends a password reset code to the user's email.
func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var data struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.UserService.GetUserByEmail(ctx, data.Email)
	if err != nil || user == nil {
		// Same response whether or not the account exists.
		c.Status(http.StatusOK)
		return
	}

	code := utils.GenerateResetCode()
	if err := utils.SetResetCode(ctx, user.Email, code); err != nil {
		middlewares.HttpError(c, "Failed to set reset code", http.StatusInternalServerError, err)
		return
	}

	if err := utils.SendResetCodeEmail(user.Email, code); err != nil {
		middlewares.HttpError(c, "Failed to send reset code email", http.StatusInternalServerError, err)
		return
	}

	c.Status(http.StatusOK)
}

// ChangePassword resets a password using an emailed reset code.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var data struct {
		Email       string `json:"email"`
		ResetCode   string `json:"reset_code"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := utils.ValidatePasswordReset(data.ResetCode, data.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	storedCode, err := utils.GetResetCode(ctx, data.Email)
	if err != nil || storedCode == nil || *storedCode != data.ResetCode {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reset code"})
		return
	}

	user, err := h.UserService.GetUserByEmail(ctx, data.Email)
	if err != nil || user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reset code"})
		return
	}

	hashedPassword, err := utils.HashPassword(data.NewPassword)
	if err != nil {
		middlewares.HttpError(c, "Failed to hash password", http.StatusInternalServerError, err)
		return
	}

	if err := h.UserService.UpdateUserPassword(ctx, user.ID, hashedPassword); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	if err := utils.DeleteResetCode(ctx, data.Email); err != nil {
		middlewares.HttpError(c, "Failed to clear reset code", http.StatusInternalServerError, err)
		return
	}

	c.Status(http.StatusOK)
}
