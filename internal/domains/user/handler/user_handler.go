package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/domains/user/model"
	"marketplace-backend/internal/domains/user/service"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
)

// =====================================================
// USER HANDLER
// =====================================================
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRoutes registers auth and profile routes.
// authRequired wraps routes needing a valid access token.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register) // POST /api/v1/auth/register
		auth.POST("/login", h.Login)       // POST /api/v1/auth/login
		auth.POST("/refresh", h.Refresh)   // POST /api/v1/auth/refresh
	}

	users := router.Group("/users", authRequired)
	{
		users.GET("/me", h.GetProfile)               // GET /api/v1/users/me
		users.PATCH("/me", h.UpdateProfile)          // PATCH /api/v1/users/me
		users.PUT("/me/fcm-token", h.UpdateFCMToken) // PUT /api/v1/users/me/fcm-token
	}
}

// =====================================================
// AUTH ENDPOINTS
// =====================================================

func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *UserHandler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.userService.RefreshToken(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// PROFILE ENDPOINTS
// =====================================================

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *UserHandler) UpdateFCMToken(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.UpdateFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.UpdateFCMToken(c.Request.Context(), userID, req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "FCM token updated"})
}

// =====================================================
// ERROR MAPPING
// =====================================================

// handleServiceError maps service errors to HTTP responses
func (h *UserHandler) handleServiceError(c *gin.Context, err error) {
	var userErr *model.UserError
	if errors.As(err, &userErr) {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, userErr.Code, userErr.Message, errDetail(userErr.Err))
		return
	}

	switch {
	case errors.Is(err, model.ErrUserNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeUserNotFound, "User not found")
	case errors.Is(err, model.ErrPhoneAlreadyExists):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodePhoneAlreadyExists, "Phone number already registered")
	case errors.Is(err, model.ErrInvalidCredentials):
		response.ErrorResponse(c, http.StatusUnauthorized, model.ErrCodeInvalidCredentials, "Invalid phone or password")
	case errors.Is(err, model.ErrUserInactive):
		response.ErrorResponse(c, http.StatusForbidden, model.ErrCodeUserInactive, "Account is inactive")
	case errors.Is(err, model.ErrInvalidToken):
		response.ErrorResponse(c, http.StatusUnauthorized, model.ErrCodeInvalidToken, "Invalid or expired token")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}

func errDetail(err error) interface{} {
	if err == nil {
		return nil
	}
	return err.Error()
}
