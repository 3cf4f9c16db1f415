package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"user-resource-service/internal/usecase/user"
	apperrors "user-resource-service/pkg/errors"
	"user-resource-service/pkg/logger"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user.
// Both keys must be present; any string value is accepted.
type CreateUserRequest struct {
	Name  *string `json:"name" binding:"required"`
	Email *string `json:"email" binding:"required"`
}

// UpdateUserRequest represents the HTTP request body for updating a user.
// Absent or null keys leave the stored value unchanged.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid create user request", zap.Error(err))
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  *req.Name,
		Email: *req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	// the identifier is returned as a bare JSON string
	c.JSON(http.StatusOK, resp.ID)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = toResponse(u)
	}

	c.JSON(http.StatusOK, users)
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid update user request", zap.Error(err))
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp.User))
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if _, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id}); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// parseID reads the :id path parameter. An id that is not a UUID cannot
// name any user, so it is answered like a missing one.
func (h *UserHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Debug("malformed user id", zap.String("id", idStr), zap.Error(err))
		c.Status(http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// handleError converts usecase errors to HTTP responses: not found is an
// empty 404, everything else a 500 carrying the error text.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	if apperrors.IsNotFound(err) {
		c.Status(http.StatusNotFound)
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.String(apperrors.StatusCode(err), err.Error())
}

func toResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}
