package admin

import (
	"errors"
	"net/http"
	"strconv"

	"sharehub/internal/domain"
	"sharehub/internal/middleware"
	"sharehub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects the group to already be gated by AdminOnly.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/users", h.ListUsers)
	rg.PUT("/admin/users/:id/role", h.ChangeUserRole)
	rg.DELETE("/admin/users/:id", h.DeleteUser)
	rg.GET("/admin/statistics", h.GetStatistics)
}

func (h *Handler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handler) ChangeUserRole(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	user, err := h.service.ChangeUserRole(c.Request.Context(), actor, id, domain.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRole):
			response.Error(c, http.StatusBadRequest, "INVALID_ROLE", `Role must be "user" or "admin"`)
		case errors.Is(err, ErrSelfDemote):
			response.Error(c, http.StatusBadRequest, "SELF_DEMOTE", "You cannot change your own role")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to change role")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete user")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load statistics")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"statistics": stats})
}
