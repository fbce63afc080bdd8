package booking

import (
	"errors"
	"net/http"
	"strconv"

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateReservation)
	rg.GET("/bookings/my", h.GetMyReservations)
	rg.POST("/bookings/:id/cancel", h.CancelReservation)
	rg.POST("/bookings/:id/move", h.MoveReservation)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/places/:id/reservations", h.GetPlaceSchedule)
}

// GetPlaceSchedule lists the active reservations of a place so clients can
// show free slots without authenticating.
func (h *Handler) GetPlaceSchedule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid place ID")
		return
	}

	reservations, err := h.service.GetActiveByPlace(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservations": reservations})
}

func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	res, err := h.service.Book(c.Request.Context(), actor, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"reservation": res})
}

func (h *Handler) GetMyReservations(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	limit, offset := paginationParams(c)

	reservations, err := h.service.GetMyReservations(c.Request.Context(), actor.UserID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservations": reservations})
}

func (h *Handler) CancelReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID")
		return
	}

	actor := middleware.ActorFromContext(c)
	res, err := h.service.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) MoveReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID")
		return
	}

	var req MoveReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	res, err := h.service.Move(c.Request.Context(), actor, id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidRange):
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", "End time must be after start time")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation or place not found")
	case errors.Is(err, ErrScheduleConflict):
		response.Error(c, http.StatusConflict, "SCHEDULE_CONFLICT", "Place is already booked for the selected time")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this reservation")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Reservation is not active")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process reservation")
	}
}

func paginationParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
