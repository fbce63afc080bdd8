package exchange

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
	rg.POST("/books/:id/take", h.TakeBook)
}

func (h *Handler) TakeBook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid book ID")
		return
	}

	actor := middleware.ActorFromContext(c)
	book, err := h.service.Take(c.Request.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
		case errors.Is(err, ErrSelfTake):
			response.Error(c, http.StatusBadRequest, "SELF_TAKE", "You cannot take your own book")
		case errors.Is(err, ErrAlreadyTaken):
			response.Error(c, http.StatusConflict, "ALREADY_TAKEN", "Book has already been taken")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to take book")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"book": book})
}
