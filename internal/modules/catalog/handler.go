package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"sharehub/internal/middleware"
	"sharehub/internal/pkg/response"
	"sharehub/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes: listing and detail pages need no session.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/places", h.ListPlaces)
	rg.GET("/places/:id", h.GetPlace)
	rg.GET("/books", h.ListBooks)
	rg.GET("/books/:id", h.GetBook)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/places", h.CreatePlace)
	rg.PUT("/places/:id", h.UpdatePlace)
	rg.PATCH("/places/:id/availability", h.SetPlaceAvailability)
	rg.DELETE("/places/:id", h.DeletePlace)
	rg.POST("/books", h.CreateBook)
	rg.GET("/books/my", h.ListMyBooks)
	rg.GET("/books/taken", h.ListTakenBooks)
	rg.PUT("/books/:id", h.UpdateBook)
	rg.DELETE("/books/:id", h.DeleteBook)
}

func (h *Handler) ListPlaces(c *gin.Context) {
	limit, offset := paginationParams(c)
	f := repository.PlaceFilters{
		Name:          c.Query("name"),
		Location:      c.Query("location"),
		AvailableOnly: c.Query("available_only") == "true",
		Limit:         limit,
		Offset:        offset,
	}

	places, total, err := h.service.ListPlaces(c.Request.Context(), f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list places")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"places": places,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetPlace(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	place, err := h.service.GetPlace(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Place not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"place": place})
}

func (h *Handler) CreatePlace(c *gin.Context) {
	var req CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	place, err := h.service.CreatePlace(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create place")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"place": place})
}

func (h *Handler) UpdatePlace(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	place, err := h.service.UpdatePlace(c.Request.Context(), actor, id, req)
	if err != nil {
		h.writeError(c, err, "Place not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"place": place})
}

func (h *Handler) SetPlaceAvailability(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAvailable == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "is_available is required")
		return
	}

	actor := middleware.ActorFromContext(c)
	place, err := h.service.SetPlaceAvailability(c.Request.Context(), actor, id, *req.IsAvailable)
	if err != nil {
		h.writeError(c, err, "Place not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"place": place})
}

func (h *Handler) DeletePlace(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	actor := middleware.ActorFromContext(c)
	if err := h.service.DeletePlace(c.Request.Context(), actor, id); err != nil {
		h.writeError(c, err, "Place not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Place deleted"})
}

func (h *Handler) ListBooks(c *gin.Context) {
	limit, offset := paginationParams(c)
	publishYear, _ := strconv.Atoi(c.Query("publish_year"))
	f := repository.BookFilters{
		Title:         c.Query("title"),
		Author:        c.Query("author"),
		Genre:         c.Query("genre"),
		PublishYear:   publishYear,
		AvailableOnly: c.Query("available_only") == "true",
		Limit:         limit,
		Offset:        offset,
	}

	books, total, err := h.service.ListBooks(c.Request.Context(), f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list books")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"books":  books,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// ListMyBooks lists the requester's own offers, taken ones included.
func (h *Handler) ListMyBooks(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	limit, offset := paginationParams(c)

	books, total, err := h.service.ListMyBooks(c.Request.Context(), actor.UserID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list books")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"books":  books,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// ListTakenBooks lists the books the requester has taken.
func (h *Handler) ListTakenBooks(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	limit, offset := paginationParams(c)

	books, total, err := h.service.ListTakenBooks(c.Request.Context(), actor.UserID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list books")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"books":  books,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Book not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"book": book})
}

func (h *Handler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	book, err := h.service.CreateBook(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create book")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"book": book})
}

func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	book, err := h.service.UpdateBook(c.Request.Context(), actor, id, req)
	if err != nil {
		h.writeError(c, err, "Book not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"book": book})
}

func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	actor := middleware.ActorFromContext(c)
	if err := h.service.DeleteBook(c.Request.Context(), actor, id); err != nil {
		h.writeError(c, err, "Book not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Book deleted"})
}

func (h *Handler) writeError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", notFoundMsg)
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to modify this resource")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Request failed")
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
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
