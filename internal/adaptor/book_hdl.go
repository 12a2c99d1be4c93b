package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"library-management/internal/dto/request"
	"library-management/internal/usecase"
	"library-management/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookHandler struct {
	service usecase.BookService
	log     *zap.Logger
}

func NewBookHandler(service usecase.BookService, log *zap.Logger) *BookHandler {
	return &BookHandler{
		service: service,
		log:     log,
	}
}

// GetAllBooks handles GET /api/books
func (h *BookHandler) GetAllBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseIntDefault(query.Get("page"), 1)
	perPage := parseIntDefault(query.Get("per_page"), 10)

	var search *string
	if s := query.Get("search"); s != "" {
		search = &s
	}

	books, err := h.service.GetAllBooks(r.Context(), page, perPage, search)
	if err != nil {
		h.handleServiceError(w, err, "list books")
		return
	}

	utils.ResponseSuccess(w, "Books retrieved successfully", books)
}

// GetBookByID handles GET /api/books/{id}
func (h *BookHandler) GetBookByID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid book ID", nil)
		return
	}

	book, err := h.service.GetBookByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get book")
		return
	}

	utils.ResponseSuccess(w, "Book retrieved successfully", book)
}

// CreateBook handles POST /api/admin/books (admin only)
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	book, err := h.service.CreateBook(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create book")
		return
	}

	utils.ResponseCreated(w, "Book created successfully", book)
}

// UpdateBook handles PATCH /api/admin/books/{id} (admin only)
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid book ID", nil)
		return
	}

	var req request.UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	book, err := h.service.UpdateBook(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err, "update book")
		return
	}

	utils.ResponseSuccess(w, "Book updated successfully", book)
}

// DeleteBook handles DELETE /api/admin/books/{id} (admin only)
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid book ID", nil)
		return
	}

	if err := h.service.DeleteBook(r.Context(), id); err != nil {
		h.handleServiceError(w, err, "delete book")
		return
	}

	utils.ResponseSuccess(w, "Book deleted successfully", nil)
}

// handleServiceError maps book service errors onto HTTP responses
func (h *BookHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "already registered"):
		h.log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	default:
		h.log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// parseIntDefault parses a query parameter, falling back when absent or bad.
func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
