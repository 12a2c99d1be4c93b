package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"library-management/internal/data/entity"
	"library-management/internal/data/repository"
	"library-management/internal/dto/request"
	"library-management/internal/usecase"
	"library-management/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	service usecase.CheckoutService
	members repository.MemberRepository
	log     *zap.Logger
}

func NewCheckoutHandler(service usecase.CheckoutService, members repository.MemberRepository, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		members: members,
		log:     log,
	}
}

// requester resolves the authenticated member and whether they are an admin.
func (h *CheckoutHandler) requester(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool, bool) {
	memberID, ok := utils.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false, false
	}

	member, err := h.members.FindByID(r.Context(), memberID)
	if err != nil {
		h.log.Error("Failed to resolve requester", zap.Error(err), zap.String("member_id", memberID.String()))
		utils.ResponseInternalError(w, "Internal server error")
		return uuid.Nil, false, false
	}
	if member == nil {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false, false
	}

	return memberID, member.Role == entity.RoleAdmin, true
}

// CreateCheckout handles POST /api/checkouts
func (h *CheckoutHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	requesterID, isAdmin, ok := h.requester(w, r)
	if !ok {
		return
	}

	var req request.CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	checkout, err := h.service.CreateCheckout(r.Context(), requesterID, isAdmin, &req)
	if err != nil {
		h.handleServiceError(w, err, "create checkout")
		return
	}

	utils.ResponseCreated(w, "Book checked out successfully", checkout)
}

// GetAllCheckouts handles GET /api/checkouts. Non-admins always get their own
// loans only.
func (h *CheckoutHandler) GetAllCheckouts(w http.ResponseWriter, r *http.Request) {
	requesterID, isAdmin, ok := h.requester(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.ListCheckoutsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    parseIntDefault(query.Get("page"), 1),
			PerPage: parseIntDefault(query.Get("per_page"), 10),
		},
	}

	if s := query.Get("search"); s != "" {
		req.Search = &s
	}
	if s := query.Get("status"); s != "" {
		req.Status = &s
	}
	if s := query.Get("member_id"); s != "" {
		req.MemberID = &s
	}
	if s := query.Get("book_id"); s != "" {
		req.BookID = &s
	}
	if s := query.Get("due_from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid due_from, expected RFC 3339", nil)
			return
		}
		req.DueFrom = &t
	}
	if s := query.Get("due_to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid due_to, expected RFC 3339", nil)
			return
		}
		req.DueTo = &t
	}

	checkouts, err := h.service.GetAllCheckouts(r.Context(), requesterID, isAdmin, req)
	if err != nil {
		h.handleServiceError(w, err, "list checkouts")
		return
	}

	utils.ResponseSuccess(w, "Checkouts retrieved successfully", checkouts)
}

// GetCheckoutByID handles GET /api/checkouts/{id}
func (h *CheckoutHandler) GetCheckoutByID(w http.ResponseWriter, r *http.Request) {
	requesterID, isAdmin, ok := h.requester(w, r)
	if !ok {
		return
	}

	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid checkout ID", nil)
		return
	}

	checkout, err := h.service.GetCheckoutByID(r.Context(), requesterID, isAdmin, id)
	if err != nil {
		h.handleServiceError(w, err, "get checkout")
		return
	}

	utils.ResponseSuccess(w, "Checkout retrieved successfully", checkout)
}

// UpdateCheckout handles PATCH /api/checkouts/{id} with the action verbs
// return, extend, cancel and mark_lost.
func (h *CheckoutHandler) UpdateCheckout(w http.ResponseWriter, r *http.Request) {
	requesterID, isAdmin, ok := h.requester(w, r)
	if !ok {
		return
	}

	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid checkout ID", nil)
		return
	}

	var req request.UpdateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	checkout, err := h.service.UpdateCheckout(r.Context(), requesterID, isAdmin, id, &req)
	if err != nil {
		h.handleServiceError(w, err, "update checkout")
		return
	}

	utils.ResponseSuccess(w, "Checkout updated successfully", checkout)
}

// DeleteCheckout handles DELETE /api/admin/checkouts/{id} (admin only)
func (h *CheckoutHandler) DeleteCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid checkout ID", nil)
		return
	}

	if err := h.service.DeleteCheckout(r.Context(), id); err != nil {
		h.handleServiceError(w, err, "delete checkout")
		return
	}

	utils.ResponseSuccess(w, "Checkout deleted successfully", nil)
}

// handleServiceError maps checkout service errors onto HTTP responses
func (h *CheckoutHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"),
		strings.Contains(errMsg, "invalid"),
		strings.Contains(errMsg, "due date"),
		strings.Contains(errMsg, "unknown action"):
		h.log.Warn(operation+" failed - bad request", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "already checked out"):
		h.log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case strings.Contains(errMsg, "no available copies"),
		strings.Contains(errMsg, "not active"),
		strings.Contains(errMsg, "cannot be extended"),
		strings.Contains(errMsg, "exceeds"),
		strings.Contains(errMsg, "limit reached"):
		h.log.Warn(operation+" failed - rule violation", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case strings.Contains(errMsg, "cannot check out"),
		strings.Contains(errMsg, "only admins"):
		h.log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	default:
		h.log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
