package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"library-management/internal/dto/request"
	"library-management/internal/usecase"
	"library-management/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MemberHandler struct {
	service usecase.MemberService
	log     *zap.Logger
}

func NewMemberHandler(service usecase.MemberService, log *zap.Logger) *MemberHandler {
	return &MemberHandler{
		service: service,
		log:     log,
	}
}

// GetProfile handles GET /api/members/profile
func (h *MemberHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), memberID)
	if err != nil {
		h.handleServiceError(w, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// UpdateProfile handles PATCH /api/members/profile
func (h *MemberHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), memberID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", profile)
}

// DeleteAccount handles DELETE /api/members/profile. Every session dies with
// the account, so the browser cookie is cleared too.
func (h *MemberHandler) DeleteAccount(config utils.SessionConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID, ok := utils.GetMemberIDFromContext(r.Context())
		if !ok {
			utils.ResponseUnauthorized(w, "Authentication required")
			return
		}

		if err := h.service.DeleteAccount(r.Context(), memberID); err != nil {
			h.handleServiceError(w, err, "delete account")
			return
		}

		clearSessionCookie(w, config)
		utils.ResponseSuccess(w, "Account deleted successfully", nil)
	}
}

// GetAllMembers handles GET /api/admin/members (admin only)
func (h *MemberHandler) GetAllMembers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseIntDefault(query.Get("page"), 1)
	perPage := parseIntDefault(query.Get("per_page"), 10)

	var search *string
	if s := query.Get("search"); s != "" {
		search = &s
	}

	members, err := h.service.GetAllMembers(r.Context(), page, perPage, search)
	if err != nil {
		h.handleServiceError(w, err, "list members")
		return
	}

	utils.ResponseSuccess(w, "Members retrieved successfully", members)
}

// CreateMember handles POST /api/admin/members (admin only)
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req request.AdminCreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	member, err := h.service.AdminCreateMember(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create member")
		return
	}

	utils.ResponseCreated(w, "Member created successfully", member)
}

// GetMemberByID handles GET /api/admin/members/{id} (admin only)
func (h *MemberHandler) GetMemberByID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid member ID", nil)
		return
	}

	member, err := h.service.GetMemberByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get member")
		return
	}

	utils.ResponseSuccess(w, "Member retrieved successfully", member)
}

// UpdateMember handles PATCH /api/admin/members/{id} (admin only)
func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid member ID", nil)
		return
	}

	var req request.AdminUpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	member, err := h.service.AdminUpdateMember(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err, "update member")
		return
	}

	utils.ResponseSuccess(w, "Member updated successfully", member)
}

// DeleteMember handles DELETE /api/admin/members/{id} (admin only)
func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid member ID", nil)
		return
	}

	if err := h.service.AdminDeleteMember(r.Context(), id); err != nil {
		h.handleServiceError(w, err, "delete member")
		return
	}

	utils.ResponseSuccess(w, "Member deleted successfully", nil)
}

// handleServiceError maps member service errors onto HTTP responses
func (h *MemberHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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
