package adaptor

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"library-management/internal/dto/request"
	"library-management/internal/usecase"
	"library-management/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	tokens  usecase.TokenService
	config  utils.SessionConfig
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, tokens usecase.TokenService, config utils.SessionConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		tokens:  tokens,
		config:  config,
		log:     log,
	}
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req request.SignUpRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	member, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "sign up")
		return
	}

	utils.ResponseCreated(w, "Account created successfully", member)
}

// SignIn handles POST /api/auth/signin. On success the session id is written
// as a cookie; the body carries the member plus the optional token pair.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req request.SignInRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	userAgent, ipAddr := clientMeta(r)

	resp, session, err := h.service.SignIn(r.Context(), &req, userAgent, ipAddr)
	if err != nil {
		h.handleServiceError(w, err, "sign in")
		return
	}

	setSessionCookie(w, h.config, session.ID)

	utils.ResponseSuccess(w, "Signed in successfully", resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	member, err := h.service.CurrentMember(r.Context(), memberID)
	if err != nil {
		h.handleServiceError(w, err, "get current member")
		return
	}

	utils.ResponseSuccess(w, "Member retrieved successfully", member)
}

// SignOut handles POST /api/auth/signout. The cookie is cleared even when the
// session row was already revoked; signing out twice is not an error.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := utils.GetSessionIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	clearSessionCookie(w, h.config)

	if err := h.service.SignOut(r.Context(), sessionID); err != nil && !strings.Contains(err.Error(), "not found") {
		h.handleServiceError(w, err, "sign out")
		return
	}

	utils.ResponseSuccess(w, "Signed out successfully", nil)
}

// SignOutEverywhere handles POST /api/auth/signout-all
func (h *AuthHandler) SignOutEverywhere(w http.ResponseWriter, r *http.Request) {
	memberID, ok := utils.GetMemberIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	clearSessionCookie(w, h.config)

	count, err := h.service.SignOutEverywhere(r.Context(), memberID)
	if err != nil {
		h.handleServiceError(w, err, "sign out everywhere")
		return
	}

	utils.ResponseSuccess(w, "Signed out everywhere", map[string]int64{"revoked": count})
}

// Refresh handles POST /api/auth/refresh for token-based API clients.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	pair, _, err := h.tokens.Refresh(req.RefreshToken)
	if err != nil {
		h.log.Warn("Refresh failed", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid refresh token")
		return
	}

	utils.ResponseSuccess(w, "Token refreshed successfully", pair)
}

// clientMeta extracts the user agent and client IP recorded on the session.
func clientMeta(r *http.Request) (*string, *string) {
	var userAgent, ipAddr *string

	if ua := r.UserAgent(); ua != "" {
		userAgent = &ua
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != "" {
		ipAddr = &host
	}

	return userAgent, ipAddr
}

// handleServiceError maps auth service errors onto HTTP responses
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "already registered"):
		h.log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case strings.Contains(errMsg, "invalid credentials"):
		h.log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, errMsg)

	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	default:
		h.log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
