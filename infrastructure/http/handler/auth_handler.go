package handler

import (
	"encoding/json"
	"net/http"

	"github.com/schedulo/schedulo/application/port/inbound"
	apperr "github.com/schedulo/schedulo/domain/error"
	"github.com/schedulo/schedulo/infrastructure/http/middleware"
	"github.com/schedulo/schedulo/infrastructure/http/response"
	"github.com/schedulo/schedulo/infrastructure/http/validator"
)

type AuthHandler struct {
	sessions inbound.SessionService
}

func NewAuthHandler(sessions inbound.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req inbound.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if !validator.ValidateEmail(req.Email) {
		response.UnprocessableEntity(w, "Invalid email format")
		return
	}
	if !validator.ValidateRequired(req.Password) {
		response.UnprocessableEntity(w, "Password is required")
		return
	}

	result, err := h.sessions.Login(r.Context(), req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "success", result)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req inbound.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if !validator.ValidateRequired(req.Username) {
		response.UnprocessableEntity(w, "Username is required")
		return
	}
	if !validator.ValidateEmail(req.Email) {
		response.UnprocessableEntity(w, "Invalid email format")
		return
	}
	if !validator.ValidatePassword(req.Password) {
		response.UnprocessableEntity(w, "Password must be at least 6 characters")
		return
	}

	result, err := h.sessions.Register(r.Context(), req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "success", result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil || identity.AccountID == "" {
		response.AppError(w, apperr.ErrUnauthenticated("no verified identity"))
		return
	}

	ok, err := h.sessions.Logout(r.Context(), identity.AccountID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "success", ok)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil || identity.RefreshToken == "" {
		response.AppError(w, apperr.ErrAccessDenied())
		return
	}

	pair, err := h.sessions.Refresh(r.Context(), identity.AccountID, identity.RefreshToken)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "success", pair)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil || identity.AccountID == "" {
		response.AppError(w, apperr.ErrUnauthenticated("no verified identity"))
		return
	}

	me, err := h.sessions.Me(r.Context(), identity.AccountID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "success", me)
}
