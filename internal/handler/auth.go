package handler

import (
	"net/http"

	"github.com/talentoplus/backend/internal/service"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Document string `json:"documento" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	result, err := h.services.Auth.Register(r.Context(), req.Document, req.Email, req.Password)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, result.Message, result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Document string `json:"documento" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	result, err := h.services.Auth.Login(r.Context(), req.Document, req.Password)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "inicio de sesión exitoso", result)
}

func (h *Handler) RequireResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Document string `json:"documento" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.services.Auth.RequestPasswordReset(r.Context(), req.Document); err != nil {
		h.serviceError(w, r, err)
		return
	}

	// 不管账户是否存在都返回同样的信息
	h.successResponse(w, r, service.ResetRequestedMessage, nil)
}

func (h *Handler) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Document string `json:"documento" validate:"required"`
		OTP      string `json:"otp" validate:"required,len=6,numeric"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.services.Auth.ConfirmPasswordReset(r.Context(), req.Document, req.OTP, req.Password); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "contraseña restablecida", nil)
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.services.Auth.ChangePassword(r.Context(), claims.Subject, req.OldPassword, req.NewPassword); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "contraseña actualizada", nil)
}
