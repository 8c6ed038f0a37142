package handler

import (
	"net/http"
)

func (h *Handler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.services.Dashboard.KPIs(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "indicadores obtenidos", kpis)
}

func (h *Handler) QueryAssistant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// AI 调用失败时仍然返回 200，由 degradada 字段标识
	answer, err := h.services.Assistant.Ask(r.Context(), req.Question)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "consulta procesada", answer)
}
