package handler

import (
	"net/http"
)

func (h *Handler) GetMyEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := h.services.Employees.Get(r.Context(), employeeIDFromContext(r.Context()))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "información obtenida", employee)
}

func (h *Handler) GetMyResume(w http.ResponseWriter, r *http.Request) {
	h.writeResume(w, r, employeeIDFromContext(r.Context()))
}
