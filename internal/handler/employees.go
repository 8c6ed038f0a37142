package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/talentoplus/backend/internal/domain"
	"github.com/talentoplus/backend/internal/service"
)

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.services.Employees.List(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "empleados obtenidos", employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := h.services.Employees.Get(r.Context(), employeeIDFromContext(r.Context()))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "empleado obtenido", employee)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeInput

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee, err := h.services.Employees.Create(r.Context(), &req)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/employees/"+strconv.FormatInt(employee.ID, 10))
	h.writeJSON(w, r, http.StatusCreated, Response{
		Success: true,
		Message: "empleado creado",
		Data:    employee,
	})
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeFields

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee, err := h.services.Employees.Update(r.Context(), employeeIDFromContext(r.Context()), &req)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "empleado actualizado", employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	found, err := h.services.Employees.Delete(r.Context(), employeeIDFromContext(r.Context()))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !found {
		h.notFound(w, r, domain.ErrNotFound.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetEmployeeResume(w http.ResponseWriter, r *http.Request) {
	h.writeResume(w, r, employeeIDFromContext(r.Context()))
}

func (h *Handler) writeResume(w http.ResponseWriter, r *http.Request, id int64) {
	pdf, filename, err := h.services.Employees.Resume(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) ImportEmployees(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxUploadSize)
	if err := r.ParseMultipartForm(h.config.Server.MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorResponse(w, r, http.StatusRequestEntityTooLarge, "el archivo es demasiado grande")
			return
		}
		h.serviceError(w, r, domain.ErrInvalidFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.serviceError(w, r, domain.ErrInvalidFile)
		return
	}
	defer file.Close()

	result, err := h.services.Importer.Import(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, result.Message, result)
}
