package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"employee-directory/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.directory.ListEmployees(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, employees)
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(w, r)
	if !ok {
		return
	}

	employee, err := h.directory.GetEmployee(r.Context(), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if employee == nil {
		writeError(w, r, "employee not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, employee)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var m core.EmployeeModel
	if !decodeJSON(w, r, &m) {
		return
	}
	if !h.validateModel(w, r, &m) {
		return
	}

	if err := h.directory.AddEmployee(r.Context(), authFromContext(r.Context()), m); err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(w, r)
	if !ok {
		return
	}

	var m core.EmployeeModel
	if !decodeJSON(w, r, &m) {
		return
	}
	m.ID = id
	if !h.validateModel(w, r, &m) {
		return
	}

	if err := h.directory.UpdateEmployee(r.Context(), authFromContext(r.Context()), m); err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(w, r)
	if !ok {
		return
	}

	if err := h.directory.DeleteEmployee(r.Context(), authFromContext(r.Context()), id); err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// employeeID parses the {id} route parameter, writing a 400 on failure.
func employeeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid employee id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// validateModel runs struct validation and writes a 400 with the translated
// field messages on failure.
func (h *Handler) validateModel(w http.ResponseWriter, r *http.Request, m *core.EmployeeModel) bool {
	err := m.Validate()
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		messages := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			switch fe.Tag() {
			case "required_for_fulltime":
				messages = append(messages, "Salary is required for Full-Time employees")
			case "excluded_for_fulltime":
				messages = append(messages, "HourlyRate must not be set for Full-Time employees")
			case "required_for_parttime":
				messages = append(messages, "HourlyRate is required for Part-Time employees")
			case "excluded_for_parttime":
				messages = append(messages, "Salary must not be set for Part-Time employees")
			case "employment_type":
				messages = append(messages, "EmploymentType must be FullTime or PartTime")
			default:
				messages = append(messages, fe.Translate(h.translator))
			}
		}
		writeError(w, r, strings.Join(messages, "; "), "VALIDATION_FAILED", http.StatusBadRequest)
		return false
	}

	writeError(w, r, "invalid employee payload", "BAD_REQUEST", http.StatusBadRequest)
	return false
}
