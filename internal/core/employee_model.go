package core

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// EmploymentType discriminates the two persisted employee variants.
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FullTime"
	EmploymentPartTime EmploymentType = "PartTime"

	// EmploymentUnknown is the defensive fallback when a stored row carries a
	// discriminator outside the closed set. It should never occur.
	EmploymentUnknown EmploymentType = "Unknown"
)

// Employee is the persisted record. It is a tagged union: Type selects the
// variant, and exactly one of Salary (FullTime) or HourlyRate (PartTime) is
// set; the other stays nil at the storage layer.
type Employee struct {
	ID         int
	FirstName  string
	LastName   string
	Email      string
	Department string
	JobTitle   string
	Status     string
	HireDate   time.Time
	Type       EmploymentType
	Salary     *decimal.Decimal
	HourlyRate *decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// EmployeeModel is the flattened wire shape used in both directions. Unlike
// the entity it carries fields for both variants; which one must be present
// is decided by EmploymentType.
type EmployeeModel struct {
	ID             int              `json:"id"`
	FirstName      string           `json:"firstName" validate:"required,max=50"`
	LastName       string           `json:"lastName" validate:"required,max=50"`
	Email          string           `json:"email" validate:"required,email,max=100"`
	Department     string           `json:"department" validate:"required,max=50"`
	JobTitle       string           `json:"jobTitle" validate:"required,max=50"`
	Status         string           `json:"status" validate:"required,max=20"`
	HireDate       time.Time        `json:"hireDate" validate:"required"`
	EmploymentType string           `json:"employmentType" validate:"required"`
	Salary         *decimal.Decimal `json:"salary,omitempty"`
	HourlyRate     *decimal.Decimal `json:"hourlyRate,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      *time.Time       `json:"updatedAt,omitempty"`
}

var modelValidator = newModelValidator()

func newModelValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(employeeModelStructLevel, EmployeeModel{})
	return v
}

// ModelValidator exposes the shared validator so transport layers can attach
// message translations to it.
func ModelValidator() *validator.Validate {
	return modelValidator
}

// employeeModelStructLevel enforces the cross-field rule at the model layer:
// the variant selected by EmploymentType requires its own positive numeric
// field and forbids the other one.
func employeeModelStructLevel(sl validator.StructLevel) {
	m := sl.Current().Interface().(EmployeeModel)

	switch EmploymentType(m.EmploymentType) {
	case EmploymentFullTime:
		if m.Salary == nil || !m.Salary.IsPositive() {
			sl.ReportError(m.Salary, "Salary", "salary", "required_for_fulltime", "")
		}
		if m.HourlyRate != nil {
			sl.ReportError(m.HourlyRate, "HourlyRate", "hourlyRate", "excluded_for_fulltime", "")
		}
	case EmploymentPartTime:
		if m.HourlyRate == nil || !m.HourlyRate.IsPositive() {
			sl.ReportError(m.HourlyRate, "HourlyRate", "hourlyRate", "required_for_parttime", "")
		}
		if m.Salary != nil {
			sl.ReportError(m.Salary, "Salary", "salary", "excluded_for_parttime", "")
		}
	default:
		sl.ReportError(m.EmploymentType, "EmploymentType", "employmentType", "employment_type", "")
	}
}

// Validate runs field-level and cross-field validation on the model.
func (m *EmployeeModel) Validate() error {
	return modelValidator.Struct(m)
}

// modelFromEmployee flattens an entity into its wire shape. Rows with a
// discriminator outside the closed set are surfaced as "Unknown" with a
// warning instead of failing the whole listing.
func modelFromEmployee(e Employee) EmployeeModel {
	m := EmployeeModel{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Department: e.Department,
		JobTitle:   e.JobTitle,
		Status:     e.Status,
		HireDate:   e.HireDate,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  cloneTime(e.UpdatedAt),
	}

	switch e.Type {
	case EmploymentFullTime:
		m.EmploymentType = string(EmploymentFullTime)
		m.Salary = cloneDecimal(e.Salary)
	case EmploymentPartTime:
		m.EmploymentType = string(EmploymentPartTime)
		m.HourlyRate = cloneDecimal(e.HourlyRate)
	default:
		slog.Warn("employee row has unrecognized employment type", "id", e.ID, "type", e.Type)
		m.EmploymentType = string(EmploymentUnknown)
	}

	return m
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
