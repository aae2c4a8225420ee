package core

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func hasTag(err error, field, tag string) bool {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return false
	}
	for _, fe := range fieldErrs {
		if fe.Field() == field && fe.Tag() == tag {
			return true
		}
	}
	return false
}

func TestEmployeeModelValidate(t *testing.T) {
	t.Run("valid full-time model", func(t *testing.T) {
		m := fullTimeModel()
		if err := m.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
	})

	t.Run("valid part-time model", func(t *testing.T) {
		m := partTimeModel()
		if err := m.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
	})

	t.Run("full-time requires a positive salary", func(t *testing.T) {
		m := fullTimeModel()
		m.Salary = nil
		if err := m.Validate(); !hasTag(err, "Salary", "required_for_fulltime") {
			t.Fatalf("expected salary violation, got %v", err)
		}

		zero := decimal.Zero
		m.Salary = &zero
		if err := m.Validate(); !hasTag(err, "Salary", "required_for_fulltime") {
			t.Fatalf("expected salary violation for zero, got %v", err)
		}
	})

	t.Run("full-time forbids an hourly rate", func(t *testing.T) {
		m := fullTimeModel()
		rate := decimal.RequireFromString("10.00")
		m.HourlyRate = &rate
		if err := m.Validate(); !hasTag(err, "HourlyRate", "excluded_for_fulltime") {
			t.Fatalf("expected hourly-rate violation, got %v", err)
		}
	})

	t.Run("part-time requires a positive hourly rate", func(t *testing.T) {
		m := partTimeModel()
		m.HourlyRate = nil
		if err := m.Validate(); !hasTag(err, "HourlyRate", "required_for_parttime") {
			t.Fatalf("expected hourly-rate violation, got %v", err)
		}
	})

	t.Run("part-time forbids a salary", func(t *testing.T) {
		m := partTimeModel()
		salary := decimal.NewFromInt(50000)
		m.Salary = &salary
		if err := m.Validate(); !hasTag(err, "Salary", "excluded_for_parttime") {
			t.Fatalf("expected salary violation, got %v", err)
		}
	})

	t.Run("unknown employment type", func(t *testing.T) {
		m := fullTimeModel()
		m.EmploymentType = "Freelance"
		if err := m.Validate(); !hasTag(err, "EmploymentType", "employment_type") {
			t.Fatalf("expected employment-type violation, got %v", err)
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		m := fullTimeModel()
		m.FirstName = ""
		m.Email = "not-an-email"
		err := m.Validate()
		if !hasTag(err, "FirstName", "required") {
			t.Errorf("expected FirstName required violation, got %v", err)
		}
		if !hasTag(err, "Email", "email") {
			t.Errorf("expected Email format violation, got %v", err)
		}
	})
}

func TestModelFromEmployee(t *testing.T) {
	t.Run("full-time", func(t *testing.T) {
		salary := decimal.NewFromInt(88000)
		hired := time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC)
		e := Employee{
			ID: 3, FirstName: "Nora", LastName: "Frey", Email: "nora.frey@example.com",
			Department: "Finance", JobTitle: "Analyst", Status: "Active",
			HireDate: hired, Type: EmploymentFullTime, Salary: &salary,
			CreatedAt: hired,
		}

		m := modelFromEmployee(e)
		if m.EmploymentType != string(EmploymentFullTime) {
			t.Errorf("employment type = %q", m.EmploymentType)
		}
		if m.Salary == nil || !m.Salary.Equal(salary) {
			t.Errorf("salary = %v", m.Salary)
		}
		if m.HourlyRate != nil {
			t.Errorf("hourly rate = %v", m.HourlyRate)
		}

		// The model must carry a copy, not alias the entity's field.
		doubled := m.Salary.Add(salary)
		*m.Salary = doubled
		if !e.Salary.Equal(salary) {
			t.Error("mutating the model changed the entity")
		}
	})

	t.Run("unrecognized stored type falls back to Unknown", func(t *testing.T) {
		e := Employee{ID: 9, Type: EmploymentType("Contractor")}
		m := modelFromEmployee(e)
		if m.EmploymentType != string(EmploymentUnknown) {
			t.Fatalf("employment type = %q", m.EmploymentType)
		}
		if m.Salary != nil || m.HourlyRate != nil {
			t.Error("numeric fields should stay nil for Unknown")
		}
	})
}
