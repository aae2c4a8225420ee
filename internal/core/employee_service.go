package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// DirectoryService exposes the employee-directory operations consumed by the
// presentation layer. Reads are open to any caller; every mutating call takes
// the caller's AuthContext and requires the Admin role.
type DirectoryService interface {
	// ListEmployees returns every stored record as a transfer model, in the
	// store's natural scan order.
	ListEmployees(ctx context.Context) ([]EmployeeModel, error)

	// GetEmployee returns the record with the given id, or (nil, nil) when
	// no such record exists.
	GetEmployee(ctx context.Context, id int) (*EmployeeModel, error)

	// AddEmployee validates and persists a new record. The store assigns the
	// id; created-at and updated-at are stamped with the current time.
	AddEmployee(ctx context.Context, auth AuthContext, m EmployeeModel) error

	// UpdateEmployee re-translates the model onto the stored record. A
	// missing id is a logged no-op. The stored record keeps its original
	// variant and created-at.
	UpdateEmployee(ctx context.Context, auth AuthContext, m EmployeeModel) error

	// DeleteEmployee removes the record with the given id. A missing id is a
	// logged no-op.
	DeleteEmployee(ctx context.Context, auth AuthContext, id int) error

	// SeedExamples inserts a fixed example roster if and only if the store
	// is empty.
	SeedExamples(ctx context.Context) error
}

type directoryService struct {
	store EmployeeStore
	now   func() time.Time
}

// NewDirectoryService constructs a DirectoryService over the given store.
func NewDirectoryService(store EmployeeStore) DirectoryService {
	return &directoryService{store: store, now: time.Now}
}

func (s *directoryService) ListEmployees(ctx context.Context) ([]EmployeeModel, error) {
	employees, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]EmployeeModel, 0, len(employees))
	for _, e := range employees {
		models = append(models, modelFromEmployee(e))
	}
	return models, nil
}

func (s *directoryService) GetEmployee(ctx context.Context, id int) (*EmployeeModel, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}
	m := modelFromEmployee(*e)
	return &m, nil
}

func (s *directoryService) AddEmployee(ctx context.Context, auth AuthContext, m EmployeeModel) error {
	if !auth.HasRole(RoleAdmin) {
		return fmt.Errorf("add employee: %w", ErrUnauthorized)
	}

	e := &Employee{}
	switch EmploymentType(m.EmploymentType) {
	case EmploymentFullTime, EmploymentPartTime:
		e.Type = EmploymentType(m.EmploymentType)
	default:
		return fmt.Errorf("%w: unknown employment type %q", ErrInvalidArgument, m.EmploymentType)
	}

	if err := applyModel(m, e); err != nil {
		return err
	}

	now := s.now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = &now

	return s.store.Insert(ctx, e)
}

func (s *directoryService) UpdateEmployee(ctx context.Context, auth AuthContext, m EmployeeModel) error {
	if !auth.HasRole(RoleAdmin) {
		return fmt.Errorf("update employee: %w", ErrUnauthorized)
	}

	existing, err := s.store.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		slog.Warn("employee not found for update, skipping", "id", m.ID)
		return nil
	}

	if err := applyModel(m, existing); err != nil {
		return err
	}

	now := s.now().UTC()
	existing.UpdatedAt = &now

	return s.store.Update(ctx, existing)
}

func (s *directoryService) DeleteEmployee(ctx context.Context, auth AuthContext, id int) error {
	if !auth.HasRole(RoleAdmin) {
		return fmt.Errorf("delete employee: %w", ErrUnauthorized)
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		slog.Warn("employee not found for delete, skipping", "id", id)
		return nil
	}

	return s.store.Delete(ctx, id)
}

// applyModel re-translates the wire shape onto an entity. The incoming
// discriminator decides which numeric field is required and which is
// forbidden, but the entity's own variant is never changed: on update the
// variant field is assigned only when the stored variant matches, so a
// disagreeing discriminator cannot migrate a record between variants.
func applyModel(m EmployeeModel, e *Employee) error {
	switch EmploymentType(m.EmploymentType) {
	case EmploymentFullTime:
		if m.Salary == nil || !m.Salary.IsPositive() {
			return fmt.Errorf("%w: Salary is required for Full-Time employees", ErrInvalidArgument)
		}
		if m.HourlyRate != nil {
			return fmt.Errorf("%w: HourlyRate must not be set for Full-Time employees", ErrInvalidArgument)
		}
		if e.Type == EmploymentFullTime {
			e.Salary = cloneDecimal(m.Salary)
		}
	case EmploymentPartTime:
		if m.HourlyRate == nil || !m.HourlyRate.IsPositive() {
			return fmt.Errorf("%w: HourlyRate is required for Part-Time employees", ErrInvalidArgument)
		}
		if m.Salary != nil {
			return fmt.Errorf("%w: Salary must not be set for Part-Time employees", ErrInvalidArgument)
		}
		if e.Type == EmploymentPartTime {
			e.HourlyRate = cloneDecimal(m.HourlyRate)
		}
	default:
		return fmt.Errorf("%w: unknown employment type %q", ErrInvalidArgument, m.EmploymentType)
	}

	e.FirstName = m.FirstName
	e.LastName = m.LastName
	e.Email = m.Email
	e.Department = m.Department
	e.JobTitle = m.JobTitle
	e.Status = m.Status
	e.HireDate = m.HireDate.UTC()
	return nil
}

func (s *directoryService) SeedExamples(ctx context.Context) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		slog.Error("failed to count employees before seeding", "error", err)
		return err
	}
	if count > 0 {
		return nil
	}

	now := s.now().UTC()
	for _, e := range exampleRoster() {
		e.CreatedAt = now
		e.UpdatedAt = &now
		if err := s.store.Insert(ctx, &e); err != nil {
			slog.Error("failed to seed example employee", "email", e.Email, "error", err)
			return err
		}
	}
	return nil
}

// exampleRoster is the fixed demo data set: a mix of both variants and all
// four status values.
func exampleRoster() []Employee {
	salaried := func(first, last, email, dept, title, status string, hired time.Time, salary int64) Employee {
		d := decimal.NewFromInt(salary)
		return Employee{
			FirstName: first, LastName: last, Email: email,
			Department: dept, JobTitle: title, Status: status,
			HireDate: hired, Type: EmploymentFullTime, Salary: &d,
		}
	}
	hourly := func(first, last, email, dept, title, status string, hired time.Time, rate string) Employee {
		d := decimal.RequireFromString(rate)
		return Employee{
			FirstName: first, LastName: last, Email: email,
			Department: dept, JobTitle: title, Status: status,
			HireDate: hired, Type: EmploymentPartTime, HourlyRate: &d,
		}
	}
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	return []Employee{
		salaried("Alice", "Nguyen", "alice.nguyen@example.com", "Engineering", "Senior Developer", "Active", date(2019, time.March, 11), 112000),
		salaried("Marcus", "Webb", "marcus.webb@example.com", "Engineering", "Developer", "Active", date(2021, time.June, 1), 87000),
		salaried("Priya", "Sharma", "priya.sharma@example.com", "Finance", "Accountant", "Active", date(2020, time.January, 20), 74000),
		salaried("Tom", "Okafor", "tom.okafor@example.com", "Sales", "Account Executive", "On Leave", date(2018, time.September, 3), 69000),
		salaried("Elena", "Rossi", "elena.rossi@example.com", "Human Resources", "HR Manager", "Active", date(2017, time.May, 15), 81000),
		salaried("David", "Kim", "david.kim@example.com", "Engineering", "Engineering Manager", "Inactive", date(2016, time.November, 7), 128000),
		hourly("Sofia", "Martinez", "sofia.martinez@example.com", "Support", "Support Agent", "Active", date(2022, time.February, 14), "24.50"),
		hourly("James", "O'Connor", "james.oconnor@example.com", "Operations", "Warehouse Clerk", "Active", date(2023, time.July, 10), "19.75"),
		hourly("Mei", "Lin", "mei.lin@example.com", "Marketing", "Content Writer", "On Leave", date(2021, time.October, 4), "32.00"),
		hourly("Robert", "Hall", "robert.hall@example.com", "Support", "Support Agent", "Terminated", date(2020, time.April, 27), "22.25"),
	}
}
