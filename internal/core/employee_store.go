package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Querier is the subset of pgxpool.Pool the stores need. pgxmock satisfies
// it too, which keeps the store layer testable without a live database.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EmployeeStore persists employee records under a single integer key-space.
// GetByID returns (nil, nil) when no record has the id; all other failures
// propagate unchanged.
type EmployeeStore interface {
	GetAll(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id int) (*Employee, error)

	// Insert persists a new record and assigns its ID.
	Insert(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type pgEmployeeStore struct {
	db Querier
}

// NewEmployeeStore constructs an EmployeeStore backed by PostgreSQL.
func NewEmployeeStore(db Querier) EmployeeStore {
	return &pgEmployeeStore{db: db}
}

const employeeColumns = `id, first_name, last_name, email, department, job_title,
       status, hire_date, employee_type, salary, hourly_rate, created_at, updated_at`

func (s *pgEmployeeStore) GetAll(ctx context.Context) ([]Employee, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+employeeColumns+`
		FROM employees`,
	)
	if err != nil {
		return nil, fmt.Errorf("get all employees: %w", err)
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get all employees: %w", err)
	}
	return employees, nil
}

func (s *pgEmployeeStore) GetByID(ctx context.Context, id int) (*Employee, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE id = $1`,
		id,
	)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee id=%d: %w", id, err)
	}
	return e, nil
}

func (s *pgEmployeeStore) Insert(ctx context.Context, e *Employee) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO employees (first_name, last_name, email, department, job_title,
		                       status, hire_date, employee_type, salary, hourly_rate,
		                       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		e.FirstName, e.LastName, e.Email, e.Department, e.JobTitle,
		e.Status, e.HireDate, string(e.Type), nullDecimal(e.Salary), nullDecimal(e.HourlyRate),
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert employee %q: %w", e.Email, err)
	}
	return nil
}

func (s *pgEmployeeStore) Update(ctx context.Context, e *Employee) error {
	_, err := s.db.Exec(ctx, `
		UPDATE employees
		SET first_name = $1, last_name = $2, email = $3, department = $4,
		    job_title = $5, status = $6, hire_date = $7, employee_type = $8,
		    salary = $9, hourly_rate = $10, updated_at = $11
		WHERE id = $12`,
		e.FirstName, e.LastName, e.Email, e.Department,
		e.JobTitle, e.Status, e.HireDate, string(e.Type),
		nullDecimal(e.Salary), nullDecimal(e.HourlyRate), e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("update employee id=%d: %w", e.ID, err)
	}
	return nil
}

func (s *pgEmployeeStore) Delete(ctx context.Context, id int) error {
	_, err := s.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee id=%d: %w", id, err)
	}
	return nil
}

func (s *pgEmployeeStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return n, nil
}

// scanEmployee maps one row onto the tagged-union shape: the nullable
// salary/hourly_rate columns become pointers, set only for their variant.
func scanEmployee(row pgx.Row) (*Employee, error) {
	var (
		e          Employee
		empType    string
		salary     decimal.NullDecimal
		hourlyRate decimal.NullDecimal
	)
	if err := row.Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.JobTitle,
		&e.Status, &e.HireDate, &empType, &salary, &hourlyRate, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Type = EmploymentType(empType)
	if salary.Valid {
		e.Salary = &salary.Decimal
	}
	if hourlyRate.Valid {
		e.HourlyRate = &hourlyRate.Decimal
	}
	return &e, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
