package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/UnknownOlympus/hestia/internal/models"
)

// InsertEmployee saves a new employee to the database and returns its generated identifier.
func (r *Repository) InsertEmployee(ctx context.Context, employee models.Employee) (string, error) {
	defer r.observe("insert_employee", time.Now())

	query := `
		INSERT INTO employees (id, name, email, phone_number, age, gender, department, position,
			employment_status, emp_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	identifier := uuid.NewString()
	_, err := r.db.Exec(ctx, query,
		identifier,
		employee.Name,
		employee.Email,
		employee.PhoneNumber,
		employee.Age,
		employee.Gender,
		int(employee.Department),
		employee.Position,
		int(employee.EmploymentStatus),
		employee.EmpStatus,
		employee.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save employee: %w", err)
	}

	return identifier, nil
}

// ListEmployees returns every employee in the order the database yields them.
func (r *Repository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	defer r.observe("list_employees", time.Now())

	query := `SELECT id, name, email, phone_number, age, gender, department, position, employment_status, ` +
		`emp_status, created_at, updated_at FROM employees`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]models.Employee, 0)
	for rows.Next() {
		var (
			employee         models.Employee
			department       int
			employmentStatus int
		)

		if err = rows.Scan(
			&employee.ID, &employee.Name, &employee.Email, &employee.PhoneNumber, &employee.Age, &employee.Gender,
			&department, &employee.Position, &employmentStatus, &employee.EmpStatus, &employee.CreatedAt,
			&employee.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}

		employee.Department = models.Department(department)
		employee.EmploymentStatus = models.EmploymentStatus(employmentStatus)
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// UpdateEmployee writes the supplied fields of patch, marks the employee as edited and
// refreshes updated_at. The row only matches when at least one supplied value differs
// from the stored one.
func (r *Repository) UpdateEmployee(
	ctx context.Context,
	identifier string,
	patch models.EmployeePatch,
	updatedAt time.Time,
) (int64, error) {
	defer r.observe("update_employee", time.Now())

	args := []any{identifier}
	sets := make([]string, 0)
	conds := make([]string, 0)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		conds = append(conds, fmt.Sprintf("%s IS DISTINCT FROM $%d", column, len(args)))
	}

	for _, field := range patchColumns(patch) {
		add(field.column, field.value)
	}
	if len(sets) == 0 {
		return 0, nil
	}

	args = append(args, models.EmpStatusEdited, updatedAt)
	query := fmt.Sprintf(
		"UPDATE employees SET %s, emp_status = $%d, updated_at = $%d WHERE id = $1 AND (%s);",
		strings.Join(sets, ", "), len(args)-1, len(args), strings.Join(conds, " OR "),
	)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update employee data: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteEmployee removes the employee with the given identifier.
func (r *Repository) DeleteEmployee(ctx context.Context, identifier string) (int64, error) {
	defer r.observe("delete_employee", time.Now())

	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, identifier)
	if err != nil {
		return 0, fmt.Errorf("failed to delete employee: %w", err)
	}

	return tag.RowsAffected(), nil
}

// EmployeeExists reports whether an employee with the given identifier is stored.
func (r *Repository) EmployeeExists(ctx context.Context, identifier string) (bool, error) {
	defer r.observe("employee_exists", time.Now())

	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`, identifier).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return exists, nil
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

type patchColumn struct {
	column string
	value  any
}

// patchColumns lists the supplied fields of patch in a fixed column order.
func patchColumns(patch models.EmployeePatch) []patchColumn {
	columns := make([]patchColumn, 0)

	if patch.Name != nil {
		columns = append(columns, patchColumn{"name", *patch.Name})
	}
	if patch.Email != nil {
		columns = append(columns, patchColumn{"email", *patch.Email})
	}
	if patch.PhoneNumber != nil {
		columns = append(columns, patchColumn{"phone_number", *patch.PhoneNumber})
	}
	if patch.Age != nil {
		columns = append(columns, patchColumn{"age", *patch.Age})
	}
	if patch.Gender != nil {
		columns = append(columns, patchColumn{"gender", *patch.Gender})
	}
	if patch.Department != nil {
		columns = append(columns, patchColumn{"department", int(*patch.Department)})
	}
	if patch.Position != nil {
		columns = append(columns, patchColumn{"position", *patch.Position})
	}
	if patch.EmploymentStatus != nil {
		columns = append(columns, patchColumn{"employment_status", int(*patch.EmploymentStatus)})
	}

	return columns
}
