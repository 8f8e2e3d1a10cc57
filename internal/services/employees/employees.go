package employees

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/hestia/internal/legacy"
	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

type Staff struct {
	log     *slog.Logger
	repo    repository.EmployeeRepoIface
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewStaff(log *slog.Logger, repo repository.EmployeeRepoIface, metrics *metrics.Metrics) *Staff {
	return &Staff{
		log:     log,
		repo:    repo,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "employee"),
	)
}

func (s *Staff) record(operation string, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}
	s.metrics.Operations.WithLabelValues(operation, outcome).Inc()
}

func (s *Staff) rejected(errs *fieldErrors) error {
	for field := range errs.fields {
		s.metrics.ValidationFailures.WithLabelValues(field).Inc()
	}

	return errs.err()
}

// Create validates a complete employee payload and stores it as a new record.
// Payloads in the legacy fullName/phone shape are upgraded before validation. That shape
// carries no age, gender or employmentStatus, so those fields must be sent alongside it.
func (s *Staff) Create(ctx context.Context, in models.EmployeeInput) (_ models.InsertResult, err error) {
	const opn = "Employee.Create"
	log := s.initLogger(opn)
	defer func() { s.record("create", err) }()

	errs := newFieldErrors(nil)
	if in.IsLegacy() {
		log.DebugContext(ctx, "Upgrading legacy employee payload")
		errs = newFieldErrors(legacy.FieldNames)
		errs.merge(legacy.Validate(in))

		upgraded, upgradeErrs := legacy.Upgrade(in)
		errs.merge(upgradeErrs)
		in = upgraded
	}

	patch := buildPatch(in, true, errs)
	if err = s.rejected(errs); err != nil {
		log.InfoContext(ctx, "Employee rejected", sl.Err(err))
		return models.InsertResult{}, err
	}

	employee := models.Employee{
		Name:             *patch.Name,
		Email:            *patch.Email,
		PhoneNumber:      *patch.PhoneNumber,
		Age:              *patch.Age,
		Gender:           *patch.Gender,
		Department:       *patch.Department,
		Position:         *patch.Position,
		EmploymentStatus: *patch.EmploymentStatus,
		EmpStatus:        models.EmpStatusNew,
		CreatedAt:        s.now(),
	}

	identifier, err := s.repo.InsertEmployee(ctx, employee)
	if err != nil {
		log.ErrorContext(ctx, "Failed to save employee", sl.Err(err))
		return models.InsertResult{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	log.InfoContext(ctx, "Employee registered", "id", identifier, "name", employee.Name)
	return models.InsertResult{InsertedID: identifier}, nil
}

// List returns every stored employee. Order follows the store and is not stable across calls.
func (s *Staff) List(ctx context.Context) (_ []models.Employee, err error) {
	const opn = "Employee.List"
	log := s.initLogger(opn)
	defer func() { s.record("list", err) }()

	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch employees", sl.Err(err))
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	log.DebugContext(ctx, "Employees fetched", "count", len(employees))
	return employees, nil
}

// Update writes the supplied fields of in to the employee with the given identifier.
// It fails with ErrNoModification when nothing changed and with ErrNotFound when
// no employee has that identifier.
func (s *Staff) Update(ctx context.Context, identifier string, in models.EmployeeInput) (err error) {
	const opn = "Employee.Update"
	log := s.initLogger(opn)
	defer func() { s.record("update", err) }()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return ErrMissingID
	}
	log = log.With("id", identifier)

	errs := newFieldErrors(nil)
	patch := buildPatch(in, false, errs)
	if err = s.rejected(errs); err != nil {
		log.InfoContext(ctx, "Employee update rejected", sl.Err(err))
		return err
	}
	if patch.IsEmpty() {
		return ErrNoModification
	}

	modified, err := s.repo.UpdateEmployee(ctx, identifier, patch, s.now())
	if err != nil {
		log.ErrorContext(ctx, "Failed to update employee", sl.Err(err))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if modified == 0 {
		exists, existsErr := s.repo.EmployeeExists(ctx, identifier)
		if existsErr != nil {
			log.ErrorContext(ctx, "Failed to look up employee", sl.Err(existsErr))
			return fmt.Errorf("%w: %w", ErrPersistence, existsErr)
		}
		if !exists {
			return ErrNotFound
		}

		log.DebugContext(ctx, "Employee already holds the supplied values")
		return ErrNoModification
	}

	log.InfoContext(ctx, "Employee updated")
	return nil
}

// Delete removes the employee with the given identifier.
func (s *Staff) Delete(ctx context.Context, identifier string) (err error) {
	const opn = "Employee.Delete"
	log := s.initLogger(opn)
	defer func() { s.record("delete", err) }()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return ErrMissingID
	}

	deleted, err := s.repo.DeleteEmployee(ctx, identifier)
	if err != nil {
		log.ErrorContext(ctx, "Failed to delete employee", "id", identifier, sl.Err(err))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if deleted == 0 {
		return ErrNotFound
	}

	log.InfoContext(ctx, "Employee deleted", "id", identifier)
	return nil
}

// Summary aggregates the stored employees for the dashboard.
func (s *Staff) Summary(ctx context.Context) (models.Summary, error) {
	employees, err := s.List(ctx)
	if err != nil {
		return models.Summary{}, err
	}

	return Summarize(employees), nil
}

// Summarize counts employees per gender, department and employment status.
// Codes are rendered through the shared label tables.
func Summarize(employees []models.Employee) models.Summary {
	summary := models.Summary{
		TotalEmployees:         len(employees),
		GenderDistribution:     make(map[string]int),
		DepartmentDistribution: make(map[string]int),
		EmploymentStatus:       make(map[string]int),
	}

	for _, employee := range employees {
		summary.GenderDistribution[employee.Gender]++
		summary.DepartmentDistribution[employee.Department.Label()]++
		summary.EmploymentStatus[employee.EmploymentStatus.Label()]++
		if employee.EmpStatus == models.EmpStatusEdited {
			summary.EditedEmployees++
		}
	}
	summary.TotalDepartments = len(summary.DepartmentDistribution)

	return summary
}
