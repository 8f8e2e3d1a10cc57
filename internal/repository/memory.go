package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/UnknownOlympus/hestia/internal/models"
)

// MemoryRepository keeps employees in process memory. It backs local runs and tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	employees map[string]models.Employee
	order     []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{employees: make(map[string]models.Employee)}
}

func (r *MemoryRepository) InsertEmployee(_ context.Context, employee models.Employee) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employee.ID = uuid.NewString()
	r.employees[employee.ID] = employee
	r.order = append(r.order, employee.ID)

	return employee.ID, nil
}

// ListEmployees returns employees in insertion order.
func (r *MemoryRepository) ListEmployees(_ context.Context) ([]models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employees := make([]models.Employee, 0, len(r.order))
	for _, id := range r.order {
		employees = append(employees, r.employees[id])
	}

	return employees, nil
}

func (r *MemoryRepository) UpdateEmployee(
	_ context.Context,
	identifier string,
	patch models.EmployeePatch,
	updatedAt time.Time,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employee, ok := r.employees[identifier]
	if !ok {
		return 0, nil
	}

	if !patch.Apply(&employee) {
		return 0, nil
	}

	employee.EmpStatus = models.EmpStatusEdited
	employee.UpdatedAt = &updatedAt
	r.employees[employee.ID] = employee

	return 1, nil
}

func (r *MemoryRepository) DeleteEmployee(_ context.Context, identifier string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[identifier]; !ok {
		return 0, nil
	}

	delete(r.employees, identifier)
	for i, id := range r.order {
		if id == identifier {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return 1, nil
}

func (r *MemoryRepository) EmployeeExists(_ context.Context, identifier string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.employees[identifier]
	return ok, nil
}

func (r *MemoryRepository) Ping(_ context.Context) error {
	return nil
}
