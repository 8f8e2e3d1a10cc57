package repository

import (
	"context"
	"errors"
	"time"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
)

// ErrConnection is returned when the record store cannot be reached.
var ErrConnection = errors.New("record store connection failed")

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
//
// ListEmployees returns documents in store-native order, which is not stable across calls.
// UpdateEmployee returns the number of modified records: writing values equal to the stored
// ones, or addressing an unknown id, modifies nothing.
type EmployeeRepoIface interface {
	InsertEmployee(ctx context.Context, employee models.Employee) (string, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, id string, patch models.EmployeePatch, updatedAt time.Time) (int64, error)
	DeleteEmployee(ctx context.Context, id string) (int64, error)
	EmployeeExists(ctx context.Context, id string) (bool, error)
}

// Store is an employee repository that can report its own health.
type Store interface {
	EmployeeRepoIface
	Ping(ctx context.Context) error
}

// Repository is the PostgreSQL implementation of Store.
type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

func NewEmployeeRepository(db Database, metrics *metrics.Metrics) *Repository {
	return &Repository{db: db, metrics: metrics}
}

func (r *Repository) observe(queryType string, startTime time.Time) {
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}
