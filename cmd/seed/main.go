package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tamathecxder/randomail"

	"github.com/UnknownOlympus/hestia/internal/config"
	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/UnknownOlympus/hestia/internal/services/employees"
)

var (
	firstNames = []string{"Jane", "John", "Olena", "Taras", "Maria", "Andrii", "Sofia", "Mark"}
	lastNames  = []string{"Doe", "Smith", "Kovalenko", "Shevchenko", "Bondar", "Melnyk"}
)

// seed registers random demo employees through the regular service path.
func main() {
	count := flag.Int("count", 20, "number of employees to register")
	flag.Parse()

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := context.Background()

	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	store, closeStore, err := repository.Open(ctx, cfg, appMetrics)
	if err != nil {
		log.Fatalf("Failed to connect to the record store: %v", err)
	}
	defer func() { _ = closeStore(ctx) }()

	staff := employees.NewStaff(logger, store, appMetrics)

	created := 0
	for range *count {
		_, err = staff.Create(ctx, randomEmployee())

		var validationErr *employees.ValidationError
		switch {
		case errors.As(err, &validationErr):
			logger.WarnContext(ctx, "Skipping generated employee", sl.Err(err))
		case err != nil:
			logger.ErrorContext(ctx, "Seeding aborted", sl.Err(err))
			return
		default:
			created++
		}
	}

	logger.InfoContext(ctx, "Seeding finished", "created", created, "requested", *count)
}

func randomEmployee() models.EmployeeInput {
	name := fmt.Sprintf("%s %s", pick(firstNames), pick(lastNames))
	email := randomail.GenerateRandomEmail()
	phone := fmt.Sprintf("%010d", rand.Int64N(10_000_000_000))
	age := models.Value(strconv.Itoa(18 + rand.IntN(38)))
	gender := pick(models.Genders)
	department := models.Value(pick(models.DepartmentLabels()))
	position := pick(models.Positions)
	status := models.Value(pick(models.EmploymentStatusLabels()))

	return models.EmployeeInput{
		Name:             &name,
		Email:            &email,
		PhoneNumber:      &phone,
		Age:              &age,
		Gender:           &gender,
		Department:       &department,
		Position:         &position,
		EmploymentStatus: &status,
	}
}

func pick[T any](values []T) T {
	return values[rand.IntN(len(values))] //nolint:gosec // demo data
}
