package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/services/employees"
)

const (
	servicePath = "/api/service"
	summaryPath = servicePath + "/summary"

	shutdownTimeout = 10 * time.Second
)

// EmployeeService is the employee registry consumed by the API.
type EmployeeService interface {
	Create(ctx context.Context, in models.EmployeeInput) (models.InsertResult, error)
	List(ctx context.Context) ([]models.Employee, error)
	Update(ctx context.Context, id string, in models.EmployeeInput) error
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (models.Summary, error)
}

type employeeHandler struct {
	log *slog.Logger
	svc EmployeeService
}

// NewAPI builds the employee API. Requests to /api/service are dispatched by method,
// any method other than POST, GET, PUT and DELETE is answered with 405.
func NewAPI(log *slog.Logger, svc EmployeeService, metrics *metrics.Metrics, allowOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "hestia",
		DisableStartupMessage: true,
		Immutable:             true,
		ErrorHandler:          errorHandler,
	})

	app.Use(requestID())
	app.Use(observe(log, metrics))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, " + requestIDHeader,
	}))

	h := &employeeHandler{log: log, svc: svc}

	app.Get(summaryPath, h.summary)
	app.All(summaryPath, methodNotAllowed)

	app.Post(servicePath, h.create)
	app.Get(servicePath, h.list)
	app.Put(servicePath, h.update)
	app.Delete(servicePath, h.remove)
	app.All(servicePath, methodNotAllowed)

	return app
}

// StartAPIServer serves app on port until ctx is cancelled.
func StartAPIServer(ctx context.Context, log *slog.Logger, app *fiber.App, port int) error {
	errCh := make(chan error, 1)

	go func() {
		log.InfoContext(ctx, "Starting API server", "port", port)
		errCh <- app.Listen(fmt.Sprintf(":%d", port))
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	log.InfoContext(ctx, "Shutting down API server...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("API server shutdown failed: %w", err)
	}
	log.InfoContext(ctx, "API server stopped")

	return nil
}

func (h *employeeHandler) create(c *fiber.Ctx) error {
	var in models.EmployeeInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	result, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err, "Error saving employee")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Employee registered successfully",
		"data":    result,
	})
}

func (h *employeeHandler) list(c *fiber.Ctx) error {
	list, err := h.svc.List(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Error fetching employee data")
	}
	if list == nil {
		list = []models.Employee{}
	}

	return c.JSON(fiber.Map{
		"message": "Employee data fetched successfully",
		"data":    list,
	})
}

func (h *employeeHandler) update(c *fiber.Ctx) error {
	identifier := c.Query("id")
	if identifier == "" {
		return h.fail(c, employees.ErrMissingID, "")
	}

	var (
		in   models.EmployeeInput
		echo map[string]any
	)
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := c.BodyParser(&echo); err != nil {
		return invalidBody(c)
	}

	if err := h.svc.Update(c.UserContext(), identifier, in); err != nil {
		return h.fail(c, err, "Error updating employee")
	}

	return c.JSON(fiber.Map{
		"message": "Employee updated successfully",
		"data":    echo,
	})
}

func (h *employeeHandler) remove(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Query("id")); err != nil {
		return h.fail(c, err, "Error deleting employee")
	}

	return c.JSON(fiber.Map{"message": "Employee deleted successfully"})
}

func (h *employeeHandler) summary(c *fiber.Ctx) error {
	summary, err := h.svc.Summary(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Error fetching employee data")
	}

	return c.JSON(fiber.Map{
		"message": "Employee summary fetched successfully",
		"data":    summary,
	})
}

// fail maps service errors onto responses. Anything that is not a client error is
// reported with storeMessage and its detail is only logged.
func (h *employeeHandler) fail(c *fiber.Ctx, err error, storeMessage string) error {
	var validationErr *employees.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErr.Fields,
		})
	case errors.Is(err, employees.ErrMissingID):
		return message(c, fiber.StatusBadRequest, "ID is required")
	case errors.Is(err, employees.ErrNoModification):
		return message(c, fiber.StatusBadRequest, "No changes made to the employee")
	case errors.Is(err, employees.ErrNotFound):
		return message(c, fiber.StatusNotFound, "Employee not found")
	default:
		h.log.ErrorContext(c.UserContext(), storeMessage,
			"method", c.Method(), "request_id", c.Locals(requestIDKey), sl.Err(err))
		return message(c, fiber.StatusInternalServerError, storeMessage)
	}
}

func methodNotAllowed(c *fiber.Ctx) error {
	return message(c, fiber.StatusMethodNotAllowed, "Method Not Allowed")
}

func invalidBody(c *fiber.Ctx) error {
	return message(c, fiber.StatusBadRequest, "Invalid request body")
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// errorHandler renders errors that escaped the handlers, such as unknown routes.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		msg = fiberErr.Message
	}

	return message(c, status, msg)
}
