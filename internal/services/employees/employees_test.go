package employees_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/services/employees"
	mocks "github.com/UnknownOlympus/hestia/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validBody = `{
	"name": "Jane Doe",
	"email": "jane@x.com",
	"phoneNumber": "1234567890",
	"age": 30,
	"gender": "Female",
	"department": "Finance & Accounting",
	"position": "Member",
	"employmentStatus": "Full Time"
}`

func input(t *testing.T, body string) models.EmployeeInput {
	t.Helper()

	var in models.EmployeeInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	return in
}

// withField returns validBody with one field replaced by a raw JSON value.
func withField(t *testing.T, field, raw string) models.EmployeeInput {
	t.Helper()

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(validBody), &fields))
	fields[field] = json.RawMessage(raw)

	body, err := json.Marshal(fields)
	require.NoError(t, err)

	return input(t, string(body))
}

func newStaff(t *testing.T) (*employees.Staff, *mocks.EmployeeRepoIface, *metrics.Metrics) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := mocks.NewEmployeeRepoIface(t)
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())

	return employees.NewStaff(logger, repo, appMetrics), repo, appMetrics
}

func requireValidationError(t *testing.T, err error) map[string]string {
	t.Helper()

	var validationErr *employees.ValidationError
	require.ErrorAs(t, err, &validationErr)

	return validationErr.Fields
}

func TestNewStaff(t *testing.T) {
	t.Parallel()

	staff, _, _ := newStaff(t)

	assert.NotNil(t, staff)
}

func TestCreate_Success(t *testing.T) {
	t.Parallel()

	staff, repo, appMetrics := newStaff(t)
	repo.On("InsertEmployee", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
		return e.Name == "Jane Doe" &&
			e.Email == "jane@x.com" &&
			e.PhoneNumber == "1234567890" &&
			e.Age == 30 &&
			e.Gender == "Female" &&
			e.Department == models.DepartmentFinance &&
			e.Position == "Member" &&
			e.EmploymentStatus == models.EmploymentFullTime &&
			e.EmpStatus == models.EmpStatusNew &&
			!e.CreatedAt.IsZero() &&
			e.UpdatedAt == nil
	})).Return("665f1c2e9b1d4a0012345678", nil).Once()

	result, err := staff.Create(context.Background(), input(t, validBody))

	require.NoError(t, err)
	assert.Equal(t, "665f1c2e9b1d4a0012345678", result.InsertedID)
	assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.Operations.WithLabelValues("create", "success")), 0)
}

func TestCreate_StoresCodes(t *testing.T) {
	t.Parallel()

	for code, label := range models.DepartmentLabels() {
		t.Run(label, func(t *testing.T) {
			t.Parallel()

			staff, repo, _ := newStaff(t)
			repo.On("InsertEmployee", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
				return int(e.Department) == code+1
			})).Return("id", nil).Once()

			raw, err := json.Marshal(label)
			require.NoError(t, err)

			_, err = staff.Create(context.Background(), withField(t, "department", string(raw)))
			require.NoError(t, err)
		})
	}

	for code, label := range models.EmploymentStatusLabels() {
		t.Run(label, func(t *testing.T) {
			t.Parallel()

			staff, repo, _ := newStaff(t)
			repo.On("InsertEmployee", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
				return int(e.EmploymentStatus) == code+1
			})).Return("id", nil).Once()

			raw, err := json.Marshal(label)
			require.NoError(t, err)

			_, err = staff.Create(context.Background(), withField(t, "employmentStatus", string(raw)))
			require.NoError(t, err)
		})
	}
}

func TestCreate_AcceptsCodes(t *testing.T) {
	t.Parallel()

	staff, repo, _ := newStaff(t)
	repo.On("InsertEmployee", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
		return e.Department == models.DepartmentIT && e.EmploymentStatus == models.EmploymentContract
	})).Return("id", nil).Once()

	in := withField(t, "department", `5`)
	in.EmploymentStatus = withField(t, "employmentStatus", `"3"`).EmploymentStatus

	_, err := staff.Create(context.Background(), in)

	require.NoError(t, err)
}

func TestCreate_AgeBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		age      string
		accepted bool
	}{
		{age: "17", accepted: false},
		{age: "18", accepted: true},
		{age: "55", accepted: true},
		{age: "56", accepted: false},
		{age: `"30"`, accepted: true},
		{age: `"thirty"`, accepted: false},
		{age: "30.5", accepted: false},
		{age: "30.0", accepted: true},
		{age: `"55.0"`, accepted: true},
		{age: "55.5", accepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.age, func(t *testing.T) {
			t.Parallel()

			staff, repo, _ := newStaff(t)
			if tt.accepted {
				repo.On("InsertEmployee", mock.Anything, mock.Anything).Return("id", nil).Once()
			}

			_, err := staff.Create(context.Background(), withField(t, "age", tt.age))

			if tt.accepted {
				require.NoError(t, err)
				return
			}
			fields := requireValidationError(t, err)
			assert.Equal(t, map[string]string{"age": "Age must be between 18 and 55"}, fields)
		})
	}
}

func TestCreate_SingleRuleFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field string
		raw   string
	}{
		{field: "name", raw: `"Jo"`},
		{field: "name", raw: `"  Jo   "`},
		{field: "email", raw: `"jane.x.com"`},
		{field: "email", raw: `"jane@x"`},
		{field: "phoneNumber", raw: `"123456789"`},
		{field: "phoneNumber", raw: `"12345678901"`},
		{field: "phoneNumber", raw: `"12345abcde"`},
		{field: "phoneNumber", raw: `"+123456789"`},
		{field: "gender", raw: `"Other"`},
		{field: "department", raw: `"Legal"`},
		{field: "department", raw: `9`},
		{field: "position", raw: `"Manager"`},
		{field: "employmentStatus", raw: `"Freelance"`},
		{field: "employmentStatus", raw: `0`},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%s", tt.field, tt.raw), func(t *testing.T) {
			t.Parallel()

			staff, _, appMetrics := newStaff(t)

			_, err := staff.Create(context.Background(), withField(t, tt.field, tt.raw))

			fields := requireValidationError(t, err)
			assert.Len(t, fields, 1)
			assert.Contains(t, fields, tt.field)
			assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.ValidationFailures.WithLabelValues(tt.field)), 0)
			assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.Operations.WithLabelValues("create", "failure")), 0)
		})
	}
}

func TestCreate_MissingFields(t *testing.T) {
	t.Parallel()

	staff, _, _ := newStaff(t)

	_, err := staff.Create(context.Background(), input(t, `{"name": "Jane Doe"}`))

	fields := requireValidationError(t, err)
	assert.Len(t, fields, 7)
	assert.NotContains(t, fields, "name")
	assert.Equal(t, "Please select an employment status", fields["employmentStatus"])
}

func TestCreate_StoreFailure(t *testing.T) {
	t.Parallel()

	staff, repo, _ := newStaff(t)
	repo.On("InsertEmployee", mock.Anything, mock.Anything).Return("", assert.AnError).Once()

	_, err := staff.Create(context.Background(), input(t, validBody))

	require.ErrorIs(t, err, employees.ErrPersistence)
}

func TestCreate_LegacyPayload(t *testing.T) {
	t.Parallel()

	t.Run("upgraded fields pass, absent canonical fields are reported", func(t *testing.T) {
		t.Parallel()

		staff, _, _ := newStaff(t)
		in := input(t, `{
			"fullName": "Jane Doe",
			"email": "jane@x.com",
			"phone": "1234567890",
			"department": "finance & accounting",
			"position": "member"
		}`)

		_, err := staff.Create(context.Background(), in)

		fields := requireValidationError(t, err)
		assert.Equal(t, map[string]string{
			"age":              "Age must be between 18 and 55",
			"gender":           "Please select a gender",
			"employmentStatus": "Please select an employment status",
		}, fields)
	})

	t.Run("complete upgraded payload is stored", func(t *testing.T) {
		t.Parallel()

		staff, repo, _ := newStaff(t)
		repo.On("InsertEmployee", mock.Anything, mock.MatchedBy(func(e models.Employee) bool {
			return e.Name == "Jane Doe" &&
				e.PhoneNumber == "1234567890" &&
				e.Department == models.DepartmentFinance &&
				e.Position == "Member"
		})).Return("id", nil).Once()

		in := input(t, `{
			"fullName": "Jane Doe",
			"email": "jane@x.com",
			"phone": "1234567890",
			"department": "Finance & Accounting",
			"position": "Member",
			"age": 30,
			"gender": "Female",
			"employmentStatus": "Full Time"
		}`)

		_, err := staff.Create(context.Background(), in)

		require.NoError(t, err)
	})

	t.Run("errors use legacy field names", func(t *testing.T) {
		t.Parallel()

		staff, _, _ := newStaff(t)
		in := input(t, `{
			"fullName": "Jo",
			"email": "jane@x.com",
			"phone": "12345",
			"department": "Sales Team",
			"position": "Member",
			"age": 30,
			"gender": "Female",
			"employmentStatus": "Full Time"
		}`)

		_, err := staff.Create(context.Background(), in)

		fields := requireValidationError(t, err)
		assert.Len(t, fields, 3)
		assert.Equal(t, "Name must be at least 3 characters long", fields["fullName"])
		assert.Equal(t, "Please enter a valid 10-digit phone number", fields["phone"])
		assert.Contains(t, fields["department"], "does not match")
	})
}

func TestList(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		staff, repo, _ := newStaff(t)
		stored := []models.Employee{{ID: "1", Name: "Jane Doe"}, {ID: "2", Name: "John Smith"}}
		repo.On("ListEmployees", mock.Anything).Return(stored, nil).Once()

		list, err := staff.List(context.Background())

		require.NoError(t, err)
		assert.Equal(t, stored, list)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		staff, repo, appMetrics := newStaff(t)
		repo.On("ListEmployees", mock.Anything).Return(nil, assert.AnError).Once()

		_, err := staff.List(context.Background())

		require.ErrorIs(t, err, employees.ErrPersistence)
		require.ErrorIs(t, err, assert.AnError)
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.Operations.WithLabelValues("list", "failure")), 0)
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	const identifier = "665f1c2e9b1d4a0012345678"
	position := "Team Leader"
	positionPatch := models.EmployeePatch{Position: &position}
	anyTime := mock.AnythingOfType("time.Time")

	t.Run("missing id", func(t *testing.T) {
		t.Parallel()

		staff, _, _ := newStaff(t)

		err := staff.Update(context.Background(), "  ", input(t, `{"position": "Team Leader"}`))

		require.ErrorIs(t, err, employees.ErrMissingID)
	})

	t.Run("modified", func(t *testing.T) {
		t.Parallel()

		staff, repo, _ := newStaff(t)
		repo.On("UpdateEmployee", mock.Anything, identifier, positionPatch, anyTime).Return(int64(1), nil).Once()

		err := staff.Update(context.Background(), identifier, input(t, `{"position": "Team Leader"}`))

		require.NoError(t, err)
	})

	t.Run("translates labels", func(t *testing.T) {
		t.Parallel()

		staff, repo, _ := newStaff(t)
		department := models.DepartmentIT
		status := models.EmploymentPartTime
		expected := models.EmployeePatch{Department: &department, EmploymentStatus: &status}
		repo.On("UpdateEmployee", mock.Anything, identifier, expected, anyTime).Return(int64(1), nil).Once()

		err := staff.Update(context.Background(), identifier,
			input(t, `{"department": "5", "employmentStatus": "Part Time"}`))

		require.NoError(t, err)
	})

	t.Run("same values", func(t *testing.T) {
		t.Parallel()

		staff, repo, _ := newStaff(t)
		repo.On("UpdateEmployee", mock.Anything, identifier, positionPatch, anyTime).Return(int64(0), nil).Once()
		repo.On("EmployeeExists", mock.Anything, identifier).Return(true, nil).Once()

		err := staff.Update(context.Background(), identifier, input(t, `{"position": "Team Leader"}`))

		require.ErrorIs(t, err, employees.ErrNoModification)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		staff, repo, _ := newStaff(t)
		repo.On("UpdateEmployee", mock.Anything, identifier, positionPatch, anyTime).Return(int64(0), nil).Once()
		repo.On("EmployeeExists", mock.Anything, identifier).Return(false, nil).Once()

		err := staff.Update(context.Background(), identifier, input(t, `{"position": "Team Leader"}`))

		require.ErrorIs(t, err, employees.ErrNotFound)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		staff, _, _ := newStaff(t)

		err := staff.Update(context.Background(), identifier, input(t, `{}`))

		require.ErrorIs(t, err, employees.ErrNoModification)
	})

	t.Run("invalid field", func(t *testing.T) {
		t.Parallel()

		staff, _, _ := newStaff(t)

		err := staff.Update(context.Background(), identifier, input(t, `{"age": 17, "position": "Team Leader"}`))

		fields := requireValidationError(t, err)
		assert.Equal(t, map[string]string{"age": "Age must be between 18 and 55"}, fields)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		staff, repo, _ := newStaff(t)
		repo.On("UpdateEmployee", mock.Anything, identifier, positionPatch, anyTime).
			Return(int64(0), assert.AnError).Once()

		err := staff.Update(context.Background(), identifier, input(t, `{"position": "Team Leader"}`))

		require.ErrorIs(t, err, employees.ErrPersistence)
	})

	t.Run("lookup failure", func(t *testing.T) {
		t.Parallel()

		staff, repo, _ := newStaff(t)
		repo.On("UpdateEmployee", mock.Anything, identifier, positionPatch, anyTime).Return(int64(0), nil).Once()
		repo.On("EmployeeExists", mock.Anything, identifier).Return(false, assert.AnError).Once()

		err := staff.Update(context.Background(), identifier, input(t, `{"position": "Team Leader"}`))

		require.ErrorIs(t, err, employees.ErrPersistence)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       string
		deleted  int64
		repoErr  error
		expected error
	}{
		{name: "deleted", id: "abc", deleted: 1},
		{name: "not found", id: "abc", deleted: 0, expected: employees.ErrNotFound},
		{name: "store failure", id: "abc", repoErr: assert.AnError, expected: employees.ErrPersistence},
		{name: "missing id", id: "", expected: employees.ErrMissingID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			staff, repo, _ := newStaff(t)
			if tt.id != "" {
				repo.On("DeleteEmployee", mock.Anything, tt.id).Return(tt.deleted, tt.repoErr).Once()
			}

			err := staff.Delete(context.Background(), tt.id)

			if tt.expected == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	staff, repo, _ := newStaff(t)
	edited := time.Now()
	repo.On("ListEmployees", mock.Anything).Return([]models.Employee{
		{Gender: "Female", Department: models.DepartmentFinance, EmploymentStatus: models.EmploymentFullTime,
			EmpStatus: models.EmpStatusNew},
		{Gender: "Male", Department: models.DepartmentFinance, EmploymentStatus: models.EmploymentContract,
			EmpStatus: models.EmpStatusEdited, UpdatedAt: &edited},
		{Gender: "Female", Department: models.DepartmentIT, EmploymentStatus: models.EmploymentFullTime,
			EmpStatus: models.EmpStatusNew},
	}, nil).Once()

	summary, err := staff.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.Summary{
		TotalEmployees:   3,
		TotalDepartments: 2,
		EditedEmployees:  1,
		GenderDistribution: map[string]int{
			"Female": 2,
			"Male":   1,
		},
		DepartmentDistribution: map[string]int{
			"Finance & Accounting": 2,
			"IT/Engineering":       1,
		},
		EmploymentStatus: map[string]int{
			"Full Time": 2,
			"Contract":  1,
		},
	}, summary)
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	summary := employees.Summarize(nil)

	assert.Zero(t, summary.TotalEmployees)
	assert.Zero(t, summary.TotalDepartments)
	assert.NotNil(t, summary.GenderDistribution)
	assert.Empty(t, summary.DepartmentDistribution)
}
