package legacy_test

import (
	"testing"

	"github.com/UnknownOlympus/hestia/internal/legacy"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validLegacy() models.EmployeeInput {
	return models.EmployeeInput{
		FullName:   ptr("John Smith"),
		Email:      ptr("john@example.com"),
		Phone:      ptr("0961234567"),
		Department: ptr(models.Value("operations")),
		Position:   ptr("member"),
	}
}

func TestValidate_Success(t *testing.T) {
	t.Parallel()

	assert.Empty(t, legacy.Validate(validLegacy()))
}

func TestValidate_AllFieldsInvalid(t *testing.T) {
	t.Parallel()

	in := models.EmployeeInput{
		FullName:   ptr(" Jo "),
		Email:      ptr("john.example.com"),
		Phone:      ptr("12345"),
		Department: ptr(models.Value("X")),
		Position:   ptr(""),
	}

	errs := legacy.Validate(in)

	assert.Len(t, errs, 5)
	for _, field := range []string{
		legacy.FieldFullName, legacy.FieldEmail, legacy.FieldPhone, legacy.FieldDepartment, legacy.FieldPosition,
	} {
		assert.Contains(t, errs, field)
	}
}

func TestUpgrade_ResolvesLabels(t *testing.T) {
	t.Parallel()

	in := validLegacy()
	in.Age = ptr(models.Value("30"))

	out, errs := legacy.Upgrade(in)

	require.Empty(t, errs)
	assert.Equal(t, "John Smith", *out.Name)
	assert.Equal(t, "0961234567", *out.PhoneNumber)
	assert.Equal(t, models.Value("Operations"), *out.Department)
	assert.Equal(t, "Member", *out.Position)
	assert.Equal(t, models.Value("30"), *out.Age)
	assert.Nil(t, out.FullName)
	assert.Nil(t, out.Phone)
	assert.False(t, out.IsLegacy())
}

func TestUpgrade_UnknownText(t *testing.T) {
	t.Parallel()

	in := validLegacy()
	in.Department = ptr(models.Value("Logistics"))
	in.Position = ptr("Intern")

	_, errs := legacy.Upgrade(in)

	assert.Len(t, errs, 2)
	assert.Contains(t, errs[legacy.FieldDepartment], "Logistics")
	assert.Contains(t, errs[legacy.FieldPosition], "Intern")
}

func TestUpgrade_KeepsDepartmentCode(t *testing.T) {
	t.Parallel()

	in := validLegacy()
	in.Department = ptr(models.Value("3"))

	out, errs := legacy.Upgrade(in)

	require.Empty(t, errs)
	assert.Equal(t, models.Value("3"), *out.Department)
}
