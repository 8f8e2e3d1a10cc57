// Package legacy handles the deprecated employee payload that carried
// fullName, phone and free-text department/position fields.
//
// The legacy shape is never stored. Upgrade rewrites it into the canonical
// payload, after which the regular validation applies.
package legacy

import (
	"fmt"
	"strings"

	"github.com/UnknownOlympus/hestia/internal/lib/validate"
	"github.com/UnknownOlympus/hestia/internal/models"
)

const (
	FieldFullName   = "fullName"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldDepartment = "department"
	FieldPosition   = "position"
)

// FieldNames maps canonical field names onto the names a legacy client sent.
var FieldNames = map[string]string{
	"name":        FieldFullName,
	"phoneNumber": FieldPhone,
}

// Validate applies the legacy field rules and returns one message per failing field.
func Validate(in models.EmployeeInput) map[string]string {
	errs := make(map[string]string)

	if !validate.MinLength(deref(in.FullName), 3) {
		errs[FieldFullName] = "Name must be at least 3 characters long"
	}
	if !validate.Email(strings.TrimSpace(deref(in.Email))) {
		errs[FieldEmail] = "Please enter a valid email address"
	}
	if !validate.Phone(strings.TrimSpace(deref(in.Phone))) {
		errs[FieldPhone] = "Please enter a valid 10-digit phone number"
	}
	if in.Department == nil || !validate.MinLength(in.Department.String(), 2) {
		errs[FieldDepartment] = "Department must be at least 2 characters long"
	}
	if !validate.MinLength(deref(in.Position), 2) {
		errs[FieldPosition] = "Position must be at least 2 characters long"
	}

	return errs
}

// Upgrade rewrites a legacy payload into the canonical one. Free-text department
// and position are resolved against the canonical labels; text that matches no
// label is reported. Canonical fields already present in the payload are kept.
func Upgrade(in models.EmployeeInput) (models.EmployeeInput, map[string]string) {
	errs := make(map[string]string)
	out := in

	out.Name = in.FullName
	out.PhoneNumber = in.Phone
	out.FullName = nil
	out.Phone = nil

	if in.Department != nil {
		if dep, ok := models.LookupDepartment(in.Department.String()); ok {
			label := models.Value(dep.Label())
			out.Department = &label
		} else if _, err := models.ParseDepartment(in.Department.String()); err != nil {
			errs[FieldDepartment] = fmt.Sprintf(
				"Department %q does not match any of: %s",
				strings.TrimSpace(in.Department.String()), strings.Join(models.DepartmentLabels(), ", "))
		}
	}

	if in.Position != nil {
		if position, ok := models.LookupPosition(*in.Position); ok {
			out.Position = &position
		} else {
			errs[FieldPosition] = fmt.Sprintf(
				"Position %q does not match any of: %s",
				strings.TrimSpace(*in.Position), strings.Join(models.Positions, ", "))
		}
	}

	return out, errs
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
