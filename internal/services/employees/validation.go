package employees

import (
	"math"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/hestia/internal/lib/validate"
	"github.com/UnknownOlympus/hestia/internal/models"
)

const (
	minAge        = 18
	maxAge        = 55
	minNameLength = 3
)

const (
	fieldName             = "name"
	fieldEmail            = "email"
	fieldPhoneNumber      = "phoneNumber"
	fieldAge              = "age"
	fieldGender           = "gender"
	fieldDepartment       = "department"
	fieldPosition         = "position"
	fieldEmploymentStatus = "employmentStatus"
)

// fieldErrors keeps the first message reported for each field. Reported names
// go through names, so legacy payloads get errors keyed by the fields they sent.
type fieldErrors struct {
	names  map[string]string
	fields map[string]string
}

func newFieldErrors(names map[string]string) *fieldErrors {
	return &fieldErrors{names: names, fields: make(map[string]string)}
}

func (e *fieldErrors) add(field, message string) {
	if name, ok := e.names[field]; ok {
		field = name
	}
	if _, ok := e.fields[field]; !ok {
		e.fields[field] = message
	}
}

func (e *fieldErrors) merge(other map[string]string) {
	for field, message := range other {
		if _, ok := e.fields[field]; !ok {
			e.fields[field] = message
		}
	}
}

func (e *fieldErrors) err() error {
	if len(e.fields) == 0 {
		return nil
	}

	return &ValidationError{Fields: e.fields}
}

// buildPatch validates the supplied fields of in and translates labels into codes.
// With required set, every canonical field has to be present.
func buildPatch(in models.EmployeeInput, required bool, errs *fieldErrors) models.EmployeePatch {
	var patch models.EmployeePatch

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if validate.MinLength(name, minNameLength) {
			patch.Name = &name
		} else {
			errs.add(fieldName, "Name must be at least 3 characters long")
		}
	} else if required {
		errs.add(fieldName, "Name must be at least 3 characters long")
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if validate.Email(email) {
			patch.Email = &email
		} else {
			errs.add(fieldEmail, "Please enter a valid email address")
		}
	} else if required {
		errs.add(fieldEmail, "Please enter a valid email address")
	}

	if in.PhoneNumber != nil {
		phone := strings.TrimSpace(*in.PhoneNumber)
		if validate.Phone(phone) {
			patch.PhoneNumber = &phone
		} else {
			errs.add(fieldPhoneNumber, "Please enter a valid 10-digit phone number")
		}
	} else if required {
		errs.add(fieldPhoneNumber, "Please enter a valid 10-digit phone number")
	}

	if in.Age != nil {
		if age, ok := parseAge(in.Age.String()); ok {
			patch.Age = &age
		} else {
			errs.add(fieldAge, "Age must be between 18 and 55")
		}
	} else if required {
		errs.add(fieldAge, "Age must be between 18 and 55")
	}

	if in.Gender != nil && models.IsGender(*in.Gender) {
		gender := *in.Gender
		patch.Gender = &gender
	} else if in.Gender != nil || required {
		errs.add(fieldGender, "Please select a gender")
	}

	if in.Department != nil {
		if department, err := models.ParseDepartment(in.Department.String()); err == nil {
			patch.Department = &department
		} else {
			errs.add(fieldDepartment, "Please select a department")
		}
	} else if required {
		errs.add(fieldDepartment, "Please select a department")
	}

	if in.Position != nil && models.IsPosition(*in.Position) {
		position := *in.Position
		patch.Position = &position
	} else if in.Position != nil || required {
		errs.add(fieldPosition, "Please select a position")
	}

	if in.EmploymentStatus != nil {
		if status, err := models.ParseEmploymentStatus(in.EmploymentStatus.String()); err == nil {
			patch.EmploymentStatus = &status
		} else {
			errs.add(fieldEmploymentStatus, "Please select an employment status")
		}
	} else if required {
		errs.add(fieldEmploymentStatus, "Please select an employment status")
	}

	return patch
}

// parseAge accepts whole numbers in range, including ones written with a fraction such as 30.0.
func parseAge(raw string) (int, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value != math.Trunc(value) || value < minAge || value > maxAge {
		return 0, false
	}

	return int(value), true
}
