package models

import (
	"time"
)

const (
	// EmpStatusNew marks a record that has not been changed since it was registered.
	EmpStatusNew = "new"
	// EmpStatusEdited marks a record that was modified at least once.
	EmpStatusEdited = "edited"
)

// Employee represents a stored employee record.
type Employee struct {
	ID               string           `json:"_id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	PhoneNumber      string           `json:"phoneNumber"`
	Age              int              `json:"age"`
	Gender           string           `json:"gender"`
	Department       Department       `json:"department"`
	Position         string           `json:"position"`
	EmploymentStatus EmploymentStatus `json:"employmentStatus"`
	EmpStatus        string           `json:"empStatus"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        *time.Time       `json:"updatedAt,omitempty"`
}

// EmployeeInput is the client payload for create and update requests.
// Every field is optional at decode time, validation decides what is required.
// FullName and Phone belong to the legacy payload shape.
type EmployeeInput struct {
	Name             *string `json:"name,omitempty"`
	Email            *string `json:"email,omitempty"`
	PhoneNumber      *string `json:"phoneNumber,omitempty"`
	Age              *Value  `json:"age,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	Department       *Value  `json:"department,omitempty"`
	Position         *string `json:"position,omitempty"`
	EmploymentStatus *Value  `json:"employmentStatus,omitempty"`

	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// IsLegacy reports whether the payload uses the deprecated fullName/phone shape.
func (in EmployeeInput) IsLegacy() bool {
	return in.Name == nil && in.FullName != nil
}

// EmployeePatch holds validated, code-translated values of a partial update.
// Nil fields are left untouched by the store.
type EmployeePatch struct {
	Name             *string
	Email            *string
	PhoneNumber      *string
	Age              *int
	Gender           *string
	Department       *Department
	Position         *string
	EmploymentStatus *EmploymentStatus
}

// IsEmpty reports whether the patch carries no field at all.
func (p EmployeePatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PhoneNumber == nil && p.Age == nil &&
		p.Gender == nil && p.Department == nil && p.Position == nil && p.EmploymentStatus == nil
}

// Apply copies the supplied fields of the patch onto employee and reports whether any value changed.
func (p EmployeePatch) Apply(employee *Employee) bool {
	changed := false

	if p.Name != nil && *p.Name != employee.Name {
		employee.Name = *p.Name
		changed = true
	}
	if p.Email != nil && *p.Email != employee.Email {
		employee.Email = *p.Email
		changed = true
	}
	if p.PhoneNumber != nil && *p.PhoneNumber != employee.PhoneNumber {
		employee.PhoneNumber = *p.PhoneNumber
		changed = true
	}
	if p.Age != nil && *p.Age != employee.Age {
		employee.Age = *p.Age
		changed = true
	}
	if p.Gender != nil && *p.Gender != employee.Gender {
		employee.Gender = *p.Gender
		changed = true
	}
	if p.Department != nil && *p.Department != employee.Department {
		employee.Department = *p.Department
		changed = true
	}
	if p.Position != nil && *p.Position != employee.Position {
		employee.Position = *p.Position
		changed = true
	}
	if p.EmploymentStatus != nil && *p.EmploymentStatus != employee.EmploymentStatus {
		employee.EmploymentStatus = *p.EmploymentStatus
		changed = true
	}

	return changed
}

// InsertResult is returned to the client after a successful create.
type InsertResult struct {
	InsertedID string `json:"insertedId"`
}

// Summary aggregates the employee collection for the dashboard.
type Summary struct {
	TotalEmployees         int            `json:"totalEmployees"`
	TotalDepartments       int            `json:"totalDepartments"`
	EditedEmployees        int            `json:"editedEmployees"`
	GenderDistribution     map[string]int `json:"genderDistribution"`
	DepartmentDistribution map[string]int `json:"departmentDistribution"`
	EmploymentStatus       map[string]int `json:"employmentStatus"`
}
