package domain

import "time"

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

// Valid reports whether s is a known employee status.
func (s EmployeeStatus) Valid() bool {
	return s == EmployeeActive || s == EmployeeInactive
}

// Employee is a directory entry. FaceIdentity links the employee to the
// label the recognizer returns for their face; it is empty until enrollment.
type Employee struct {
	ID            string         `json:"id"`
	EmployeeCode  string         `json:"employee_code,omitempty"`
	FullName      string         `json:"full_name"`
	Email         string         `json:"email,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	Department    string         `json:"department,omitempty"`
	Designation   string         `json:"designation,omitempty"`
	DateOfJoining string         `json:"date_of_joining,omitempty"`
	FaceIdentity  string         `json:"face_identity,omitempty"`
	Status        EmployeeStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
}

// IsActive reports whether the employee may check in.
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeActive
}
