package ports

import (
	"context"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

// CreateEmployeeInput carries the fields an admin supplies for a new employee.
type CreateEmployeeInput struct {
	EmployeeCode  string
	FullName      string
	Email         string
	Phone         string
	Department    string
	Designation   string
	DateOfJoining string
}

// EnrollResult is returned after a face was registered with the recognizer.
type EnrollResult struct {
	Employee     *domain.Employee
	FaceIdentity string
	Message      string
}

type EmployeeService interface {
	List(ctx context.Context, filter EmployeeFilter) ([]*domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	Create(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error)
	Update(ctx context.Context, id string, update EmployeeUpdate) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
	EnrollFace(ctx context.Context, id, image string) (*EnrollResult, error)
}

type DepartmentService interface {
	List(ctx context.Context) ([]*domain.Department, error)
	Create(ctx context.Context, name, description string) (*domain.Department, error)
	Delete(ctx context.Context, id string) error
}

// SettingsService is the settings store with in-code defaults.
type SettingsService interface {
	// Get never fails: unreachable storage and unset keys yield def.
	Get(ctx context.Context, key, def string) string
	GetAll(ctx context.Context) (map[string]string, error)
	SetAll(ctx context.Context, values map[string]string) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Admin, error)
	CreateAdmin(ctx context.Context, email, password string) (*domain.Admin, error)
	HasAdmin(ctx context.Context) (bool, error)
}
