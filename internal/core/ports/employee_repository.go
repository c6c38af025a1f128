package ports

import (
	"context"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

// EmployeeFilter narrows List results. Empty fields are ignored.
type EmployeeFilter struct {
	Status string // "active" or "inactive"
	Search string // case-insensitive match on name, email or employee code
}

// EmployeeUpdate carries a partial update; nil fields are left untouched.
type EmployeeUpdate struct {
	FullName      *string
	Email         *string
	Phone         *string
	Department    *string
	Designation   *string
	DateOfJoining *string
	Status        *domain.EmployeeStatus
}

// EmployeeRepository defines persistence operations for the employee directory.
type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	// FindActiveByFaceIdentity resolves a recognizer label to an active employee.
	FindActiveByFaceIdentity(ctx context.Context, identity string) (*domain.Employee, error)
	// FindByIDs returns the employees keyed by id; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Employee, error)
	ExistsByEmailOrCode(ctx context.Context, email, code string) (bool, error)
	List(ctx context.Context, filter EmployeeFilter) ([]*domain.Employee, error)
	Update(ctx context.Context, id string, update EmployeeUpdate) (*domain.Employee, error)
	SetFaceIdentity(ctx context.Context, id, identity string) error
	Delete(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int64, error)
}
