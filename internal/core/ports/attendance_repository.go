package ports

import (
	"context"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

// HistoryFilter carries the attendance history query. Dates are YYYY-MM-DD.
type HistoryFilter struct {
	StartDate  string // alone: exact day; with EndDate: inclusive lower bound
	EndDate    string
	EmployeeID string // empty or "all" = every employee
}

// AttendanceRepository persists daily check-in records.
type AttendanceRepository interface {
	// Create inserts a record. A second record for the same employee and date
	// is rejected with domain.ErrAlreadyMarked.
	Create(ctx context.Context, r *domain.AttendanceRecord) (*domain.AttendanceRecord, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID, date string) (*domain.AttendanceRecord, error)
	// List returns records sorted by date then check-in time, newest first.
	List(ctx context.Context, filter HistoryFilter) ([]*domain.AttendanceRecord, error)
	// ListByDate returns the latest check-ins of a day; limit <= 0 means all.
	ListByDate(ctx context.Context, date string, limit int) ([]*domain.AttendanceRecord, error)
	CountByStatus(ctx context.Context, date string) (map[domain.AttendanceStatus]int64, error)
}

// AuditRepository stores recognition attempts. Entries are never updated.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditRecorder accepts audit entries on a best-effort basis. Implementations
// must not block the caller on storage and must not surface write failures.
type AuditRecorder interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}

// CheckInNotifier publishes successful check-ins to live subscribers.
type CheckInNotifier interface {
	NotifyCheckIn(record *domain.AttendanceRecord, employee *domain.Employee)
}
