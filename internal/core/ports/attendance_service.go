package ports

import (
	"context"
	"time"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

// MarkAttendanceResult is the outcome of a kiosk check-in that reached a
// decision. Hard failures are returned as errors instead.
type MarkAttendanceResult struct {
	Success      bool
	Kind         domain.ErrorKind // empty on a clean success
	Message      string
	EmployeeName string
	Record       *domain.AttendanceRecord
	Confidence   float64
	AttemptID    string
	// Degraded is true when the datastore could not be used and the result
	// was produced without persisting anything.
	Degraded bool
	Details  string
}

// HistoryEntry is one attendance record joined with its employee.
type HistoryEntry struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	EmployeeCode string
	Department   string
	Date         string
	CheckInTime  time.Time
	Status       domain.AttendanceStatus
	Confidence   float64
}

// DailyStats summarises today's attendance against the active headcount.
type DailyStats struct {
	Date           string
	TotalEmployees int64
	PresentToday   int64
	LateToday      int64
	AbsentToday    int64
}

// RecentCheckIn is a dashboard row for today's latest arrivals.
type RecentCheckIn struct {
	ID           string
	EmployeeName string
	CheckInTime  time.Time
	Status       domain.AttendanceStatus
	Confidence   float64
}

// AttendanceService defines the kiosk workflow and attendance reports.
type AttendanceService interface {
	MarkAttendance(ctx context.Context, image string) (*MarkAttendanceResult, error)
	RecognizerHealth(ctx context.Context) RecognizerHealth
	History(ctx context.Context, filter HistoryFilter) ([]HistoryEntry, error)
	Stats(ctx context.Context) (*DailyStats, error)
	Recent(ctx context.Context) ([]RecentCheckIn, error)
}
