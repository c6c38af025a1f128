package handler

import "time"

type markAttendanceRequest struct {
	// Image is base64, optionally as a data URL.
	Image string `json:"image"`
}

type markAttendanceData struct {
	AttemptID    string            `json:"attempt_id"`
	EmployeeName string            `json:"employee_name,omitempty"`
	Confidence   float64           `json:"confidence"`
	Record       *attendanceRecord `json:"record,omitempty"`
	Degraded     bool              `json:"degraded,omitempty"`
	Details      string            `json:"details,omitempty"`
}

type attendanceRecord struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employee_id"`
	Date            string    `json:"date"`
	CheckInTime     time.Time `json:"check_in_time"`
	Status          string    `json:"status"`
	ConfidenceScore float64   `json:"confidence_score"`
	Source          string    `json:"source"`
}

type faceServiceResponse struct {
	Status string `json:"status"`
}

type historyQuery struct {
	StartDate  string `query:"start_date"  validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `query:"end_date"    validate:"omitempty,datetime=2006-01-02"`
	EmployeeID string `query:"employee_id"`
}

type historyEntry struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	EmployeeCode string    `json:"employee_code"`
	Department   string    `json:"department"`
	Date         string    `json:"date"`
	CheckInTime  time.Time `json:"check_in_time"`
	Status       string    `json:"status"`
	Confidence   float64   `json:"confidence"`
}

type statsResponse struct {
	Date           string `json:"date"`
	TotalEmployees int64  `json:"total_employees"`
	PresentToday   int64  `json:"present_today"`
	LateToday      int64  `json:"late_today"`
	AbsentToday    int64  `json:"absent_today"`
}

type recentCheckIn struct {
	ID              string    `json:"id"`
	EmployeeName    string    `json:"employee_name"`
	CheckInTime     time.Time `json:"check_in_time"`
	Status          string    `json:"status"`
	ConfidenceScore float64   `json:"confidence_score"`
}
