package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
)

const (
	SourceFaceRecognition = "face_recognition"

	// DateLayout is the calendar-date format used as the per-day key.
	DateLayout = "2006-01-02"
)

// AttendanceRecord is the single check-in of an employee on a calendar date.
type AttendanceRecord struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employee_id"`
	Date            string           `json:"date"`
	CheckInTime     time.Time        `json:"check_in_time"`
	Status          AttendanceStatus `json:"status"`
	ConfidenceScore float64          `json:"confidence_score"`
	Source          string           `json:"source"`
}

type AuditAction string

const (
	AuditCheckIn           AuditAction = "check_in"
	AuditRecognitionFailed AuditAction = "recognition_failed"
)

// AuditEntry is an immutable record of one recognition attempt.
type AuditEntry struct {
	ID                 string          `json:"id"`
	AttemptID          string          `json:"attempt_id"`
	EmployeeID         string          `json:"employee_id,omitempty"`
	Action             AuditAction     `json:"action"`
	RecognizerResponse json.RawMessage `json:"recognizer_response,omitempty"`
	ConfidenceScore    float64         `json:"confidence_score"`
	Success            bool            `json:"success"`
	ErrorMessage       string          `json:"error_message,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ParseClock parses an "HH:MM" wall-clock time.
func ParseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("clock %q: expected HH:MM", s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("clock %q: invalid hour", s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock %q: invalid minute", s)
	}
	return hour, minute, nil
}

// LateCutoff returns the instant after which a check-in on the calendar day
// of now counts as late: work start plus the grace period, in now's location.
// graceMinutes is clamped to [0, MaxLateThresholdMinutes].
func LateCutoff(now time.Time, workStart string, graceMinutes int) (time.Time, error) {
	hour, minute, err := ParseClock(workStart)
	if err != nil {
		return time.Time{}, err
	}
	graceMinutes = min(max(graceMinutes, 0), MaxLateThresholdMinutes)
	start := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	return start.Add(time.Duration(graceMinutes) * time.Minute), nil
}

// ClassifyCheckIn returns StatusLate when now is strictly after the cutoff.
// A check-in exactly at the cutoff is still on time.
func ClassifyCheckIn(now time.Time, workStart string, graceMinutes int) (AttendanceStatus, error) {
	cutoff, err := LateCutoff(now, workStart, graceMinutes)
	if err != nil {
		return StatusPresent, err
	}
	if now.After(cutoff) {
		return StatusLate, nil
	}
	return StatusPresent, nil
}
