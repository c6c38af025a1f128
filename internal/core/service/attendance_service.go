package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/facecheck/attendance-api/internal/core/domain"
	"github.com/facecheck/attendance-api/internal/core/ports"
	"github.com/facecheck/attendance-api/internal/metrics"
	"github.com/facecheck/attendance-api/internal/pkg/imagedata"
)

const recentLimit = 10

// AttendanceOptions tunes the check-in workflow.
type AttendanceOptions struct {
	// Location defines the calendar day and the work start wall clock.
	Location *time.Location
	// DegradedMode lets the kiosk answer optimistically when the datastore
	// is unreachable instead of failing the request. Optimistic answers are
	// never persisted.
	DegradedMode bool
	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

// AttendanceService runs the kiosk check-in workflow and the attendance reports.
type AttendanceService struct {
	recognizer ports.Recognizer
	settings   ports.SettingsService
	employees  ports.EmployeeRepository
	records    ports.AttendanceRepository
	audit      ports.AuditRecorder
	notifier   ports.CheckInNotifier
	loc        *time.Location
	degraded   bool
	now        func() time.Time
	log        zerolog.Logger
}

// NewAttendanceService wires the workflow. notifier may be nil.
func NewAttendanceService(
	recognizer ports.Recognizer,
	settings ports.SettingsService,
	employees ports.EmployeeRepository,
	records ports.AttendanceRepository,
	audit ports.AuditRecorder,
	notifier ports.CheckInNotifier,
	opts AttendanceOptions,
	log zerolog.Logger,
) *AttendanceService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AttendanceService{
		recognizer: recognizer,
		settings:   settings,
		employees:  employees,
		records:    records,
		audit:      audit,
		notifier:   notifier,
		loc:        opts.Location,
		degraded:   opts.DegradedMode,
		now:        opts.Now,
		log:        log,
	}
}

// MarkAttendance checks in the employee whose face is on the captured image.
//
// Outcomes that reached a decision (not recognized, unknown employee, already
// marked, marked) are returned as a result; invalid input, recognizer
// failures and, outside degraded mode, datastore failures are returned as
// *domain.Error.
func (s *AttendanceService) MarkAttendance(ctx context.Context, payload string) (*ports.MarkAttendanceResult, error) {
	attemptID := uuid.NewString()
	log := s.log.With().Str("attempt_id", attemptID).Logger()

	// 1. Decode the capture.
	img, err := imagedata.Decode(payload)
	if err != nil {
		metrics.RecognitionsTotal.WithLabelValues("invalid_input").Inc()
		if errors.Is(err, imagedata.ErrEmpty) {
			return nil, domain.NewError(domain.KindInvalidInput, "No image provided", nil)
		}
		return nil, domain.NewError(domain.KindInvalidInput, "Invalid image: "+err.Error(), err)
	}

	// 2. Ask the recognizer. No retry.
	recognition, err := s.recognizer.Recognize(ctx, img.Bytes)
	if err != nil {
		metrics.RecognitionsTotal.WithLabelValues("upstream_error").Inc()
		log.Error().Err(err).Msg("face recognition request failed")
		return nil, domain.NewError(domain.KindUpstreamUnavailable, "Face recognition service failed", err)
	}

	// 3. Apply the confidence threshold.
	threshold := s.confidenceThreshold(ctx)
	if recognition.Name == "" || recognition.Confidence < threshold {
		metrics.RecognitionsTotal.WithLabelValues("not_recognized").Inc()
		s.audit.Record(ctx, domain.AuditEntry{
			AttemptID:          attemptID,
			Action:             domain.AuditRecognitionFailed,
			RecognizerResponse: recognition.Raw,
			ConfidenceScore:    recognition.Confidence,
			Success:            false,
			ErrorMessage:       "Face not recognized or low confidence",
			CreatedAt:          s.now().UTC(),
		})
		log.Info().Str("name", recognition.Name).Float64("confidence", recognition.Confidence).
			Float64("threshold", threshold).Msg("face not recognized")
		return &ports.MarkAttendanceResult{
			Kind:       domain.KindNotRecognized,
			Message:    fmt.Sprintf("Face not recognized. Confidence: %.0f%%", recognition.Confidence*100),
			Confidence: recognition.Confidence,
			AttemptID:  attemptID,
		}, nil
	}
	metrics.RecognitionsTotal.WithLabelValues("recognized").Inc()

	// 4. Resolve the employee.
	employee, err := s.employees.FindActiveByFaceIdentity(ctx, recognition.Name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		log.Info().Str("name", recognition.Name).Msg("recognized face has no active employee")
		return &ports.MarkAttendanceResult{
			Kind:       domain.KindNotFound,
			Message:    "Employee not found or inactive",
			Confidence: recognition.Confidence,
			AttemptID:  attemptID,
		}, nil
	case err != nil:
		if !s.degraded {
			return nil, domain.NewError(domain.KindStorageUnavailable, "Could not look up employee", err)
		}
		metrics.DegradedResponsesTotal.WithLabelValues("employee_lookup").Inc()
		log.Error().Err(err).Str("name", recognition.Name).Msg("employee lookup failed, answering offline")
		return &ports.MarkAttendanceResult{
			Success:      true,
			Message:      fmt.Sprintf("Welcome, %s! (Offline Mode)", recognition.Name),
			EmployeeName: recognition.Name + " (DB Offline)",
			Confidence:   recognition.Confidence,
			AttemptID:    attemptID,
			Degraded:     true,
			Details:      "Face recognized, but database is unreachable. Attendance not saved.",
		}, nil
	}

	now := s.now().In(s.loc)
	date := now.Format(domain.DateLayout)

	// 5. Once per day.
	existing, err := s.records.FindByEmployeeAndDate(ctx, employee.ID, date)
	switch {
	case err == nil:
		return s.alreadyMarked(employee, existing, recognition.Confidence, attemptID), nil
	case errors.Is(err, domain.ErrNotFound):
	case s.degraded:
		metrics.DegradedResponsesTotal.WithLabelValues("duplicate_check").Inc()
		log.Warn().Err(err).Str("employee_id", employee.ID).Msg("existing attendance check failed, relying on unique index")
	default:
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not check existing attendance", err)
	}

	// 6. On time or late.
	status := s.classify(ctx, now)

	// 7. Persist.
	record := &domain.AttendanceRecord{
		EmployeeID:      employee.ID,
		Date:            date,
		CheckInTime:     now.UTC(),
		Status:          status,
		ConfidenceScore: recognition.Confidence,
		Source:          domain.SourceFaceRecognition,
	}
	created, err := s.records.Create(ctx, record)
	if errors.Is(err, domain.ErrAlreadyMarked) {
		// Lost the race against a concurrent check-in for the same employee.
		existing, findErr := s.records.FindByEmployeeAndDate(ctx, employee.ID, date)
		if findErr != nil {
			existing = nil
		}
		return s.alreadyMarked(employee, existing, recognition.Confidence, attemptID), nil
	}
	if err != nil {
		// 8. Recognized but unsaved.
		msg := fmt.Sprintf("Welcome %s, but could not save record to database.", employee.FullName)
		log.Error().Err(err).Str("employee_id", employee.ID).Msg("could not save attendance")
		if !s.degraded {
			return nil, domain.NewError(domain.KindStorageUnavailable, msg, err)
		}
		metrics.DegradedResponsesTotal.WithLabelValues("record_write").Inc()
		return &ports.MarkAttendanceResult{
			Kind:         domain.KindStorageUnavailable,
			Message:      msg,
			EmployeeName: employee.FullName,
			Confidence:   recognition.Confidence,
			AttemptID:    attemptID,
			Details:      "Database Write Failed",
		}, nil
	}

	s.audit.Record(ctx, domain.AuditEntry{
		AttemptID:          attemptID,
		EmployeeID:         employee.ID,
		Action:             domain.AuditCheckIn,
		RecognizerResponse: recognition.Raw,
		ConfidenceScore:    recognition.Confidence,
		Success:            true,
		CreatedAt:          s.now().UTC(),
	})
	if s.notifier != nil {
		s.notifier.NotifyCheckIn(created, employee)
	}
	metrics.CheckInsTotal.WithLabelValues(string(created.Status)).Inc()

	log.Info().
		Str("employee_id", employee.ID).
		Str("date", date).
		Str("status", string(created.Status)).
		Msg("attendance marked")

	return &ports.MarkAttendanceResult{
		Success:      true,
		Message:      fmt.Sprintf("Welcome, %s!", employee.FullName),
		EmployeeName: employee.FullName,
		Record:       created,
		Confidence:   recognition.Confidence,
		AttemptID:    attemptID,
	}, nil
}

func (s *AttendanceService) alreadyMarked(e *domain.Employee, existing *domain.AttendanceRecord, confidence float64, attemptID string) *ports.MarkAttendanceResult {
	return &ports.MarkAttendanceResult{
		Kind:         domain.KindAlreadyMarked,
		Message:      "Attendance already marked for today",
		EmployeeName: e.FullName,
		Record:       existing,
		Confidence:   confidence,
		AttemptID:    attemptID,
	}
}

func (s *AttendanceService) confidenceThreshold(ctx context.Context) float64 {
	def := domain.DefaultSettings[domain.SettingConfidenceThreshold]
	raw := s.settings.Get(ctx, domain.SettingConfidenceThreshold, def)
	v, err := domain.ParseConfidenceThreshold(raw)
	if err != nil {
		s.log.Warn().Str("value", raw).Msg("invalid confidence_threshold, using default")
		v, _ = domain.ParseConfidenceThreshold(def)
	}
	return v
}

// classify falls back to the default schedule when stored settings are unusable.
func (s *AttendanceService) classify(ctx context.Context, now time.Time) domain.AttendanceStatus {
	workStart := s.settings.Get(ctx, domain.SettingWorkStartTime, domain.DefaultSettings[domain.SettingWorkStartTime])
	graceRaw := s.settings.Get(ctx, domain.SettingLateThresholdMinutes, domain.DefaultSettings[domain.SettingLateThresholdMinutes])

	grace, err := domain.ParseLateThresholdMinutes(graceRaw)
	if err != nil {
		s.log.Warn().Str("value", graceRaw).Msg("invalid late_threshold_minutes, using default")
		grace, _ = domain.ParseLateThresholdMinutes(domain.DefaultSettings[domain.SettingLateThresholdMinutes])
	}

	status, err := domain.ClassifyCheckIn(now, workStart, grace)
	if err != nil {
		s.log.Warn().Err(err).Msg("invalid work_start_time, using default")
		status, _ = domain.ClassifyCheckIn(now, domain.DefaultSettings[domain.SettingWorkStartTime], grace)
	}
	return status
}

// RecognizerHealth probes the external recognizer.
func (s *AttendanceService) RecognizerHealth(ctx context.Context) ports.RecognizerHealth {
	return s.recognizer.Health(ctx)
}

// History returns attendance records joined with employee details.
func (s *AttendanceService) History(ctx context.Context, filter ports.HistoryFilter) ([]ports.HistoryEntry, error) {
	if filter.EmployeeID == "all" {
		filter.EmployeeID = ""
	}
	for _, d := range []string{filter.StartDate, filter.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(domain.DateLayout, d); err != nil {
			return nil, domain.NewError(domain.KindInvalidInput, "Dates must be YYYY-MM-DD", err)
		}
	}

	records, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not fetch history", err)
	}
	employees, err := s.employees.FindByIDs(ctx, employeeIDs(records))
	if err != nil {
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not fetch history", err)
	}

	out := make([]ports.HistoryEntry, 0, len(records))
	for _, r := range records {
		entry := ports.HistoryEntry{
			ID:           r.ID,
			EmployeeID:   r.EmployeeID,
			EmployeeName: "Unknown",
			EmployeeCode: "N/A",
			Department:   "N/A",
			Date:         r.Date,
			CheckInTime:  r.CheckInTime,
			Status:       r.Status,
			Confidence:   r.ConfidenceScore,
		}
		if e, ok := employees[r.EmployeeID]; ok {
			entry.EmployeeName = e.FullName
			if e.EmployeeCode != "" {
				entry.EmployeeCode = e.EmployeeCode
			}
			if e.Department != "" {
				entry.Department = e.Department
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// Stats counts today's check-ins against the active headcount.
func (s *AttendanceService) Stats(ctx context.Context) (*ports.DailyStats, error) {
	today := s.today()

	total, err := s.employees.CountActive(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not fetch stats", err)
	}
	counts, err := s.records.CountByStatus(ctx, today)
	if err != nil {
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not fetch stats", err)
	}

	present := counts[domain.StatusPresent]
	late := counts[domain.StatusLate]
	return &ports.DailyStats{
		Date:           today,
		TotalEmployees: total,
		PresentToday:   present,
		LateToday:      late,
		AbsentToday:    max(0, total-present-late),
	}, nil
}

// Recent returns today's latest check-ins.
func (s *AttendanceService) Recent(ctx context.Context) ([]ports.RecentCheckIn, error) {
	records, err := s.records.ListByDate(ctx, s.today(), recentLimit)
	if err != nil {
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not fetch recent attendance", err)
	}
	employees, err := s.employees.FindByIDs(ctx, employeeIDs(records))
	if err != nil {
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not fetch recent attendance", err)
	}

	out := make([]ports.RecentCheckIn, 0, len(records))
	for _, r := range records {
		name := "Unknown"
		if e, ok := employees[r.EmployeeID]; ok {
			name = e.FullName
		}
		out = append(out, ports.RecentCheckIn{
			ID:           r.ID,
			EmployeeName: name,
			CheckInTime:  r.CheckInTime,
			Status:       r.Status,
			Confidence:   r.ConfidenceScore,
		})
	}
	return out, nil
}

func (s *AttendanceService) today() string {
	return s.now().In(s.loc).Format(domain.DateLayout)
}

func employeeIDs(records []*domain.AttendanceRecord) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.EmployeeID]; ok {
			continue
		}
		seen[r.EmployeeID] = struct{}{}
		ids = append(ids, r.EmployeeID)
	}
	return ids
}
