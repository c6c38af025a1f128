package handler

import (
	"strings"

	"github.com/facecheck/attendance-api/internal/core/domain"
	"github.com/facecheck/attendance-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateEmployeeInput(req createEmployeeRequest) ports.CreateEmployeeInput {
	return ports.CreateEmployeeInput{
		EmployeeCode:  req.EmployeeCode,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Department:    req.Department,
		Designation:   req.Designation,
		DateOfJoining: req.DateOfJoining,
	}
}

func toEmployeeUpdate(req updateEmployeeRequest) ports.EmployeeUpdate {
	u := ports.EmployeeUpdate{
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Department:    req.Department,
		Designation:   req.Designation,
		DateOfJoining: req.DateOfJoining,
	}
	if req.Status != nil {
		s := domain.EmployeeStatus(*req.Status)
		u.Status = &s
	}
	return u
}

func toHistoryFilter(q historyQuery) ports.HistoryFilter {
	return ports.HistoryFilter{
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		EmployeeID: strings.TrimSpace(q.EmployeeID),
	}
}

// --- Service output → Response ---

func toAttendanceRecord(r *domain.AttendanceRecord) *attendanceRecord {
	if r == nil {
		return nil
	}
	return &attendanceRecord{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Date:            r.Date,
		CheckInTime:     r.CheckInTime,
		Status:          string(r.Status),
		ConfidenceScore: r.ConfidenceScore,
		Source:          r.Source,
	}
}

func toMarkAttendanceResponse(res *ports.MarkAttendanceResult) Response {
	return Response{
		Success: res.Success,
		Message: res.Message,
		Kind:    string(res.Kind),
		Data: markAttendanceData{
			AttemptID:    res.AttemptID,
			EmployeeName: res.EmployeeName,
			Confidence:   res.Confidence,
			Record:       toAttendanceRecord(res.Record),
			Degraded:     res.Degraded,
			Details:      res.Details,
		},
	}
}

func toHistoryEntries(entries []ports.HistoryEntry) []historyEntry {
	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{
			ID:           e.ID,
			EmployeeID:   e.EmployeeID,
			EmployeeName: e.EmployeeName,
			EmployeeCode: e.EmployeeCode,
			Department:   e.Department,
			Date:         e.Date,
			CheckInTime:  e.CheckInTime,
			Status:       string(e.Status),
			Confidence:   e.Confidence,
		})
	}
	return out
}

func toStatsResponse(s *ports.DailyStats) statsResponse {
	return statsResponse{
		Date:           s.Date,
		TotalEmployees: s.TotalEmployees,
		PresentToday:   s.PresentToday,
		LateToday:      s.LateToday,
		AbsentToday:    s.AbsentToday,
	}
}

func toRecentCheckIns(rows []ports.RecentCheckIn) []recentCheckIn {
	out := make([]recentCheckIn, 0, len(rows))
	for _, r := range rows {
		out = append(out, recentCheckIn{
			ID:              r.ID,
			EmployeeName:    r.EmployeeName,
			CheckInTime:     r.CheckInTime,
			Status:          string(r.Status),
			ConfidenceScore: r.Confidence,
		})
	}
	return out
}

func toAdminResponse(a *domain.Admin) adminResponse {
	if a == nil {
		return adminResponse{}
	}
	return adminResponse{ID: a.ID, Email: a.Email, Role: a.Role}
}
