package handler

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/facecheck/attendance-api/internal/core/ports"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	historySheet    = "Attendance"
)

var historyHeaders = []string{"No", "Employee", "Code", "Department", "Date", "Check-in", "Status", "Confidence"}

// buildHistoryWorkbook renders history rows into an .xlsx workbook.
// Check-in times are written in loc.
func buildHistoryWorkbook(entries []ports.HistoryEntry, loc *time.Location) (*bytes.Buffer, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(file.GetActiveSheetIndex()), historySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, header := range historyHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(historySheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, e := range entries {
		row := i + 2
		values := []any{
			i + 1,
			e.EmployeeName,
			e.EmployeeCode,
			e.Department,
			e.Date,
			e.CheckInTime.In(loc).Format("15:04:05"),
			string(e.Status),
			fmt.Sprintf("%.0f%%", e.Confidence*100),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(historySheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
	}

	if err := file.SetPanes(historySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func exportFilename(filter ports.HistoryFilter, now time.Time) string {
	switch {
	case filter.StartDate != "" && filter.EndDate != "":
		return fmt.Sprintf("attendance-%s_%s.xlsx", filter.StartDate, filter.EndDate)
	case filter.StartDate != "":
		return fmt.Sprintf("attendance-%s.xlsx", filter.StartDate)
	default:
		return fmt.Sprintf("attendance-%s.xlsx", now.Format("2006-01-02"))
	}
}
