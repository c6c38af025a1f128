package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/facecheck/attendance-api/internal/core/domain"
	"github.com/facecheck/attendance-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (string, *domain.Admin, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) CreateAdmin(context.Context, string, string) (*domain.Admin, error) {
	panic("not used")
}

func (s *stubAuthService) HasAdmin(context.Context) (bool, error) {
	panic("not used")
}

type stubAttendanceService struct {
	markFn    func(ctx context.Context, image string) (*ports.MarkAttendanceResult, error)
	health    ports.RecognizerHealth
	historyFn func(ctx context.Context, filter ports.HistoryFilter) ([]ports.HistoryEntry, error)
	statsFn   func(ctx context.Context) (*ports.DailyStats, error)
	recentFn  func(ctx context.Context) ([]ports.RecentCheckIn, error)
}

func (s *stubAttendanceService) MarkAttendance(ctx context.Context, image string) (*ports.MarkAttendanceResult, error) {
	return s.markFn(ctx, image)
}

func (s *stubAttendanceService) RecognizerHealth(context.Context) ports.RecognizerHealth {
	return s.health
}

func (s *stubAttendanceService) History(ctx context.Context, filter ports.HistoryFilter) ([]ports.HistoryEntry, error) {
	return s.historyFn(ctx, filter)
}

func (s *stubAttendanceService) Stats(ctx context.Context) (*ports.DailyStats, error) {
	return s.statsFn(ctx)
}

func (s *stubAttendanceService) Recent(ctx context.Context) ([]ports.RecentCheckIn, error) {
	return s.recentFn(ctx)
}

type stubEmployeeService struct {
	listFn   func(ctx context.Context, filter ports.EmployeeFilter) ([]*domain.Employee, error)
	getFn    func(ctx context.Context, id string) (*domain.Employee, error)
	createFn func(ctx context.Context, in ports.CreateEmployeeInput) (*domain.Employee, error)
	updateFn func(ctx context.Context, id string, u ports.EmployeeUpdate) (*domain.Employee, error)
	deleteFn func(ctx context.Context, id string) error
	enrollFn func(ctx context.Context, id, image string) (*ports.EnrollResult, error)
}

func (s *stubEmployeeService) List(ctx context.Context, filter ports.EmployeeFilter) ([]*domain.Employee, error) {
	return s.listFn(ctx, filter)
}

func (s *stubEmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	return s.getFn(ctx, id)
}

func (s *stubEmployeeService) Create(ctx context.Context, in ports.CreateEmployeeInput) (*domain.Employee, error) {
	return s.createFn(ctx, in)
}

func (s *stubEmployeeService) Update(ctx context.Context, id string, u ports.EmployeeUpdate) (*domain.Employee, error) {
	return s.updateFn(ctx, id, u)
}

func (s *stubEmployeeService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubEmployeeService) EnrollFace(ctx context.Context, id, image string) (*ports.EnrollResult, error) {
	return s.enrollFn(ctx, id, image)
}

type stubDepartmentService struct {
	listFn   func(ctx context.Context) ([]*domain.Department, error)
	createFn func(ctx context.Context, name, description string) (*domain.Department, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubDepartmentService) List(ctx context.Context) ([]*domain.Department, error) {
	return s.listFn(ctx)
}

func (s *stubDepartmentService) Create(ctx context.Context, name, description string) (*domain.Department, error) {
	return s.createFn(ctx, name, description)
}

func (s *stubDepartmentService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubSettingsService struct {
	values map[string]string
	getErr error
	setFn  func(ctx context.Context, values map[string]string) error
}

func (s *stubSettingsService) Get(_ context.Context, key, def string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

func (s *stubSettingsService) GetAll(context.Context) (map[string]string, error) {
	return s.values, s.getErr
}

func (s *stubSettingsService) SetAll(ctx context.Context, values map[string]string) error {
	return s.setFn(ctx, values)
}

// newContext builds an echo context with the validator registered, as the router does.
func newContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) (Response, map[string]any) {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func assertKind(t *testing.T, err error, want domain.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := domain.KindOf(err); got != want {
		t.Fatalf("expected kind %s, got %s (%v)", want, got, err)
	}
}
