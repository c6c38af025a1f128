package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

func TestSettingsHandler_Get(t *testing.T) {
	svc := &stubSettingsService{values: map[string]string{
		domain.SettingWorkStartTime:        "08:30",
		domain.SettingLateThresholdMinutes: "15",
		domain.SettingConfidenceThreshold:  "0.5",
	}}

	c, rec := newContext(http.MethodGet, "/api/settings", nil)
	if err := NewSettingsHandler(svc).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	_, data := decodeResponse(t, rec)
	if data[domain.SettingWorkStartTime] != "08:30" {
		t.Fatalf("unexpected settings: %+v", data)
	}
}

func TestSettingsHandler_Update_StringifiesNumbers(t *testing.T) {
	var got map[string]string
	svc := &stubSettingsService{
		setFn: func(ctx context.Context, values map[string]string) error {
			got = values
			return nil
		},
	}

	c, rec := newContext(http.MethodPut, "/api/settings",
		jsonBody(`{"work_start_time":"08:30","late_threshold_minutes":10,"confidence_threshold":0.75}`))
	if err := NewSettingsHandler(svc).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	want := map[string]string{
		"work_start_time":        "08:30",
		"late_threshold_minutes": "10",
		"confidence_threshold":   "0.75",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
	resp, _ := decodeResponse(t, rec)
	if !resp.Success || resp.Message != "Settings updated successfully" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestSettingsHandler_Update_RejectsNestedValues(t *testing.T) {
	svc := &stubSettingsService{
		setFn: func(context.Context, map[string]string) error {
			t.Fatalf("service must not be called")
			return nil
		},
	}
	c, _ := newContext(http.MethodPost, "/api/settings", jsonBody(`{"work_start_time":{"h":8}}`))
	assertKind(t, NewSettingsHandler(svc).Update(c), domain.KindInvalidInput)
}

func TestSettingsHandler_Update_ServiceValidation(t *testing.T) {
	svc := &stubSettingsService{
		setFn: func(context.Context, map[string]string) error {
			return domain.NewError(domain.KindInvalidInput, "confidence_threshold must be a number between 0 and 1", nil)
		},
	}
	c, _ := newContext(http.MethodPost, "/api/settings", jsonBody(`{"confidence_threshold":3}`))
	assertKind(t, NewSettingsHandler(svc).Update(c), domain.KindInvalidInput)
}

func TestDepartmentHandler(t *testing.T) {
	svc := &stubDepartmentService{
		createFn: func(ctx context.Context, name, description string) (*domain.Department, error) {
			if name == "Engineering" {
				return nil, domain.NewError(domain.KindDuplicate, "Department already exists", nil)
			}
			return &domain.Department{ID: "dep-1", Name: name, Description: description}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			if id != "dep-1" {
				return domain.NewError(domain.KindNotFound, "Department not found", nil)
			}
			return nil
		},
	}
	h := NewDepartmentHandler(svc)

	c, rec := newContext(http.MethodPost, "/api/departments", jsonBody(`{"name":"Sales","description":"Field team"}`))
	if err := h.Create(c); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodPost, "/api/departments", jsonBody(`{"name":"Engineering"}`))
	assertKind(t, h.Create(c), domain.KindDuplicate)

	c, rec = newContext(http.MethodDelete, "/api/departments/dep-1", nil)
	c.SetParamNames("id")
	c.SetParamValues("dep-1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if resp, _ := decodeResponse(t, rec); resp.Message != "Department deleted" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}

	c, _ = newContext(http.MethodDelete, "/api/departments/dep-9", nil)
	c.SetParamNames("id")
	c.SetParamValues("dep-9")
	assertKind(t, h.Delete(c), domain.KindNotFound)
}
