package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

func TestSettingsService_GetAll_Defaults(t *testing.T) {
	svc := NewSettingsService(newStubSettingsRepo(nil), nil, zerolog.Nop())

	got, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	for k, v := range domain.DefaultSettings {
		if got[k] != v {
			t.Errorf("%s = %q, want default %q", k, got[k], v)
		}
	}
}

func TestSettingsService_SetAll_RoundTrip(t *testing.T) {
	repo := newStubSettingsRepo(nil)
	svc := NewSettingsService(repo, nil, zerolog.Nop())
	ctx := context.Background()

	err := svc.SetAll(ctx, map[string]string{
		domain.SettingWorkStartTime:       "08:30",
		domain.SettingConfidenceThreshold: "0.7",
	})
	if err != nil {
		t.Fatalf("SetAll returned error: %v", err)
	}

	got, err := svc.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if got[domain.SettingWorkStartTime] != "08:30" || got[domain.SettingConfidenceThreshold] != "0.7" {
		t.Errorf("written values not returned: %v", got)
	}
	if got[domain.SettingLateThresholdMinutes] != "15" {
		t.Errorf("unset key should keep its default, got %q", got[domain.SettingLateThresholdMinutes])
	}
	if v := svc.Get(ctx, domain.SettingWorkStartTime, "09:00"); v != "08:30" {
		t.Errorf("Get = %q, want 08:30", v)
	}
}

func TestSettingsService_SetAll_RejectsInvalidBeforeWriting(t *testing.T) {
	repo := newStubSettingsRepo(nil)
	svc := NewSettingsService(repo, nil, zerolog.Nop())

	err := svc.SetAll(context.Background(), map[string]string{
		domain.SettingWorkStartTime: "08:30",
		"theme":                     "dark",
	})
	if domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected invalid_input, got %v", err)
	}
	if len(repo.values) != 0 {
		t.Errorf("nothing should be written when any key is invalid, got %v", repo.values)
	}
}

func TestSettingsService_SetAll_Empty(t *testing.T) {
	svc := NewSettingsService(newStubSettingsRepo(nil), nil, zerolog.Nop())

	if err := svc.SetAll(context.Background(), nil); domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}

func TestSettingsService_SetAll_StorageFailure(t *testing.T) {
	repo := newStubSettingsRepo(nil)
	repo.upsertErr = errors.New("not primary")
	svc := NewSettingsService(repo, nil, zerolog.Nop())

	err := svc.SetAll(context.Background(), map[string]string{domain.SettingLateThresholdMinutes: "5"})
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestSettingsService_Get_FallsBackWhenStoreFails(t *testing.T) {
	repo := newStubSettingsRepo(nil)
	repo.err = errors.New("connection reset")
	svc := NewSettingsService(repo, nil, zerolog.Nop())

	if v := svc.Get(context.Background(), domain.SettingConfidenceThreshold, "0.5"); v != "0.5" {
		t.Errorf("Get = %q, want default 0.5", v)
	}
	if _, err := svc.GetAll(context.Background()); !errors.Is(err, domain.ErrStorage) {
		t.Errorf("GetAll should report storage failure, got %v", err)
	}
}

func TestSettingsService_Cache(t *testing.T) {
	repo := newStubSettingsRepo(map[string]string{domain.SettingWorkStartTime: "07:45"})
	cache := &stubSettingsCache{}
	svc := NewSettingsService(repo, cache, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if v := svc.Get(ctx, domain.SettingWorkStartTime, "09:00"); v != "07:45" {
			t.Fatalf("Get = %q, want 07:45", v)
		}
	}
	if repo.reads != 1 {
		t.Errorf("expected a single store read behind the cache, got %d", repo.reads)
	}

	if err := svc.SetAll(ctx, map[string]string{domain.SettingWorkStartTime: "10:00"}); err != nil {
		t.Fatalf("SetAll returned error: %v", err)
	}
	if cache.invalidated != 1 {
		t.Errorf("expected cache invalidation after SetAll, got %d", cache.invalidated)
	}
	if v := svc.Get(ctx, domain.SettingWorkStartTime, "09:00"); v != "10:00" {
		t.Errorf("Get after update = %q, want 10:00", v)
	}
}

func TestSettingsService_SetAll_RejectsNaNThreshold(t *testing.T) {
	repo := newStubSettingsRepo(nil)
	svc := NewSettingsService(repo, nil, zerolog.Nop())

	err := svc.SetAll(context.Background(), map[string]string{domain.SettingConfidenceThreshold: "NaN"})
	if domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected invalid_input, got %v", err)
	}
	if _, ok := repo.values[domain.SettingConfidenceThreshold]; ok {
		t.Errorf("NaN threshold must not be stored")
	}
}

func TestSettingsService_ReadOverlappingWriteIsNotCached(t *testing.T) {
	repo := newStubSettingsRepo(map[string]string{domain.SettingWorkStartTime: "07:45"})
	cache := &stubSettingsCache{}
	svc := NewSettingsService(repo, cache, zerolog.Nop())
	ctx := context.Background()

	repo.afterRead = func() {
		if err := svc.SetAll(ctx, map[string]string{domain.SettingWorkStartTime: "10:00"}); err != nil {
			t.Fatalf("SetAll returned error: %v", err)
		}
	}

	if v := svc.Get(ctx, domain.SettingWorkStartTime, "09:00"); v != "07:45" {
		t.Fatalf("Get = %q, want the snapshot value 07:45", v)
	}
	if cache.values != nil {
		t.Fatalf("snapshot read before the write must not be cached, got %v", cache.values)
	}
	if v := svc.Get(ctx, domain.SettingWorkStartTime, "09:00"); v != "10:00" {
		t.Errorf("Get after write = %q, want 10:00", v)
	}
}
