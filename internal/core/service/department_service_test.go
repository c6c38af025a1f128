package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

func TestDepartmentService_Create(t *testing.T) {
	repo := newStubDepartmentRepo()
	svc := NewDepartmentService(repo, zerolog.Nop())

	d, err := svc.Create(context.Background(), "  Engineering ", "Builds things")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if d.ID == "" || d.Name != "Engineering" {
		t.Fatalf("unexpected department: %+v", d)
	}
}

func TestDepartmentService_Create_Duplicate(t *testing.T) {
	repo := newStubDepartmentRepo()
	svc := NewDepartmentService(repo, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Finance", ""); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(ctx, "Finance", "again")
	if domain.KindOf(err) != domain.KindDuplicate {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if len(repo.departments) != 1 {
		t.Errorf("expected 1 department, got %d", len(repo.departments))
	}
}

func TestDepartmentService_Create_NameRequired(t *testing.T) {
	svc := NewDepartmentService(newStubDepartmentRepo(), zerolog.Nop())

	if _, err := svc.Create(context.Background(), "   ", ""); domain.KindOf(err) != domain.KindInvalidInput {
		t.Fatalf("expected invalid_input, got %v", err)
	}
}

func TestDepartmentService_Delete_NotFound(t *testing.T) {
	svc := NewDepartmentService(newStubDepartmentRepo(), zerolog.Nop())

	if err := svc.Delete(context.Background(), "missing"); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
