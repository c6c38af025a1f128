package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/facecheck/attendance-api/internal/core/domain"
	"github.com/facecheck/attendance-api/internal/core/ports"
)

type DepartmentService struct {
	repo   ports.DepartmentRepository
	logger zerolog.Logger
}

func NewDepartmentService(repo ports.DepartmentRepository, logger zerolog.Logger) *DepartmentService {
	return &DepartmentService{repo: repo, logger: logger}
}

func (s *DepartmentService) List(ctx context.Context) ([]*domain.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not fetch departments", err)
	}
	return departments, nil
}

// Create adds a department. Names are unique; the unique index covers races
// the pre-check misses.
func (s *DepartmentService) Create(ctx context.Context, name, description string) (*domain.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewError(domain.KindInvalidInput, "Department name is required", nil)
	}

	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not create department", err)
	}
	if exists {
		return nil, domain.NewError(domain.KindDuplicate, "Department already exists", nil)
	}

	created, err := s.repo.Create(ctx, &domain.Department{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewError(domain.KindDuplicate, "Department already exists", err)
		}
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not create department", err)
	}

	s.logger.Info().Str("department_id", created.ID).Str("name", created.Name).Msg("department created")
	return created, nil
}

func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewError(domain.KindNotFound, "Department not found", err)
		}
		return domain.NewError(domain.KindStorageUnavailable, "Could not delete department", err)
	}
	return nil
}
