package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/facecheck/attendance-api/internal/core/domain"
	"github.com/facecheck/attendance-api/internal/core/ports"
	"github.com/facecheck/attendance-api/internal/pkg/imagedata"
)

// EmployeeService manages the employee directory and face enrollment.
type EmployeeService struct {
	repo       ports.EmployeeRepository
	recognizer ports.Recognizer
	logger     zerolog.Logger
}

func NewEmployeeService(repo ports.EmployeeRepository, recognizer ports.Recognizer, logger zerolog.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, recognizer: recognizer, logger: logger}
}

func (s *EmployeeService) List(ctx context.Context, filter ports.EmployeeFilter) ([]*domain.Employee, error) {
	if filter.Status != "" && !domain.EmployeeStatus(filter.Status).Valid() {
		return nil, domain.NewError(domain.KindInvalidInput, "status must be active or inactive", nil)
	}
	employees, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not fetch employees", err)
	}
	return employees, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapEmployeeErr(err)
	}
	return e, nil
}

// Create adds an active employee. Email and employee code must be unused.
func (s *EmployeeService) Create(ctx context.Context, in ports.CreateEmployeeInput) (*domain.Employee, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.EmployeeCode = strings.TrimSpace(in.EmployeeCode)
	if in.FullName == "" {
		return nil, domain.NewError(domain.KindInvalidInput, "full_name is required", nil)
	}
	if in.DateOfJoining != "" {
		if _, err := time.Parse(domain.DateLayout, in.DateOfJoining); err != nil {
			return nil, domain.NewError(domain.KindInvalidInput, "date_of_joining must be YYYY-MM-DD", nil)
		}
	}

	if in.Email != "" || in.EmployeeCode != "" {
		exists, err := s.repo.ExistsByEmailOrCode(ctx, in.Email, in.EmployeeCode)
		if err != nil {
			return nil, domain.NewError(domain.KindStorageUnavailable, "Could not create employee", err)
		}
		if exists {
			return nil, duplicateEmployee()
		}
	}

	e := &domain.Employee{
		EmployeeCode:  in.EmployeeCode,
		FullName:      in.FullName,
		Email:         in.Email,
		Phone:         in.Phone,
		Department:    in.Department,
		Designation:   in.Designation,
		DateOfJoining: in.DateOfJoining,
		Status:        domain.EmployeeActive,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateEmployee()
		}
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not create employee", err)
	}

	s.logger.Info().Str("employee_id", created.ID).Str("full_name", created.FullName).Msg("employee created")
	return created, nil
}

func (s *EmployeeService) Update(ctx context.Context, id string, u ports.EmployeeUpdate) (*domain.Employee, error) {
	if u.Status != nil && !u.Status.Valid() {
		return nil, domain.NewError(domain.KindInvalidInput, "status must be active or inactive", nil)
	}
	if u.FullName != nil && strings.TrimSpace(*u.FullName) == "" {
		return nil, domain.NewError(domain.KindInvalidInput, "full_name cannot be empty", nil)
	}
	if u.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*u.Email))
		u.Email = &email
	}
	if u.DateOfJoining != nil && *u.DateOfJoining != "" {
		if _, err := time.Parse(domain.DateLayout, *u.DateOfJoining); err != nil {
			return nil, domain.NewError(domain.KindInvalidInput, "date_of_joining must be YYYY-MM-DD", nil)
		}
	}

	updated, err := s.repo.Update(ctx, id, u)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateEmployee()
		}
		return nil, mapEmployeeErr(err)
	}
	return updated, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapEmployeeErr(err)
	}
	s.logger.Info().Str("employee_id", id).Msg("employee deleted")
	return nil
}

// EnrollFace registers the face on image with the recognizer under the
// employee's full name and links the returned label to the employee.
func (s *EmployeeService) EnrollFace(ctx context.Context, id, image string) (*ports.EnrollResult, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapEmployeeErr(err)
	}

	img, err := imagedata.Decode(image)
	if err != nil {
		if errors.Is(err, imagedata.ErrEmpty) {
			return nil, domain.NewError(domain.KindInvalidInput, "No image provided", nil)
		}
		return nil, domain.NewError(domain.KindInvalidInput, "Invalid image: "+err.Error(), err)
	}

	enrollment, err := s.recognizer.Enroll(ctx, e.FullName, img.Bytes)
	if err != nil {
		s.logger.Error().Err(err).Str("employee_id", id).Msg("face enrollment request failed")
		return nil, domain.NewError(domain.KindUpstreamUnavailable, "Face recognition service failed", err)
	}
	if !enrollment.Success {
		msg := enrollment.Message
		if msg == "" {
			msg = "Face enrollment failed"
		}
		return nil, domain.NewError(domain.KindInvalidInput, msg, nil)
	}

	identity := strings.TrimSpace(enrollment.Name)
	if identity == "" {
		identity = e.FullName
	}
	if err := s.repo.SetFaceIdentity(ctx, id, identity); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewError(domain.KindDuplicate, "Face identity is already linked to another employee", err)
		}
		return nil, mapEmployeeErr(err)
	}
	e.FaceIdentity = identity

	s.logger.Info().Str("employee_id", id).Str("face_identity", identity).Msg("face enrolled")

	msg := enrollment.Message
	if msg == "" {
		msg = "Face enrolled successfully"
	}
	return &ports.EnrollResult{Employee: e, FaceIdentity: identity, Message: msg}, nil
}

func duplicateEmployee() error {
	return domain.NewError(domain.KindDuplicate, "Employee with this email or code already exists", nil)
}

func mapEmployeeErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewError(domain.KindNotFound, "Employee not found", err)
	}
	return domain.NewError(domain.KindStorageUnavailable, "Employee directory unavailable", err)
}
