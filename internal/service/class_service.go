package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/parsamooz/school-api/internal/models"
	appErrors "github.com/parsamooz/school-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, schoolCode string) ([]models.Class, error)
	FindByCode(ctx context.Context, schoolCode, classCode string) (*models.Class, error)
}

// ClassService exposes class lookups including teaching assignments.
type ClassService struct {
	repo   classRepository
	logger *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(repo classRepository, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, logger: logger}
}

// List returns the classes of one school.
func (s *ClassService) List(ctx context.Context, schoolCode string) ([]models.Class, error) {
	if schoolCode == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schoolCode is required")
	}
	classes, err := s.repo.List(ctx, schoolCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Get loads one class with its teacher/course assignments.
func (s *ClassService) Get(ctx context.Context, schoolCode, classCode string) (*models.Class, error) {
	class, err := s.repo.FindByCode(ctx, schoolCode, classCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}
