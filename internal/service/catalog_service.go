package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type gigCatalogRepo interface {
	FindDetailByID(ctx context.Context, id string) (*models.GigDetail, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Gig, error)
}

type studentCatalogRepo interface {
	ListByParent(ctx context.Context, parentID string) ([]models.Student, error)
}

// CatalogService is the read side feeding the booking form: gig details
// with the teacher's profile and a parent's student roster.
type CatalogService struct {
	gigs     gigCatalogRepo
	students studentCatalogRepo
	logger   *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(gigs gigCatalogRepo, students studentCatalogRepo, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{gigs: gigs, students: students, logger: logger}
}

// GigDetail returns a gig with its teacher profile.
func (s *CatalogService) GigDetail(ctx context.Context, id string) (*models.GigDetail, error) {
	gig, err := s.gigs.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "gig not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load gig")
	}
	return gig, nil
}

// TeacherGigs returns a teacher's published gigs.
func (s *CatalogService) TeacherGigs(ctx context.Context, teacherID string) ([]models.Gig, error) {
	gigs, err := s.gigs.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list gigs")
	}
	return gigs, nil
}

// Students returns the caller's student roster.
func (s *CatalogService) Students(ctx context.Context, parentID string) ([]models.Student, error) {
	students, err := s.students.ListByParent(ctx, parentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}
