package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

// GigRepository reads the gig catalog. Gig authoring lives in the teacher
// portal; the booking engine only consumes it.
type GigRepository struct {
	db *sqlx.DB
}

// NewGigRepository constructs the repository.
func NewGigRepository(db *sqlx.DB) *GigRepository {
	return &GigRepository{db: db}
}

// FindByID returns a gig by id.
func (r *GigRepository) FindByID(ctx context.Context, id string) (*models.Gig, error) {
	const query = `SELECT id, teacher_id, title, subject, description, price_per_session, total_sessions,
		session_duration_hours, max_students, class_type, created_at, updated_at
		FROM gigs WHERE id = $1`
	var gig models.Gig
	if err := r.db.GetContext(ctx, &gig, query, id); err != nil {
		return nil, err
	}
	return &gig, nil
}

// FindDetailByID returns a gig joined with the teacher's display profile.
func (r *GigRepository) FindDetailByID(ctx context.Context, id string) (*models.GigDetail, error) {
	const query = `SELECT g.id, g.teacher_id, g.title, g.subject, g.description, g.price_per_session,
		g.total_sessions, g.session_duration_hours, g.max_students, g.class_type, g.created_at, g.updated_at,
		u.full_name AS teacher_name, u.avatar_url AS teacher_avatar
		FROM gigs g JOIN users u ON u.id = g.teacher_id
		WHERE g.id = $1`
	var detail models.GigDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByTeacher returns the teacher's published gigs.
func (r *GigRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Gig, error) {
	const query = `SELECT id, teacher_id, title, subject, description, price_per_session, total_sessions,
		session_duration_hours, max_students, class_type, created_at, updated_at
		FROM gigs WHERE teacher_id = $1 ORDER BY created_at DESC`
	gigs := []models.Gig{}
	if err := r.db.SelectContext(ctx, &gigs, query, teacherID); err != nil {
		return nil, fmt.Errorf("list gigs: %w", err)
	}
	return gigs, nil
}
