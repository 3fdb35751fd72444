package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

// AvailabilityRepository persists per-teacher weekly availability windows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListByTeacher returns every stored availability row for a teacher,
// ordered by weekday.
func (r *AvailabilityRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherAvailability, error) {
	const query = `SELECT id, teacher_id, day_of_week, is_available, start_time, end_time, created_at, updated_at
		FROM teacher_availability WHERE teacher_id = $1 ORDER BY day_of_week`
	rows := []models.TeacherAvailability{}
	if err := r.db.SelectContext(ctx, &rows, query, teacherID); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return rows, nil
}

// UpsertBatch creates or updates a teacher's availability rows. Rows are
// keyed by (teacher_id, day_of_week); saving never deletes.
func (r *AvailabilityRepository) UpsertBatch(ctx context.Context, rows []models.TeacherAvailability) error {
	const query = `INSERT INTO teacher_availability (id, teacher_id, day_of_week, is_available, start_time, end_time, created_at, updated_at)
		VALUES (:id, :teacher_id, :day_of_week, :is_available, :start_time, :end_time, :created_at, :updated_at)
		ON CONFLICT (teacher_id, day_of_week) DO UPDATE
		SET is_available = EXCLUDED.is_available,
		    start_time = EXCLUDED.start_time,
		    end_time = EXCLUDED.end_time,
		    updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.NewString()
		}
		if rows[i].CreatedAt.IsZero() {
			rows[i].CreatedAt = now
		}
		rows[i].UpdatedAt = now
	}

	if _, err := r.db.NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	return nil
}
