package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/dto"
	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/schedule"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type availabilityRepo interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherAvailability, error)
	UpsertBatch(ctx context.Context, rows []models.TeacherAvailability) error
}

// AvailabilityConfig carries the window used for days a teacher has never
// saved.
type AvailabilityConfig struct {
	DefaultStartHour int
	DefaultEndHour   int
}

// AvailabilityService owns the teacher's weekly availability windows.
type AvailabilityService struct {
	repo      availabilityRepo
	cfg       AvailabilityConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService builds the service.
func NewAvailabilityService(repo availabilityRepo, cfg AvailabilityConfig, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultStartHour <= 0 {
		cfg.DefaultStartHour = 9
	}
	if cfg.DefaultEndHour <= cfg.DefaultStartHour {
		cfg.DefaultEndHour = 17
	}
	RegisterHourSlotValidation(validate)
	return &AvailabilityService{repo: repo, cfg: cfg, validator: validate, logger: logger}
}

// RegisterHourSlotValidation adds the "hourslot" rule checking hour-aligned
// "HH:00" strings.
func RegisterHourSlotValidation(validate *validator.Validate) {
	_ = validate.RegisterValidation("hourslot", func(fl validator.FieldLevel) bool {
		_, err := schedule.HourOf(fl.Field().String())
		return err == nil
	})
}

// List returns the teacher's full week, merging stored rows with defaults.
// A teacher who never saved gets the Mon-Fri default window; days missing
// from a saved set come back unavailable.
func (s *AvailabilityService) List(ctx context.Context, teacherID string) ([]models.TeacherAvailability, error) {
	stored, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}

	byDay := make(map[int]models.TeacherAvailability, len(stored))
	for _, row := range stored {
		byDay[row.DayOfWeek] = row
	}

	week := make([]models.TeacherAvailability, 0, 7)
	for day := 0; day < 7; day++ {
		if row, ok := byDay[day]; ok {
			week = append(week, row)
			continue
		}
		week = append(week, models.TeacherAvailability{
			TeacherID:   teacherID,
			DayOfWeek:   day,
			IsAvailable: len(stored) == 0 && day >= 1 && day <= 5,
			StartTime:   schedule.FormatHour(s.cfg.DefaultStartHour),
			EndTime:     schedule.FormatHour(s.cfg.DefaultEndHour),
		})
	}
	return week, nil
}

// Upsert saves the teacher's availability editor state.
func (s *AvailabilityService) Upsert(ctx context.Context, teacherID string, req dto.UpsertAvailabilityRequest) ([]models.TeacherAvailability, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}

	seen := map[int]bool{}
	rows := make([]models.TeacherAvailability, 0, len(req.Days))
	for _, day := range req.Days {
		if seen[day.DayOfWeek] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate weekday in availability payload")
		}
		seen[day.DayOfWeek] = true

		start, err := schedule.HourOf(day.StartTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
		}
		end, err := schedule.HourOf(day.EndTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end time")
		}
		if day.IsAvailable && start >= end {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start time must be before end time")
		}

		rows = append(rows, models.TeacherAvailability{
			TeacherID:   teacherID,
			DayOfWeek:   day.DayOfWeek,
			IsAvailable: day.IsAvailable,
			StartTime:   day.StartTime,
			EndTime:     day.EndTime,
		})
	}

	if err := s.repo.UpsertBatch(ctx, rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save availability")
	}

	s.logger.Info("availability saved",
		zap.String("teacher_id", teacherID),
		zap.Int("days", len(rows)),
	)
	return s.List(ctx, teacherID)
}

// Windows returns the teacher's bookable windows, available days only, in
// the shape the slot resolver consumes.
func (s *AvailabilityService) Windows(ctx context.Context, teacherID string) ([]schedule.Window, error) {
	week, err := s.List(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	windows := make([]schedule.Window, 0, len(week))
	for _, row := range week {
		if !row.IsAvailable {
			continue
		}
		windows = append(windows, schedule.Window{Day: row.DayOfWeek, Start: row.StartTime, End: row.EndTime})
	}
	return windows, nil
}
