package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/dto"
	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/repository"
	"github.com/tutorhive/tutorhive-api/internal/schedule"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type gigReader interface {
	FindByID(ctx context.Context, id string) (*models.Gig, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type availabilityReader interface {
	Windows(ctx context.Context, teacherID string) ([]schedule.Window, error)
}

type bookingRepo interface {
	Create(ctx context.Context, exec sqlx.ExtContext, booking *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.BookingStatus) error
	SetMeetingLink(ctx context.Context, exec sqlx.ExtContext, id, link string) error
}

type sessionRepo interface {
	BulkCreate(ctx context.Context, exec sqlx.ExtContext, teacherID string, sessions []models.BookingSession) error
	ListByBooking(ctx context.Context, bookingID string) ([]models.BookingSession, error)
	FindByBookingAndNumber(ctx context.Context, bookingID string, number int) (*models.BookingSession, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.SessionStatus) error
	SetMeetingLinkByBooking(ctx context.Context, exec sqlx.ExtContext, bookingID, link string) error
	CancelRemainingByBooking(ctx context.Context, exec sqlx.ExtContext, bookingID string) error
	CountByBookingAndStatus(ctx context.Context, bookingID string, status models.SessionStatus) (int, error)
	CountScheduledAtSlot(ctx context.Context, exec sqlx.ExtContext, teacherID string, date time.Time, sessionTime string) (int, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type notifier interface {
	Publish(ctx context.Context, event models.NotificationEvent)
}

type draftCleaner interface {
	Delete(ctx context.Context, parentID, gigID string) error
}

// BookingConfig bounds booking submissions.
type BookingConfig struct {
	MaxSessionsPerWeek int
	MaxTotalSessions   int
}

// BookingService is the booking lifecycle engine: it validates
// submissions, derives the session calendar, owns every status transition
// and publishes the resulting notifications.
type BookingService struct {
	gigs         gigReader
	students     studentReader
	availability availabilityReader
	bookings     bookingRepo
	sessions     sessionRepo
	tx           txProvider
	notifier     notifier
	drafts       draftCleaner
	metrics      *MetricsService
	cfg          BookingConfig
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewBookingService wires the engine's dependencies. drafts and metrics
// may be nil.
func NewBookingService(
	gigs gigReader,
	students studentReader,
	availability availabilityReader,
	bookings bookingRepo,
	sessions sessionRepo,
	tx txProvider,
	notifier notifier,
	drafts draftCleaner,
	metrics *MetricsService,
	cfg BookingConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxSessionsPerWeek <= 0 {
		cfg.MaxSessionsPerWeek = 7
	}
	if cfg.MaxTotalSessions <= 0 {
		cfg.MaxTotalSessions = 64
	}
	return &BookingService{
		gigs:         gigs,
		students:     students,
		availability: availability,
		bookings:     bookings,
		sessions:     sessions,
		tx:           tx,
		notifier:     notifier,
		drafts:       drafts,
		metrics:      metrics,
		cfg:          cfg,
		validator:    validate,
		logger:       logger,
	}
}

// SlotMenu resolves the bookable time slots for a gig and a weekday
// selection: the shared intersection plus each day's own menu. The booking
// form preview and the submission path share this single resolver.
func (s *BookingService) SlotMenu(ctx context.Context, gigID string, days []int) (*dto.SlotMenuResponse, error) {
	gig, err := s.loadGig(ctx, gigID)
	if err != nil {
		return nil, err
	}

	windows, err := s.availability.Windows(ctx, gig.TeacherID)
	if err != nil {
		return nil, err
	}

	availableDays := make([]int, 0, len(windows))
	for _, w := range windows {
		availableDays = append(availableDays, w.Day)
	}
	sort.Ints(availableDays)

	shared, err := schedule.SharedSlots(windows, days)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability window")
	}
	perDay, err := schedule.PerDaySlots(windows, days)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability window")
	}

	if shared == nil {
		shared = []string{}
	}
	return &dto.SlotMenuResponse{AvailableDays: availableDays, SharedSlots: shared, PerDaySlots: perDay}, nil
}

// PreviewDates computes the session calendar a submission with these
// parameters would produce, without persisting anything.
func (s *BookingService) PreviewDates(ctx context.Context, gigID string, req dto.CreateBookingRequest) ([]dto.SessionDatePreview, error) {
	gig, err := s.loadGig(ctx, gigID)
	if err != nil {
		return nil, err
	}

	total := gig.TotalSessions
	if total < 1 {
		total = 1
	}
	dates, err := schedule.GenerateSessionDates(req.StartDate, req.Weekdays, total)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule selection")
	}

	preview := make([]dto.SessionDatePreview, 0, len(dates))
	for i, date := range dates {
		preview = append(preview, dto.SessionDatePreview{
			SessionNumber: i + 1,
			SessionDate:   date,
			SessionTime:   s.timeForDay(req, int(date.Weekday())),
		})
	}
	return preview, nil
}

// Create validates a parent's submission, derives the session calendar and
// persists the booking together with all session rows in one transaction.
func (s *BookingService) Create(ctx context.Context, parentID string, req dto.CreateBookingRequest) (*models.BookingWithSessions, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	weekdays, err := normalizeWeekdays(req.Weekdays)
	if err != nil {
		return nil, err
	}
	if len(weekdays) != req.SessionsPerWeek {
		return nil, appErrors.Clone(appErrors.ErrValidation, "selected weekday count must match sessions per week")
	}
	if req.SessionsPerWeek > s.cfg.MaxSessionsPerWeek {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sessions per week above the allowed maximum")
	}

	gig, err := s.loadGig(ctx, req.GigID)
	if err != nil {
		return nil, err
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.ParentID != parentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student does not belong to this parent")
	}

	windows, err := s.availability.Windows(ctx, gig.TeacherID)
	if err != nil {
		return nil, err
	}
	if err := s.validateSelection(req, weekdays, gig, windows); err != nil {
		return nil, err
	}

	total := gig.TotalSessions
	if total < 1 {
		total = 1
	}
	if total > s.cfg.MaxTotalSessions {
		return nil, appErrors.Clone(appErrors.ErrValidation, "gig session count above the allowed maximum")
	}

	dates, err := schedule.GenerateSessionDates(req.StartDate, weekdays, total)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule selection")
	}

	booking, err := s.buildBooking(parentID, req, weekdays, gig, total)
	if err != nil {
		return nil, err
	}

	sessions := make([]models.BookingSession, 0, len(dates))
	for i, date := range dates {
		sessions = append(sessions, models.BookingSession{
			SessionDate:   date,
			SessionTime:   s.timeForDay(req, int(date.Weekday())),
			SessionNumber: i + 1,
			Status:        models.SessionStatusScheduled,
		})
	}

	if err := s.persistBooking(ctx, booking, sessions, gig.TeacherID); err != nil {
		return nil, err
	}

	if s.drafts != nil {
		if err := s.drafts.Delete(ctx, parentID, req.GigID); err != nil {
			s.logger.Warn("failed to clear booking draft", zap.String("parent_id", parentID), zap.Error(err))
		}
	}

	s.metrics.RecordBookingTransition("submitted")
	s.notifier.Publish(ctx, models.NotificationEvent{
		Type:        models.NotificationBookingSubmitted,
		RecipientID: gig.TeacherID,
		Title:       "New Booking Request",
		Message:     fmt.Sprintf("%s requested %d sessions of %q.", student.Name, total, gig.Title),
		Link:        "/teacher/bookings/" + booking.ID,
	})

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("gig_id", gig.ID),
		zap.Int("sessions", len(sessions)),
	)

	listed, err := s.sessions.ListByBooking(ctx, booking.ID)
	if err != nil {
		listed = sessions
	}
	return &models.BookingWithSessions{Booking: *booking, Sessions: listed}, nil
}

// Get returns a booking with its sessions, restricted to its parties.
func (s *BookingService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.BookingWithSessions, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireParty(booking, actor); err != nil {
		return nil, err
	}

	sessions, err := s.sessions.ListByBooking(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	return &models.BookingWithSessions{Booking: *booking, Sessions: sessions}, nil
}

// List returns the actor's bookings: parents see their own, teachers see
// their inbox, admins see everything.
func (s *BookingService) List(ctx context.Context, actor *models.JWTClaims, filter models.BookingFilter) ([]models.Booking, *models.Pagination, error) {
	switch actor.Role {
	case models.RoleParent:
		filter.ParentID = actor.UserID
	case models.RoleTeacher:
		filter.TeacherID = actor.UserID
	case models.RoleAdmin:
	default:
		return nil, nil, appErrors.ErrForbidden
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	bookings, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	return bookings, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Accept moves a pending booking to pending_payment, stores the optional
// meeting link on the booking and every session, and notifies the parent.
// Accepting an already accepted booking is a no-op: no write, no second
// notification.
func (s *BookingService) Accept(ctx context.Context, id string, actor *models.JWTClaims, req dto.AcceptBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid accept payload")
	}

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireTeacher(booking, actor); err != nil {
		return nil, err
	}

	if booking.Status == models.BookingStatusPendingPayment {
		return booking, nil
	}
	if booking.Status != models.BookingStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot accept a booking in status %s", booking.Status))
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.bookings.UpdateStatus(ctx, tx, id, models.BookingStatusPendingPayment); err != nil {
			return err
		}
		if req.MeetingLink != "" {
			if err := s.bookings.SetMeetingLink(ctx, tx, id, req.MeetingLink); err != nil {
				return err
			}
			if err := s.sessions.SetMeetingLinkByBooking(ctx, tx, id, req.MeetingLink); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to accept booking")
	}

	s.metrics.RecordBookingTransition("accepted")
	s.notifier.Publish(ctx, models.NotificationEvent{
		Type:        models.NotificationBookingAccepted,
		RecipientID: booking.ParentID,
		Title:       "Booking Accepted!",
		Message:     "Your booking has been accepted. Complete payment to confirm your sessions.",
		Link:        "/parent/booking/" + id + "/payment",
	})

	return s.loadBooking(ctx, id)
}

// Decline cancels a pending booking. The session rows stay behind as the
// audit trail of what was requested, but flip to cancelled so the slots
// they held are free again.
func (s *BookingService) Decline(ctx context.Context, id string, actor *models.JWTClaims) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireTeacher(booking, actor); err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot decline a booking in status %s", booking.Status))
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.bookings.UpdateStatus(ctx, tx, id, models.BookingStatusCancelled); err != nil {
			return err
		}
		return s.sessions.CancelRemainingByBooking(ctx, tx, id)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decline booking")
	}

	s.metrics.RecordBookingTransition("declined")
	s.notifier.Publish(ctx, models.NotificationEvent{
		Type:        models.NotificationBookingDeclined,
		RecipientID: booking.ParentID,
		Title:       "Booking Declined",
		Message:     "Unfortunately your booking request was declined by the teacher.",
		Link:        "/parent/bookings",
	})

	return s.loadBooking(ctx, id)
}

// ConfirmPayment moves a booking from pending_payment to confirmed. It is
// driven by the external payment processor, not by either party.
func (s *BookingService) ConfirmPayment(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingStatusConfirmed {
		return booking, nil
	}
	if booking.Status != models.BookingStatusPendingPayment {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot confirm payment for a booking in status %s", booking.Status))
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		return s.bookings.UpdateStatus(ctx, tx, id, models.BookingStatusConfirmed)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to confirm booking")
	}

	s.metrics.RecordBookingTransition("confirmed")
	s.notifier.Publish(ctx, models.NotificationEvent{
		Type:        models.NotificationBookingConfirmed,
		RecipientID: booking.TeacherID,
		Title:       "Booking Confirmed",
		Message:     "Payment received. The session schedule is confirmed.",
		Link:        "/teacher/bookings/" + id,
	})

	return s.loadBooking(ctx, id)
}

// Cancel cancels a confirmed booking. Either party may do this; the other
// one is notified.
func (s *BookingService) Cancel(ctx context.Context, id string, actor *models.JWTClaims) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireParty(booking, actor); err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot cancel a booking in status %s", booking.Status))
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.bookings.UpdateStatus(ctx, tx, id, models.BookingStatusCancelled); err != nil {
			return err
		}
		return s.sessions.CancelRemainingByBooking(ctx, tx, id)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel booking")
	}

	recipient := booking.ParentID
	if actor.UserID == booking.ParentID {
		recipient = booking.TeacherID
	}
	s.metrics.RecordBookingTransition("cancelled")
	s.notifier.Publish(ctx, models.NotificationEvent{
		Type:        models.NotificationBookingCancelled,
		RecipientID: recipient,
		Title:       "Booking Cancelled",
		Message:     "The booking has been cancelled.",
		Link:        "/bookings/" + id,
	})

	return s.loadBooking(ctx, id)
}

// CompleteSession marks one session as completed. When the last scheduled
// session completes, the whole booking transitions to completed.
func (s *BookingService) CompleteSession(ctx context.Context, bookingID string, number int, actor *models.JWTClaims) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := requireTeacher(booking, actor); err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot complete sessions of a booking in status %s", booking.Status))
	}

	session, err := s.sessions.FindByBookingAndNumber(ctx, bookingID, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if session.Status != models.SessionStatusScheduled {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("session already %s", session.Status))
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		return s.sessions.UpdateStatus(ctx, tx, session.ID, models.SessionStatusCompleted)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete session")
	}

	remaining, err := s.sessions.CountByBookingAndStatus(ctx, bookingID, models.SessionStatusScheduled)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sessions")
	}
	if remaining == 0 {
		err = s.withTx(ctx, func(tx *sqlx.Tx) error {
			return s.bookings.UpdateStatus(ctx, tx, bookingID, models.BookingStatusCompleted)
		})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete booking")
		}
		s.metrics.RecordBookingTransition("completed")
		s.notifier.Publish(ctx, models.NotificationEvent{
			Type:        models.NotificationBookingCompleted,
			RecipientID: booking.ParentID,
			Title:       "All Sessions Completed",
			Message:     "Every session of your booking has been completed.",
			Link:        "/parent/bookings",
		})
	}

	return s.loadBooking(ctx, bookingID)
}

func (s *BookingService) loadGig(ctx context.Context, id string) (*models.Gig, error) {
	gig, err := s.gigs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "gig not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load gig")
	}
	return gig, nil
}

func (s *BookingService) loadBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	return booking, nil
}

// validateSelection enforces the schedule constraints: every selected
// weekday must be available, and the chosen time(s) must come out of the
// resolver's menus.
func (s *BookingService) validateSelection(req dto.CreateBookingRequest, weekdays []int, gig *models.Gig, windows []schedule.Window) error {
	available := map[int]bool{}
	for _, w := range windows {
		available[w.Day] = true
	}
	for _, day := range weekdays {
		if !available[day] {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("teacher is not available on %s", models.DayNames[day]))
		}
	}

	if req.SameTimeForAll {
		if req.PreferredTime == "" {
			return appErrors.Clone(appErrors.ErrValidation, "a session time is required")
		}
		shared, err := schedule.SharedSlots(windows, weekdays)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability window")
		}
		if len(shared) == 0 {
			return appErrors.Clone(appErrors.ErrScheduleConflict, "no shared time slot across the selected days; pick a time per day")
		}
		if !containsSlot(shared, req.PreferredTime) {
			return appErrors.Clone(appErrors.ErrValidation, "selected time is outside the shared availability window")
		}
	} else {
		menus, err := schedule.PerDaySlots(windows, weekdays)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability window")
		}
		for _, day := range weekdays {
			chosen, ok := req.PerDayTimes[day]
			if !ok || chosen == "" {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("a session time is required for %s", models.DayNames[day]))
			}
			if !containsSlot(menus[day], chosen) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("selected time is outside the availability window for %s", models.DayNames[day]))
			}
		}
	}

	if gig.ClassType.RequiresLocation() && req.Location == nil {
		return appErrors.Clone(appErrors.ErrValidation, "a session location is required for in-person bookings")
	}
	return nil
}

func (s *BookingService) buildBooking(parentID string, req dto.CreateBookingRequest, weekdays []int, gig *models.Gig, total int) (*models.Booking, error) {
	days := make(pq.Int64Array, 0, len(weekdays))
	for _, day := range weekdays {
		days = append(days, int64(day))
	}

	booking := &models.Booking{
		GigID:              gig.ID,
		StudentID:          req.StudentID,
		ParentID:           parentID,
		TeacherID:          gig.TeacherID,
		Status:             models.BookingStatusPending,
		ScheduledStartDate: schedule.DateOnly(req.StartDate),
		PreferredDays:      days,
		TotalSessions:      total,
	}

	if req.SameTimeForAll {
		preferred := req.PreferredTime
		booking.PreferredTime = &preferred
	} else {
		perDay, err := json.Marshal(req.PerDayTimes)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid per-day times")
		}
		booking.PerDayTimes = perDay
	}

	if req.Location != nil {
		address, lat, lng := req.Location.Address, req.Location.Lat, req.Location.Lng
		booking.LocationAddress = &address
		booking.LocationLat = &lat
		booking.LocationLng = &lng
	}
	return booking, nil
}

// persistBooking writes the booking and all of its session rows in one
// transaction. A failed session insert therefore never leaves an orphan
// booking behind. The scheduled-slot check runs against the same
// transaction; the partial unique index backs it under concurrency.
func (s *BookingService) persistBooking(ctx context.Context, booking *models.Booking, sessions []models.BookingSession, teacherID string) error {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.bookings.Create(ctx, tx, booking); err != nil {
			return err
		}
		for i := range sessions {
			sessions[i].BookingID = booking.ID
			taken, err := s.sessions.CountScheduledAtSlot(ctx, tx, teacherID,
				sessions[i].SessionDate, sessions[i].SessionTime)
			if err != nil {
				return err
			}
			if taken > 0 {
				return appErrors.Clone(appErrors.ErrScheduleConflict,
					fmt.Sprintf("the teacher already has a session on %s at %s",
						sessions[i].SessionDate.Format("2006-01-02"), sessions[i].SessionTime))
			}
		}
		return s.sessions.BulkCreate(ctx, tx, teacherID, sessions)
	})
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		if repository.IsUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrScheduleConflict, "one of the requested session slots was just taken")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist booking")
	}
	return nil
}

func (s *BookingService) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *BookingService) timeForDay(req dto.CreateBookingRequest, weekday int) string {
	if req.SameTimeForAll {
		return req.PreferredTime
	}
	if t, ok := req.PerDayTimes[weekday]; ok {
		return t
	}
	return req.PreferredTime
}

func normalizeWeekdays(raw []int) ([]int, error) {
	seen := map[int]bool{}
	days := make([]int, 0, len(raw))
	for _, day := range raw {
		if day < 0 || day > 6 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "weekday out of range")
		}
		if seen[day] {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate weekday selection")
		}
		seen[day] = true
		days = append(days, day)
	}
	sort.Ints(days)
	return days, nil
}

func containsSlot(slots []string, value string) bool {
	for _, slot := range slots {
		if slot == value {
			return true
		}
	}
	return false
}

func requireTeacher(booking *models.Booking, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role != models.RoleTeacher || actor.UserID != booking.TeacherID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the gig's teacher may do this")
	}
	return nil
}

func requireParty(booking *models.Booking, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.UserID != booking.TeacherID && actor.UserID != booking.ParentID {
		return appErrors.Clone(appErrors.ErrForbidden, "not a party to this booking")
	}
	return nil
}
