package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/export"
)

type bookingGetter interface {
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.BookingWithSessions, error)
}

// ExportFormat selects the rendered schedule format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered document and its HTTP metadata.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders a booking's session schedule as a downloadable
// document. Access control is the booking engine's: whoever may read the
// booking may export it.
type ExportService struct {
	bookings bookingGetter
	logger   *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(bookings bookingGetter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{bookings: bookings, logger: logger}
}

// Schedule exports the session calendar of one booking.
func (s *ExportService) Schedule(ctx context.Context, bookingID string, actor *models.JWTClaims, format ExportFormat) (*ExportResult, error) {
	result, err := s.bookings.Get(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}

	dataset := scheduleDataset(result)
	switch format {
	case ExportFormatCSV:
		data, err := export.CSV(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("booking-%s-schedule.csv", bookingID),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportFormatPDF:
		data, err := export.PDF(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("booking-%s-schedule.pdf", bookingID),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func scheduleDataset(result *models.BookingWithSessions) export.Dataset {
	headers := []string{"#", "Date", "Day", "Time", "Status", "Meeting Link"}
	rows := make([]map[string]string, 0, len(result.Sessions))
	for _, session := range result.Sessions {
		link := ""
		if session.MeetingLink != nil {
			link = *session.MeetingLink
		}
		rows = append(rows, map[string]string{
			"#":            fmt.Sprintf("%d", session.SessionNumber),
			"Date":         session.SessionDate.Format("2006-01-02"),
			"Day":          models.DayNames[int(session.SessionDate.Weekday())],
			"Time":         session.SessionTime,
			"Status":       string(session.Status),
			"Meeting Link": link,
		})
	}
	return export.Dataset{
		Title:   fmt.Sprintf("Session Schedule %s", result.Booking.ID),
		Headers: headers,
		Rows:    rows,
	}
}
