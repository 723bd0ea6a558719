package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/policy"
	appErrors "github.com/noah-isme/coursehub-api/pkg/errors"
	"github.com/noah-isme/coursehub-api/pkg/export"
)

type catalogRepository interface {
	ListAllActiveByInstructor(ctx context.Context, instructorID string) ([]models.CourseSummary, error)
}

// ExportResult is a rendered catalog ready to be served as a download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders an instructor's course catalog.
type ExportService struct {
	courses catalogRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(courses catalogRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{courses: courses, logger: logger, now: time.Now}
}

// ExportOwnCatalog renders the acting instructor's active courses as CSV or PDF.
func (s *ExportService) ExportOwnCatalog(ctx context.Context, actor *models.JWTClaims, rawFormat string) (*ExportResult, error) {
	if !policy.IsInstructor(actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only instructors can export their catalog")
	}
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Validation("format", "format must be csv or pdf")
	}

	courses, err := s.courses.ListAllActiveByInstructor(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}

	dataset := export.Dataset{
		Title: fmt.Sprintf("Course catalog - %s", actor.FullName),
		Columns: []export.Column{
			{Title: "Title", Weight: 2},
			{Title: "Description", Weight: 4},
			{Title: "Context words", Weight: 1},
			{Title: "Created", Weight: 1},
		},
		Rows: make([][]string, 0, len(courses)),
	}
	for _, c := range courses {
		dataset.Rows = append(dataset.Rows, []string{
			c.Title,
			c.Description,
			fmt.Sprintf("%d", WordCount(c.Context)),
			c.CreatedAt.UTC().Format("2006-01-02"),
		})
	}

	payload, err := export.Render(format, dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render catalog")
	}

	s.logger.Info("catalog exported",
		zap.String("instructor_id", actor.UserID),
		zap.String("format", string(format)),
		zap.Int("courses", len(courses)),
	)

	return &ExportResult{
		Filename:    fmt.Sprintf("courses-%s.%s", s.now().UTC().Format("20060102"), format),
		ContentType: format.ContentType(),
		Payload:     payload,
	}, nil
}
