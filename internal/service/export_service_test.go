package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursehub-api/internal/models"
	appErrors "github.com/noah-isme/coursehub-api/pkg/errors"
)

func newExportFixture() *ExportService {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeCourseRepo(
		&models.Course{ID: "c1", Title: "Go", Description: "Learn Go", Context: "one two three", Active: true, InstructorID: "i1", CreatedAt: created},
		&models.Course{ID: "c2", Title: "Other", Description: "x", Context: "x", Active: true, InstructorID: "i2", CreatedAt: created},
	)
	svc := NewExportService(repo, nil)
	svc.now = func() time.Time { return time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestExportServiceCSV(t *testing.T) {
	svc := newExportFixture()

	res, err := svc.ExportOwnCatalog(context.Background(), instructorClaims("i1"), "csv")
	require.NoError(t, err)
	assert.Equal(t, "courses-20240402.csv", res.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", res.ContentType)

	lines := strings.Split(strings.TrimSpace(string(res.Payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Title,Description,Context words,Created", lines[0])
	assert.Equal(t, "Go,Learn Go,3,2024-03-01", lines[1])
}

func TestExportServicePDF(t *testing.T) {
	svc := newExportFixture()

	res, err := svc.ExportOwnCatalog(context.Background(), instructorClaims("i1"), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, bytes.HasPrefix(res.Payload, []byte("%PDF-")))
}

func TestExportServiceRejectsStudentsAndUnknownFormats(t *testing.T) {
	svc := newExportFixture()

	_, err := svc.ExportOwnCatalog(context.Background(), studentClaims("s1"), "csv")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.ExportOwnCatalog(context.Background(), instructorClaims("i1"), "xml")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
