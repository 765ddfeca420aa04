package medicalreport

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrReportNotFound is returned when no medical report exists for an id.
var ErrReportNotFound = errors.New("medical report not found")

// RawReportRepository fetches and stores raw medical reports.
type RawReportRepository interface {
	Create(ctx context.Context, r *StoredReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*StoredReport, error)
	// ListByEmployee returns one page of an employee's reports, newest first,
	// and the total number of reports on file for that employee.
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, limit, offset int) ([]*StoredReport, int, error)
}
