package medicalreport

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service fetches raw reports and assembles their executive view.
type Service struct {
	reports RawReportRepository
	logger  zerolog.Logger
}

// NewService creates a new medical report service.
func NewService(reports RawReportRepository, logger zerolog.Logger) *Service {
	return &Service{reports: reports, logger: logger.With().Str("component", "medicalreport").Logger()}
}

func (s *Service) CreateReport(ctx context.Context, r *StoredReport) error {
	if r == nil {
		return fmt.Errorf("report is required")
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return fmt.Errorf("store report: %w", err)
	}
	s.logger.Info().Str("report_id", r.ID.String()).Msg("medical report stored")
	return nil
}

func (s *Service) GetRawReport(ctx context.Context, id uuid.UUID) (*StoredReport, error) {
	r, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrReportNotFound) {
			s.logger.Error().Err(err).Str("report_id", id.String()).Msg("fetch medical report")
		}
		return nil, err
	}
	return r, nil
}

// ListEmployeeReports returns one page of an employee's stored reports.
func (s *Service) ListEmployeeReports(ctx context.Context, employeeID uuid.UUID, limit, offset int) ([]*StoredReport, int, error) {
	items, total, err := s.reports.ListByEmployee(ctx, employeeID, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Str("employee_id", employeeID.String()).Msg("list medical reports")
		return nil, 0, err
	}
	return items, total, nil
}

// GetExecutiveReport fetches report id and assembles its normalized view.
// The view is rebuilt on every call.
func (s *Service) GetExecutiveReport(ctx context.Context, id uuid.UUID) (*NormalizedReport, error) {
	stored, err := s.GetRawReport(ctx, id)
	if err != nil {
		return nil, err
	}
	report := s.Normalize(&stored.Payload)
	s.logger.Debug().
		Str("report_id", id.String()).
		Str("bmi_status", string(report.PersonalDetails.BMIStatus)).
		Str("whtr_status", string(report.PersonalDetails.WHtRStatus)).
		Str("dominant_risk", string(DominantTier(report.RiskDistribution))).
		Msg("executive report assembled")
	return report, nil
}

// Normalize assembles a report that has not been stored, e.g. for previews.
func (s *Service) Normalize(raw *RawMedicalReport) *NormalizedReport {
	return Assemble(raw)
}
