package medicalreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type rawReportRepoPG struct{ pool *pgxpool.Pool }

func NewRawReportRepoPG(pool *pgxpool.Pool) RawReportRepository {
	return &rawReportRepoPG{pool: pool}
}

func (r *rawReportRepoPG) conn() queryable {
	return r.pool
}

const reportCols = `id, employee_id, report_date, payload, created_at, updated_at`

func (r *rawReportRepoPG) scanReport(row pgx.Row) (*StoredReport, error) {
	var (
		s       StoredReport
		payload []byte
	)
	if err := row.Scan(&s.ID, &s.EmployeeID, &s.ReportDate, &payload, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	raw, err := ParseRaw(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload of report %s: %w", s.ID, err)
	}
	s.Payload = *raw
	return &s, nil
}

func (r *rawReportRepoPG) Create(ctx context.Context, s *StoredReport) error {
	payload, err := json.Marshal(s.Payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.conn().QueryRow(ctx, `
		INSERT INTO medical_report (id, employee_id, report_date, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		s.ID, s.EmployeeID, s.ReportDate, payload,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *rawReportRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*StoredReport, error) {
	return r.scanReport(r.conn().QueryRow(ctx, `SELECT `+reportCols+` FROM medical_report WHERE id = $1`, id))
}

func (r *rawReportRepoPG) ListByEmployee(ctx context.Context, employeeID uuid.UUID, limit, offset int) ([]*StoredReport, int, error) {
	var total int
	if err := r.conn().QueryRow(ctx, `SELECT COUNT(*) FROM medical_report WHERE employee_id = $1`, employeeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}
	rows, err := r.conn().Query(ctx, `SELECT `+reportCols+` FROM medical_report
		WHERE employee_id = $1
		ORDER BY report_date DESC NULLS LAST, created_at DESC
		LIMIT $2 OFFSET $3`, employeeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()
	var items []*StoredReport
	for rows.Next() {
		s, err := r.scanReport(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}
