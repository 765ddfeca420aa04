package medicalreport

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/occhealth/occhealth/internal/platform/auth"
	"github.com/occhealth/occhealth/pkg/pagination"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkbookRenderer renders a normalized report as a spreadsheet.
type WorkbookRenderer func(r *NormalizedReport) ([]byte, error)

// ChartRenderer writes an HTML chart of a report's risk panel.
type ChartRenderer func(w io.Writer, r *NormalizedReport) error

// Handler provides HTTP handlers for medical reports.
type Handler struct {
	svc      *Service
	workbook WorkbookRenderer
	chart    ChartRenderer
}

// HandlerOption configures optional renderers of a Handler.
type HandlerOption func(*Handler)

func WithWorkbook(fn WorkbookRenderer) HandlerOption {
	return func(h *Handler) { h.workbook = fn }
}

func WithRiskChart(fn ChartRenderer) HandlerOption {
	return func(h *Handler) { h.chart = fn }
}

// NewHandler creates a new medical report handler.
func NewHandler(svc *Service, opts ...HandlerOption) *Handler {
	h := &Handler{svc: svc}
	for _, o := range opts {
		o(h)
	}
	return h
}

// RegisterRoutes registers the medical report routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole(auth.RoleAdmin, auth.RolePhysician, auth.RoleNurse)

	g := api.Group("/medical-reports", role)
	g.POST("", h.CreateReport)
	g.GET("", h.ListReports)
	g.POST("/normalize", h.NormalizePreview)
	g.GET("/:id", h.GetReport)
	g.GET("/:id/executive", h.GetExecutiveReport)
	g.GET("/:id/executive.xlsx", h.ExportExecutiveReport)
	g.GET("/:id/risk-chart", h.GetRiskChart)
}

type createReportRequest struct {
	EmployeeID *uuid.UUID      `json:"employee_id"`
	ReportDate string          `json:"report_date"`
	Payload    json.RawMessage `json:"payload"`
}

func (h *Handler) CreateReport(c echo.Context) error {
	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if p := bytes.TrimSpace(req.Payload); len(p) == 0 || bytes.Equal(p, []byte("null")) {
		return echo.NewHTTPError(http.StatusBadRequest, "payload is required")
	}
	raw, err := ParseRaw(req.Payload)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload: "+err.Error())
	}
	stored := &StoredReport{EmployeeID: req.EmployeeID, Payload: *raw}
	if d := strings.TrimSpace(req.ReportDate); d != "" {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "report_date must be YYYY-MM-DD")
		}
		stored.ReportDate = &t
	}
	if err := h.svc.CreateReport(c.Request().Context(), stored); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, stored)
}

// ListReports pages through the reports of the employee named by the
// employee_id query parameter.
func (h *Handler) ListReports(c echo.Context) error {
	employeeID, err := uuid.Parse(c.QueryParam("employee_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "employee_id query parameter is required")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListEmployeeReports(c.Request().Context(), employeeID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewPage(items, total, pg, c.QueryParams()))
}

func (h *Handler) NormalizePreview(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	raw, err := ParseRaw(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report: "+err.Error())
	}
	return c.JSON(http.StatusOK, h.svc.Normalize(raw))
}

func (h *Handler) GetReport(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	r, err := h.svc.GetRawReport(c.Request().Context(), id)
	if err != nil {
		return fetchError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) GetExecutiveReport(c echo.Context) error {
	report, err := h.executive(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) ExportExecutiveReport(c echo.Context) error {
	if h.workbook == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "workbook export is not configured")
	}
	report, err := h.executive(c)
	if err != nil {
		return err
	}
	data, err := h.workbook(report)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="executive-report-`+c.Param("id")+`.xlsx"`)
	return c.Blob(http.StatusOK, mimeXLSX, data)
}

func (h *Handler) GetRiskChart(c echo.Context) error {
	if h.chart == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "risk chart is not configured")
	}
	report, err := h.executive(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := h.chart(&buf, report); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *Handler) executive(c echo.Context) (*NormalizedReport, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	report, err := h.svc.GetExecutiveReport(c.Request().Context(), id)
	if err != nil {
		return nil, fetchError(err)
	}
	return report, nil
}

func fetchError(err error) error {
	if errors.Is(err, ErrReportNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "report not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
