package billingentry

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbill/medbill/internal/grid"
	"github.com/medbill/medbill/internal/period"
	"github.com/medbill/medbill/internal/platform/auth"
	"github.com/medbill/medbill/internal/platform/export"
	"github.com/medbill/medbill/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleStandard, auth.RoleAdmin))
	g.GET("/billing-entries", h.List)
	g.GET("/billing-entries/:id", h.Get)
	g.GET("/billing-entries/export", h.Export)
	g.POST("/billing-entries", h.Create)
	g.PUT("/billing-entries/:id", h.Update)
	g.DELETE("/billing-entries/:id", h.Delete)
	g.POST("/billing-entries/:id/cells", h.CommitCell)
	g.POST("/billing-entries/bulk-delete", h.BulkDelete)
	g.POST("/billing-entries/bulk-create", h.BulkCreate)
	g.POST("/billing-entries/import", h.Import)
}

func (h *Handler) Create(c echo.Context) error {
	var e Entry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entry not found")
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var e Entry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ID = id
	if err := h.svc.Update(c.Request().Context(), &e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// listFilter translates clinic_id, provider_id and month query params into a
// repository filter.
func listFilter(c echo.Context) (uuid.UUID, ListFilter, error) {
	clinicID, err := uuid.Parse(c.QueryParam("clinic_id"))
	if err != nil {
		return uuid.Nil, ListFilter{}, echo.NewHTTPError(http.StatusBadRequest, "clinic_id is required")
	}
	var f ListFilter
	if pid := c.QueryParam("provider_id"); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			return uuid.Nil, ListFilter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid provider_id")
		}
		f.ProviderID = &id
	}
	if month := c.QueryParam("month"); month != "" {
		key, err := period.ParseKey(month)
		if err != nil {
			return uuid.Nil, ListFilter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid month, want YYYY-MM")
		}
		r := period.MonthRange(key.Year, key.Month)
		f.From, f.To = &r.Start, &r.End
	}
	return clinicID, f, nil
}

func (h *Handler) List(c echo.Context) error {
	clinicID, f, err := listFilter(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	entries, total, err := h.svc.List(c.Request().Context(), clinicID, f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, total, pg.Limit, pg.Offset))
}

type cellCommitRequest struct {
	ClinicID string      `json:"clinic_id"`
	Field    string      `json:"field"`
	Value    interface{} `json:"value"`
}

// CommitCell writes one cell edit. Locked columns reject standard roles with
// 403; a placeholder row id is a no-op.
func (h *Handler) CommitCell(c echo.Context) error {
	var req cellCommitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ClinicID == "" || req.Field == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "clinic_id and field are required")
	}
	role := auth.RoleFromContext(c.Request().Context())
	patch, err := h.svc.CommitCell(c.Request().Context(), req.ClinicID, c.Param("id"), req.Field, req.Value, role)
	if errors.Is(err, grid.ErrColumnLocked) {
		return echo.NewHTTPError(http.StatusForbidden, "column is locked")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if patch == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, patch)
}

type bulkDeleteRequest struct {
	ClinicID string   `json:"clinic_id"`
	IDs      []string `json:"ids"`
}

func (h *Handler) BulkDelete(c echo.Context) error {
	var req bulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	deleted, err := h.svc.DeleteRows(c.Request().Context(), req.ClinicID, req.IDs)
	if err != nil {
		// completed deletes stay committed; report the batch failure once
		return c.JSON(http.StatusMultiStatus, map[string]interface{}{"deleted": deleted, "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"deleted": deleted})
}

type bulkCreateRequest struct {
	ClinicID   string     `json:"clinic_id"`
	ProviderID *uuid.UUID `json:"provider_id,omitempty"`
	Numbers    []string   `json:"numbers"`
}

func (h *Handler) BulkCreate(c echo.Context) error {
	var req bulkCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ClinicID == "" || len(req.Numbers) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "clinic_id and numbers are required")
	}
	created, err := h.svc.BulkCreateFromNumbers(c.Request().Context(), req.ClinicID, req.ProviderID, req.Numbers)
	if err != nil {
		return c.JSON(http.StatusMultiStatus, map[string]interface{}{"created": created, "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"created": created})
}

// Import maps an uploaded workbook's first sheet to entry inserts.
func (h *Handler) Import(c echo.Context) error {
	clinicID := c.QueryParam("clinic_id")
	if clinicID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "clinic_id is required")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	rows, err := export.ParseBillingSheet(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.Import(c.Request().Context(), clinicID, rows)
	if err != nil {
		return c.JSON(http.StatusMultiStatus, map[string]interface{}{"created": created, "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"created": created})
}

var exportHeaders = []string{
	"Date", "Patient Name", "Insurance", "CPT Codes", "Claim Status",
	"Appointment Status", "Insurance Payment", "Insurance Notes",
	"Payment Amount", "Patient Payment Status", "Copay", "Coinsurance",
	"Amount", "Notes",
}

// Export renders the current filtered entry set as a workbook.
func (h *Handler) Export(c echo.Context) error {
	clinicID, f, err := listFilter(c)
	if err != nil {
		return err
	}
	entries, _, err := h.svc.List(c.Request().Context(), clinicID, f, pagination.MaxLimit, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		date := ""
		if e.ServiceDate != nil {
			date = e.ServiceDate.Format("2006-01-02")
		}
		rows = append(rows, []interface{}{
			date, e.PatientName, deref(e.Insurance), deref(e.ProcedureCodes),
			deref(e.ClaimStatus), deref(e.AppointmentStatus), derefF(e.InsurancePayment),
			deref(e.InsuranceNotes), derefF(e.PaymentAmount), deref(e.PatientPaymentStatus),
			derefF(e.Copay), derefF(e.Coinsurance), derefF(e.Amount), deref(e.Notes),
		})
	}

	f2 := export.Workbook(export.Sheet{Name: "Billing", Headers: exportHeaders, Rows: rows})
	var buf bytes.Buffer
	if err := f2.Write(&buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	filename := "billing-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefF(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
