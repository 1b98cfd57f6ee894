package report

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbill/medbill/internal/period"
	"github.com/medbill/medbill/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reports/monthly", h.Monthly)
	api.GET("/reports/summary", h.Summary)
	api.GET("/reports/patient-invoices", h.PatientInvoices)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/reports/provider-payout", h.ProviderPayout)
}

func clinicParam(c echo.Context) (string, error) {
	clinicID := c.QueryParam("clinic_id")
	if clinicID == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "clinic_id is required")
	}
	return clinicID, nil
}

func (h *Handler) Monthly(c echo.Context) error {
	clinicID, err := clinicParam(c)
	if err != nil {
		return err
	}
	summaries, err := h.svc.MonthlySummaries(c.Request().Context(), clinicID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summaries)
}

// Summary serves one aggregate for a month, quarter or year. month takes the
// YYYY-MM form the reporting links carry; quarter and year expect a numeric
// year plus, for quarters, q=1..4.
func (h *Handler) Summary(c echo.Context) error {
	clinicID, err := clinicParam(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if month := c.QueryParam("month"); month != "" {
		key, err := period.ParseKey(month)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "month must be YYYY-MM")
		}
		totals, err := h.svc.MonthSummary(ctx, clinicID, key)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, totals)
	}

	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "year or month=YYYY-MM is required")
	}
	if q := c.QueryParam("q"); q != "" {
		quarter, err := strconv.Atoi(q)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "q must be 1..4")
		}
		totals, err := h.svc.QuarterSummary(ctx, clinicID, year, quarter)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, totals)
	}
	totals, err := h.svc.YearSummary(ctx, clinicID, year)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, totals)
}

func (h *Handler) PatientInvoices(c echo.Context) error {
	clinicID, err := clinicParam(c)
	if err != nil {
		return err
	}
	summaries, err := h.svc.PatientInvoiceReport(c.Request().Context(), clinicID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summaries)
}

type payoutRequest struct {
	ProviderID uuid.UUID `json:"provider_id"`
	Month      string    `json:"month"`
}

func (h *Handler) ProviderPayout(c echo.Context) error {
	var req payoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	key, err := period.ParseKey(req.Month)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "month must be YYYY-MM")
	}
	payment, err := h.svc.PayoutSnapshot(c.Request().Context(), req.ProviderID, key)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, payment)
}
