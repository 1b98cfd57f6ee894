package receivable

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbill/medbill/internal/grid"
	"github.com/medbill/medbill/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleStandard, auth.RoleAdmin))
	g.GET("/receivables", h.List)
	g.GET("/receivables/:id", h.Get)
	g.GET("/receivables/monthly", h.Monthly)
	g.POST("/receivables", h.Create)
	g.PUT("/receivables/:id", h.Update)
	g.DELETE("/receivables/:id", h.Delete)
	g.POST("/receivables/:id/cells", h.CommitCell)
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

func (h *Handler) List(c echo.Context) error {
	clinicID, err := uuid.Parse(c.QueryParam("clinic_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "clinic_id is required")
	}
	entries, err := h.svc.List(c.Request().Context(), clinicID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}

// Monthly returns month buckets, most recent first. group_by=payment buckets
// by the insurance pay date instead of the service date.
func (h *Handler) Monthly(c echo.Context) error {
	clinicID, err := uuid.Parse(c.QueryParam("clinic_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "clinic_id is required")
	}
	by := ByServiceMonth
	if c.QueryParam("group_by") == "payment" {
		by = ByPaymentMonth
	}
	summaries, err := h.svc.MonthlySummaries(c.Request().Context(), clinicID, by)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summaries)
}

type cellCommitRequest struct {
	ClinicID string      `json:"clinic_id"`
	Field    string      `json:"field"`
	Value    interface{} `json:"value"`
}

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
