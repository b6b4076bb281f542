package override

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pedscds/pedscds/internal/platform/auth"
	"github.com/pedscds/pedscds/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/overrides", h.List)
	readGroup.GET("/overrides/:id", h.Get)
	readGroup.GET("/overrides/quality", h.Quality)
	readGroup.GET("/override-permissions/:role", h.Permission)

	writeGroup := api.Group("", auth.RequireRole("physician", "nurse"))
	writeGroup.POST("/overrides", h.Submit)
	writeGroup.PUT("/overrides/:id/outcome", h.RecordOutcome)
}

func (h *Handler) Submit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ClinicianID == "" {
		req.ClinicianID = auth.UserIDFromContext(c.Request().Context())
	}
	result, err := h.svc.Submit(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	if len(result.Violations) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, result)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "override record not found")
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if sessionParam := c.QueryParam("session_id"); sessionParam != "" {
		sessionID, err := uuid.Parse(sessionParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid session_id")
		}
		items, total, err := h.svc.ListBySession(ctx, sessionID, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	if clinician := c.QueryParam("clinician_id"); clinician != "" {
		items, total, err := h.svc.ListByClinician(ctx, clinician, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	items, total, err := h.svc.List(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) RecordOutcome(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Outcome string `json:"outcome"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RecordOutcome(c.Request().Context(), id, body.Outcome); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Quality(c echo.Context) error {
	summary, err := h.svc.Quality(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) Permission(c echo.Context) error {
	return c.JSON(http.StatusOK, ResolvePermission(c.Param("role")))
}
