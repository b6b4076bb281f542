package simulation

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
	group := api.Group("", auth.RequireRole("admin", "physician", "nurse", "trainee"))
	group.GET("/simulation/cases", h.ListCases)
	group.GET("/simulation/cases/:id", h.GetCase)
	group.POST("/simulation/score", h.ScoreRun)
	group.GET("/simulation/attempts", h.ListAttempts)
	group.GET("/simulation/attempts/:id", h.GetAttempt)
}

func (h *Handler) ListCases(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Cases(c.Request().Context()))
}

func (h *Handler) GetCase(c echo.Context) error {
	sc, err := h.svc.GetCase(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "case not found")
	}
	return c.JSON(http.StatusOK, sc)
}

func (h *Handler) ScoreRun(c echo.Context) error {
	var req ScoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == "" {
		req.UserID = auth.UserIDFromContext(c.Request().Context())
	}
	attempt, err := h.svc.ScoreRun(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, attempt)
}

func (h *Handler) GetAttempt(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	attempt, err := h.svc.GetAttempt(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "attempt not found")
	}
	return c.JSON(http.StatusOK, attempt)
}

func (h *Handler) ListAttempts(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if userID := c.QueryParam("user_id"); userID != "" {
		items, total, err := h.svc.ListAttemptsByUser(ctx, userID, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	if caseID := c.QueryParam("case_id"); caseID != "" {
		items, total, err := h.svc.ListAttemptsByCase(ctx, caseID, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	items, total, err := h.svc.ListAttempts(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
