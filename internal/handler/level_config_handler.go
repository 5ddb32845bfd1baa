package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/mlm-backend/internal/service"
)

type LevelConfigHandler struct {
	svc service.LevelConfigService
}

func NewLevelConfigHandler(svc service.LevelConfigService) *LevelConfigHandler {
	return &LevelConfigHandler{svc: svc}
}

func (h *LevelConfigHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"levels": list})
}

type updateLevelRequest struct {
	Percentage float64 `json:"percentage"`
	IsActive   bool    `json:"isActive"`
}

func (h *LevelConfigHandler) Update(c echo.Context) error {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid level"))
	}
	var req updateLevelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	cfg, err := h.svc.Update(c.Request().Context(), level, req.Percentage, req.IsActive)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, cfg)
}
