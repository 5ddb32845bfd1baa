package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/mlm-backend/internal/service"
)

type NetworkHandler struct {
	svc service.NetworkService
}

func NewNetworkHandler(svc service.NetworkService) *NetworkHandler {
	return &NetworkHandler{svc: svc}
}

func (h *NetworkHandler) Summary(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	summary, err := h.svc.Summary(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *NetworkHandler) Legs(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	legs, err := h.svc.Legs(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"legs": legs})
}

type directReferralResponse struct {
	UID      string `json:"uid"`
	JoinedAt string `json:"joinedAt"`
}

func (h *NetworkHandler) DirectReferrals(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	edges, err := h.svc.DirectReferrals(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	items := make([]directReferralResponse, 0, len(edges))
	for _, e := range edges {
		items = append(items, directReferralResponse{
			UID:      e.DescendantUID,
			JoinedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"referrals": items})
}
