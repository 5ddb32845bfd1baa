package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/service"
)

type PointsHandler struct {
	svc service.PointsService
}

func NewPointsHandler(svc service.PointsService) *PointsHandler {
	return &PointsHandler{svc: svc}
}

type pointsTransactionResponse struct {
	ID              uint64  `json:"id"`
	Type            string  `json:"type"`
	Level           *int    `json:"level,omitempty"`
	SourceUID       string  `json:"sourceUid,omitempty"`
	OrderID         *uint64 `json:"orderId,omitempty"`
	SaleID          *uint64 `json:"saleId,omitempty"`
	OrderAmount     float64 `json:"orderAmount"`
	RewardPoolTotal float64 `json:"rewardPoolTotal"`
	Amount          float64 `json:"amount"`
	BalanceAfter    float64 `json:"balanceAfter"`
	CreatedAt       string  `json:"createdAt"`
}

func toPointsTransactionResponse(t *model.PointsTransaction) pointsTransactionResponse {
	return pointsTransactionResponse{
		ID:              t.ID,
		Type:            string(t.Type),
		Level:           t.Level,
		SourceUID:       t.SourceUID,
		OrderID:         t.OrderID,
		SaleID:          t.SaleID,
		OrderAmount:     t.OrderAmount,
		RewardPoolTotal: t.RewardPoolTotal,
		Amount:          t.Amount,
		BalanceAfter:    t.BalanceAfter,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
}

func (h *PointsHandler) Balance(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	bal, err := h.svc.Balance(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"totalEarned":    bal.TotalEarned,
		"totalRedeemed":  bal.TotalRedeemed,
		"currentBalance": bal.CurrentBalance,
	})
}

func (h *PointsHandler) History(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	list, total, err := h.svc.History(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	items := make([]pointsTransactionResponse, 0, len(list))
	for i := range list {
		items = append(items, toPointsTransactionResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
	})
}

type redeemRequest struct {
	Points float64 `json:"points"`
}

func (h *PointsHandler) Redeem(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req redeemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.Points <= 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "points must be positive"))
	}
	entry, err := h.svc.Redeem(c.Request().Context(), uid, req.Points)
	if err != nil {
		if err == service.ErrInsufficientBalance {
			return c.JSON(http.StatusConflict, NewErrorResponse("insufficient_balance", "not enough points"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, toPointsTransactionResponse(entry))
}
