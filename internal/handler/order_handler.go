package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/service"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderResponse struct {
	ID          uint64  `json:"id"`
	RefID       string  `json:"refId"`
	BuyerUID    string  `json:"buyerUid"`
	TotalAmount float64 `json:"totalAmount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

func toOrderResponse(o *model.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		RefID:       o.RefID,
		BuyerUID:    o.BuyerUID,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
}

type placeOrderRequest struct {
	TotalAmount float64 `json:"totalAmount"`
}

func (h *OrderHandler) Place(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	o, err := h.svc.Place(c.Request().Context(), uid, req.TotalAmount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toOrderResponse(o))
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListByBuyer(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	items := make([]orderResponse, 0, len(list))
	for i := range list {
		items = append(items, toOrderResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": items})
}
