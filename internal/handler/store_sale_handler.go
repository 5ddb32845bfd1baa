package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/service"
)

type StoreSaleHandler struct {
	svc service.StoreSaleService
}

func NewStoreSaleHandler(svc service.StoreSaleService) *StoreSaleHandler {
	return &StoreSaleHandler{svc: svc}
}

type storeSaleResponse struct {
	ID                uint64  `json:"id"`
	SellerUID         string  `json:"sellerUid"`
	CustomerUID       string  `json:"customerUid"`
	Amount            float64 `json:"amount"`
	CommissionPercent float64 `json:"commissionPercent"`
	CommissionPool    float64 `json:"commissionPool"`
	TotalPV           float64 `json:"totalPv"`
	Status            string  `json:"status"`
	ApprovedAt        *string `json:"approvedAt,omitempty"`
	CreatedAt         string  `json:"createdAt"`
}

func toStoreSaleResponse(s *model.StoreSale) storeSaleResponse {
	var approvedAt *string
	if s.ApprovedAt != nil {
		val := s.ApprovedAt.Format(time.RFC3339)
		approvedAt = &val
	}
	return storeSaleResponse{
		ID:                s.ID,
		SellerUID:         s.SellerUID,
		CustomerUID:       s.CustomerUID,
		Amount:            s.Amount,
		CommissionPercent: s.CommissionPercent,
		CommissionPool:    s.CommissionPool,
		TotalPV:           s.TotalPV,
		Status:            string(s.Status),
		ApprovedAt:        approvedAt,
		CreatedAt:         s.CreatedAt.Format(time.RFC3339),
	}
}

type recordSaleRequest struct {
	CustomerCode string  `json:"customerCode"`
	Amount       float64 `json:"amount"`
}

func (h *StoreSaleHandler) Record(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req recordSaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	sale, err := h.svc.Record(c.Request().Context(), uid, req.CustomerCode, req.Amount)
	if err != nil {
		switch err {
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a registered seller"))
		case service.ErrSellerInactive:
			return c.JSON(http.StatusForbidden, NewErrorResponse("seller_inactive", "seller account is inactive"))
		case service.ErrNotFound:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("customer_not_found", "customer code does not match any member"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, toStoreSaleResponse(sale))
}

func (h *StoreSaleHandler) Approve(c echo.Context) error {
	saleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid sale id"))
	}
	sale, err := h.svc.Approve(c.Request().Context(), saleID)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "sale not found"))
		case service.ErrSaleNotPending:
			return c.JSON(http.StatusConflict, NewErrorResponse("sale_not_pending", "sale already processed"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, toStoreSaleResponse(sale))
}

func (h *StoreSaleHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListBySeller(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	items := make([]storeSaleResponse, 0, len(list))
	for i := range list {
		items = append(items, toStoreSaleResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"sales": items})
}

type registerSellerRequest struct {
	UID               string  `json:"uid"`
	StoreName         string  `json:"storeName"`
	CommissionPercent float64 `json:"commissionPercent"`
}

func (h *StoreSaleHandler) RegisterSeller(c echo.Context) error {
	var req registerSellerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	seller, err := h.svc.RegisterSeller(c.Request().Context(), req.UID, req.StoreName, req.CommissionPercent)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, seller)
}
