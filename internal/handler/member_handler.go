package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/service"
)

type MemberHandler struct {
	svc service.EnrollmentService
}

func NewMemberHandler(svc service.EnrollmentService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

type MemberResponse struct {
	UID               string  `json:"uid"`
	DisplayName       string  `json:"displayName"`
	RewardCode        string  `json:"rewardCode"`
	SponsorUID        *string `json:"sponsorUid,omitempty"`
	Level             int     `json:"level"`
	JoinedViaReferral bool    `json:"joinedViaReferral"`
	CreatedAt         string  `json:"createdAt"`
}

func toMemberResponse(m *model.Member) MemberResponse {
	return MemberResponse{
		UID:               m.UID,
		DisplayName:       m.DisplayName,
		RewardCode:        m.RewardCode,
		SponsorUID:        m.SponsorUID,
		Level:             m.Level,
		JoinedViaReferral: m.JoinedViaReferral,
		CreatedAt:         m.CreatedAt.Format(time.RFC3339),
	}
}

type registerRequest struct {
	DisplayName  string `json:"displayName"`
	ReferralCode string `json:"referralCode"`
}

func (h *MemberHandler) Register(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	m, err := h.svc.Register(c.Request().Context(), uid, req.DisplayName, req.ReferralCode)
	if err != nil {
		switch err {
		case service.ErrAlreadyRegistered:
			return c.JSON(http.StatusConflict, NewErrorResponse("already_registered", "member already exists"))
		case service.ErrSponsorNotFound:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("sponsor_not_found", "referral code does not match any member"))
		case service.ErrMaxDepthExceeded:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("max_depth_exceeded", "the sponsor's network is already at the deepest level"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, toMemberResponse(m))
}

func (h *MemberHandler) Me(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	m, err := h.svc.Get(c.Request().Context(), uid)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "member not registered"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	return c.JSON(http.StatusOK, toMemberResponse(m))
}
