package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/repository"
	"gorm.io/gorm"
)

// adminCommissionShare is the platform's cut of an offline commission pool.
const adminCommissionShare = 0.10

// DistributionService splits a purchase's reward pool across the buyer and up
// to seven upline sponsors. Both methods return nothing on purpose: the
// triggering purchase is already committed, so a distribution failure may
// only be logged, never surfaced to the caller. A recipient that fails to
// credit is skipped; recipients already credited in the same walk stay
// credited and are never retried (retrying would double-credit them).
type DistributionService interface {
	DistributeOrderPoints(ctx context.Context, orderID *uint64, customerUID string, grossAmount, poolFraction float64)
	DistributeStoreSale(ctx context.Context, sale *model.StoreSale)
}

type distributionService struct {
	members repository.MemberRepository
	levels  repository.LevelConfigRepository
	points  repository.PointsRepository
	notify  NotificationService
	log     *slog.Logger
}

func NewDistributionService(members repository.MemberRepository, levels repository.LevelConfigRepository, points repository.PointsRepository, notify NotificationService, log *slog.Logger) DistributionService {
	if log == nil {
		log = slog.Default()
	}
	return &distributionService{members: members, levels: levels, points: points, notify: notify, log: log}
}

func (s *distributionService) DistributeOrderPoints(ctx context.Context, orderID *uint64, customerUID string, grossAmount, poolFraction float64) {
	pool := grossAmount * poolFraction
	if pool <= 0 {
		return
	}
	s.distributePool(ctx, orderID, nil, customerUID, grossAmount, pool)
}

// DistributeStoreSale runs the offline variant: the pool is the seller's
// commission on the sale. The admin share and TotalPV were carved out at
// approval time, but per-level shares are still computed against the full
// commission pool. That asymmetry matches the historical payout behaviour
// and must not be "fixed" here without an explicit business decision.
func (s *distributionService) DistributeStoreSale(ctx context.Context, sale *model.StoreSale) {
	if sale == nil || sale.CommissionPool <= 0 {
		return
	}
	saleID := sale.ID
	s.distributePool(ctx, nil, &saleID, sale.CustomerUID, sale.Amount, sale.CommissionPool)
}

func (s *distributionService) distributePool(ctx context.Context, orderID, saleID *uint64, customerUID string, orderAmount, pool float64) {
	active, err := s.levels.ListActive(ctx)
	if err != nil {
		s.log.Error("distribution aborted: level config unavailable",
			"order_id", idValue(orderID), "sale_id", idValue(saleID),
			"customer_uid", customerUID, "err", err)
		return
	}
	if len(active) == 0 {
		return
	}
	pctByLevel := make(map[int]float64, len(active))
	for _, lc := range active {
		pctByLevel[lc.Level] = lc.Percentage
	}

	// Walk the live sponsor chain: the buyer is level 1, each hop up is one
	// level more, capped at MaxLevel. Sponsor pointers come from the
	// members table, not the closure cache.
	uid := customerUID
	for level := 1; level <= model.MaxLevel && uid != ""; level++ {
		recipient := uid
		next, err := s.members.SponsorUID(ctx, recipient)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.log.Error("distribution stopped: upline walk failed",
					"order_id", idValue(orderID), "sale_id", idValue(saleID),
					"customer_uid", customerUID,
					"recipient_uid", recipient, "level", level, "err", err)
			}
			return
		}
		uid = next

		pct, ok := pctByLevel[level]
		if !ok {
			continue
		}
		share := pool * pct / 100
		if share <= 0 {
			continue
		}

		txType := model.PointsTxEarnedReferral
		if level == 1 {
			txType = model.PointsTxEarnedSelf
		}
		lvl := level
		entry := &model.PointsTransaction{
			RecipientUID:    recipient,
			Type:            txType,
			Level:           &lvl,
			SourceUID:       customerUID,
			OrderID:         orderID,
			SaleID:          saleID,
			OrderAmount:     orderAmount,
			RewardPoolTotal: pool,
			Amount:          share,
		}
		if err := s.points.Credit(ctx, entry); err != nil {
			s.log.Error("points credit failed; recipient skipped",
				"order_id", idValue(orderID), "sale_id", idValue(saleID),
				"customer_uid", customerUID,
				"recipient_uid", recipient, "level", level, "amount", share, "err", err)
			continue
		}
		if s.notify != nil {
			s.notify.Notify(ctx, recipient, "points_earned", "ポイントを獲得しました",
				"紹介ネットワークの購入によりポイントが加算されました。", orderID, saleID)
		}
	}
}

func idValue(id *uint64) uint64 {
	if id == nil {
		return 0
	}
	return *id
}
