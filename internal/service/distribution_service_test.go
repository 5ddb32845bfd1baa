package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (f *fixture) newDistribution() DistributionService {
	return NewDistributionService(f.members, f.levels, f.points, nil, discardLogger())
}

func uint64Ptr(v uint64) *uint64 { return &v }

func (f *fixture) balanceOf(t *testing.T, uid string) float64 {
	t.Helper()
	bal, err := f.points.Balance(context.Background(), uid)
	if err != nil {
		t.Fatalf("balance %s: %v", uid, err)
	}
	return bal.CurrentBalance
}

func TestDistributeOrderPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.register(t, "a", "")
	f.register(t, "b", a.RewardCode)
	f.setLevel(t, 1, 50, true)
	f.setLevel(t, 2, 50, true)

	dist := f.newDistribution()
	dist.DistributeOrderPoints(ctx, uint64Ptr(7), "b", 1000, 0.10)

	// Pool is 100: the buyer and the sponsor each take 50.
	if got := f.balanceOf(t, "b"); got != 50 {
		t.Fatalf("buyer balance=%v want 50", got)
	}
	if got := f.balanceOf(t, "a"); got != 50 {
		t.Fatalf("sponsor balance=%v want 50", got)
	}

	buyerTxs, _, err := f.points.ListTransactions(ctx, "b", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(buyerTxs) != 1 {
		t.Fatalf("buyer txs=%d want 1", len(buyerTxs))
	}
	tx := buyerTxs[0]
	if tx.Type != model.PointsTxEarnedSelf || tx.Level == nil || *tx.Level != 1 {
		t.Fatalf("buyer tx=%+v want EARNED_SELF level 1", tx)
	}
	if tx.OrderID == nil || *tx.OrderID != 7 || tx.OrderAmount != 1000 || tx.RewardPoolTotal != 100 {
		t.Fatalf("buyer tx=%+v want order 7 amount 1000 pool 100", tx)
	}
	if tx.SaleID != nil {
		t.Fatalf("buyer tx=%+v must not carry a sale id", tx)
	}

	sponsorTxs, _, err := f.points.ListTransactions(ctx, "a", 10, 0)
	if err != nil {
		t.Fatalf("list sponsor: %v", err)
	}
	if len(sponsorTxs) != 1 || sponsorTxs[0].Type != model.PointsTxEarnedReferral {
		t.Fatalf("sponsor txs=%+v want one EARNED_REFERRAL", sponsorTxs)
	}
	if sponsorTxs[0].SourceUID != "b" {
		t.Fatalf("sponsor source=%q want b", sponsorTxs[0].SourceUID)
	}
}

func TestDistributeSkipsInactiveLevels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.register(t, "a", "")
	b := f.register(t, "b", a.RewardCode)
	f.register(t, "c", b.RewardCode)
	f.setLevel(t, 1, 50, true)
	f.setLevel(t, 2, 20, true)
	f.setLevel(t, 3, 10, false)

	dist := f.newDistribution()
	dist.DistributeOrderPoints(ctx, uint64Ptr(1), "c", 1000, 0.10)

	if got := f.balanceOf(t, "c"); got != 50 {
		t.Fatalf("c=%v want 50", got)
	}
	if got := f.balanceOf(t, "b"); got != 20 {
		t.Fatalf("b=%v want 20", got)
	}
	// Level 3 is configured but inactive, so the grandparent earns nothing.
	if got := f.balanceOf(t, "a"); got != 0 {
		t.Fatalf("a=%v want 0", got)
	}
}

func TestDistributeNoActiveLevels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "a", "")
	f.setLevel(t, 1, 50, false)

	dist := f.newDistribution()
	dist.DistributeOrderPoints(ctx, uint64Ptr(1), "a", 1000, 0.10)

	if got := f.balanceOf(t, "a"); got != 0 {
		t.Fatalf("a=%v want 0", got)
	}
}

func TestDistributeShortUpline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.register(t, "a", "")
	f.register(t, "b", a.RewardCode)
	for lvl := 1; lvl <= model.MaxLevel; lvl++ {
		f.setLevel(t, lvl, 10, true)
	}

	dist := f.newDistribution()
	dist.DistributeOrderPoints(ctx, uint64Ptr(1), "b", 1000, 0.10)

	// Only two members exist: the walk stops at the root and levels 3..8
	// simply have no recipients.
	if got := f.balanceOf(t, "b"); got != 10 {
		t.Fatalf("b=%v want 10", got)
	}
	if got := f.balanceOf(t, "a"); got != 10 {
		t.Fatalf("a=%v want 10", got)
	}
	var total int64
	if err := f.db.Model(&model.PointsTransaction{}).Count(&total).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 2 {
		t.Fatalf("ledger rows=%d want 2", total)
	}
}

// failingPoints rejects credits for one recipient and delegates the rest.
type failingPoints struct {
	repository.PointsRepository
	failUID string
}

func (p *failingPoints) Credit(ctx context.Context, tx *model.PointsTransaction) error {
	if tx.RecipientUID == p.failUID {
		return errors.New("credit rejected")
	}
	return p.PointsRepository.Credit(ctx, tx)
}

func TestDistributeSkipsFailingRecipient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.register(t, "a", "")
	b := f.register(t, "b", a.RewardCode)
	f.register(t, "c", b.RewardCode)
	f.setLevel(t, 1, 50, true)
	f.setLevel(t, 2, 20, true)
	f.setLevel(t, 3, 10, true)

	points := &failingPoints{PointsRepository: f.points, failUID: "b"}
	dist := NewDistributionService(f.members, f.levels, points, nil, discardLogger())
	dist.DistributeOrderPoints(ctx, uint64Ptr(1), "c", 1000, 0.10)

	// The failing recipient is skipped; the walk continues past it.
	if got := f.balanceOf(t, "c"); got != 50 {
		t.Fatalf("c=%v want 50", got)
	}
	if got := f.balanceOf(t, "b"); got != 0 {
		t.Fatalf("b=%v want 0", got)
	}
	if got := f.balanceOf(t, "a"); got != 10 {
		t.Fatalf("a=%v want 10", got)
	}
}

func TestDistributeStoreSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.register(t, "a", "")
	f.register(t, "b", a.RewardCode)
	f.setLevel(t, 1, 50, true)
	f.setLevel(t, 2, 20, true)

	dist := f.newDistribution()
	dist.DistributeStoreSale(ctx, &model.StoreSale{
		ID:             3,
		SellerUID:      "seller",
		CustomerUID:    "b",
		Amount:         10000,
		CommissionPool: 1000,
		TotalPV:        900,
		Status:         model.StoreSaleStatusApproved,
	})

	// Per-level shares are cut from the full commission pool, not the PV
	// that remains after the platform's share.
	if got := f.balanceOf(t, "b"); got != 500 {
		t.Fatalf("b=%v want 500", got)
	}
	if got := f.balanceOf(t, "a"); got != 200 {
		t.Fatalf("a=%v want 200", got)
	}

	// Offline entries reference the sale, never an order, so the two
	// trigger kinds stay distinguishable in the ledger.
	txs, _, err := f.points.ListTransactions(ctx, "b", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("txs=%d want 1", len(txs))
	}
	if txs[0].SaleID == nil || *txs[0].SaleID != 3 {
		t.Fatalf("tx=%+v want sale id 3", txs[0])
	}
	if txs[0].OrderID != nil {
		t.Fatalf("tx=%+v must not carry an order id", txs[0])
	}
}
