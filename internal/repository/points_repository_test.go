package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shinyyama/mlm-backend/internal/model"
	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

func TestCreditKeepsRunningBalance(t *testing.T) {
	db := newTestDB(t)
	repo := NewPointsRepository(db)
	ctx := context.Background()

	first := &model.PointsTransaction{
		RecipientUID:    "member-a",
		Type:            model.PointsTxEarnedSelf,
		Level:           intPtr(1),
		SourceUID:       "member-a",
		OrderAmount:     1000,
		RewardPoolTotal: 100,
		Amount:          50,
	}
	if err := repo.Credit(ctx, first); err != nil {
		t.Fatalf("first credit: %v", err)
	}
	if first.BalanceAfter != 50 {
		t.Fatalf("balance_after=%v want 50", first.BalanceAfter)
	}

	second := &model.PointsTransaction{
		RecipientUID: "member-a",
		Type:         model.PointsTxEarnedReferral,
		Level:        intPtr(2),
		SourceUID:    "member-b",
		Amount:       25,
	}
	if err := repo.Credit(ctx, second); err != nil {
		t.Fatalf("second credit: %v", err)
	}
	if second.BalanceAfter != 75 {
		t.Fatalf("balance_after=%v want 75", second.BalanceAfter)
	}

	bal, err := repo.Balance(ctx, "member-a")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.TotalEarned != 75 || bal.CurrentBalance != 75 || bal.TotalRedeemed != 0 {
		t.Fatalf("balance=%+v want earned=75 current=75 redeemed=0", bal)
	}
	if bal.CurrentBalance != bal.TotalEarned-bal.TotalRedeemed {
		t.Fatalf("invariant broken: %+v", bal)
	}

	list, total, err := repo.ListTransactions(ctx, "member-a", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("total=%d len=%d want 2", total, len(list))
	}
	// Newest first; its snapshot must equal the live balance.
	if list[0].BalanceAfter != bal.CurrentBalance {
		t.Fatalf("latest balance_after=%v current=%v", list[0].BalanceAfter, bal.CurrentBalance)
	}
}

// Concurrent credits to one member must serialize on the balance row: read
// in insert order, the ledger's BalanceAfter values form a strict running
// total ending at the live balance.
func TestCreditConcurrent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPointsRepository(db)
	ctx := context.Background()

	const workers = 8
	const perWorker = 5
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		amount := float64(w + 1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				errs <- repo.Credit(ctx, &model.PointsTransaction{
					RecipientUID: "member-a",
					Type:         model.PointsTxEarnedSelf,
					Amount:       amount,
				})
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("credit: %v", err)
		}
	}

	var ledger []model.PointsTransaction
	if err := db.Where("recipient_uid = ?", "member-a").
		Order("id ASC").
		Find(&ledger).Error; err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if len(ledger) != workers*perWorker {
		t.Fatalf("rows=%d want %d", len(ledger), workers*perWorker)
	}
	running := 0.0
	for i, e := range ledger {
		running += e.Amount
		if e.BalanceAfter != running {
			t.Fatalf("row %d balance_after=%v want %v", i, e.BalanceAfter, running)
		}
	}

	bal, err := repo.Balance(ctx, "member-a")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.CurrentBalance != running || bal.TotalEarned != running {
		t.Fatalf("balance=%+v want %v", bal, running)
	}
}

func TestBalanceWithoutCredits(t *testing.T) {
	db := newTestDB(t)
	repo := NewPointsRepository(db)

	bal, err := repo.Balance(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.UID != "ghost" || bal.TotalEarned != 0 || bal.TotalRedeemed != 0 || bal.CurrentBalance != 0 {
		t.Fatalf("balance=%+v want zeros", bal)
	}

	// Reading a balance never writes one.
	var count int64
	if err := db.Model(&model.PointsBalance{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("balance rows=%d want 0", count)
	}
}

func TestRedeem(t *testing.T) {
	db := newTestDB(t)
	repo := NewPointsRepository(db)
	ctx := context.Background()

	if err := repo.Credit(ctx, &model.PointsTransaction{
		RecipientUID: "member-a",
		Type:         model.PointsTxEarnedSelf,
		Amount:       100,
	}); err != nil {
		t.Fatalf("credit: %v", err)
	}

	entry, err := repo.Redeem(ctx, "member-a", 30)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if entry.Type != model.PointsTxRedeemed || entry.Amount != 30 || entry.BalanceAfter != 70 {
		t.Fatalf("entry=%+v want REDEEMED amount=30 balance_after=70", entry)
	}

	bal, err := repo.Balance(ctx, "member-a")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.TotalEarned != 100 || bal.TotalRedeemed != 30 || bal.CurrentBalance != 70 {
		t.Fatalf("balance=%+v", bal)
	}
}

func TestRedeemInsufficient(t *testing.T) {
	db := newTestDB(t)
	repo := NewPointsRepository(db)
	ctx := context.Background()

	if err := repo.Credit(ctx, &model.PointsTransaction{
		RecipientUID: "member-a",
		Type:         model.PointsTxEarnedSelf,
		Amount:       10,
	}); err != nil {
		t.Fatalf("credit: %v", err)
	}

	if _, err := repo.Redeem(ctx, "member-a", 11); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err=%v want record not found", err)
	}

	// A failed redeem must leave no ledger row and an untouched balance.
	var count int64
	if err := db.Model(&model.PointsTransaction{}).
		Where("recipient_uid = ? AND type = ?", "member-a", model.PointsTxRedeemed).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("redeem rows=%d want 0", count)
	}
	bal, err := repo.Balance(ctx, "member-a")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.CurrentBalance != 10 {
		t.Fatalf("balance=%v want 10", bal.CurrentBalance)
	}
}
