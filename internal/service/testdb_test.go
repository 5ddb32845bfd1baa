package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shinyyama/mlm-backend/internal/model"
	"github.com/shinyyama/mlm-backend/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Member{},
		&model.ClosureEdge{},
		&model.PointsTransaction{},
		&model.PointsBalance{},
		&model.LevelConfig{},
		&model.Order{},
		&model.Seller{},
		&model.StoreSale{},
		&model.SellerCommission{},
		&model.CodeSequence{},
		&model.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fixture bundles the repositories and services most tests need over one
// shared database.
type fixture struct {
	db         *gorm.DB
	members    repository.MemberRepository
	closure    repository.ClosureEdgeRepository
	points     repository.PointsRepository
	levels     repository.LevelConfigRepository
	enrollment EnrollmentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	members := repository.NewMemberRepository(db)
	return &fixture{
		db:      db,
		members: members,
		closure: repository.NewClosureEdgeRepository(db),
		points:  repository.NewPointsRepository(db),
		levels:  repository.NewLevelConfigRepository(db),
		enrollment: NewEnrollmentService(
			members,
			repository.NewClosureEdgeRepository(db),
			repository.NewCodeSequenceRepository(db),
		),
	}
}

// register creates a member via the enrollment service and fails the test on
// error.
func (f *fixture) register(t *testing.T, uid, referralCode string) *model.Member {
	t.Helper()
	m, err := f.enrollment.Register(context.Background(), uid, uid, referralCode)
	if err != nil {
		t.Fatalf("register %s: %v", uid, err)
	}
	return m
}

// setLevel upserts one reward level.
func (f *fixture) setLevel(t *testing.T, level int, pct float64, active bool) {
	t.Helper()
	err := f.levels.Upsert(context.Background(), &model.LevelConfig{
		Level:      level,
		Percentage: pct,
		IsActive:   active,
	})
	if err != nil {
		t.Fatalf("set level %d: %v", level, err)
	}
}
