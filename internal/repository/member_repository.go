package repository

import (
	"context"

	"github.com/shinyyama/mlm-backend/internal/model"
	"gorm.io/gorm"
)

type MemberRepository interface {
	Create(ctx context.Context, m *model.Member) error
	FindByUID(ctx context.Context, uid string) (*model.Member, error)
	FindByRewardCode(ctx context.Context, code string) (*model.Member, error)
	// SponsorUID resolves the live direct sponsor of a member. Returns ""
	// for a network root. The distribution walk uses this instead of the
	// closure table so it always sees current sponsor pointers.
	SponsorUID(ctx context.Context, uid string) (string, error)
	Level(ctx context.Context, uid string) (int, error)
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, m *model.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *memberRepository) FindByUID(ctx context.Context, uid string) (*model.Member, error) {
	var m model.Member
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) FindByRewardCode(ctx context.Context, code string) (*model.Member, error) {
	var m model.Member
	if err := r.db.WithContext(ctx).Where("reward_code = ?", code).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) SponsorUID(ctx context.Context, uid string) (string, error) {
	var m model.Member
	if err := r.db.WithContext(ctx).
		Select("sponsor_uid").
		Where("uid = ?", uid).
		First(&m).Error; err != nil {
		return "", err
	}
	if m.SponsorUID == nil {
		return "", nil
	}
	return *m.SponsorUID, nil
}

func (r *memberRepository) Level(ctx context.Context, uid string) (int, error) {
	var m model.Member
	if err := r.db.WithContext(ctx).
		Select("level").
		Where("uid = ?", uid).
		First(&m).Error; err != nil {
		return 0, err
	}
	return m.Level, nil
}
