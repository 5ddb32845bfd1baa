package repository

import (
	"context"

	"github.com/shinyyama/mlm-backend/internal/model"
	"gorm.io/gorm"
)

// LegSummary aggregates one leg (branch) of a member's downline.
type LegSummary struct {
	LegRootUID  string `gorm:"column:leg_root_uid" json:"legRootUid"`
	MemberCount int64  `gorm:"column:member_count" json:"memberCount"`
	MaxDistance int    `gorm:"column:max_distance" json:"maxDistance"`
}

// DepthCount is the number of descendants at one distance below a member.
type DepthCount struct {
	Distance int   `gorm:"column:distance" json:"distance"`
	Count    int64 `gorm:"column:cnt" json:"count"`
}

type ClosureEdgeRepository interface {
	// Attach applies one enrollment as a single transaction: the member row
	// gets its sponsor, level and referral flag, and the full edge set is
	// inserted. A failure rolls back everything so no partial chain exists.
	Attach(ctx context.Context, m *model.Member, edges []model.ClosureEdge) error
	// CreateWithEdges inserts a brand-new member together with its edge set
	// in one transaction. A failed insert leaves no member behind, so a
	// rejected registration can simply be retried.
	CreateWithEdges(ctx context.Context, m *model.Member, edges []model.ClosureEdge) error
	ListAncestors(ctx context.Context, descendantUID string) ([]model.ClosureEdge, error)
	ListDescendants(ctx context.Context, ancestorUID string) ([]model.ClosureEdge, error)
	CountByDepth(ctx context.Context, ancestorUID string) ([]DepthCount, error)
	Legs(ctx context.Context, ancestorUID string) ([]LegSummary, error)
}

type closureEdgeRepository struct {
	db *gorm.DB
}

func NewClosureEdgeRepository(db *gorm.DB) ClosureEdgeRepository {
	return &closureEdgeRepository{db: db}
}

func (r *closureEdgeRepository) Attach(ctx context.Context, m *model.Member, edges []model.ClosureEdge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Member{}).
			Where("uid = ?", m.UID).
			Updates(map[string]interface{}{
				"sponsor_uid":         m.SponsorUID,
				"level":               m.Level,
				"joined_via_referral": m.JoinedViaReferral,
			}).Error; err != nil {
			return err
		}
		if len(edges) == 0 {
			return nil
		}
		return tx.Create(&edges).Error
	})
}

func (r *closureEdgeRepository) CreateWithEdges(ctx context.Context, m *model.Member, edges []model.ClosureEdge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		if len(edges) == 0 {
			return nil
		}
		return tx.Create(&edges).Error
	})
}

func (r *closureEdgeRepository) ListAncestors(ctx context.Context, descendantUID string) ([]model.ClosureEdge, error) {
	var list []model.ClosureEdge
	if err := r.db.WithContext(ctx).
		Where("descendant_uid = ?", descendantUID).
		Order("distance ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *closureEdgeRepository) ListDescendants(ctx context.Context, ancestorUID string) ([]model.ClosureEdge, error) {
	var list []model.ClosureEdge
	if err := r.db.WithContext(ctx).
		Where("ancestor_uid = ?", ancestorUID).
		Order("distance ASC, created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *closureEdgeRepository) CountByDepth(ctx context.Context, ancestorUID string) ([]DepthCount, error) {
	var counts []DepthCount
	if err := r.db.WithContext(ctx).
		Model(&model.ClosureEdge{}).
		Select("distance, count(*) as cnt").
		Where("ancestor_uid = ?", ancestorUID).
		Group("distance").
		Order("distance ASC").
		Find(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *closureEdgeRepository) Legs(ctx context.Context, ancestorUID string) ([]LegSummary, error) {
	var legs []LegSummary
	if err := r.db.WithContext(ctx).
		Model(&model.ClosureEdge{}).
		Select("leg_root_uid, count(*) as member_count, max(distance) as max_distance").
		Where("ancestor_uid = ?", ancestorUID).
		Group("leg_root_uid").
		Order("member_count DESC").
		Find(&legs).Error; err != nil {
		return nil, err
	}
	return legs, nil
}
