package repository

import (
	"context"

	"github.com/shinyyama/mlm-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CodeSequenceRepository interface {
	// Next allocates the next value of a named sequence. The increment is a
	// single atomic UPDATE, so concurrent allocations never collide.
	Next(ctx context.Context, name string) (uint64, error)
}

type codeSequenceRepository struct {
	db *gorm.DB
}

func NewCodeSequenceRepository(db *gorm.DB) CodeSequenceRepository {
	return &codeSequenceRepository{db: db}
}

func (r *codeSequenceRepository) Next(ctx context.Context, name string) (uint64, error) {
	var allocated uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.CodeSequence{Name: name, NextValue: 1}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.CodeSequence{}).
			Where("name = ?", name).
			Update("next_value", gorm.Expr("next_value + 1")).Error; err != nil {
			return err
		}
		var seq model.CodeSequence
		if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
			return err
		}
		allocated = seq.NextValue - 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return allocated, nil
}
