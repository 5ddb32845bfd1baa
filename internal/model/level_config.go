package model

import "time"

// LevelConfig holds the reward percentage for one upline level (1 = the
// buyer, 2..8 = ancestors). Percentages are independent; each active level is
// applied against the whole reward pool, so they are not required to sum to
// 100.
type LevelConfig struct {
	Level      int       `gorm:"column:level;primaryKey"`
	Percentage float64   `gorm:"column:percentage;not null;default:0"`
	IsActive   bool      `gorm:"column:is_active;not null;default:false"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (LevelConfig) TableName() string {
	return "level_configs"
}
