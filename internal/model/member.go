package model

import "time"

// Member is one participant in the referral network. Every member except a
// network root has exactly one sponsor; Level is sponsor level + 1 and never
// changes after enrollment.
type Member struct {
	UID               string    `gorm:"column:uid;primaryKey;size:128"`
	DisplayName       string    `gorm:"column:display_name;size:120"`
	RewardCode        string    `gorm:"column:reward_code;size:20;uniqueIndex;not null"`
	SponsorUID        *string   `gorm:"column:sponsor_uid;size:128;index"`
	Level             int       `gorm:"column:level;not null;default:1"`
	JoinedViaReferral bool      `gorm:"column:joined_via_referral;not null;default:false"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Member) TableName() string {
	return "members"
}

// MaxLevel is the deepest allowed member level. A sponsor already at this
// level may not enroll anyone beneath it.
const MaxLevel = 8

// MaxEdgeDistance is the longest ancestor-to-descendant hop count stored in
// the closure table (MaxLevel chain = 7 hops).
const MaxEdgeDistance = MaxLevel - 1
