package model

import "time"

// ClosureEdge materializes one ancestor/descendant pair of the referral tree.
// Rows are written once at the descendant's enrollment and never touched
// again. LegRootUID is the direct child of the ancestor on the path down to
// the descendant, so a "leg" report groups descendants by it regardless of
// depth. Distribution never reads this table; it exists for network queries.
type ClosureEdge struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	AncestorUID   string    `gorm:"column:ancestor_uid;size:128;not null;uniqueIndex:uk_ancestor_descendant;index"`
	DescendantUID string    `gorm:"column:descendant_uid;size:128;not null;uniqueIndex:uk_ancestor_descendant;index"`
	Distance      int       `gorm:"column:distance;not null"`
	LegRootUID    string    `gorm:"column:leg_root_uid;size:128;not null;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ClosureEdge) TableName() string {
	return "closure_edges"
}
