package model

// CodeSequence backs reward-code allocation with a monotonic counter row.
// NextValue is bumped with an atomic UPDATE, never derived by scanning
// existing codes.
type CodeSequence struct {
	Name      string `gorm:"column:name;primaryKey;size:64"`
	NextValue uint64 `gorm:"column:next_value;not null;default:1"`
}

func (CodeSequence) TableName() string {
	return "code_sequences"
}
