package model

import "time"

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:64;not null"`
	Description string `gorm:"type:text"`
	CreatorID   uint64 `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CommunityModerator 社区版主名单，rank=0 即所有者
// rank 必须显式持久化，不依赖插入顺序（批量重建时物理顺序不可靠）
type CommunityModerator struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_person"`
	PersonID    uint64 `gorm:"not null;index;uniqueIndex:uk_community_person"`
	Rank        int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
}

func (CommunityModerator) TableName() string {
	return "community_moderators"
}
