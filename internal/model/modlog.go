package model

import "time"

// ModTransferCommunity 社区所有权转移审计记录，只追加不修改
type ModTransferCommunity struct {
	ID            uint64 `gorm:"primaryKey"`
	ModPersonID   uint64 `gorm:"not null;index"` // 操作者
	OtherPersonID uint64 `gorm:"not null;index"` // 新所有者
	CommunityID   uint64 `gorm:"not null;index"`
	Removed       bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
}

func (ModTransferCommunity) TableName() string {
	return "mod_transfer_community"
}
