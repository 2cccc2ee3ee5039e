package model

import "time"

// FederationOutbox 联邦事件监控表
// 本地事务提交后写入，由relayer异步投递到其他实例；投递成败不影响本地正确性
type FederationOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"` // transfer_community
	CommunityID uint64 `gorm:"not null;index"`
	ActorID     uint64 `gorm:"not null"`
	SubjectID   uint64 `gorm:"not null"`
	Payload     string `gorm:"type:json;not null"`
	Status      int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (FederationOutbox) TableName() string { return "federation_outbox" }
