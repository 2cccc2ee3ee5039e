package model

import "context"

// TransferTx 一次所有权转移在同一事务内用到的读写能力
// 实现方保证所有方法作用在同一个事务句柄上
type TransferTx interface {
	// LockCommunity 对社区行加排他锁并返回，社区不存在返回 gorm.ErrRecordNotFound
	LockCommunity(id uint64) (*Community, error)
	// ListModerators 按 rank 升序返回版主名单
	ListModerators(communityID uint64) ([]CommunityModerator, error)
	// AdminIDs 站点管理员集合
	AdminIDs() ([]uint64, error)
	// ReplaceModerators 整体重建名单，rank 取下标
	ReplaceModerators(communityID uint64, orderedPersonIDs []uint64) error
	AppendTransferLog(rec *ModTransferCommunity) error
	EnqueueFederation(ob *FederationOutbox) error
}

// TransferStore 事务边界：fn 返回错误则整体回滚
type TransferStore interface {
	InTransaction(ctx context.Context, fn func(tx TransferTx) error) error
}
