package mysql

import (
	"context"

	"Mod_Community/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransferStore model.TransferStore 的 MySQL 实现
// 事务内的仓储都挂在同一个 tx 句柄上
type TransferStore struct {
	DB *gorm.DB
}

func (s *TransferStore) InTransaction(ctx context.Context, fn func(tx model.TransferTx) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&transferTx{db: tx})
	})
}

type transferTx struct {
	db *gorm.DB
}

// LockCommunity select for update 锁住社区行，持有到提交
// 并发转移同一社区时在这里串行化
func (t *transferTx) LockCommunity(id uint64) (*model.Community, error) {
	var community model.Community
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&community, id).Error
	if err != nil {
		return nil, err
	}
	return &community, nil
}

func (t *transferTx) ListModerators(communityID uint64) ([]model.CommunityModerator, error) {
	mRepo := &ModeratorRepository{DB: t.db}
	return mRepo.ListForCommunity(communityID)
}

func (t *transferTx) AdminIDs() ([]uint64, error) {
	uRepo := &UserRepository{DB: t.db}
	return uRepo.ListAdminIDs()
}

// ReplaceModerators 删全量再按新序重插，rank 显式写下标
func (t *transferTx) ReplaceModerators(communityID uint64, orderedPersonIDs []uint64) error {
	mRepo := &ModeratorRepository{DB: t.db}
	if _, err := mRepo.DeleteForCommunity(communityID); err != nil {
		return err
	}
	for i, personID := range orderedPersonIDs {
		if err := mRepo.Insert(&model.CommunityModerator{
			CommunityID: communityID,
			PersonID:    personID,
			Rank:        i,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (t *transferTx) AppendTransferLog(rec *model.ModTransferCommunity) error {
	lRepo := &ModLogRepository{DB: t.db}
	return lRepo.Create(rec)
}

func (t *transferTx) EnqueueFederation(ob *model.FederationOutbox) error {
	oRepo := &OutboxRepository{DB: t.db}
	return oRepo.Enqueue(ob)
}
