package mysql

import (
	"context"

	"Mod_Community/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// Enqueue 在调用方事务内写入联邦事件
func (r *OutboxRepository) Enqueue(ob *model.FederationOutbox) error {
	return r.DB.Create(ob).Error
}

// List 待投递事件批量查询
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.FederationOutbox, error) {
	var list []model.FederationOutbox
	if err := r.DB.WithContext(ctx).
		Where("status=0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败记录重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.FederationOutbox{}).Where("id=?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate 投递成功记录更新
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.FederationOutbox{}).Where("id=?", id).
		Update("status", 1).Error
}
