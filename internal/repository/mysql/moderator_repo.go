package mysql

import (
	"Mod_Community/internal/model"

	"gorm.io/gorm"
)

type ModeratorRepository struct {
	DB *gorm.DB
}

// ListForCommunity 按持久化的 rank 升序读取名单
// 同一次转移内的读序必须稳定，所以排序只认 rank 列
func (r *ModeratorRepository) ListForCommunity(communityID uint64) ([]model.CommunityModerator, error) {
	var list []model.CommunityModerator
	// rank 是 MySQL 8 保留字，必须反引号
	err := r.DB.Where("community_id = ?", communityID).
		Order("`rank` ASC").
		Find(&list).Error
	return list, err
}

// DeleteForCommunity 幂等删除整个名单，返回删除行数
func (r *ModeratorRepository) DeleteForCommunity(communityID uint64) (int64, error) {
	tx := r.DB.Where("community_id = ?", communityID).
		Delete(&model.CommunityModerator{})
	return tx.RowsAffected, tx.Error
}

// Insert 单行插入，(community_id, person_id) 冲突返回 gorm.ErrDuplicatedKey
func (r *ModeratorRepository) Insert(m *model.CommunityModerator) error {
	return r.DB.Create(m).Error
}
