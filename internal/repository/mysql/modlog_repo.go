package mysql

import (
	"errors"

	"Mod_Community/internal/model"

	"gorm.io/gorm"
)

var ErrModLogMalformed = errors.New("modlog record missing ids")

type ModLogRepository struct {
	DB *gorm.DB
}

// Create 追加一条转移审计记录
// 同一对 (actor, subject, community) 重复出现是合法历史，不做去重；缺 id 视为坏记录
func (r *ModLogRepository) Create(rec *model.ModTransferCommunity) error {
	if rec.ModPersonID == 0 || rec.OtherPersonID == 0 || rec.CommunityID == 0 {
		return ErrModLogMalformed
	}
	return r.DB.Create(rec).Error
}

// ListForCommunity 审计记录倒序分页
func (r *ModLogRepository) ListForCommunity(communityID uint64, offset, limit int) ([]model.ModTransferCommunity, error) {
	var list []model.ModTransferCommunity
	err := r.DB.Where("community_id = ?", communityID).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}
