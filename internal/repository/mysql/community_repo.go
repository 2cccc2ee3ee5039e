package mysql

import (
	"Mod_Community/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) List(offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}
