package mysql

import (
	"Mod_Community/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? OR email = ?", username, username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

// FindByIDs 批量查询，结果不保证顺序，调用方自行按需排列
func (r *UserRepository) FindByIDs(ids []uint64) ([]model.User, error) {
	var list []model.User
	err := r.DB.Where("id IN ?", ids).Find(&list).Error
	return list, err
}

// ListAdminIDs 站点管理员集合（role>=1）
func (r *UserRepository) ListAdminIDs() ([]uint64, error) {
	var ids []uint64
	err := r.DB.Model(&model.User{}).
		Where("role >= 1").
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *UserRepository) UpdatePassword(user *model.User, newPassword string) error {
	return r.DB.Model(user).Update("password", newPassword).Error
}
