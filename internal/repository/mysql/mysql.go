package mysql

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB 初始化全局 gorm 句柄
// TranslateError 打开后唯一键冲突统一转成 gorm.ErrDuplicatedKey
func InitDB(dsn string) error {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return err
	}
	DB = db
	return nil
}
