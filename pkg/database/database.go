package database

import (
	"english_exam_backend/internal/config"
	"english_exam_backend/internal/model"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, adminPassword string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db, adminPassword); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 建表并写入保留的管理员账号。测试里也用它初始化 sqlite 库。
func Migrate(db *gorm.DB, adminPassword string) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Option{},
		&model.TestAttempt{},
		&model.AttemptAnswer{},
	)
	if err != nil {
		return err
	}

	// admin 是保留用户名，普通注册会被拒绝，这里是唯一的写入入口
	if adminPassword == "" {
		return nil
	}
	var count int64
	db.Model(&model.User{}).Where("username = ?", model.AdminUsername).Count(&count)
	if count == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &model.User{
			Username:     model.AdminUsername,
			PasswordHash: string(hashed),
		}
		if err := db.Create(admin).Error; err != nil {
			return err
		}
	}

	return nil
}
