package repository

import (
	"english_exam_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

// FindAllNonAdmin 返回除保留管理员外的全部用户，按用户名排序
func (r *UserRepository) FindAllNonAdmin() ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("username <> ?", model.AdminUsername).Order("username").Find(&users).Error
	return users, err
}

func (r *UserRepository) CountNonAdmin() (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("username <> ?", model.AdminUsername).Count(&count).Error
	return count, err
}
