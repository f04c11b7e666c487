package repository

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Permission string

const (
	PermissionAdmin Permission = "admin"
	PermissionJudge Permission = "judge"
)

type User struct {
	Id          int            `gorm:"primaryKey"`
	FirstName   string         `gorm:"not null"`
	LastName    string         `gorm:"not null"`
	Role        string         `gorm:"not null"`
	Email       *string        `gorm:"unique"`
	TelegramId  *int64         `gorm:"unique"`
	Permissions pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
}

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) GetUserById(userId int) (*User, error) {
	var user User
	result := r.DB.First(&user, userId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *UserRepository) GetUserByTelegramId(telegramId int64) (*User, error) {
	var user User
	result := r.DB.First(&user, "telegram_id = ?", telegramId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *UserRepository) Save(user *User) (*User, error) {
	result := r.DB.Save(user)
	if result.Error != nil {
		return nil, result.Error
	}
	return user, nil
}

func (r *UserRepository) FindAll() ([]*User, error) {
	users := make([]*User, 0)
	result := r.DB.Order("last_name").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (r *UserRepository) Count() (int64, error) {
	var count int64
	result := r.DB.Model(&User{}).Count(&count)
	return count, result.Error
}

// GetNotificationRecipients returns every user with a bound Telegram
// id, in a stable order.
func (r *UserRepository) GetNotificationRecipients() ([]*User, error) {
	users := make([]*User, 0)
	result := r.DB.Where("telegram_id IS NOT NULL").Order("id").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}
