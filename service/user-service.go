package service

import (
	"battle/app_error"
	"battle/repository"
	"errors"
	"log"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type UserService struct {
	userRepository *repository.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{userRepository: repository.NewUserRepository(db)}
}

func (s *UserService) CreateUser(user *repository.User) (*repository.User, error) {
	if len(user.Permissions) == 0 {
		user.Permissions = permissionsForRole(user.Role)
	}
	created, err := s.userRepository.Save(user)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, app_error.Conflict("a user with this email or telegram id already exists")
		}
		return nil, err
	}
	return created, nil
}

func permissionsForRole(role string) pq.StringArray {
	switch role {
	case "admin":
		return pq.StringArray{string(repository.PermissionAdmin), string(repository.PermissionJudge)}
	case "judge":
		return pq.StringArray{string(repository.PermissionJudge)}
	default:
		return pq.StringArray{}
	}
}

func (s *UserService) GetAllUsers() ([]*repository.User, error) {
	return s.userRepository.FindAll()
}

func (s *UserService) GetUserByTelegramId(telegramId int64) (*repository.User, error) {
	user, err := s.userRepository.GetUserByTelegramId(telegramId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("no user bound to telegram id %d", telegramId)
		}
		return nil, err
	}
	return user, nil
}

// SeedDefaultJudge makes sure a fresh installation has one judge so
// scoring works out of the box.
func (s *UserService) SeedDefaultJudge() {
	count, err := s.userRepository.Count()
	if err != nil {
		log.Printf("failed to count users: %v", err)
		return
	}
	if count > 0 {
		return
	}
	_, err = s.CreateUser(&repository.User{
		FirstName: "Head",
		LastName:  "Judge",
		Role:      "judge",
	})
	if err != nil {
		log.Printf("failed to seed default judge: %v", err)
	}
}
