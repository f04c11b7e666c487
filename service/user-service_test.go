package service

import (
	"battle/app_error"
	"battle/repository"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateUserDerivesPermissions(t *testing.T) {
	SetUp()
	defer TearDown()

	userService := NewUserService(db)
	admin, err := userService.CreateUser(&repository.User{FirstName: "Ada", LastName: "Admin", Role: "admin"})
	assert.Nil(t, err)
	assert.ElementsMatch(t, []string{"admin", "judge"}, []string(admin.Permissions))

	judge, err := userService.CreateUser(&repository.User{FirstName: "Jo", LastName: "Judge", Role: "judge"})
	assert.Nil(t, err)
	assert.ElementsMatch(t, []string{"judge"}, []string(judge.Permissions))
}

func TestCreateUserDuplicateTelegramIdConflicts(t *testing.T) {
	SetUp()
	defer TearDown()

	userService := NewUserService(db)
	telegramId := int64(3001)
	_, err := userService.CreateUser(&repository.User{
		FirstName: "First", LastName: "Judge", Role: "judge", TelegramId: &telegramId,
	})
	assert.Nil(t, err)

	_, err = userService.CreateUser(&repository.User{
		FirstName: "Second", LastName: "Judge", Role: "judge", TelegramId: &telegramId,
	})
	assert.Equal(t, 409, app_error.HTTPStatus(err))
}
