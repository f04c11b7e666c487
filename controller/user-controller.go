package controller

import (
	"battle/app_error"
	"battle/auth"
	"battle/repository"
	"battle/service"
	"battle/utils"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	userService *service.UserService
}

func setupUserController(db *gorm.DB) []RouteInfo {
	e := UserController{userService: service.NewUserService(db)}
	basePath := "users"
	routes := []RouteInfo{
		{Method: "POST", Path: "", HandlerFunc: e.createUserHandler(), Authenticated: true, RoleRequired: []string{string(repository.PermissionAdmin)}},
		{Method: "GET", Path: "", HandlerFunc: e.getUsersHandler(), Authenticated: true, RoleRequired: []string{string(repository.PermissionAdmin)}},
		{Method: "GET", Path: "/me", HandlerFunc: e.getUserByTelegramIdHandler()},
		{Method: "POST", Path: "/login", HandlerFunc: e.loginHandler()},
	}
	for i := range routes {
		routes[i].Path = basePath + routes[i].Path
	}
	return routes
}

type UserCreate struct {
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	Role       string  `json:"role" binding:"required"`
	Email      *string `json:"email"`
	TelegramId *int64  `json:"telegram_id"`
}

type UserResponse struct {
	Id          int      `json:"id"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Role        string   `json:"role"`
	Email       *string  `json:"email"`
	TelegramId  *int64   `json:"telegram_id"`
	Permissions []string `json:"permissions"`
}

func toUserResponse(user *repository.User) UserResponse {
	return UserResponse{
		Id:          user.Id,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		Email:       user.Email,
		TelegramId:  user.TelegramId,
		Permissions: user.Permissions,
	}
}

// @Summary Create a user
// @Tags user
// @Accept json
// @Produce json
// @Param body body UserCreate true "User to create"
// @Success 201 {object} UserResponse
// @Router /users [post]
func (e *UserController) createUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body UserCreate
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.CreateUser(&repository.User{
			FirstName:  body.FirstName,
			LastName:   body.LastName,
			Role:       body.Role,
			Email:      body.Email,
			TelegramId: body.TelegramId,
		})
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toUserResponse(user))
	}
}

// @Summary Get all users
// @Tags user
// @Produce json
// @Success 200 {array} UserResponse
// @Router /users [get]
func (e *UserController) getUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := e.userService.GetAllUsers()
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(users, func(user *repository.User) UserResponse {
			return toUserResponse(user)
		}))
	}
}

type LoginRequest struct {
	TelegramId int64 `json:"telegram_id" binding:"required"`
}

// @Summary Log in via a bound telegram account
// @Tags user
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Telegram account"
// @Success 200 {object} UserResponse
// @Router /users/login [post]
func (e *UserController) loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body LoginRequest
		if err := c.BindJSON(&body); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.GetUserByTelegramId(body.TelegramId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		token, err := auth.CreateToken(user)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.SetCookie("auth", token, 60*60*24*21, "/", "", false, true)
		c.JSON(200, toUserResponse(user))
	}
}

// @Summary Get the user bound to a telegram account
// @Tags user
// @Produce json
// @Param telegram_id query int true "Telegram Id"
// @Success 200 {object} UserResponse
// @Router /users/me [get]
func (e *UserController) getUserByTelegramIdHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		telegramId, err := strconv.ParseInt(c.Query("telegram_id"), 10, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "telegram_id must be a number"})
			return
		}
		user, err := e.userService.GetUserByTelegramId(telegramId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toUserResponse(user))
	}
}
