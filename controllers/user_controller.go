package controllers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"restora/entity"
	"restora/pkg/resp"
	"restora/repository"
)

type UserController struct {
	Repo repository.UserRepository
}

func NewUserController(repo repository.UserRepository) *UserController {
	return &UserController{Repo: repo}
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// GET /users — passwords are never serialized (entity.User hides the field).
func (ctl *UserController) List(c *gin.Context) {
	users, err := ctl.Repo.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	if users == nil {
		users = []entity.User{}
	}
	resp.OK(c, users)
}

// POST /users
func (ctl *UserController) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "email, password and name are required")
		return
	}

	user := entity.User{
		ID:       entity.NewID(),
		Email:    strings.ToLower(req.Email),
		Password: req.Password,
		Name:     req.Name,
		Role:     entity.RoleUser,
	}

	if err := ctl.Repo.Create(&user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			resp.Conflict(c, "User already exists")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, user)
}
